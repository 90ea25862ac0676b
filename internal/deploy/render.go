package deploy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Render builds the plan for a mode that is already known:
//
//	connect && [{ remove ; unprovision ; } &&] cd && upload && provision && (create | upgrade)
func Render(r Request, version string, mode Mode) (*Plan, error) {
	p := &Plan{Strategy: StrategyProbe, Mode: mode, Version: version}
	p.Clauses = append(p.Clauses, clause(ActionConnect, ConnectCommand(r)))

	switch mode {
	case ModeClean:
		rm := clause(ActionRemove, removeCommand(r))
		rm.Soft = true
		p.Clauses = append(p.Clauses, rm, clause(ActionUnprovision, unprovisionCommand(r, version)))
	case ModeFresh, ModeUpgrade:
	default:
		return nil, fmt.Errorf("render plan: unknown mode %v", mode)
	}

	p.Clauses = append(p.Clauses, packageClauses(r)...)

	if mode == ModeUpgrade {
		p.Clauses = append(p.Clauses, clause(ActionUpgrade, upgradeCommand(r, version)))
	} else {
		p.Clauses = append(p.Clauses, clause(ActionCreate, createCommand(r, version)))
	}
	return p, nil
}

// RenderRuntime builds a plan whose mode is decided by the shell when it runs.
// After connecting it removes and unprovisions an application that already
// runs the target version, then uploads and provisions the package, and
// finally creates the application if the host reports none, upgrades it if
// it reports another version, or skips.
func RenderRuntime(r Request, version string) *Plan {
	p := &Plan{Strategy: StrategyRuntime, Version: version}
	p.Clauses = append(p.Clauses,
		clause(ActionConnect, ConnectCommand(r)),
		Clause{Action: ActionCleanupCheck, Text: cleanupCheck(r, version)},
	)
	p.Clauses = append(p.Clauses, packageClauses(r)...)
	p.Clauses = append(p.Clauses, Clause{Action: ActionCreateOrUpgrade, Text: createOrUpgrade(r, version)})
	return p
}

func clause(a Action, c Command) Clause {
	return Clause{Action: a, Text: c.String()}
}

func packageClauses(r Request) []Clause {
	return []Clause{
		clause(ActionChdir, chdirCommand(PackageDir(r.ManifestPath))),
		clause(ActionUpload, uploadCommand(r)),
		clause(ActionProvision, provisionCommand(r)),
	}
}

// versionPattern matches the version line of `sfctl application info` JSON.
func versionPattern(version string) string {
	return shellQuote(`"typeVersion": ` + jsonString(version))
}

// jsonString quotes s the way sfctl prints JSON strings: no HTML escaping and
// every non-ASCII rune as a lowercase \uXXXX escape, surrogate pairs above
// the BMP.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)

	var b strings.Builder
	for _, r := range strings.TrimSuffix(buf.String(), "\n") {
		switch {
		case r < utf8.RuneSelf:
			b.WriteRune(r)
		case r > 0xFFFF:
			hi, low := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%04x\u%04x`, hi, low)
		default:
			fmt.Fprintf(&b, `\u%04x`, r)
		}
	}
	return b.String()
}

// cleanupCheck: if the application already runs the target version, a
// previous attempt left it behind; delete it (tolerating failure) and
// unprovision the type version.
func cleanupCheck(r Request, version string) string {
	return strings.Join([]string{
		"if", infoCommand(r).String(), "2>/dev/null", "|", "grep", "-qF", versionPattern(version) + ";",
		"then", removeCommand(r).String(), ";", unprovisionCommand(r, version).String() + ";",
		"fi",
	}, " ")
}

func createOrUpgrade(r Request, version string) string {
	skip := fmt.Sprintf("application %s is already at version %s", r.ApplicationID, version)
	return strings.Join([]string{
		"{", "info=$(" + infoCommand(r).String(), "2>/dev/null", "||", "true);",
		"if", "[", "-z", `"$info"`, "];",
		"then", createCommand(r, version).String() + ";",
		"elif", "!", "printf", "'%s'", `"$info"`, "|", "grep", "-qF", versionPattern(version) + ";",
		"then", upgradeCommand(r, version).String() + ";",
		"else", "echo", shellQuote(skip) + ";",
		"fi;", "}",
	}, " ")
}
