package deploy

import (
	"fmt"
	"strings"
)

// Action tags what a plan clause does.
type Action int

const (
	ActionConnect Action = iota + 1
	ActionRemove
	ActionUnprovision
	ActionChdir
	ActionUpload
	ActionProvision
	ActionCreate
	ActionUpgrade
	// ActionCleanupCheck removes and unprovisions the application on the
	// host if it already runs the target version.
	ActionCleanupCheck
	// ActionCreateOrUpgrade creates, upgrades or skips depending on what the
	// host reports when the plan runs.
	ActionCreateOrUpgrade
)

var actionNames = map[Action]string{
	ActionConnect:         "connect",
	ActionRemove:          "remove",
	ActionUnprovision:     "unprovision",
	ActionChdir:           "chdir",
	ActionUpload:          "upload",
	ActionProvision:       "provision",
	ActionCreate:          "create",
	ActionUpgrade:         "upgrade",
	ActionCleanupCheck:    "cleanup-check",
	ActionCreateOrUpgrade: "create-or-upgrade",
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Clause is one shell step of a plan.
type Clause struct {
	Action Action
	Text   string
	// Soft clauses may fail without stopping the plan. The clause after a
	// soft one is joined with ";" and the run is grouped in braces so the
	// rest of the chain still depends on it.
	Soft bool
}

// Plan is the synthesized deployment for one build.
type Plan struct {
	Strategy Strategy
	// Mode is zero for StrategyRuntime plans, whose mode is decided on the host.
	Mode Mode
	// Registration is what the probe observed (StrategyProbe only).
	Registration Registration
	Version      string
	Clauses      []Clause
}

// Deferred reports whether the deployment mode is decided when the plan runs.
func (p *Plan) Deferred() bool {
	return p.Strategy == StrategyRuntime
}

// Actions lists the clause actions in order.
func (p *Plan) Actions() []Action {
	out := make([]Action, len(p.Clauses))
	for i, c := range p.Clauses {
		out[i] = c.Action
	}
	return out
}

// ModeLabel is the mode name, or "deferred" for runtime plans.
func (p *Plan) ModeLabel() string {
	if p.Deferred() {
		return "deferred"
	}
	return p.Mode.String()
}

// String renders the plan as one shell command line.
func (p *Plan) String() string {
	var b strings.Builder
	group := false
	for i, c := range p.Clauses {
		if i > 0 {
			if p.Clauses[i-1].Soft {
				b.WriteString(" ; ")
			} else {
				b.WriteString(" && ")
			}
		}
		if c.Soft && !group {
			b.WriteString("{ ")
			group = true
		}
		b.WriteString(c.Text)
		if !c.Soft && group {
			b.WriteString(" ; }")
			group = false
		}
	}
	if group {
		b.WriteString(" ; }")
	}
	return b.String()
}
