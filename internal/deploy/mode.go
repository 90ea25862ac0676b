package deploy

import "fmt"

// Mode is the deployment action chosen for a build.
type Mode int

const (
	// ModeFresh installs a type that is not registered yet: provision, then create.
	ModeFresh Mode = iota + 1
	// ModeUpgrade provisions a new version of a registered type and upgrades
	// the application to it.
	ModeUpgrade
	// ModeClean removes and unprovisions an identical, already registered
	// type/version before provisioning and creating it again.
	ModeClean
)

func (m Mode) String() string {
	switch m {
	case ModeFresh:
		return "fresh"
	case ModeUpgrade:
		return "upgrade"
	case ModeClean:
		return "clean"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Registration is what a registry read says about the target type/version.
type Registration int

const (
	// RegistrationUnknown means the registry could not be read.
	RegistrationUnknown Registration = iota
	// RegistrationAbsent means the type is not registered at all.
	RegistrationAbsent
	// RegistrationOtherVersion means the type is registered, but not at the target version.
	RegistrationOtherVersion
	// RegistrationSameVersion means the exact type and version are registered.
	RegistrationSameVersion
)

func (r Registration) String() string {
	switch r {
	case RegistrationUnknown:
		return "unknown"
	case RegistrationAbsent:
		return "absent"
	case RegistrationOtherVersion:
		return "other-version"
	case RegistrationSameVersion:
		return "same-version"
	default:
		return fmt.Sprintf("Registration(%d)", int(r))
	}
}

// Classify maps a registry observation to a deployment mode. An unreadable
// registry is treated like a registered identical version: removing nothing
// is harmless, provisioning over a stale type is not.
func Classify(r Registration) Mode {
	switch r {
	case RegistrationAbsent:
		return ModeFresh
	case RegistrationOtherVersion:
		return ModeUpgrade
	default:
		return ModeClean
	}
}

// Strategy selects when the deployment mode is decided.
type Strategy int

const (
	// StrategyRuntime embeds the decision in the plan; it is made by the
	// shell on the build host when the plan runs.
	StrategyRuntime Strategy = iota
	// StrategyProbe reads the cluster registry while synthesizing and
	// renders the plan for a single Mode.
	StrategyProbe
)

func (s Strategy) String() string {
	switch s {
	case StrategyRuntime:
		return "runtime"
	case StrategyProbe:
		return "probe"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts the names printed by Strategy.String.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", "runtime":
		return StrategyRuntime, nil
	case "probe":
		return StrategyProbe, nil
	default:
		return 0, &ConfigError{Subject: "strategy", Msg: fmt.Sprintf("unknown strategy %q (want runtime or probe)", name)}
	}
}
