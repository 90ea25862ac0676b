package deploy

import (
	"strings"

	"github.com/samber/lo"
)

// UpgradeMode is the only upgrade policy the plan uses.
const UpgradeMode = "Monitored"

// Command is one program invocation as an argument vector.
type Command []string

// String renders the command as a shell word list, quoting every argument
// that needs it.
func (c Command) String() string {
	return strings.Join(lo.Map(c, func(arg string, _ int) string {
		return shellQuote(arg)
	}), " ")
}

func chdirCommand(dir string) Command {
	return Command{"cd", dir}
}
