package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todocat/internal/config"
	"todocat/internal/exitcode"
	"todocat/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
// The usage lines come from the registry, so every registered command is listed.
type HelpCmd struct {
	registry *Registry
}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todocat help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	registry := c.registry
	if registry == nil {
		registry = DefaultRegistry
	}
	fmt.Fprint(out, helpText(registry))
	return exitcode.Success
}

func helpText(r *Registry) string {
	var b strings.Builder

	b.WriteString("Usage:\n")
	b.WriteString("  todocat                  List all tasks (same as list)\n")
	var aliases []string
	for _, cmd := range r.All() {
		fmt.Fprintf(&b, "  %-24s %s\n", cmd.Name(), cmd.Synopsis())
		fmt.Fprintf(&b, "    %s\n", cmd.Usage())
		for _, alias := range cmd.Aliases() {
			aliases = append(aliases, fmt.Sprintf("%s (%s)", alias, cmd.Name()))
		}
	}

	if len(aliases) > 0 {
		b.WriteString("\nAliases:\n  ")
		b.WriteString(strings.Join(aliases, ", "))
		b.WriteString("\n")
	}

	b.WriteString(commonFlagsHelp)
	return b.String()
}

const commonFlagsHelp = `
Common flags:
  --config <dir>   Override config directory
  --api <url>      Override the backend API base URL
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
