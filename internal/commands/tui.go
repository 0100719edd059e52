package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todocat/internal/config"
	"todocat/internal/exitcode"
	"todocat/internal/service"
	"todocat/internal/telemetry"
	"todocat/internal/tui"
)

func init() {
	Register(&TUICmd{})
}

// TUICmd implements the tui command.
type TUICmd struct{}

func (c *TUICmd) Name() string       { return "tui" }
func (c *TUICmd) Aliases() []string  { return []string{"ui"} }
func (c *TUICmd) Synopsis() string   { return "Start the interactive interface" }
func (c *TUICmd) Usage() string      { return "todocat tui [common flags]" }
func (c *TUICmd) NeedsBackend() bool { return true }

func (c *TUICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TUICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	flush, err := telemetry.Init(cfg, Version)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}
	defer flush()

	var opts []tui.Option
	if cfg.ErrorReporting() {
		opts = append(opts, tui.WithTestReporter(func() (string, error) {
			return telemetry.CaptureTest("tui")
		}))
	}

	if err := tui.Run(ctx, svc, opts...); err != nil {
		telemetry.Report(err)
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
