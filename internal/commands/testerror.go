package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todocat/internal/config"
	"todocat/internal/exitcode"
	"todocat/internal/service"
	"todocat/internal/telemetry"
)

func init() {
	Register(&TestErrorCmd{})
}

// TestErrorCmd implements the test-error command.
type TestErrorCmd struct{}

func (c *TestErrorCmd) Name() string       { return "test-error" }
func (c *TestErrorCmd) Aliases() []string  { return nil }
func (c *TestErrorCmd) Synopsis() string   { return "Send a test event to error reporting" }
func (c *TestErrorCmd) Usage() string      { return "todocat test-error [common flags]" }
func (c *TestErrorCmd) NeedsBackend() bool { return false }

func (c *TestErrorCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TestErrorCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !cfg.ErrorReporting() {
		fmt.Fprintf(errOut, "error: %v\n", telemetry.ErrDisabled)
		return exitcode.ConfigError
	}

	flush, err := telemetry.Init(cfg, Version)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}
	defer flush()

	id, err := telemetry.CaptureTest("cli")
	if err != nil {
		if errors.Is(err, telemetry.ErrDisabled) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.ConfigError
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "sent %s\n", id)
	}
	return exitcode.Success
}
