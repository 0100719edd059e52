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
	"todocat/internal/state"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "todocat rm [common flags] <id>" }
func (c *RmCmd) NeedsBackend() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	ctrl := state.NewController(svc)
	if err := ctrl.DeleteTask(ctx, id); err != nil {
		var reqErr *service.RequestError
		if errors.As(err, &reqErr) && reqErr.NotFound() {
			fmt.Fprintf(errOut, "error: task not found: %d\n", id)
			return exitcode.UserError
		}
		return reportFailure(errOut, ctrl.State().Errors.Global, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
