package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todocat/internal/config"
	"todocat/internal/exitcode"
	"todocat/internal/output"
	"todocat/internal/service"
	"todocat/internal/state"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string       { return "toggle" }
func (c *ToggleCmd) Aliases() []string  { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string   { return "Flip a task between open and completed" }
func (c *ToggleCmd) Usage() string      { return "todocat toggle [common flags] <id>" }
func (c *ToggleCmd) NeedsBackend() bool { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	ctrl := state.NewController(svc)
	st := ctrl.State()

	// The new completion value is computed from the loaded task
	if err := ctrl.LoadTasks(ctx); err != nil {
		return reportFailure(errOut, st.Errors.Global, err)
	}

	err = ctrl.ToggleTask(ctx, id)
	if errors.Is(err, state.ErrUnknownTask) {
		fmt.Fprintf(errOut, "error: task not found: %d\n", id)
		return exitcode.UserError
	}
	if err != nil {
		return reportFailure(errOut, st.Errors.Global, err)
	}

	if !cfg.Quiet {
		for _, task := range st.Visible() {
			if task.ID == id {
				output.FormatTask(out, task)
			}
		}
	}
	return exitcode.Success
}
