package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"todocat/internal/config"
	"todocat/internal/exitcode"
	"todocat/internal/output"
	"todocat/internal/service"
	"todocat/internal/state"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	category string
}

// SetCategory sets the category reference (for testing).
func (c *AddCmd) SetCategory(ref string) {
	c.category = ref
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "todocat add --category <name|id> <description...>" }
func (c *AddCmd) NeedsBackend() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.category, "category", "", "")
	fs.StringVar(&c.category, "c", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	description := strings.Join(args, " ")
	if strings.TrimSpace(description) == "" {
		fmt.Fprintln(errOut, "error: description required")
		return exitcode.UserError
	}
	if strings.TrimSpace(c.category) == "" {
		fmt.Fprintln(errOut, "error: category required (use --category)")
		return exitcode.UserError
	}

	ctrl := state.NewController(svc)
	st := ctrl.State()

	// Resolve category
	if err := ctrl.LoadCategories(ctx); err != nil {
		return reportFailure(errOut, st.Errors.Global, err)
	}
	cat, err := st.ResolveCategory(c.category)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	// Create task
	err = ctrl.CreateTask(ctx, description, strconv.FormatInt(cat.ID, 10))
	if errors.Is(err, state.ErrEmptyDescription) {
		fmt.Fprintln(errOut, "error: description required")
		return exitcode.UserError
	}
	if err != nil {
		output.FormatFieldErrors(errOut, st.Errors.Task)
		return exitCodeFor(err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
