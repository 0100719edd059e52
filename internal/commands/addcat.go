package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"todocat/internal/config"
	"todocat/internal/exitcode"
	"todocat/internal/service"
	"todocat/internal/state"
)

func init() {
	Register(&AddCategoryCmd{})
}

// AddCategoryCmd implements the addcat command.
type AddCategoryCmd struct{}

func (c *AddCategoryCmd) Name() string       { return "addcat" }
func (c *AddCategoryCmd) Aliases() []string  { return []string{"createcategory"} }
func (c *AddCategoryCmd) Synopsis() string   { return "Create a category" }
func (c *AddCategoryCmd) Usage() string      { return "todocat addcat [common flags] <name...>" }
func (c *AddCategoryCmd) NeedsBackend() bool { return true }

func (c *AddCategoryCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCategoryCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ctrl := state.NewController(svc)

	err := ctrl.CreateCategory(ctx, strings.Join(args, " "))
	if errors.Is(err, state.ErrEmptyName) {
		fmt.Fprintln(errOut, "error: category name required")
		return exitcode.UserError
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", ctrl.State().Errors.Category)
		return exitCodeFor(err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
