package commands

import (
	"context"
	"flag"
	"io"

	"todocat/internal/config"
	"todocat/internal/exitcode"
	"todocat/internal/output"
	"todocat/internal/service"
	"todocat/internal/state"
)

func init() {
	Register(&CategoriesCmd{})
}

// CategoriesCmd implements the categories command.
type CategoriesCmd struct{}

func (c *CategoriesCmd) Name() string       { return "categories" }
func (c *CategoriesCmd) Aliases() []string  { return []string{"cats"} }
func (c *CategoriesCmd) Synopsis() string   { return "Print all categories" }
func (c *CategoriesCmd) Usage() string      { return "todocat categories [common flags]" }
func (c *CategoriesCmd) NeedsBackend() bool { return true }

func (c *CategoriesCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CategoriesCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ctrl := state.NewController(svc)
	if err := ctrl.LoadCategories(ctx); err != nil {
		return reportFailure(errOut, ctrl.State().Errors.Global, err)
	}

	for _, cat := range ctrl.State().Categories {
		output.FormatCategory(out, cat)
	}

	return exitcode.Success
}
