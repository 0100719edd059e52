package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todocat/internal/config"
	"todocat/internal/exitcode"
	"todocat/internal/output"
	"todocat/internal/service"
	"todocat/internal/state"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todocat` (no args) and `todocat list [--category <name|id>]`.
type ListCmd struct {
	category string
}

// SetCategory sets the category filter (for testing).
func (c *ListCmd) SetCategory(ref string) {
	c.category = ref
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "todocat list [--category <name|id>]" }
func (c *ListCmd) NeedsBackend() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.category, "category", "", "")
	fs.StringVar(&c.category, "c", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref := c.category
	if ref == "" && len(args) > 0 {
		ref = strings.Join(args, " ")
	}

	ctrl := state.NewController(svc)
	st := ctrl.State()

	// Categories are needed to resolve the filter and are always loaded first
	if err := ctrl.LoadCategories(ctx); err != nil {
		return reportFailure(errOut, st.Errors.Global, err)
	}

	var header *service.Category
	if strings.TrimSpace(ref) != "" {
		cat, err := st.ResolveCategory(ref)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		st.SetFilter(service.FilterCategory(cat.ID))
		header = &cat
	}

	if err := ctrl.LoadTasks(ctx); err != nil {
		return reportFailure(errOut, st.Errors.Global, err)
	}

	if header != nil {
		output.FormatCategoryHeader(out, *header)
	}
	for _, task := range st.Visible() {
		output.FormatTask(out, task)
	}
	if st.ShowEmpty() && !cfg.Quiet {
		fmt.Fprintln(out, output.NoTasks)
	}

	return exitcode.Success
}
