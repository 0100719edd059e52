package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todocat/internal/config"
	"todocat/internal/exitcode"
	"todocat/internal/logging"
	"todocat/internal/server"
	"todocat/internal/service"
	"todocat/internal/store/sqlite"
	"todocat/internal/telemetry"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	listen string
	dbPath string
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Run the reference backend" }
func (c *ServeCmd) Usage() string      { return "todocat serve [--listen <addr>] [--db <path>]" }
func (c *ServeCmd) NeedsBackend() bool { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listen, "listen", "", "")
	fs.StringVar(&c.dbPath, "db", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	listen := cfg.Listen
	if c.listen != "" {
		listen = c.listen
	}
	dbPath := cfg.DBPath
	if c.dbPath != "" {
		dbPath = c.dbPath
	}

	log := logging.NewJSON(errOut, cfg.Debug)

	flush, err := telemetry.Init(cfg, Version)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}
	defer flush()

	st, err := sqlite.Open(dbPath, log)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}
	defer st.Close()

	if err := server.New(st, log).Run(ctx, listen); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
