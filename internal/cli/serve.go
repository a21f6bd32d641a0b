package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/routefinder/internal/server"
	"github.com/matzehuels/routefinder/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr       string        // listen address, overrides [server] addr
	minLayover time.Duration // shortest accepted connection
	maxLayover time.Duration // longest accepted connection
	minDwell   time.Duration // shortest stay before the return leg
	workers    int           // return-leg search concurrency
	noCache    bool          // disable the result cache
}

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve <data>",
		Short: "Serve route search over HTTP",
		Long: `Load a flight schedule once and answer searches over HTTP.

Endpoints:
  GET /v1/routes?origin=WIW&destination=ECV&bags=1&return=true
  GET /v1/airports
  GET /healthz`,
		Example: `  routefinder serve flights.csv --addr :9000`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runServe(ctx, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().DurationVar(&opts.minLayover, "min-layover", 0, "minimum layover (default from config, 1h)")
	cmd.Flags().DurationVar(&opts.maxLayover, "max-layover", 0, "maximum layover (default from config, 6h)")
	cmd.Flags().DurationVar(&opts.minDwell, "min-dwell", 0, "minimum stay before the return flight (default from config, 1h)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent return-leg searches (0 for GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, dataset string, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	defaults := pipeline.Options{
		MinLayover: opts.minLayover,
		MaxLayover: opts.maxLayover,
		MinDwell:   opts.minDwell,
		Workers:    opts.workers,
	}
	c.Config.ApplySearch(&defaults)
	defaults.SetGraphDefaults()
	if err := pipeline.ValidateLayoverWindow(defaults.MinLayover, defaults.MaxLayover); err != nil {
		return err
	}

	addr := opts.addr
	if addr == "" {
		addr = c.Config.Server.Addr
	}

	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	ds, err := runner.Load(ctx, dataset)
	if err != nil {
		return err
	}

	printSuccess("Serving %d flights", len(ds.Flights))
	printKeyValue("Address", addr)
	printKeyValue("Dataset", ds.Name)
	printKeyValue("Cache", c.Config.Cache.Backend)

	return server.New(runner, ds, defaults, logger).ListenAndServe(ctx, addr)
}
