package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	rferrors "github.com/matzehuels/routefinder/pkg/errors"
	rfio "github.com/matzehuels/routefinder/pkg/io"
	"github.com/matzehuels/routefinder/pkg/pipeline"
	"github.com/matzehuels/routefinder/pkg/source"
)

// searchOpts holds the command-line flags for the search command.
type searchOpts struct {
	bags        int           // checked bags carried on every leg
	roundTrip   bool          // also search the way back
	format      string        // output format: "json" or "table"
	output      string        // output file path (stdout when empty)
	limit       int           // maximum routes printed, 0 for all
	interactive bool          // browse results in a terminal UI
	minLayover  time.Duration // shortest accepted connection
	maxLayover  time.Duration // longest accepted connection
	minDwell    time.Duration // shortest stay before the return leg
	workers     int           // return-leg search concurrency
	refresh     bool          // skip cached results
	noCache     bool          // disable the cache entirely
}

// searchCommand creates the search command for finding itineraries.
func (c *CLI) searchCommand() *cobra.Command {
	opts := searchOpts{format: pipeline.FormatJSON}

	cmd := &cobra.Command{
		Use:   "search <data> <origin> <destination>",
		Short: "Find itineraries between two airports",
		Long: `Find every itinerary from origin to destination in a flight schedule.

The schedule is a CSV file or a mongodb:// URI. Connections must fall inside
the layover window (1h to 6h by default) and no airport is departed from twice.
Results are sorted by total price, cheapest first.`,
		Example: `  # One-way, no checked bags
  routefinder search flights.csv WIW ECV

  # Round trip with one bag, as a table
  routefinder search flights.csv WIW ECV --bags 1 --return --format table

  # Load the schedule from MongoDB
  routefinder search mongodb://localhost:27017 WIW ECV`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runSearch(ctx, cmd.OutOrStdout(), args[0], args[1], args[2], opts)
		},
	}

	cmd.Flags().IntVar(&opts.bags, "bags", 0, "number of checked bags")
	cmd.Flags().BoolVar(&opts.roundTrip, "return", false, "search round trips")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json, table")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "maximum number of routes to print (0 for all)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse routes interactively")
	cmd.Flags().DurationVar(&opts.minLayover, "min-layover", 0, "minimum layover (default from config, 1h)")
	cmd.Flags().DurationVar(&opts.maxLayover, "max-layover", 0, "maximum layover (default from config, 6h)")
	cmd.Flags().DurationVar(&opts.minDwell, "min-dwell", 0, "minimum stay before the return flight (default from config, 1h)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent return-leg searches (0 for GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

// runSearch executes one search and writes the routes to w or opts.output.
func (c *CLI) runSearch(ctx context.Context, w io.Writer, dataset, origin, destination string, opts searchOpts) error {
	logger := loggerFromContext(ctx)

	if err := pipeline.ValidateFormat(opts.format); err != nil {
		return err
	}
	if opts.limit < 0 {
		return rferrors.New(rferrors.ErrCodeInvalidInput, "limit cannot be negative: %d", opts.limit)
	}

	popts := pipeline.Options{
		Dataset:     dataset,
		Origin:      origin,
		Destination: destination,
		Bags:        opts.bags,
		RoundTrip:   opts.roundTrip,
		MinLayover:  opts.minLayover,
		MaxLayover:  opts.maxLayover,
		MinDwell:    opts.minDwell,
		Workers:     opts.workers,
		Refresh:     opts.refresh,
		Logger:      logger,
	}
	c.Config.ApplySearch(&popts)
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	result, err := c.execute(ctx, runner, popts)
	if err != nil {
		return err
	}

	routes := result.Routes
	if opts.limit > 0 && len(routes) > opts.limit {
		routes = routes[:opts.limit]
	}
	if len(result.Routes) == 0 {
		printWarning("No itineraries from %s to %s with %d bags", origin, destination, opts.bags)
	}

	if opts.interactive {
		return runRouteBrowser(routes)
	}

	if opts.output != "" {
		if err := writeRoutesFile(opts.output, opts.format, routes); err != nil {
			return err
		}
		printSuccess("Wrote %d routes", len(routes))
		printFile(opts.output)
		printStats(result.Stats, result.CacheHit)
		return nil
	}

	if err := writeRoutes(w, opts.format, routes); err != nil {
		return err
	}
	printStats(result.Stats, result.CacheHit)
	return nil
}

// execute runs the pipeline, showing a spinner while a remote source loads.
func (c *CLI) execute(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	if !source.IsMongoURI(opts.Dataset) {
		return runner.Execute(ctx, opts)
	}
	spinner := newSpinnerWithContext(ctx, "Loading flights from MongoDB...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Search failed")
		return nil, err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Loaded %d flights", result.Stats.Flights))
	return result, nil
}

func writeRoutes(w io.Writer, format string, routes []rfio.RouteRecord) error {
	switch format {
	case pipeline.FormatTable:
		if len(routes) == 0 {
			return nil
		}
		_, err := fmt.Fprintln(w, renderRouteTable(routes))
		return err
	default:
		return rfio.WriteRoutesJSON(w, routes)
	}
}

func writeRoutesFile(path, format string, routes []rfio.RouteRecord) error {
	if format == pipeline.FormatJSON {
		return rfio.ExportRoutesJSON(path, routes)
	}
	f, err := os.Create(path)
	if err != nil {
		return rferrors.Wrap(rferrors.ErrCodeInvalidInput, err, "create %s", path)
	}
	if err := writeRoutes(f, format, routes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
