package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	rferrors "github.com/matzehuels/routefinder/pkg/errors"
	"github.com/matzehuels/routefinder/pkg/pipeline"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	bags       int           // bag count the graph is built for
	format     string        // "dot" or "svg"
	airport    string        // restrict output to one airport and its neighbors
	detailed   bool          // label edges with prices and durations
	output     string        // output file path (stdout when empty)
	minLayover time.Duration // shortest accepted connection
	maxLayover time.Duration // longest accepted connection
}

// graphCommand creates the graph command for exporting the travel graph.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: pipeline.GraphFormatDOT}

	cmd := &cobra.Command{
		Use:   "graph <data>",
		Short: "Export the travel graph as DOT or SVG",
		Long: `Export the travel graph built from a flight schedule.

Each flight becomes a departure and an arrival node joined by a flight edge.
Layover edges join an arrival to every departure from the same airport within
the layover window.`,
		Example: `  routefinder graph flights.csv > travel.dot
  routefinder graph flights.csv --format svg --airport WIW -o wiw.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runGraph(ctx, cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.bags, "bags", 0, "number of checked bags")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg")
	cmd.Flags().StringVar(&opts.airport, "airport", "", "only show this airport and its direct neighbors")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label edges with prices and layover durations")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().DurationVar(&opts.minLayover, "min-layover", 0, "minimum layover (default from config, 1h)")
	cmd.Flags().DurationVar(&opts.maxLayover, "max-layover", 0, "maximum layover (default from config, 6h)")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, w io.Writer, dataset string, opts graphOpts) error {
	logger := loggerFromContext(ctx)

	if err := pipeline.ValidateGraphFormat(opts.format); err != nil {
		return err
	}
	if err := rferrors.ValidateBags(opts.bags); err != nil {
		return err
	}
	if opts.airport != "" {
		if err := rferrors.ValidateAirportCode(opts.airport); err != nil {
			return err
		}
	}

	popts := pipeline.Options{
		Bags:       opts.bags,
		MinLayover: opts.minLayover,
		MaxLayover: opts.maxLayover,
		Logger:     logger,
	}
	c.Config.ApplySearch(&popts)
	popts.SetGraphDefaults()
	if err := pipeline.ValidateLayoverWindow(popts.MinLayover, popts.MaxLayover); err != nil {
		return err
	}

	runner := c.newRunner(ctx, true)
	defer runner.Close()

	prog := newProgress(logger)
	ds, err := runner.Load(ctx, dataset)
	if err != nil {
		return err
	}
	g, err := runner.BuildGraph(ctx, ds, popts)
	if err != nil {
		return err
	}
	data, err := pipeline.RenderGraph(ctx, g, pipeline.GraphOptions{
		Format:   opts.format,
		Airport:  opts.airport,
		Detailed: opts.detailed,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered graph of %d flights", len(ds.Flights)))

	if opts.output == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return rferrors.Wrap(rferrors.ErrCodeInvalidInput, err, "write %s", opts.output)
	}
	printSuccess("Rendered %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	printFile(opts.output)
	return nil
}
