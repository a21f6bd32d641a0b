package search

import (
	"context"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	rferrors "github.com/matzehuels/routefinder/pkg/errors"
	"github.com/matzehuels/routefinder/pkg/flight"
	"github.com/matzehuels/routefinder/pkg/graph"
)

// DefaultMinDwell is the minimum ground time at the far airport of a round
// trip, between the outbound arrival and the return departure.
const DefaultMinDwell = time.Hour

// Trip is a one-way or round-trip request.
type Trip struct {
	Origin      string
	Destination string
	Bags        int
	RoundTrip   bool
}

// TripOption configures [FindRoutesForTrip] and [SearchTrip].
type TripOption func(*tripOptions)

type tripOptions struct {
	graph    []graph.Option
	minDwell time.Duration
	workers  int
}

// WithLayoverWindow sets the layover window of the graph built by
// [FindRoutesForTrip]. [SearchTrip] ignores it.
func WithLayoverWindow(min, max time.Duration) TripOption {
	return func(o *tripOptions) {
		o.graph = append(o.graph, graph.WithLayoverWindow(min, max))
	}
}

// WithMinDwell sets the minimum ground time before the return leg departs.
func WithMinDwell(d time.Duration) TripOption {
	return func(o *tripOptions) { o.minDwell = d }
}

// WithWorkers bounds the number of concurrent return-leg searches.
// Values below one fall back to GOMAXPROCS.
func WithWorkers(n int) TripOption {
	return func(o *tripOptions) { o.workers = n }
}

func buildTripOptions(opts []TripOption) (tripOptions, error) {
	o := tripOptions{minDwell: DefaultMinDwell}
	for _, opt := range opts {
		opt(&o)
	}
	if o.minDwell < 0 {
		return o, rferrors.New(rferrors.ErrCodeInvalidInput, "minimum dwell cannot be negative: %s", o.minDwell)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	return o, nil
}

// FindRoutesForTrip builds the travel graph for flights and runs [SearchTrip].
func FindRoutesForTrip(ctx context.Context, flights []flight.Flight, trip Trip, opts ...TripOption) ([]Route, error) {
	o, err := buildTripOptions(opts)
	if err != nil {
		return nil, err
	}
	g, err := graph.New(flights, trip.Bags, o.graph...)
	if err != nil {
		return nil, rferrors.Wrap(rferrors.ErrCodeInvalidInput, err, "build travel graph")
	}
	return searchTrip(ctx, g, trip, o)
}

// SearchTrip finds the itineraries for trip on a prebuilt graph. For round
// trips every outbound route is joined with each route back that departs at
// least the minimum dwell after the outbound arrival.
func SearchTrip(ctx context.Context, g *graph.Graph, trip Trip, opts ...TripOption) ([]Route, error) {
	o, err := buildTripOptions(opts)
	if err != nil {
		return nil, err
	}
	return searchTrip(ctx, g, trip, o)
}

func searchTrip(ctx context.Context, g *graph.Graph, trip Trip, o tripOptions) ([]Route, error) {
	outbound, err := FindRoutes(ctx, g, Query{
		Origin:      trip.Origin,
		Destination: trip.Destination,
		Bags:        trip.Bags,
	})
	if err != nil || !trip.RoundTrip {
		return outbound, err
	}
	return roundTrips(ctx, g, trip, outbound, o)
}

// roundTrips runs one return search per outbound route on a bounded pool.
// Results keep outbound order.
func roundTrips(ctx context.Context, g *graph.Graph, trip Trip, outbound []Route, o tripOptions) ([]Route, error) {
	joined := make([][]Route, len(outbound))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.workers)
	for i, out := range outbound {
		eg.Go(func() error {
			back, err := FindRoutes(ctx, g, Query{
				Origin:      trip.Destination,
				Destination: trip.Origin,
				Bags:        trip.Bags,
				NotBefore:   out.Arrival().Add(o.minDwell),
			})
			if err != nil {
				return err
			}
			routes := make([]Route, 0, len(back))
			for _, b := range back {
				r, err := Concatenate(out, b)
				if err != nil {
					return err
				}
				routes = append(routes, r)
			}
			joined[i] = routes
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(joined...), nil
}
