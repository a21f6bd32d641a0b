package search

import (
	"errors"
	"slices"
	"strings"
	"time"

	rferrors "github.com/matzehuels/routefinder/pkg/errors"
	"github.com/matzehuels/routefinder/pkg/flight"
	"github.com/matzehuels/routefinder/pkg/graph"
)

var (
	// ErrBrokenAlternation is wrapped by the internal error [Finalize] returns
	// when a node sequence does not alternate departure and arrival nodes.
	ErrBrokenAlternation = errors.New("route does not alternate departure and arrival nodes")

	// ErrJunctionMismatch is wrapped by the internal error [Concatenate]
	// returns when the second route does not start where the first one ends.
	ErrJunctionMismatch = errors.New("routes do not meet at the same airport")
)

// Partial is an itinerary under construction. Extending a partial never
// modifies it; every branch owns its node sequence.
type Partial struct {
	nodes []graph.NodeID
	price float64
	time  time.Duration
}

func newPartial(start graph.NodeID) Partial {
	return Partial{nodes: []graph.NodeID{start}}
}

// extend returns a copy of p with e appended.
func (p Partial) extend(e graph.Edge) Partial {
	nodes := make([]graph.NodeID, len(p.nodes)+1)
	copy(nodes, p.nodes)
	nodes[len(p.nodes)] = e.To
	return Partial{
		nodes: nodes,
		price: p.price + e.Price,
		time:  p.time + e.Duration,
	}
}

func (p Partial) last() graph.NodeID { return p.nodes[len(p.nodes)-1] }

// departedFrom reports whether airport was already used as a departure point.
func (p Partial) departedFrom(g *graph.Graph, airport string) bool {
	for _, id := range p.nodes {
		if n := g.Node(id); n.Kind == graph.KindOrigin && n.Airport == airport {
			return true
		}
	}
	return false
}

// Route is a completed, validated itinerary.
type Route struct {
	Origin      string
	Destination string
	BagsCount   int
	BagsAllowed int
	TotalPrice  float64
	TravelTime  time.Duration
	Flights     []*flight.Flight
	Nodes       []graph.Node
}

// Departure returns the departure time of the first leg.
func (r Route) Departure() time.Time { return r.Nodes[0].Time }

// Arrival returns the arrival time of the last leg.
func (r Route) Arrival() time.Time { return r.Nodes[len(r.Nodes)-1].Time }

// Stops returns the first departure airport followed by every arrival airport.
func (r Route) Stops() []string {
	stops := []string{r.Nodes[0].Airport}
	for _, n := range r.Nodes {
		if n.Kind == graph.KindDestination {
			stops = append(stops, n.Airport)
		}
	}
	return stops
}

func (r Route) String() string {
	return strings.Join(r.Stops(), " -> ")
}

// Finalize validates a completed node sequence and turns it into a Route.
//
// It returns ok == false with a nil error when the itinerary cannot carry
// bags bags; such candidates are filtered, not reported. A sequence that does
// not alternate departure and arrival nodes, starting with a departure and
// ending with an arrival, yields an INTERNAL_ERROR wrapping
// [ErrBrokenAlternation].
func Finalize(nodes []graph.Node, origin, destination string, bags int, price float64, travel time.Duration) (Route, bool, error) {
	if err := checkAlternation(nodes); err != nil {
		return Route{}, false, err
	}

	flights := make([]*flight.Flight, 0, len(nodes)/2)
	allowed := 0
	for i := 0; i < len(nodes); i += 2 {
		f := nodes[i].Flight
		if len(flights) == 0 || f.BagsAllowed < allowed {
			allowed = f.BagsAllowed
		}
		flights = append(flights, f)
	}
	if allowed < bags {
		return Route{}, false, nil
	}

	return Route{
		Origin:      origin,
		Destination: destination,
		BagsCount:   bags,
		BagsAllowed: allowed,
		TotalPrice:  price,
		TravelTime:  travel,
		Flights:     flights,
		Nodes:       nodes,
	}, true, nil
}

func checkAlternation(nodes []graph.Node) error {
	if len(nodes) == 0 || len(nodes)%2 != 0 {
		return rferrors.Wrap(rferrors.ErrCodeInternal, ErrBrokenAlternation, "route has %d nodes", len(nodes))
	}
	for i, n := range nodes {
		want := graph.KindOrigin
		if i%2 == 1 {
			want = graph.KindDestination
		}
		if n.Kind != want {
			return rferrors.Wrap(rferrors.ErrCodeInternal, ErrBrokenAlternation, "node %d at %s is %s, want %s", i, n.Airport, n.Kind, want)
		}
	}
	return nil
}

// Concatenate joins an outbound route and the route back into one itinerary
// from out.Origin to back.Destination. Prices and travel times add up; the
// bag allowance is recomputed over all legs.
func Concatenate(out, back Route) (Route, error) {
	if len(out.Nodes) == 0 || len(back.Nodes) == 0 {
		return Route{}, rferrors.Wrap(rferrors.ErrCodeInternal, ErrJunctionMismatch, "cannot concatenate an empty route")
	}
	if end, start := out.Nodes[len(out.Nodes)-1].Airport, back.Nodes[0].Airport; end != start {
		return Route{}, rferrors.Wrap(rferrors.ErrCodeInternal, ErrJunctionMismatch, "first route ends at %s, second starts at %s", end, start)
	}

	nodes := slices.Concat(out.Nodes, back.Nodes)
	r, ok, err := Finalize(nodes, out.Origin, back.Destination, out.BagsCount,
		out.TotalPrice+back.TotalPrice, out.TravelTime+back.TravelTime)
	if err != nil {
		return Route{}, err
	}
	if !ok {
		return Route{}, rferrors.New(rferrors.ErrCodeInternal, "joined route %s -> %s cannot carry %d bags", out.Origin, back.Destination, out.BagsCount)
	}
	return r, nil
}
