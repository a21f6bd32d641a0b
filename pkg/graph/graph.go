package graph

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/routefinder/pkg/flight"
)

// Default layover window. A connection needs at least DefaultMinLayover and
// at most DefaultMaxLayover of ground time.
const (
	DefaultMinLayover = time.Hour
	DefaultMaxLayover = 6 * time.Hour
)

// ErrInvalidLayoverWindow is returned by [New] when the minimum layover is
// negative or exceeds the maximum.
var ErrInvalidLayoverWindow = errors.New("invalid layover window")

// NodeKind tells a departure event from an arrival event.
type NodeKind uint8

const (
	// KindOrigin is the departure of a flight from its origin airport.
	KindOrigin NodeKind = iota + 1
	// KindDestination is the arrival of a flight at its destination airport.
	KindDestination
)

func (k NodeKind) String() string {
	switch k {
	case KindOrigin:
		return "ORIGIN"
	case KindDestination:
		return "DESTINATION"
	default:
		return fmt.Sprintf("NodeKind(%d)", uint8(k))
	}
}

// NodeID addresses a node in the graph arena.
type NodeID int32

// Node is a timestamped airport event owned by one flight.
type Node struct {
	Flight  *flight.Flight // shared, read-only
	Kind    NodeKind
	Airport string
	Time    time.Time
}

// Edge is a directed connection to another node.
type Edge struct {
	To       NodeID
	Price    float64
	Duration time.Duration
	Layover  bool
}

// LayoverWindow bounds the ground time between two legs, inclusive.
type LayoverWindow struct {
	Min time.Duration
	Max time.Duration
}

// Contains reports whether d is a valid layover.
func (w LayoverWindow) Contains(d time.Duration) bool {
	return d >= w.Min && d <= w.Max
}

// Option configures graph construction.
type Option func(*options)

type options struct {
	window LayoverWindow
}

// WithLayoverWindow overrides the default [DefaultMinLayover, DefaultMaxLayover] window.
func WithLayoverWindow(min, max time.Duration) Option {
	return func(o *options) {
		o.window = LayoverWindow{Min: min, Max: max}
	}
}

// Graph is the travel graph for one flight list and one bag count.
//
// The zero value is an empty graph. Graphs are never mutated after [New]
// returns and may be shared between goroutines.
type Graph struct {
	nodes      []Node
	edges      [][]Edge
	departures map[string][]NodeID // airport -> origin nodes sorted by time
	bags       int
	window     LayoverWindow
	layovers   int
}

// New builds the travel graph for flights, pricing every flight edge for bags
// checked bags. The graph keeps pointers into flights; the caller must not
// modify the slice while the graph is in use.
func New(flights []flight.Flight, bags int, opts ...Option) (*Graph, error) {
	o := options{window: LayoverWindow{Min: DefaultMinLayover, Max: DefaultMaxLayover}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.window.Min < 0 || o.window.Min > o.window.Max {
		return nil, fmt.Errorf("%w: min %s, max %s", ErrInvalidLayoverWindow, o.window.Min, o.window.Max)
	}

	g := &Graph{
		nodes:      make([]Node, 0, 2*len(flights)),
		edges:      make([][]Edge, 2*len(flights)),
		departures: make(map[string][]NodeID),
		bags:       bags,
		window:     o.window,
	}

	for i := range flights {
		f := &flights[i]
		from := g.add(Node{Flight: f, Kind: KindOrigin, Airport: f.Origin, Time: f.Departure})
		to := g.add(Node{Flight: f, Kind: KindDestination, Airport: f.Destination, Time: f.Arrival})
		g.edges[from] = append(g.edges[from], Edge{
			To:       to,
			Price:    f.Price(bags),
			Duration: f.Duration(),
		})
		g.departures[f.Origin] = append(g.departures[f.Origin], from)
	}

	for _, ids := range g.departures {
		slices.SortFunc(ids, g.compareTime)
	}
	g.linkLayovers()
	return g, nil
}

func (g *Graph) add(n Node) NodeID {
	g.nodes = append(g.nodes, n)
	return NodeID(len(g.nodes) - 1)
}

func (g *Graph) compareTime(a, b NodeID) int {
	if c := g.nodes[a].Time.Compare(g.nodes[b].Time); c != 0 {
		return c
	}
	return int(a - b)
}

// linkLayovers adds a layover edge from every arrival to each departure at
// the same airport whose ground time is inside the window.
func (g *Graph) linkLayovers() {
	for id := range g.nodes {
		n := g.nodes[id]
		if n.Kind != KindDestination {
			continue
		}
		for _, dep := range g.departuresBetween(n.Airport, n.Time.Add(g.window.Min), n.Time.Add(g.window.Max)) {
			g.edges[id] = append(g.edges[id], Edge{
				To:       dep,
				Duration: g.nodes[dep].Time.Sub(n.Time),
				Layover:  true,
			})
			g.layovers++
		}
	}
}

// departuresBetween returns the origin nodes at airport departing in [from, to].
func (g *Graph) departuresBetween(airport string, from, to time.Time) []NodeID {
	ids := g.departures[airport]
	lo, _ := slices.BinarySearchFunc(ids, from, func(id NodeID, t time.Time) int {
		return g.nodes[id].Time.Compare(t)
	})
	hi := lo
	for hi < len(ids) && !g.nodes[ids[hi]].Time.After(to) {
		hi++
	}
	return ids[lo:hi]
}

// Node returns the node with the given id. It panics if id is out of range.
func (g *Graph) Node(id NodeID) Node { return g.nodes[id] }

// Edges returns the outgoing edges of id. The slice must not be modified.
func (g *Graph) Edges(id NodeID) []Edge { return g.edges[id] }

// NodeCount returns the number of nodes (twice the number of flights).
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of flight and layover edges.
func (g *Graph) EdgeCount() int { return len(g.nodes)/2 + g.layovers }

// LayoverCount returns the number of layover edges.
func (g *Graph) LayoverCount() int { return g.layovers }

// Bags returns the bag count flight edges were priced for.
func (g *Graph) Bags() int { return g.bags }

// Window returns the layover window used to link arrivals to departures.
func (g *Graph) Window() LayoverWindow { return g.window }

// Departures returns the origin nodes at airport in departure order.
// The slice must not be modified.
func (g *Graph) Departures(airport string) []NodeID { return g.departures[airport] }

// DeparturesFrom returns the origin nodes at airport departing at or after notBefore.
// A zero notBefore returns every departure.
func (g *Graph) DeparturesFrom(airport string, notBefore time.Time) []NodeID {
	ids := g.departures[airport]
	if notBefore.IsZero() {
		return ids
	}
	lo, _ := slices.BinarySearchFunc(ids, notBefore, func(id NodeID, t time.Time) int {
		return g.nodes[id].Time.Compare(t)
	})
	return ids[lo:]
}

// Airports returns every airport that appears in the schedule, sorted.
func (g *Graph) Airports() []string {
	seen := make(map[string]struct{})
	for _, n := range g.nodes {
		seen[n.Airport] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}
