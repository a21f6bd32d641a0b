package search

import (
	"context"
	"time"

	rferrors "github.com/matzehuels/routefinder/pkg/errors"
	"github.com/matzehuels/routefinder/pkg/graph"
)

// ctxCheckInterval is how many dequeues happen between context checks.
const ctxCheckInterval = 1024

// Query describes one leg of a search.
type Query struct {
	Origin      string
	Destination string
	// Bags is the number of checked bags. It must match the bag count the
	// graph was priced for.
	Bags int
	// NotBefore, when non-zero, drops first departures earlier than it.
	NotBefore time.Time
}

// FindRoutes returns every itinerary from q.Origin to q.Destination in g.
//
// Only the first departure is checked against q.NotBefore: node time never
// decreases along a path. An empty result is not an error. The returned error
// is either ctx.Err(), an INVALID_INPUT error for a bag count the graph was
// not priced for, or an INTERNAL_ERROR from [Finalize].
func FindRoutes(ctx context.Context, g *graph.Graph, q Query) ([]Route, error) {
	if q.Bags != g.Bags() {
		return nil, rferrors.New(rferrors.ErrCodeInvalidInput, "query for %d bags on a graph priced for %d", q.Bags, g.Bags())
	}

	var frontier queue[Partial]
	for _, id := range g.DeparturesFrom(q.Origin, q.NotBefore) {
		frontier.push(newPartial(id))
	}

	var routes []Route
	for step := 0; frontier.len() > 0; step++ {
		if step%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		p, _ := frontier.pop()
		at := p.last()
		if n := g.Node(at); n.Kind == graph.KindDestination && n.Airport == q.Destination {
			r, ok, err := Finalize(p.resolve(g), q.Origin, q.Destination, q.Bags, p.price, p.time)
			if err != nil {
				return nil, err
			}
			if ok {
				routes = append(routes, r)
			}
			continue
		}

		for _, e := range g.Edges(at) {
			next := g.Node(e.To)
			if next.Flight.BagsAllowed < q.Bags || p.departedFrom(g, next.Airport) {
				continue
			}
			frontier.push(p.extend(e))
		}
	}
	return routes, nil
}

// resolve copies the partial's nodes out of the graph arena.
func (p Partial) resolve(g *graph.Graph) []graph.Node {
	nodes := make([]graph.Node, len(p.nodes))
	for i, id := range p.nodes {
		nodes[i] = g.Node(id)
	}
	return nodes
}
