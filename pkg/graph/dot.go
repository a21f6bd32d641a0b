package graph

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/routefinder/pkg/flight"
)

// DOTOptions configures [Graph.ToDOT].
type DOTOptions struct {
	// Airport restricts output to nodes at this airport and their direct
	// neighbors. Empty means the whole graph.
	Airport string
	// Detailed adds prices and durations to edge labels.
	Detailed bool
}

// ToDOT converts the travel graph to Graphviz DOT. Departures are drawn as
// boxes, arrivals as ellipses, layover edges dashed.
func (g *Graph) ToDOT(opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Travel {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, style=filled, fillcolor=white];\n\n")

	keep := g.dotFilter(opts.Airport)
	for id, n := range g.nodes {
		if !keep(NodeID(id)) {
			continue
		}
		shape := "box"
		if n.Kind == KindDestination {
			shape = "ellipse"
		}
		label := fmt.Sprintf("%s\n%s %s", n.Airport, n.Flight.FlightNo, flight.FormatTime(n.Time))
		fmt.Fprintf(&buf, "  n%d [label=%q, shape=%s];\n", id, label, shape)
	}

	buf.WriteString("\n")
	for id := range g.nodes {
		if !keep(NodeID(id)) {
			continue
		}
		for _, e := range g.edges[id] {
			if !keep(e.To) {
				continue
			}
			attrs := ""
			switch {
			case e.Layover:
				attrs = fmt.Sprintf(" [style=dashed, label=%q]", e.Duration.String())
			case opts.Detailed:
				attrs = fmt.Sprintf(" [label=%q]", fmt.Sprintf("%.2f / %s", e.Price, e.Duration))
			}
			fmt.Fprintf(&buf, "  n%d -> n%d%s;\n", id, e.To, attrs)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// dotFilter keeps nodes at airport plus the endpoints of their edges.
func (g *Graph) dotFilter(airport string) func(NodeID) bool {
	if airport == "" {
		return func(NodeID) bool { return true }
	}
	keep := make(map[NodeID]bool)
	for id, n := range g.nodes {
		if n.Airport != airport {
			continue
		}
		keep[NodeID(id)] = true
		for _, e := range g.edges[id] {
			keep[e.To] = true
		}
		// pull in the departure node feeding an arrival here
		if n.Kind == KindDestination {
			keep[NodeID(id-1)] = true
		}
	}
	return func(id NodeID) bool { return keep[id] }
}

// RenderSVG renders a DOT document to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
