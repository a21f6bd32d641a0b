// Package graph builds the time-respecting travel graph that route search
// walks.
//
// # Model
//
// Every flight contributes two nodes: a departure event ([KindOrigin]) at its
// origin airport and an arrival event ([KindDestination]) at its destination
// airport. Nodes live in an arena and are addressed by [NodeID]; the origin
// node of flights[i] is 2i and its destination node is 2i+1.
//
// Two kinds of directed edges connect nodes:
//
//   - Flight edges join a flight's origin node to its own destination node.
//     They carry the bag-adjusted fare and the block time.
//   - Layover edges join an arrival to a later departure at the same airport
//     when the ground time lies inside the layover window ([DefaultMinLayover],
//     [DefaultMaxLayover] by default, both bounds inclusive). They are free.
//
// Because both edge kinds only move forward in time, node time never
// decreases along a path.
//
// # Building
//
// [New] builds the graph once; it is immutable afterwards and safe for
// concurrent readers. The bag count is baked into flight edge prices, so a
// new graph is needed whenever the requested bag count changes:
//
//	g, err := graph.New(flights, 1, graph.WithLayoverWindow(time.Hour, 6*time.Hour))
//	for _, id := range g.Departures("WIW") {
//	    for _, e := range g.Edges(id) {
//	        fmt.Println(g.Node(e.To).Airport, e.Price, e.Duration)
//	    }
//	}
//
// Layover edges are found through an airport-grouped departure index sorted
// by time, so construction is O(N log N) plus the number of edges produced.
//
// # Visualization
//
// [Graph.ToDOT] emits Graphviz DOT and [RenderSVG] turns it into SVG through
// go-graphviz.
package graph
