// Package search enumerates flight itineraries over a [graph.Graph].
//
// # Search
//
// [FindRoutes] runs a breadth-first enumeration from every departure at the
// query origin. A partial route is extended along flight and layover edges
// until it reaches an arrival at the destination airport. Two rules prune the
// frontier:
//
//   - an airport may serve as a departure point at most once per itinerary,
//     which also bounds path length and guarantees termination
//   - a leg whose flight allows fewer bags than requested is never taken
//
// A departure node that happens to sit at the destination airport does not
// count as arriving there; only an arrival node does.
//
// # Assembly
//
// Completed paths pass through [Finalize], which checks that the path
// alternates departure and arrival nodes, extracts the flights and computes
// the itinerary's bag allowance (the minimum over its legs). Paths whose
// allowance is below the requested bag count are dropped without error. An
// alternation failure is an internal error and aborts the search.
//
// # Round trips
//
// [FindRoutesForTrip] builds the graph, searches the outbound leg and, for
// round trips, searches the way back from every outbound arrival with a
// minimum dwell at the far airport ([DefaultMinDwell]). Return searches run
// on a bounded worker pool. Outbound and return routes are joined with
// [Concatenate].
//
// Results are not ordered; callers sort them (the pipeline sorts by price).
package search
