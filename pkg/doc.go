// Package pkg provides the libraries behind the routefinder itinerary search.
//
// # Overview
//
// Routefinder reads a flight schedule and lists every itinerary between two
// airports. Legs connect when the layover falls inside a window (1h to 6h by
// default), no airport is departed from twice, and every leg allows the
// requested number of checked bags. Round trips pair each outbound route with
// every return route that departs at least an hour after arrival.
//
// # Architecture
//
// The data flow through routefinder:
//
//	CSV file / MongoDB collection
//	         ↓
//	    [source] + [io] (load and validate flights)
//	         ↓
//	    [graph] (departure and arrival nodes, flight and layover edges)
//	         ↓
//	    [search] (breadth-first path enumeration, round-trip pairing)
//	         ↓
//	    JSON / table / HTTP response
//
// [pipeline] ties these together with result caching and is shared by the
// CLI and the HTTP server.
//
// # Quick Start
//
//	flights, _ := io.ImportFlights("flights.csv")
//	routes, _ := search.FindRoutesForTrip(ctx, flights, search.Trip{
//	    Origin:      "WIW",
//	    Destination: "ECV",
//	    Bags:        1,
//	    RoundTrip:   true,
//	})
//
// # Main Packages
//
// [flight] - The flight record, price and duration helpers, timestamp and
// travel-time formats.
//
// [graph] - The travel graph with a per-airport departure index used to link
// layovers. Exports DOT and SVG through Graphviz.
//
// [search] - Route enumeration over the graph, route assembly and validation,
// and round-trip concatenation on a bounded worker pool.
//
// [io] - Dataset parsing and route JSON encoding.
//
// [source] - Schedule backends: local CSV files and MongoDB.
//
// [cache] - Result caches (file, Redis, null) and cache key derivation.
//
// [pipeline] - Load, build, search and cache with consistent defaults.
//
// [config] - The TOML configuration file.
//
// [errors] - Coded errors and input validators.
//
// [observability] - Hook interfaces for load, search, cache and HTTP events.
package pkg
