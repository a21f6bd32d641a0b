package search

import (
	"testing"
	"time"

	"github.com/matzehuels/routefinder/pkg/flight"
	"github.com/matzehuels/routefinder/pkg/graph"
)

func at(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := flight.ParseTime(s)
	if err != nil {
		t.Fatalf("ParseTime(%q): %v", s, err)
	}
	return tm
}

// fl builds a flight with zero bag price.
func fl(t *testing.T, no, from, to, dep, arr string, price float64, bags int) flight.Flight {
	t.Helper()
	return flight.Flight{
		FlightNo:    no,
		Origin:      from,
		Destination: to,
		Departure:   at(t, dep),
		Arrival:     at(t, arr),
		BasePrice:   price,
		BagsAllowed: bags,
	}
}

func mustGraph(t *testing.T, flights []flight.Flight, bags int) *graph.Graph {
	t.Helper()
	g, err := graph.New(flights, bags)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	return g
}

func flightNos(r Route) []string {
	out := make([]string, len(r.Flights))
	for i, f := range r.Flights {
		out[i] = f.FlightNo
	}
	return out
}

// checkInvariants asserts the properties every returned route must hold.
func checkInvariants(t *testing.T, routes []Route) {
	t.Helper()
	for _, r := range routes {
		for i, n := range r.Nodes {
			want := graph.KindOrigin
			if i%2 == 1 {
				want = graph.KindDestination
			}
			if n.Kind != want {
				t.Errorf("%s: node %d is %s, want %s", r, i, n.Kind, want)
			}
		}
		if r.BagsAllowed < r.BagsCount {
			t.Errorf("%s: bags allowed %d < bags count %d", r, r.BagsAllowed, r.BagsCount)
		}
	}
}

// checkNoRepeatedDeparture asserts no airport is departed from twice in a one-way route.
func checkNoRepeatedDeparture(t *testing.T, routes []Route) {
	t.Helper()
	for _, r := range routes {
		seen := make(map[string]bool)
		for _, n := range r.Nodes {
			if n.Kind != graph.KindOrigin {
				continue
			}
			if seen[n.Airport] {
				t.Errorf("%s: departs from %s twice", r, n.Airport)
			}
			seen[n.Airport] = true
		}
	}
}
