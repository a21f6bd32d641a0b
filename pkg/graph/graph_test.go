package graph

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/routefinder/pkg/flight"
)

var day = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// leg builds a flight departing at dep and arriving at arr (offsets from day).
func leg(no, from, to string, dep, arr time.Duration, price float64, bags int) flight.Flight {
	return flight.Flight{
		FlightNo:    no,
		Origin:      from,
		Destination: to,
		Departure:   day.Add(dep),
		Arrival:     day.Add(arr),
		BasePrice:   price,
		BagPrice:    10,
		BagsAllowed: bags,
	}
}

func layoverTargets(g *Graph, id NodeID) []string {
	var out []string
	for _, e := range g.Edges(id) {
		if e.Layover {
			out = append(out, g.Node(e.To).Flight.FlightNo)
		}
	}
	return out
}

func TestNewNodesAndFlightEdges(t *testing.T) {
	flights := []flight.Flight{
		leg("F1", "A", "B", 8*time.Hour, 10*time.Hour, 100, 2),
		leg("F2", "B", "C", 12*time.Hour, 14*time.Hour, 80, 1),
	}
	g, err := New(flights, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if g.NodeCount() != 4 {
		t.Fatalf("NodeCount = %d, want 4", g.NodeCount())
	}

	origin, dest := g.Node(0), g.Node(1)
	if origin.Kind != KindOrigin || origin.Airport != "A" || !origin.Time.Equal(flights[0].Departure) {
		t.Errorf("node 0 = %+v, want ORIGIN at A 08:00", origin)
	}
	if dest.Kind != KindDestination || dest.Airport != "B" || !dest.Time.Equal(flights[0].Arrival) {
		t.Errorf("node 1 = %+v, want DESTINATION at B 10:00", dest)
	}
	if origin.Flight != &flights[0] {
		t.Error("nodes should share the caller's flight")
	}

	edges := g.Edges(0)
	if len(edges) != 1 {
		t.Fatalf("origin edges = %d, want 1", len(edges))
	}
	e := edges[0]
	if e.To != 1 || e.Layover {
		t.Errorf("flight edge = %+v, want to node 1", e)
	}
	if e.Price != 120 {
		t.Errorf("flight edge price = %v, want 100 + 2*10", e.Price)
	}
	if e.Duration != 2*time.Hour {
		t.Errorf("flight edge duration = %v, want 2h", e.Duration)
	}

	if g.EdgeCount() != 3 || g.LayoverCount() != 1 {
		t.Errorf("EdgeCount = %d, LayoverCount = %d, want 3 and 1", g.EdgeCount(), g.LayoverCount())
	}
	if g.Bags() != 2 {
		t.Errorf("Bags = %d, want 2", g.Bags())
	}
}

func TestLayoverWindowBounds(t *testing.T) {
	arrive := 10 * time.Hour
	tests := []struct {
		name   string
		gap    time.Duration
		linked bool
	}{
		{"59 minutes", 59 * time.Minute, false},
		{"exactly 1h", time.Hour, true},
		{"3h", 3 * time.Hour, true},
		{"exactly 6h", 6 * time.Hour, true},
		{"6h01m", 6*time.Hour + time.Minute, false},
		{"departs before arrival", -time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flights := []flight.Flight{
				leg("IN", "A", "B", 8*time.Hour, arrive, 100, 1),
				leg("OUT", "B", "C", arrive+tt.gap, arrive+tt.gap+time.Hour, 100, 1),
			}
			g, err := New(flights, 0)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			got := layoverTargets(g, 1)
			if linked := len(got) == 1; linked != tt.linked {
				t.Errorf("layover edges from arrival = %v, linked want %v", got, tt.linked)
			}
			for _, e := range g.Edges(1) {
				if e.Price != 0 || e.Duration != tt.gap {
					t.Errorf("layover edge = %+v, want price 0 duration %v", e, tt.gap)
				}
			}
		})
	}
}

func TestLayoverRequiresSameAirportAndKinds(t *testing.T) {
	flights := []flight.Flight{
		leg("F1", "A", "B", 8*time.Hour, 10*time.Hour, 100, 1),
		leg("F2", "C", "D", 12*time.Hour, 13*time.Hour, 100, 1), // different airport
		leg("F3", "A", "E", 12*time.Hour, 13*time.Hour, 100, 1), // departs where F1 departed
	}
	g, err := New(flights, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.LayoverCount() != 0 {
		t.Errorf("LayoverCount = %d, want 0", g.LayoverCount())
	}
	for id := 0; id < g.NodeCount(); id++ {
		for _, e := range g.Edges(NodeID(id)) {
			from, to := g.Node(NodeID(id)), g.Node(e.To)
			if e.Layover && (from.Kind != KindDestination || to.Kind != KindOrigin || from.Airport != to.Airport) {
				t.Errorf("bad layover %v@%s -> %v@%s", from.Kind, from.Airport, to.Kind, to.Airport)
			}
		}
	}
}

func TestLayoverFanOutSorted(t *testing.T) {
	flights := []flight.Flight{
		leg("IN", "A", "B", 8*time.Hour, 10*time.Hour, 100, 1),
		leg("LATE", "B", "C", 15*time.Hour, 16*time.Hour, 100, 1),
		leg("EARLY", "B", "D", 11*time.Hour, 12*time.Hour, 100, 1),
		leg("TOOLATE", "B", "E", 17*time.Hour, 18*time.Hour, 100, 1),
		leg("MID", "B", "F", 13*time.Hour, 14*time.Hour, 100, 1),
	}
	g, err := New(flights, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := strings.Join(layoverTargets(g, 1), ",")
	if got != "EARLY,MID,LATE" {
		t.Errorf("layover targets = %s, want EARLY,MID,LATE", got)
	}
}

func TestWithLayoverWindow(t *testing.T) {
	flights := []flight.Flight{
		leg("IN", "A", "B", 8*time.Hour, 10*time.Hour, 100, 1),
		leg("OUT", "B", "C", 10*time.Hour+30*time.Minute, 12*time.Hour, 100, 1),
	}
	g, err := New(flights, 0, WithLayoverWindow(30*time.Minute, 2*time.Hour))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.LayoverCount() != 1 {
		t.Errorf("LayoverCount = %d, want 1 with a 30m minimum", g.LayoverCount())
	}
	if w := g.Window(); w.Min != 30*time.Minute || w.Max != 2*time.Hour {
		t.Errorf("Window = %+v", w)
	}
}

func TestInvalidLayoverWindow(t *testing.T) {
	tests := []struct {
		name     string
		min, max time.Duration
	}{
		{"negative min", -time.Minute, time.Hour},
		{"min above max", 3 * time.Hour, time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil, 0, WithLayoverWindow(tt.min, tt.max))
			if !errors.Is(err, ErrInvalidLayoverWindow) {
				t.Errorf("New() error = %v, want ErrInvalidLayoverWindow", err)
			}
		})
	}
}

func TestInvertedFlightIsAccepted(t *testing.T) {
	flights := []flight.Flight{leg("BAD", "A", "B", 10*time.Hour, 8*time.Hour, 100, 1)}
	g, err := New(flights, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d := g.Edges(0)[0].Duration; d != -2*time.Hour {
		t.Errorf("duration = %v, want -2h", d)
	}
}

func TestDeparturesFrom(t *testing.T) {
	flights := []flight.Flight{
		leg("F3", "A", "B", 14*time.Hour, 15*time.Hour, 100, 1),
		leg("F1", "A", "B", 8*time.Hour, 9*time.Hour, 100, 1),
		leg("F2", "A", "C", 11*time.Hour, 12*time.Hour, 100, 1),
	}
	g, err := New(flights, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	names := func(ids []NodeID) string {
		var s []string
		for _, id := range ids {
			s = append(s, g.Node(id).Flight.FlightNo)
		}
		return strings.Join(s, ",")
	}

	if got := names(g.Departures("A")); got != "F1,F2,F3" {
		t.Errorf("Departures(A) = %s, want F1,F2,F3", got)
	}
	if got := names(g.DeparturesFrom("A", time.Time{})); got != "F1,F2,F3" {
		t.Errorf("DeparturesFrom(zero) = %s", got)
	}
	if got := names(g.DeparturesFrom("A", day.Add(11*time.Hour))); got != "F2,F3" {
		t.Errorf("DeparturesFrom(11:00) = %s, want F2,F3 (bound inclusive)", got)
	}
	if got := g.DeparturesFrom("Z", time.Time{}); len(got) != 0 {
		t.Errorf("DeparturesFrom(unknown) = %v, want empty", got)
	}
	if got := strings.Join(g.Airports(), ","); got != "A,B,C" {
		t.Errorf("Airports = %s, want A,B,C", got)
	}
}

func TestToDOT(t *testing.T) {
	flights := []flight.Flight{
		leg("F1", "A", "B", 8*time.Hour, 10*time.Hour, 100, 1),
		leg("F2", "B", "C", 12*time.Hour, 14*time.Hour, 80, 1),
		leg("F3", "X", "Y", 12*time.Hour, 14*time.Hour, 80, 1),
	}
	g, err := New(flights, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	dot := g.ToDOT(DOTOptions{Detailed: true})
	for _, want := range []string{"digraph Travel", "n0 -> n1 [label=\"110.00 / 2h0m0s\"]", "n1 -> n2 [style=dashed", "shape=ellipse"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	filtered := g.ToDOT(DOTOptions{Airport: "B"})
	if strings.Contains(filtered, "n4 ") {
		t.Errorf("airport filter kept unrelated node n4:\n%s", filtered)
	}
	if !strings.Contains(filtered, "n0 -> n1;") {
		t.Errorf("airport filter dropped the inbound flight edge:\n%s", filtered)
	}
}
