package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/routefinder/pkg/flight"
	"github.com/matzehuels/routefinder/pkg/search"
)

// RouteRecord is the serialized form of a route. It holds copies of the
// flights so it stays valid after the travel graph is gone.
type RouteRecord struct {
	Flights     []flight.Flight
	Origin      string
	Destination string
	BagsAllowed int
	BagsCount   int
	TotalPrice  float64
	TravelTime  time.Duration
}

type routeJSON struct {
	Flights     []flight.Flight `json:"flights"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	BagsAllowed int             `json:"bags_allowed"`
	BagsCount   int             `json:"bags_count"`
	TotalPrice  float64         `json:"total_price"`
	TravelTime  string          `json:"travel_time"`
}

// NewRouteRecord copies r into its serialized form.
func NewRouteRecord(r search.Route) RouteRecord {
	flights := make([]flight.Flight, len(r.Flights))
	for i, f := range r.Flights {
		flights[i] = *f
	}
	return RouteRecord{
		Flights:     flights,
		Origin:      r.Origin,
		Destination: r.Destination,
		BagsAllowed: r.BagsAllowed,
		BagsCount:   r.BagsCount,
		TotalPrice:  r.TotalPrice,
		TravelTime:  r.TravelTime,
	}
}

// NewRouteRecords converts every route with [NewRouteRecord].
func NewRouteRecords(routes []search.Route) []RouteRecord {
	out := make([]RouteRecord, len(routes))
	for i, r := range routes {
		out[i] = NewRouteRecord(r)
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (r RouteRecord) MarshalJSON() ([]byte, error) {
	flights := r.Flights
	if flights == nil {
		flights = []flight.Flight{}
	}
	return json.Marshal(routeJSON{
		Flights:     flights,
		Origin:      r.Origin,
		Destination: r.Destination,
		BagsAllowed: r.BagsAllowed,
		BagsCount:   r.BagsCount,
		TotalPrice:  r.TotalPrice,
		TravelTime:  flight.FormatDuration(r.TravelTime),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RouteRecord) UnmarshalJSON(data []byte) error {
	var raw routeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	travel, err := flight.ParseDuration(raw.TravelTime)
	if err != nil {
		return fmt.Errorf("travel_time: %w", err)
	}
	*r = RouteRecord{
		Flights:     raw.Flights,
		Origin:      raw.Origin,
		Destination: raw.Destination,
		BagsAllowed: raw.BagsAllowed,
		BagsCount:   raw.BagsCount,
		TotalPrice:  raw.TotalPrice,
		TravelTime:  travel,
	}
	return nil
}

// Stops returns the first departure airport followed by every arrival airport.
func (r RouteRecord) Stops() []string {
	if len(r.Flights) == 0 {
		return nil
	}
	stops := []string{r.Flights[0].Origin}
	for _, f := range r.Flights {
		stops = append(stops, f.Destination)
	}
	return stops
}

// WriteRoutesJSON encodes routes as an indented JSON array and writes it to w.
// A nil slice is written as an empty array.
func WriteRoutesJSON(w io.Writer, routes []RouteRecord) error {
	if routes == nil {
		routes = []RouteRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(routes); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportRoutesJSON writes routes to a JSON file at path.
func ExportRoutesJSON(path string, routes []RouteRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteRoutesJSON(f, routes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadRoutesJSON decodes a route list written by [WriteRoutesJSON].
func ReadRoutesJSON(r io.Reader) ([]RouteRecord, error) {
	var routes []RouteRecord
	if err := json.NewDecoder(r).Decode(&routes); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return routes, nil
}
