package flight

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the timestamp format of datasets and route output.
const TimeLayout = "2006-01-02T15:04:05"

// Flight is one scheduled leg.
type Flight struct {
	FlightNo    string
	Origin      string
	Destination string
	Departure   time.Time
	Arrival     time.Time
	BasePrice   float64
	BagPrice    float64
	BagsAllowed int
}

// Price returns the fare for the leg when carrying bags bags.
func (f *Flight) Price(bags int) float64 {
	return f.BasePrice + f.BagPrice*float64(bags)
}

// Duration returns the scheduled block time. It is negative for inverted legs.
func (f *Flight) Duration() time.Duration {
	return f.Arrival.Sub(f.Departure)
}

func (f *Flight) String() string {
	return fmt.Sprintf("Flight %s from %s to %s on %s with %d allowed bags",
		f.FlightNo, f.Origin, f.Destination, FormatTime(f.Departure), f.BagsAllowed)
}

// ParseTime parses a dataset timestamp.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, strings.TrimSpace(s))
}

// FormatTime renders t with [TimeLayout].
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

type flightJSON struct {
	FlightNo    string  `json:"flight_no"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Departure   string  `json:"departure"`
	Arrival     string  `json:"arrival"`
	BasePrice   float64 `json:"base_price"`
	BagPrice    float64 `json:"bag_price"`
	BagsAllowed int     `json:"bags_allowed"`
}

// MarshalJSON renders the flight with dataset column names and timestamps.
func (f Flight) MarshalJSON() ([]byte, error) {
	return json.Marshal(flightJSON{
		FlightNo:    f.FlightNo,
		Origin:      f.Origin,
		Destination: f.Destination,
		Departure:   FormatTime(f.Departure),
		Arrival:     FormatTime(f.Arrival),
		BasePrice:   f.BasePrice,
		BagPrice:    f.BagPrice,
		BagsAllowed: f.BagsAllowed,
	})
}

// UnmarshalJSON accepts the form produced by MarshalJSON.
func (f *Flight) UnmarshalJSON(data []byte) error {
	var raw flightJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	dep, err := ParseTime(raw.Departure)
	if err != nil {
		return fmt.Errorf("departure: %w", err)
	}
	arr, err := ParseTime(raw.Arrival)
	if err != nil {
		return fmt.Errorf("arrival: %w", err)
	}
	*f = Flight{
		FlightNo:    raw.FlightNo,
		Origin:      raw.Origin,
		Destination: raw.Destination,
		Departure:   dep,
		Arrival:     arr,
		BasePrice:   raw.BasePrice,
		BagPrice:    raw.BagPrice,
		BagsAllowed: raw.BagsAllowed,
	}
	return nil
}

// FormatDuration renders d as "H:MM:SS", prefixed by "N day, " or
// "N days, " once the duration reaches 24 hours. Negative durations get a
// leading minus sign. Sub-second precision is dropped.
func FormatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	d = d.Truncate(time.Second)
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)

	clock := fmt.Sprintf("%d:%02d:%02d", h, m, s)
	switch days {
	case 0:
		return sign + clock
	case 1:
		return fmt.Sprintf("%s1 day, %s", sign, clock)
	default:
		return fmt.Sprintf("%s%d days, %s", sign, days, clock)
	}
}

// ParseDuration parses the output of [FormatDuration].
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var days int
	if before, after, ok := strings.Cut(s, ", "); ok {
		n, unit, _ := strings.Cut(before, " ")
		d, err := strconv.Atoi(n)
		if err != nil || d < 0 || (unit != "day" && unit != "days") {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		days, s = d, after
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	var fields [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || (i > 0 && (len(p) != 2 || v > 59)) {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		fields[i] = v
	}

	d := time.Duration(days)*24*time.Hour +
		time.Duration(fields[0])*time.Hour +
		time.Duration(fields[1])*time.Minute +
		time.Duration(fields[2])*time.Second
	if neg {
		d = -d
	}
	return d, nil
}
