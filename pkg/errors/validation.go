package errors

import (
	"regexp"
	"unicode"
)

// airportCodeRegex matches upper-case airport codes (IATA, ICAO, or the
// short synthetic codes used in test schedules).
var airportCodeRegex = regexp.MustCompile(`^[A-Z0-9]{1,8}$`)

// ValidateAirportCode rejects codes that cannot name an airport.
func ValidateAirportCode(code string) error {
	if code == "" {
		return New(ErrCodeInvalidAirport, "airport code cannot be empty")
	}
	if !airportCodeRegex.MatchString(code) {
		return New(ErrCodeInvalidAirport, "invalid airport code: %q", code)
	}
	return nil
}

// ValidateBags checks a requested bag count.
func ValidateBags(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "bag count cannot be negative: %d", n)
	}
	return nil
}

// ValidateFlightNo checks a flight identifier read from a dataset.
//
// The rules are intentionally loose, datasets use both "AB123" and opaque ids:
//   - not empty
//   - at most 32 characters
//   - no control characters or commas
func ValidateFlightNo(id string) error {
	if id == "" {
		return New(ErrCodeInvalidFormat, "flight number cannot be empty")
	}
	if len(id) > 32 {
		return New(ErrCodeInvalidFormat, "flight number too long (max 32 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) || r == ',' {
			return New(ErrCodeInvalidFormat, "flight number contains invalid characters: %q", id)
		}
	}
	return nil
}

// ValidateRoute checks that origin and destination form a searchable pair.
func ValidateRoute(origin, destination string) error {
	if err := ValidateAirportCode(origin); err != nil {
		return err
	}
	if err := ValidateAirportCode(destination); err != nil {
		return err
	}
	if origin == destination {
		return New(ErrCodeInvalidInput, "origin and destination are both %s", origin)
	}
	return nil
}
