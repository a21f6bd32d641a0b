package errors

import (
	"strings"
	"testing"
)

func TestValidateAirportCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"iata", "PRG", false},
		{"icao", "LKPR", false},
		{"single letter", "A", false},
		{"digits", "X1", false},

		{"empty", "", true},
		{"lower case", "prg", true},
		{"too long", "ABCDEFGHI", true},
		{"space", "PR G", true},
		{"comma", "PR,G", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAirportCode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAirportCode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidAirport) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidAirport)
			}
		})
	}
}

func TestValidateBags(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		if err := ValidateBags(n); err != nil {
			t.Errorf("ValidateBags(%d) = %v", n, err)
		}
	}
	if err := ValidateBags(-1); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ValidateBags(-1) = %v, want INVALID_INPUT", err)
	}
}

func TestValidateFlightNo(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"ZH214", false},
		{"F1", false},
		{"", true},
		{strings.Repeat("X", 33), true},
		{"AB\x00", true},
		{"A,B", true},
	}

	for _, tt := range tests {
		err := ValidateFlightNo(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFlightNo(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateRoute(t *testing.T) {
	if err := ValidateRoute("WIW", "RFZ"); err != nil {
		t.Errorf("ValidateRoute() = %v", err)
	}
	if err := ValidateRoute("WIW", "WIW"); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("same airport: got %v, want INVALID_INPUT", err)
	}
	if err := ValidateRoute("", "WIW"); !Is(err, ErrCodeInvalidAirport) {
		t.Errorf("empty origin: got %v, want INVALID_AIRPORT", err)
	}
}
