// Package local reads flight schedules from CSV files on disk.
package local

import (
	"context"

	"github.com/matzehuels/routefinder/pkg/flight"
	rfio "github.com/matzehuels/routefinder/pkg/io"
)

// Source is a dataset file.
type Source struct {
	path string
}

// New returns a source for the CSV file at path. The file is opened on Load.
func New(path string) *Source {
	return &Source{path: path}
}

// Name returns the file path.
func (s *Source) Name() string { return s.path }

// Load reads and parses the file.
func (s *Source) Load(ctx context.Context) ([]flight.Flight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rfio.ImportFlights(s.path)
}
