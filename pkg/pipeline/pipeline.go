// Package pipeline runs the load → build → search → sort pipeline.
//
// The CLI and the API server share this package so both apply the same
// defaults, validation, caching, and ordering.
//
// # Stages
//
//  1. Load: read the flight schedule from a [source.Source]
//  2. Build: construct the travel graph for the requested bag count
//  3. Search: enumerate one-way or round-trip itineraries
//  4. Sort: order the routes by total price, cheapest first
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Dataset:     "flights.csv",
//	    Origin:      "WIW",
//	    Destination: "RFZ",
//	    Bags:        1,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(result.Routes), "routes")
//
// A long-running process loads the dataset once and searches it repeatedly:
//
//	ds, err := runner.Load(ctx, "flights.csv")
//	result, err := runner.Search(ctx, ds, opts)
//
// [source.Source]: github.com/matzehuels/routefinder/pkg/source.Source
package pipeline

import (
	"cmp"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/routefinder/pkg/cache"
	rferrors "github.com/matzehuels/routefinder/pkg/errors"
	"github.com/matzehuels/routefinder/pkg/graph"
	rfio "github.com/matzehuels/routefinder/pkg/io"
	"github.com/matzehuels/routefinder/pkg/search"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Config
// =============================================================================

const (
	// DefaultMinLayover is the shortest connection accepted between two legs.
	DefaultMinLayover = graph.DefaultMinLayover

	// DefaultMaxLayover is the longest connection accepted between two legs.
	DefaultMaxLayover = graph.DefaultMaxLayover

	// DefaultMinDwell is the minimum stay at the destination of a round trip.
	DefaultMinDwell = search.DefaultMinDwell

	// DefaultCacheTTL is how long search results stay cached.
	DefaultCacheTTL = cache.TTLSearch
)

// Format constants for route output.
const (
	FormatJSON  = "json"
	FormatTable = "table"
)

// ValidFormats is the set of supported route output formats.
var ValidFormats = map[string]bool{
	FormatJSON:  true,
	FormatTable: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one search.
type Options struct {
	// Load options
	Dataset string `json:"dataset,omitempty"`

	// Search options
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Bags        int    `json:"bags"`
	RoundTrip   bool   `json:"return,omitempty"`

	// Graph and trip tuning; zero values select the defaults.
	MinLayover time.Duration `json:"min_layover,omitempty"`
	MaxLayover time.Duration `json:"max_layover,omitempty"`
	MinDwell   time.Duration `json:"min_dwell,omitempty"`
	Workers    int           `json:"workers,omitempty"`

	// Refresh skips the cache lookup; the fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Logger overrides the runner's logger for this search.
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies this search in logs and API responses.
	ID string

	// Routes is sorted by total price, cheapest first.
	Routes []rfio.RouteRecord

	// DatasetHash is the content hash of the searched schedule.
	DatasetHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether Routes came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics. Graph fields are zero on a
// cache hit.
type Stats struct {
	Flights    int
	Nodes      int
	Edges      int
	Routes     int
	LoadTime   time.Duration
	BuildTime  time.Duration
	SearchTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a route output format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return rferrors.New(rferrors.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, table)", format)
	}
	return nil
}

// ValidateLayoverWindow checks a layover window after defaults are applied.
func ValidateLayoverWindow(min, max time.Duration) error {
	if min < 0 {
		return rferrors.New(rferrors.ErrCodeInvalidInput, "minimum layover cannot be negative: %s", min)
	}
	if min > max {
		return rferrors.New(rferrors.ErrCodeInvalidInput, "minimum layover %s exceeds maximum %s", min, max)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the query and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForSearch(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForSearch checks the fields a search needs. The dataset is not
// required, [Runner.Search] receives it already loaded.
func (o *Options) ValidateForSearch() error {
	if err := rferrors.ValidateRoute(o.Origin, o.Destination); err != nil {
		return err
	}
	if err := rferrors.ValidateBags(o.Bags); err != nil {
		return err
	}
	o.SetGraphDefaults()
	if err := ValidateLayoverWindow(o.MinLayover, o.MaxLayover); err != nil {
		return err
	}
	if o.MinDwell < 0 {
		return rferrors.New(rferrors.ErrCodeInvalidInput, "minimum dwell cannot be negative: %s", o.MinDwell)
	}
	if o.MinDwell == 0 {
		o.MinDwell = DefaultMinDwell
	}
	if o.Workers < 0 {
		return rferrors.New(rferrors.ErrCodeInvalidInput, "workers cannot be negative: %d", o.Workers)
	}
	return nil
}

// SetGraphDefaults fills unset layover bounds.
func (o *Options) SetGraphDefaults() {
	if o.MinLayover == 0 {
		o.MinLayover = DefaultMinLayover
	}
	if o.MaxLayover == 0 {
		o.MaxLayover = DefaultMaxLayover
	}
}

// Trip returns the search request described by o.
func (o *Options) Trip() search.Trip {
	return search.Trip{
		Origin:      o.Origin,
		Destination: o.Destination,
		Bags:        o.Bags,
		RoundTrip:   o.RoundTrip,
	}
}

// SearchKeyOpts returns cache key options for the search.
func (o *Options) SearchKeyOpts() cache.SearchKeyOpts {
	return cache.SearchKeyOpts{
		Origin:      o.Origin,
		Destination: o.Destination,
		Bags:        o.Bags,
		RoundTrip:   o.RoundTrip,
		MinLayover:  o.MinLayover,
		MaxLayover:  o.MaxLayover,
		MinDwell:    o.MinDwell,
	}
}

// SortByPrice orders routes by total price, cheapest first. Routes with the
// same price keep their search order.
func SortByPrice(routes []rfio.RouteRecord) {
	slices.SortStableFunc(routes, func(a, b rfio.RouteRecord) int {
		return cmp.Compare(a.TotalPrice, b.TotalPrice)
	})
}
