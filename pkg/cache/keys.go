package cache

import "time"

// Keyer derives cache keys.
type Keyer interface {
	// SearchKey returns the key of a search result for a dataset.
	SearchKey(datasetHash string, opts SearchKeyOpts) string
}

// SearchKeyOpts holds every query option that changes a search result.
type SearchKeyOpts struct {
	Origin      string        `json:"origin"`
	Destination string        `json:"destination"`
	Bags        int           `json:"bags"`
	RoundTrip   bool          `json:"round_trip"`
	MinLayover  time.Duration `json:"min_layover"`
	MaxLayover  time.Duration `json:"max_layover"`
	MinDwell    time.Duration `json:"min_dwell"`
}

// DefaultKeyer produces "search:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SearchKey hashes the dataset fingerprint with opts.
func (DefaultKeyer) SearchKey(datasetHash string, opts SearchKeyOpts) string {
	return hashKey("search", datasetHash, opts)
}
