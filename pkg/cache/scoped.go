package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis database:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SearchKey generates a prefixed search result key.
func (k *ScopedKeyer) SearchKey(datasetHash string, opts SearchKeyOpts) string {
	return k.prefix + k.inner.SearchKey(datasetHash, opts)
}
