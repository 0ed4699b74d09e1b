package cache

// Keyer derives cache keys for stored measurements.
type Keyer interface {
	// MeasureKey returns the key for the measurement of one image file.
	MeasureKey(contentHash string, opts MeasureKeyOpts) string
}

// MeasureKeyOpts holds every option that changes a measurement.
// Zero caps mean "no cap".
type MeasureKeyOpts struct {
	MaxWidth  int `json:"max_width"`
	MaxHeight int `json:"max_height"`
	Margin    int `json:"margin"`
}

// DefaultKeyer produces content-addressed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// MeasureKey hashes the content hash together with the sizing options.
func (DefaultKeyer) MeasureKey(contentHash string, opts MeasureKeyOpts) string {
	return hashKey("measure", contentHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix, so several tools or tenants can
// share one Redis instance without colliding.
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

// MeasureKey generates a prefixed measurement key.
func (k *ScopedKeyer) MeasureKey(contentHash string, opts MeasureKeyOpts) string {
	return k.prefix + k.inner.MeasureKey(contentHash, opts)
}
