package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis database without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "pipeviz:v1:")
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

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(example string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(example, opts)
}
