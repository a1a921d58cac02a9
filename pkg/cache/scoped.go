package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis database without colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "glitchid:prod:")
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

// RenderKey generates a prefixed key for an encoded render.
func (k *ScopedKeyer) RenderKey(opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(opts)
}
