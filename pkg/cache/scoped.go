package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving callers that share
// a backend separate namespaces:
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "waypoint:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer selects
// the default one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SearchKey returns the prefixed search key.
func (k *ScopedKeyer) SearchKey(graphHash string, opts SearchKeyOpts) string {
	return k.prefix + k.inner.SearchKey(graphHash, opts)
}

// RenderKey returns the prefixed render key.
func (k *ScopedKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(graphHash, opts)
}
