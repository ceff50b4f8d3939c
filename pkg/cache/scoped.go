package cache

// ScopedKeyer wraps a Keyer with a prefix so that runs sharing one cache
// keep separate namespaces. Watch mode scopes each session by run id so a
// restarted watcher never serves a previous session's output.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "run:"+runID+":")
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

// ArtifactKey generates a prefixed key for a rendered figure.
func (k *ScopedKeyer) ArtifactKey(blockHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(blockHash, opts)
}
