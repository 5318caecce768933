package typedesc

import (
	"sort"
	"sync"
)

var (
	regMu    sync.RWMutex
	registry = map[string]Descriptor{}
)

// Register binds a descriptor to a type keyword, replacing any previous
// binding. Registration normally happens during init; the registry is
// effectively read-only afterwards.
func Register(keyword string, d Descriptor) {
	if keyword == "" || d == nil {
		return
	}
	regMu.Lock()
	registry[keyword] = d
	regMu.Unlock()
}

// Lookup resolves a type keyword to its descriptor.
func Lookup(keyword string) (Descriptor, bool) {
	regMu.RLock()
	d, ok := registry[keyword]
	regMu.RUnlock()
	return d, ok
}

// Keywords returns the registered keywords, sorted, for hints and docs.
func Keywords() []string {
	regMu.RLock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	regMu.RUnlock()
	sort.Strings(out)
	return out
}
