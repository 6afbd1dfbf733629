package components

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrEmptyPrefix    = errors.New("component prefix is empty")
	ErrPrefixConflict = errors.New("component prefix conflicts with a registered prefix")
)

// Registry maps custom id prefixes to handlers. Prefixes may not overlap,
// so at most one handler owns any custom id. Ids matching no prefix are not
// ours and are left alone.
type Registry[H any] struct {
	mu       sync.RWMutex
	handlers map[string]H
	prefixes []string
}

func NewRegistry[H any]() *Registry[H] {
	return &Registry[H]{handlers: map[string]H{}}
}

func (r *Registry[H]) Register(prefix string, handler H) error {
	return r.RegisterAll(map[string]H{prefix: handler})
}

// RegisterAll registers every handler or none of them.
func (r *Registry[H]) RegisterAll(handlers map[string]H) error {
	incoming := make([]string, 0, len(handlers))
	for prefix := range handlers {
		if prefix == "" {
			return ErrEmptyPrefix
		}
		incoming = append(incoming, prefix)
	}
	sort.Strings(incoming)

	r.mu.Lock()
	defer r.mu.Unlock()
	for n, prefix := range incoming {
		for _, existing := range r.prefixes {
			if overlaps(prefix, existing) {
				return fmt.Errorf("%w: %q vs %q", ErrPrefixConflict, prefix, existing)
			}
		}
		for _, other := range incoming[n+1:] {
			if overlaps(prefix, other) {
				return fmt.Errorf("%w: %q vs %q", ErrPrefixConflict, other, prefix)
			}
		}
	}
	for _, prefix := range incoming {
		r.handlers[prefix] = handlers[prefix]
	}
	r.prefixes = append(r.prefixes, incoming...)
	sort.Strings(r.prefixes)
	return nil
}

func overlaps(a, b string) bool {
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}

func (r *Registry[H]) Lookup(customID string) (H, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, prefix := range r.prefixes {
		if strings.HasPrefix(customID, prefix) {
			return r.handlers[prefix], true
		}
	}
	var zero H
	return zero, false
}

func (r *Registry[H]) Prefixes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.prefixes...)
}
