// Package transform holds named value transformers per variant family.
package transform

import (
	"fmt"
	"sort"
	"sync"
)

// Transformer rewrites a decoded value of the family's base type B.
type Transformer[B any] func(B) (B, error)

type entry struct {
	typed  any
	erased func(any) (any, error)
}

var (
	mu  sync.RWMutex
	reg = map[string]map[string]entry{} // family -> name -> transformer
)

// Register binds a named transformer to a family. It panics on empty
// arguments or a duplicate name, like the other setup-time registries.
func Register[B any](family, name string, fn Transformer[B]) {
	if family == "" || name == "" || fn == nil {
		panic("transform: family, name, fn required")
	}
	mu.Lock()
	defer mu.Unlock()
	m, ok := reg[family]
	if !ok {
		m = make(map[string]entry)
		reg[family] = m
	}
	if _, dup := m[name]; dup {
		panic("transform: duplicate " + family + "/" + name)
	}
	m[name] = entry{
		typed: fn,
		erased: func(v any) (any, error) {
			b, ok := v.(B)
			if !ok && v != nil {
				return nil, fmt.Errorf("transform: %s/%s: value of type %T is not a %s value", family, name, v, family)
			}
			return fn(b)
		},
	}
}

// Resolve returns the transformers for B in the order requested.
func Resolve[B any](family string, names []string) ([]Transformer[B], error) {
	mu.RLock()
	defer mu.RUnlock()
	m := reg[family]
	out := make([]Transformer[B], 0, len(names))
	for _, n := range names {
		e, ok := m[n]
		if !ok {
			return nil, fmt.Errorf("transform: %q not found in %q", n, family)
		}
		fn, ok := e.typed.(Transformer[B])
		if !ok {
			return nil, fmt.Errorf("transform: type mismatch for %q in %q", n, family)
		}
		out = append(out, fn)
	}
	return out, nil
}

// Apply runs the named transformers in order on v, which must hold a value
// of the family's base type.
func Apply(family string, v any, names []string) (any, error) {
	mu.RLock()
	m := reg[family]
	steps := make([]func(any) (any, error), 0, len(names))
	for _, n := range names {
		e, ok := m[n]
		if !ok {
			mu.RUnlock()
			return nil, fmt.Errorf("transform: %q not found in %q", n, family)
		}
		steps = append(steps, e.erased)
	}
	mu.RUnlock()

	cur := v
	for i, step := range steps {
		next, err := step(cur)
		if err != nil {
			return nil, fmt.Errorf("transform %q: %w", names[i], err)
		}
		cur = next
	}
	return cur, nil
}

// Has reports whether family has a transformer called name.
func Has(family, name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := reg[family][name]
	return ok
}

// Names lists the transformers registered for family, sorted.
func Names(family string) []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(reg[family]))
	for n := range reg[family] {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
