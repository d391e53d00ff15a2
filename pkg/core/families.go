package core

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/joeydtaylor/steeze-codec/pkg/core/transform"
	manifest "github.com/joeydtaylor/steeze-codec/pkg/manifest"
	"github.com/joeydtaylor/steeze-codec/pkg/variant"
)

var (
	famMu    sync.RWMutex
	families = map[string]variant.Family{}
	baseName = map[reflect.Type]string{}
)

// RegisterFamily publishes a codec under a name that manifests refer to.
// A name or base type may only be registered once.
func RegisterFamily[B any](name string, c *variant.Codec[B]) error {
	name = strings.TrimSpace(name)
	if name == "" || c == nil {
		return &variant.ConfigurationError{Base: reflect.TypeOf((*B)(nil)).Elem(), Reason: "family name and codec required"}
	}
	famMu.Lock()
	defer famMu.Unlock()
	if _, dup := families[name]; dup {
		return &variant.ConfigurationError{Base: c.Base(), Reason: fmt.Sprintf("family %q already registered", name)}
	}
	if other, dup := baseName[c.Base()]; dup {
		return &variant.ConfigurationError{Base: c.Base(), Reason: fmt.Sprintf("base type already registered as family %q", other)}
	}
	families[name] = c
	baseName[c.Base()] = name
	return nil
}

func MustRegisterFamily[B any](name string, c *variant.Codec[B]) {
	if err := RegisterFamily(name, c); err != nil {
		panic(err)
	}
}

// LookupFamily returns the family registered under name.
func LookupFamily(name string) (variant.Family, bool) {
	famMu.RLock()
	defer famMu.RUnlock()
	f, ok := families[name]
	return f, ok
}

// FamilyFor returns the family whose base type is t.
func FamilyFor(t reflect.Type) (string, variant.Family, bool) {
	famMu.RLock()
	defer famMu.RUnlock()
	name, ok := baseName[t]
	if !ok {
		return "", nil, false
	}
	return name, families[name], true
}

// Families lists registered family names, sorted.
func Families() []string {
	famMu.RLock()
	defer famMu.RUnlock()
	out := make([]string, 0, len(families))
	for n := range families {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

type refs struct{}

func (refs) HasFamily(name string) bool              { _, ok := LookupFamily(name); return ok }
func (refs) HasTransformer(family, name string) bool { return transform.Has(family, name) }
func (refs) HasHandler(name string) bool             { _, ok := Lookup(name); return ok }

// Refs exposes the process registries to manifest validation.
func Refs() manifest.Resolver { return refs{} }
