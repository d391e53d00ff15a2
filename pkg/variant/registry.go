package variant

import (
	"maps"
	"reflect"
	"slices"
	"sync"
)

// Registry is a bidirectional label <-> concrete type map for one base type B.
// It accepts registrations until the first Codec is built from it.
type Registry[B any] struct {
	mu      sync.RWMutex
	base    reflect.Type
	byLabel map[string]reflect.Type
	byType  map[reflect.Type]string
	order   []string
	frozen  bool
}

// Entry is one batch registration for RegisterAll. An empty Label defaults to
// the concrete type's short name.
type Entry[B any] struct {
	Label     string
	Prototype B
}

// NewRegistry creates an empty registry for base type B.
func NewRegistry[B any]() *Registry[B] {
	return &Registry[B]{
		base:    reflect.TypeOf((*B)(nil)).Elem(),
		byLabel: make(map[string]reflect.Type),
		byType:  make(map[reflect.Type]string),
	}
}

// Base returns the base type of the family.
func (r *Registry[B]) Base() reflect.Type { return r.base }

// Register binds label to the runtime type of prototype.
func (r *Registry[B]) Register(prototype B, label string) error {
	return r.RegisterAll(Entry[B]{Label: label, Prototype: prototype})
}

// MustRegister is Register that panics on error.
func (r *Registry[B]) MustRegister(prototype B, label string) {
	if err := r.Register(prototype, label); err != nil {
		panic(err)
	}
}

// RegisterAll registers every entry or none of them. Entries are checked in
// order against the registry and against earlier entries of the same batch;
// the first duplicate is returned.
func (r *Registry[B]) RegisterAll(entries ...Entry[B]) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return &ConfigurationError{Base: r.base, Reason: "registry is frozen; register every subtype before building a codec"}
	}

	type binding struct {
		label string
		typ   reflect.Type
	}
	pending := make([]binding, 0, len(entries))
	labels := make(map[string]reflect.Type, len(entries))
	types := make(map[reflect.Type]string, len(entries))

	for _, e := range entries {
		t := reflect.TypeOf(any(e.Prototype))
		if t == nil {
			return &ConfigurationError{Base: r.base, Label: e.Label, Reason: "nil prototype"}
		}
		label := e.Label
		if label == "" {
			label = DefaultLabel(t)
		}
		if prev, ok := r.byLabel[label]; ok {
			return &ConfigurationError{Base: r.base, Label: label, Type: prev, Reason: "label is already registered"}
		}
		if prev, ok := labels[label]; ok {
			return &ConfigurationError{Base: r.base, Label: label, Type: prev, Reason: "label is registered twice in batch"}
		}
		if prev, ok := r.byType[t]; ok {
			return &ConfigurationError{Base: r.base, Label: prev, Type: t, Reason: "type is already registered"}
		}
		if prev, ok := types[t]; ok {
			return &ConfigurationError{Base: r.base, Label: prev, Type: t, Reason: "type is registered twice in batch"}
		}
		labels[label] = t
		types[t] = label
		pending = append(pending, binding{label: label, typ: t})
	}

	for _, b := range pending {
		r.byLabel[b.label] = b.typ
		r.byType[b.typ] = b.label
		r.order = append(r.order, b.label)
	}
	return nil
}

// MustRegisterAll is RegisterAll that panics on error.
func (r *Registry[B]) MustRegisterAll(entries ...Entry[B]) {
	if err := r.RegisterAll(entries...); err != nil {
		panic(err)
	}
}

// TypeFor returns the concrete type registered under label.
func (r *Registry[B]) TypeFor(label string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byLabel[label]
	return t, ok
}

// LabelFor returns the label registered for the concrete type t.
func (r *Registry[B]) LabelFor(t reflect.Type) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.byType[t]
	return l, ok
}

// LabelOf returns the label of v's runtime type.
func (r *Registry[B]) LabelOf(v B) (string, bool) {
	t := reflect.TypeOf(any(v))
	if t == nil {
		return "", false
	}
	return r.LabelFor(t)
}

// Labels returns the registered labels in registration order.
func (r *Registry[B]) Labels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Len returns the number of registered subtypes.
func (r *Registry[B]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Freeze stops further registration. It is idempotent.
func (r *Registry[B]) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether the registry still accepts registrations.
func (r *Registry[B]) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Clone returns an unfrozen copy that can be extended independently.
func (r *Registry[B]) Clone() *Registry[B] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Registry[B]{
		base:    r.base,
		byLabel: maps.Clone(r.byLabel),
		byType:  maps.Clone(r.byType),
		order:   slices.Clone(r.order),
	}
}

// DefaultLabel is the label used when none is supplied: the short name of the
// type with pointers removed.
func DefaultLabel(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if n := t.Name(); n != "" {
		return n
	}
	return t.String()
}
