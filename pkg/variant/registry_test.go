package variant

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lookups(t *testing.T) {
	r := require.New(t)
	reg := NewRegistry[Shape]()
	r.NoError(reg.Register(Circle{}, "circle"))
	r.NoError(reg.Register(&Polygon{}, "polygon"))

	typ, ok := reg.TypeFor("circle")
	r.True(ok)
	r.Equal(reflect.TypeOf((*Circle)(nil)).Elem(), typ)

	label, ok := reg.LabelFor(reflect.TypeOf((**Polygon)(nil)).Elem())
	r.True(ok)
	r.Equal("polygon", label)

	label, ok = reg.LabelOf(Circle{Radius: 3})
	r.True(ok)
	r.Equal("circle", label)

	_, ok = reg.TypeFor("Circle")
	r.False(ok, "labels are case-sensitive")
	_, ok = reg.LabelOf(nil)
	r.False(ok)

	r.Equal([]string{"circle", "polygon"}, reg.Labels())
	r.Equal(2, reg.Len())
	r.Equal(reflect.TypeOf((*Shape)(nil)).Elem(), reg.Base())
}

func TestRegistry_DefaultLabel(t *testing.T) {
	reg := NewRegistry[Shape]()
	require.NoError(t, reg.Register(Square{}, ""))
	require.NoError(t, reg.Register(&Polygon{}, ""))

	assert.Equal(t, []string{"Square", "Polygon"}, reg.Labels())
	assert.Equal(t, "map[string]int", DefaultLabel(reflect.TypeOf((*map[string]int)(nil)).Elem()))
}

func TestRegistry_DuplicateLabel(t *testing.T) {
	reg := NewRegistry[Shape]()
	reg.MustRegister(Circle{}, "round")

	err := reg.Register(Square{}, "round")
	require.ErrorIs(t, err, ErrConfiguration)
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "round", ce.Label)

	_, ok := reg.LabelFor(reflect.TypeOf((*Square)(nil)).Elem())
	assert.False(t, ok)
	assert.Equal(t, []string{"round"}, reg.Labels())
}

func TestRegistry_DuplicateType(t *testing.T) {
	reg := NewRegistry[Shape]()
	reg.MustRegister(Circle{}, "circle")

	err := reg.Register(Circle{Radius: 1}, "disc")
	require.ErrorIs(t, err, ErrConfiguration)

	_, ok := reg.TypeFor("disc")
	assert.False(t, ok)
	label, _ := reg.LabelFor(reflect.TypeOf((*Circle)(nil)).Elem())
	assert.Equal(t, "circle", label)
}

func TestRegistry_RegisterAllIsAllOrNothing(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry[Shape]
	}{
		{
			name: "duplicate label inside batch",
			entries: []Entry[Shape]{
				{Label: "a", Prototype: Square{}},
				{Label: "a", Prototype: Triangle{}},
			},
		},
		{
			name: "duplicate type inside batch",
			entries: []Entry[Shape]{
				{Label: "a", Prototype: Square{}},
				{Label: "b", Prototype: Square{}},
			},
		},
		{
			name: "clash with existing entry",
			entries: []Entry[Shape]{
				{Label: "a", Prototype: Square{}},
				{Label: "circle", Prototype: Triangle{}},
			},
		},
		{
			name: "nil prototype",
			entries: []Entry[Shape]{
				{Label: "a", Prototype: Square{}},
				{Label: "b"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry[Shape]()
			reg.MustRegister(Circle{}, "circle")

			err := reg.RegisterAll(tt.entries...)
			require.ErrorIs(t, err, ErrConfiguration)
			assert.Equal(t, []string{"circle"}, reg.Labels())
			_, ok := reg.TypeFor("a")
			assert.False(t, ok)
		})
	}
}

func TestRegistry_FrozenByCodec(t *testing.T) {
	reg := NewRegistry[Shape]()
	reg.MustRegister(Circle{}, "circle")
	require.False(t, reg.Frozen())

	_, err := NewCodec(reg)
	require.NoError(t, err)
	require.True(t, reg.Frozen())

	err = reg.Register(Square{}, "square")
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, 1, reg.Len())

	clone := reg.Clone()
	require.False(t, clone.Frozen())
	require.NoError(t, clone.Register(Square{}, "square"))
	assert.Equal(t, []string{"circle", "square"}, clone.Labels())
	assert.Equal(t, []string{"circle"}, reg.Labels())
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	reg := NewRegistry[Shape]()
	reg.MustRegister(Circle{}, "circle")
	assert.Panics(t, func() { reg.MustRegister(Circle{}, "other") })
	assert.Panics(t, func() {
		reg.MustRegisterAll(Entry[Shape]{Label: "circle", Prototype: Square{}})
	})
}

func TestRegistry_AnyBase(t *testing.T) {
	reg := NewRegistry[any]()
	reg.MustRegister(map[string]int{}, "counts")
	c, err := NewCodec(reg, WithKeepDiscriminator(true))
	require.NoError(t, err)

	v, err := c.Decode([]byte(`{"type":"counts","a":1}`))
	require.Error(t, err, "the kept string tag cannot decode into an int map")
	assert.Nil(t, v)

	out, err := c.Encode(map[string]int{"b": 2, "a": 1})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"counts","a":1,"b":2}`, string(out))
}
