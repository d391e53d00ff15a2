package core

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/joeydtaylor/steeze-codec/pkg/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamilies_Lookup(t *testing.T) {
	fam, ok := LookupFamily("shape")
	require.True(t, ok)
	assert.Equal(t, []string{"circle", "square"}, fam.Labels())

	name, byBase, ok := FamilyFor(reflect.TypeOf((*Shape)(nil)).Elem())
	require.True(t, ok)
	assert.Equal(t, "shape", name)
	assert.Same(t, fam.(*variant.Codec[Shape]), byBase.(*variant.Codec[Shape]))

	assert.Contains(t, Families(), "shape")
	_, ok = LookupFamily("nope")
	assert.False(t, ok)
}

type Other interface{ Other() }

type otherImpl struct{}

func (otherImpl) Other() {}

func TestFamilies_Duplicates(t *testing.T) {
	reg := variant.NewRegistry[Shape]()
	reg.MustRegister(Circle{}, "")
	err := RegisterFamily("shape-again", variant.MustNewCodec(reg))
	require.ErrorIs(t, err, variant.ErrConfiguration)
	assert.Contains(t, err.Error(), `already registered as family "shape"`)

	oreg := variant.NewRegistry[Other]()
	oreg.MustRegister(otherImpl{}, "o")
	err = RegisterFamily("shape", variant.MustNewCodec(oreg))
	require.ErrorIs(t, err, variant.ErrConfiguration)

	require.ErrorIs(t, RegisterFamily[Other]("", nil), variant.ErrConfiguration)
	assert.Panics(t, func() { MustRegisterFamily[Other](" ", nil) })
}

type drawing struct {
	Title  string           `json:"title"`
	Main   Variant[Shape]   `json:"main"`
	Extras []Variant[Shape] `json:"extras"`
}

func TestVariant_EmbeddedRoundTrip(t *testing.T) {
	in := drawing{
		Title:  "d",
		Main:   Variant[Shape]{V: Circle{Radius: 1}},
		Extras: []Variant[Shape]{{V: Square{Side: 2}}, {}},
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"d","main":{"type":"circle","radius":1},"extras":[{"type":"square","side":2},null]}`, string(b))

	var out drawing
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestVariant_Errors(t *testing.T) {
	var d drawing
	err := json.Unmarshal([]byte(`{"main":{"type":"hexagon"}}`), &d)
	require.ErrorIs(t, err, variant.ErrUnregisteredLabel)

	_, err = json.Marshal(Variant[Shape]{V: Hexagon{}})
	require.ErrorIs(t, err, variant.ErrUnregisteredType)

	_, err = json.Marshal(Variant[Other]{V: otherImpl{}})
	require.ErrorIs(t, err, variant.ErrConfiguration)
	var o Variant[Other]
	require.ErrorIs(t, json.Unmarshal([]byte(`{"type":"o"}`), &o), variant.ErrConfiguration)
}

func TestRefs(t *testing.T) {
	r := Refs()
	assert.True(t, r.HasFamily("shape"))
	assert.False(t, r.HasFamily("shapes"))
	assert.True(t, r.HasTransformer("shape", "double"))
	assert.False(t, r.HasTransformer("shape", "triple"))
	assert.True(t, r.HasHandler("echo"))
	assert.False(t, r.HasHandler("nope"))
}
