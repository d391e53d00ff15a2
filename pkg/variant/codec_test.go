package variant

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/joeydtaylor/steeze-codec/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Shape interface {
	Area() float64
}

type Circle struct {
	Radius int `json:"radius"`
}

func (c Circle) Area() float64 { return math.Pi * float64(c.Radius*c.Radius) }

type Square struct {
	Side int `json:"side"`
}

func (s Square) Area() float64 { return float64(s.Side * s.Side) }

type Triangle struct {
	Base   int `json:"base"`
	Height int `json:"height"`
}

func (t Triangle) Area() float64 { return float64(t.Base*t.Height) / 2 }

type Polygon struct {
	Name   string `json:"name"`
	Points []int  `json:"points,omitempty"`
}

func (p *Polygon) Area() float64 { return 0 }

// Labelled declares the discriminator itself.
type Labelled struct {
	Type string `json:"type"`
	Note string `json:"note"`
}

func (Labelled) Area() float64 { return 0 }

func newShapes(t *testing.T, opts ...Option) *Codec[Shape] {
	t.Helper()
	reg := NewRegistry[Shape]()
	require.NoError(t, reg.RegisterAll(
		Entry[Shape]{Label: "circle", Prototype: Circle{}},
		Entry[Shape]{Label: "square", Prototype: Square{}},
		Entry[Shape]{Label: "polygon", Prototype: &Polygon{}},
	))
	c, err := NewCodec(reg, opts...)
	require.NoError(t, err)
	return c
}

func TestCodec_Example(t *testing.T) {
	c := newShapes(t)

	out, err := c.Encode(Circle{Radius: 5})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"circle","radius":5}`, string(out))

	v, err := c.Decode([]byte(`{"type":"square","side":3}`))
	require.NoError(t, err)
	assert.Equal(t, Square{Side: 3}, v)

	_, err = c.Decode([]byte(`{"type":"triangle","base":1,"height":2}`))
	require.ErrorIs(t, err, ErrUnregisteredLabel)
	var ule *UnregisteredLabelError
	require.ErrorAs(t, err, &ule)
	assert.Equal(t, "triangle", ule.Label)
	assert.Contains(t, err.Error(), "did you forget to register a subtype?")
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newShapes(t)
	tests := []struct {
		name string
		in   Shape
	}{
		{"circle", Circle{Radius: 7}},
		{"square", Square{Side: 0}},
		{"pointer polygon", &Polygon{Name: "zig", Points: []int{1, 2, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := c.Encode(tt.in)
			require.NoError(t, err)
			out, err := c.Decode(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.in, out)
		})
	}
}

func TestCodec_EncodeKeepsFieldOrder(t *testing.T) {
	c := newShapes(t)
	out, err := c.Encode(&Polygon{Name: "p", Points: []int{4}})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"polygon","name":"p","points":[4]}`, string(out))
}

func TestCodec_EncodeDoesNotEscapeHTML(t *testing.T) {
	c := newShapes(t)
	out, err := c.Encode(&Polygon{Name: "<a&b>"})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"polygon","name":"<a&b>"}`, string(out))

	raw, err := c.EncodeSlice([]Shape{&Polygon{Name: "x>y"}})
	require.NoError(t, err)
	assert.Equal(t, `[{"type":"polygon","name":"x>y"}]`, string(raw))

	back, err := c.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, &Polygon{Name: "<a&b>"}, back)
}

func TestCodec_GoJSONEngine(t *testing.T) {
	c := newShapes(t, WithEngine(codec.GoJSON))
	out, err := c.Encode(Circle{Radius: 5})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"circle","radius":5}`, string(out))

	v, err := c.Decode([]byte(`{"radius":2,"extra":true,"type":"circle"}`))
	require.NoError(t, err)
	assert.Equal(t, Circle{Radius: 2}, v)
}

func TestCodec_EncodeIsDeterministic(t *testing.T) {
	c := newShapes(t)
	v := &Polygon{Name: "same", Points: []int{3, 1, 2}}
	first, err := c.Encode(v)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := c.Encode(v)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCodec_MissingDiscriminator(t *testing.T) {
	c := newShapes(t)
	_, err := c.Decode([]byte(`{"x":1}`))
	require.ErrorIs(t, err, ErrMissingDiscriminator)
	var mde *MissingDiscriminatorError
	require.ErrorAs(t, err, &mde)
	assert.Equal(t, "type", mde.Field)
	assert.Equal(t, reflect.TypeOf((*Shape)(nil)).Elem(), mde.Base)
}

func TestCodec_MalformedDiscriminator(t *testing.T) {
	c := newShapes(t)
	for _, in := range []string{`{"type":1}`, `{"type":null}`, `{"type":["circle"]}`, `{"type":{"name":"circle"}}`} {
		t.Run(in, func(t *testing.T) {
			_, err := c.Decode([]byte(in))
			require.ErrorIs(t, err, ErrMalformedDiscriminator)
		})
	}
}

func TestCodec_MalformedPayload(t *testing.T) {
	c := newShapes(t)
	for _, in := range []string{`[{"type":"circle"}]`, `"circle"`, `{"type":`} {
		t.Run(in, func(t *testing.T) {
			_, err := c.Decode([]byte(in))
			require.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestCodec_UnregisteredType(t *testing.T) {
	c := newShapes(t)

	_, err := c.Encode(Triangle{Base: 1, Height: 2})
	require.ErrorIs(t, err, ErrUnregisteredType)
	var ute *UnregisteredTypeError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, reflect.TypeOf((*Triangle)(nil)).Elem(), ute.Type)

	// Registered as a pointer; the value form is a different runtime type.
	_, err = c.EncodeAny(Polygon{Name: "value"})
	require.ErrorIs(t, err, ErrUnregisteredType)
}

func TestCodec_DiscriminatorCollision(t *testing.T) {
	reg := NewRegistry[Shape]()
	reg.MustRegister(Labelled{}, "labelled")
	c, err := NewCodec(reg)
	require.NoError(t, err)

	_, err = c.Encode(Labelled{Type: "labelled", Note: "n"})
	require.ErrorIs(t, err, ErrDiscriminatorCollision)
	require.ErrorIs(t, err, ErrConfiguration)
	var dce *DiscriminatorCollisionError
	require.ErrorAs(t, err, &dce)
	assert.Equal(t, "type", dce.Field)
}

func TestCodec_NestedDecodeErrorsPropagate(t *testing.T) {
	c := newShapes(t)

	_, err := c.Decode([]byte(`{"type":"circle","radius":"big"}`))
	require.Error(t, err)
	var typeErr *json.UnmarshalTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.False(t, errors.Is(err, ErrMalformedPayload))

	// Strict engine, discriminator stripped: unknown payload keys still fail.
	_, err = c.Decode([]byte(`{"type":"circle","radius":1,"colour":"red"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")
}

func TestCodec_DecodeDoesNotModifyInput(t *testing.T) {
	c := newShapes(t)
	obj, err := codec.ParseObject([]byte(`{"type":"square","side":2}`))
	require.NoError(t, err)

	v, err := c.DecodeObject(obj)
	require.NoError(t, err)
	assert.Equal(t, Square{Side: 2}, v)
	_, ok := obj.Get("type")
	assert.True(t, ok)
}

func TestCodec_DiscriminatorAnywhereInObject(t *testing.T) {
	c := newShapes(t)
	v, err := c.Decode([]byte(`{"side":9,"type":"square"}`))
	require.NoError(t, err)
	assert.Equal(t, Square{Side: 9}, v)
}

func TestCodec_CustomDiscriminator(t *testing.T) {
	c := newShapes(t, WithDiscriminator("kind"))

	out, err := c.Encode(Square{Side: 4})
	require.NoError(t, err)
	assert.Equal(t, `{"kind":"square","side":4}`, string(out))

	_, err = c.Decode([]byte(`{"type":"square","side":4}`))
	require.ErrorIs(t, err, ErrMissingDiscriminator)
}

func TestCodec_KeepDiscriminator(t *testing.T) {
	t.Run("strict engine rejects types without the field", func(t *testing.T) {
		reg := NewRegistry[Shape]()
		reg.MustRegister(Circle{}, "circle")
		_, err := NewCodec(reg, WithKeepDiscriminator(true))
		require.ErrorIs(t, err, ErrConfiguration)

		// A rejected setup leaves the registry open for correction.
		assert.False(t, reg.Frozen())
		require.NoError(t, reg.Register(Labelled{}, "labelled"))
		_, err = NewCodec(reg, WithKeepDiscriminator(true), WithEngine(codec.JSONLenient))
		require.NoError(t, err)
		assert.True(t, reg.Frozen())
	})

	t.Run("strict engine with declared field", func(t *testing.T) {
		reg := NewRegistry[Shape]()
		reg.MustRegister(Labelled{}, "labelled")
		c, err := NewCodec(reg, WithKeepDiscriminator(true))
		require.NoError(t, err)

		v, err := c.Decode([]byte(`{"type":"labelled","note":"kept"}`))
		require.NoError(t, err)
		assert.Equal(t, Labelled{Type: "labelled", Note: "kept"}, v)

		out, err := c.Encode(v)
		require.NoError(t, err)
		assert.Equal(t, `{"type":"labelled","note":"kept"}`, string(out))

		out, err = c.Encode(Labelled{Note: "unset"})
		require.NoError(t, err)
		assert.Equal(t, `{"type":"labelled","note":"unset"}`, string(out))

		_, err = c.Encode(Labelled{Type: "other"})
		require.ErrorIs(t, err, ErrDiscriminatorCollision)
	})

	t.Run("lenient engine tolerates the extra key", func(t *testing.T) {
		c := newShapes(t, WithKeepDiscriminator(true), WithEngine(codec.JSONLenient))
		v, err := c.Decode([]byte(`{"type":"circle","radius":2}`))
		require.NoError(t, err)
		assert.Equal(t, Circle{Radius: 2}, v)
	})
}

func TestCodec_Null(t *testing.T) {
	c := newShapes(t)

	out, err := c.Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	out, err = c.Encode((*Polygon)(nil))
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	v, err := c.Decode([]byte(" null"))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCodec_Slice(t *testing.T) {
	c := newShapes(t)
	in := []Shape{Circle{Radius: 1}, Square{Side: 2}, nil}

	raw, err := c.EncodeSlice(in)
	require.NoError(t, err)
	assert.Equal(t, `[{"type":"circle","radius":1},{"type":"square","side":2},null]`, string(raw))

	out, err := c.DecodeSlice(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = c.DecodeSlice([]byte(`[{"type":"circle","radius":1},{"type":"hexagon"}]`))
	require.ErrorIs(t, err, ErrUnregisteredLabel)
	assert.Contains(t, err.Error(), "element 1")
}

func TestCodec_Observer(t *testing.T) {
	type call struct {
		op    Op
		label string
		ok    bool
	}
	var calls []call
	c := newShapes(t, WithObserver(func(op Op, label string, err error) {
		calls = append(calls, call{op: op, label: label, ok: err == nil})
	}))

	_, _ = c.Encode(Circle{Radius: 1})
	_, _ = c.Decode([]byte(`{"type":"nope"}`))

	assert.Equal(t, []call{
		{OpEncode, "circle", true},
		{OpDecode, "nope", false},
	}, calls)
}

func TestCodec_AnyAdapters(t *testing.T) {
	c := newShapes(t)
	var f Family = c

	obj, err := f.EncodeAny(Square{Side: 1})
	require.NoError(t, err)
	raw, err := obj.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"type":"square","side":1}`, string(raw))

	_, err = f.EncodeAny("not a shape")
	require.ErrorIs(t, err, ErrUnregisteredType)

	v, err := f.DecodeAny(raw)
	require.NoError(t, err)
	assert.Equal(t, Square{Side: 1}, v)
}

func TestCodec_Schema(t *testing.T) {
	c := newShapes(t)
	raw, err := c.Schema()
	require.NoError(t, err)

	var schema struct {
		OneOf []struct {
			Title      string                     `json:"title"`
			Required   []string                   `json:"required"`
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"oneOf"`
	}
	require.NoError(t, json.Unmarshal(raw, &schema))
	require.Len(t, schema.OneOf, 3)

	circle := schema.OneOf[0]
	assert.Equal(t, "circle", circle.Title)
	assert.Equal(t, "type", circle.Required[0])
	assert.JSONEq(t, `{"type":"string","const":"circle"}`, string(circle.Properties["type"]))
	assert.Contains(t, circle.Properties, "radius")
}

func TestNewCodec_RejectsEmptyDiscriminator(t *testing.T) {
	_, err := NewCodec(NewRegistry[Shape](), WithDiscriminator(" "))
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = NewCodec[Shape](nil)
	require.ErrorIs(t, err, ErrConfiguration)
}
