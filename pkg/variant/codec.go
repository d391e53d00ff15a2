package variant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/joeydtaylor/steeze-codec/pkg/codec"
	"go.uber.org/zap"
)

// Codec encodes values of base type B as flat tagged JSON objects and decodes
// them back into the registered concrete type. A Codec holds no per-call state
// and is safe for concurrent use.
type Codec[B any] struct {
	reg     *Registry[B]
	field   string
	keep    bool
	engine  codec.Codec
	log     *zap.Logger
	observe Observer
}

// Family is the type-erased view of a Codec used by routers and registries.
type Family interface {
	Base() reflect.Type
	Discriminator() string
	Labels() []string
	EncodeAny(v any) (*codec.Object, error)
	DecodeAny(data []byte) (any, error)
	Schema() ([]byte, error)
}

var _ Family = (*Codec[any])(nil)

// NewCodec validates the registry against the options and freezes it.
func NewCodec[B any](reg *Registry[B], opts ...Option) (*Codec[B], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if reg == nil {
		return nil, &ConfigurationError{Base: reflect.TypeOf((*B)(nil)).Elem(), Reason: "nil registry"}
	}
	if strings.TrimSpace(o.field) == "" {
		return nil, &ConfigurationError{Base: reg.base, Reason: "discriminator field must not be empty"}
	}

	c := &Codec[B]{
		reg:     reg,
		field:   o.field,
		keep:    o.keep,
		engine:  o.engine,
		log:     o.log,
		observe: o.observe,
	}

	if c.keep && codec.IsStrict(c.engine) {
		for _, label := range reg.Labels() {
			t, _ := reg.TypeFor(label)
			if !acceptsField(t, c.field) {
				return nil, &ConfigurationError{
					Base:   reg.base,
					Label:  label,
					Type:   t,
					Reason: fmt.Sprintf("discriminator %q is kept on decode but the type does not declare it and %s rejects unknown fields", c.field, c.engine.Name()),
				}
			}
		}
	}

	reg.Freeze()
	c.log.Debug("variant codec ready",
		zap.String("base", typeName(reg.base)),
		zap.String("discriminator", c.field),
		zap.Bool("keepDiscriminator", c.keep),
		zap.String("engine", c.engine.Name()),
		zap.Strings("labels", reg.Labels()),
	)
	return c, nil
}

// MustNewCodec is NewCodec that panics on error.
func MustNewCodec[B any](reg *Registry[B], opts ...Option) *Codec[B] {
	c, err := NewCodec(reg, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Codec[B]) Base() reflect.Type       { return c.reg.base }
func (c *Codec[B]) Discriminator() string    { return c.field }
func (c *Codec[B]) KeepsDiscriminator() bool { return c.keep }
func (c *Codec[B]) Labels() []string         { return c.reg.Labels() }
func (c *Codec[B]) Registry() *Registry[B]   { return c.reg }

// Encode returns the compact flat tagged form of v. A nil v encodes as null.
func (c *Codec[B]) Encode(v B) ([]byte, error) {
	obj, err := c.EncodeObject(v)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return []byte("null"), nil
	}
	return codec.MarshalObject(obj)
}

// EncodeObject returns the tagged form of v as an ordered object: the
// discriminator first, then the concrete type's own fields in their order.
// A nil v yields a nil object.
func (c *Codec[B]) EncodeObject(v B) (*codec.Object, error) {
	obj, label, err := c.encode(any(v))
	c.done(OpEncode, label, err)
	return obj, err
}

func (c *Codec[B]) encode(v any) (*codec.Object, string, error) {
	if v == nil {
		return nil, "", nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, "", nil
	}
	t := rv.Type()

	label, ok := c.reg.LabelFor(t)
	if !ok {
		return nil, "", &UnregisteredTypeError{Base: c.reg.base, Type: t}
	}

	fields, err := codec.ToObject(c.engine, v)
	if err != nil {
		if errors.Is(err, codec.ErrNotObject) {
			return nil, label, &ConfigurationError{Base: c.reg.base, Label: label, Type: t, Reason: "type does not serialize to a JSON object"}
		}
		return nil, label, fmt.Errorf("variant: encode %s: %w", t, err)
	}

	if own, ok := fields.Get(c.field); ok {
		if !c.keep || !c.ownTagMatches(own, label) {
			return nil, label, &DiscriminatorCollisionError{Type: t, Field: c.field}
		}
		fields.Delete(c.field)
	}

	tag, err := json.Marshal(label)
	if err != nil {
		return nil, label, fmt.Errorf("variant: encode label: %w", err)
	}
	out := codec.NewObject()
	out.Set(c.field, tag)
	for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value)
	}
	return out, label, nil
}

// ownTagMatches accepts a discriminator the concrete type wrote itself when it
// equals the registered label or was left empty.
func (c *Codec[B]) ownTagMatches(raw json.RawMessage, label string) bool {
	if codec.IsNull(raw) {
		return true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false
	}
	return s == "" || s == label
}

// Decode parses data and decodes it into the concrete type named by its
// discriminator. JSON null decodes to the zero B.
func (c *Codec[B]) Decode(data []byte) (B, error) {
	var zero B
	if codec.IsNull(data) {
		return zero, nil
	}
	obj, err := codec.ParseObject(data)
	if err != nil {
		err = &MalformedPayloadError{Base: c.reg.base, Err: err}
		c.done(OpDecode, "", err)
		return zero, err
	}
	return c.DecodeObject(obj)
}

// DecodeObject decodes an already parsed object. obj is not modified.
func (c *Codec[B]) DecodeObject(obj *codec.Object) (B, error) {
	v, label, err := c.decode(obj)
	c.done(OpDecode, label, err)
	return v, err
}

func (c *Codec[B]) decode(obj *codec.Object) (B, string, error) {
	var zero B
	if obj == nil {
		return zero, "", &MalformedPayloadError{Base: c.reg.base, Err: codec.ErrNotObject}
	}

	raw, ok := obj.Get(c.field)
	if !ok {
		return zero, "", &MissingDiscriminatorError{Base: c.reg.base, Field: c.field}
	}
	var label string
	if kind := codec.Kind(raw); kind != "string" {
		return zero, "", &MalformedDiscriminatorError{Base: c.reg.base, Field: c.field, Kind: kind}
	}
	if err := json.Unmarshal(raw, &label); err != nil {
		return zero, "", &MalformedDiscriminatorError{Base: c.reg.base, Field: c.field, Kind: "invalid string"}
	}

	t, ok := c.reg.TypeFor(label)
	if !ok {
		return zero, label, &UnregisteredLabelError{Base: c.reg.base, Label: label}
	}

	payload := obj
	if !c.keep {
		payload = codec.NewObject()
		for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Key != c.field {
				payload.Set(pair.Key, pair.Value)
			}
		}
	}
	body, err := codec.MarshalObject(payload)
	if err != nil {
		return zero, label, fmt.Errorf("variant: re-encode payload: %w", err)
	}

	v, err := c.newValue(t, label, body)
	return v, label, err
}

func (c *Codec[B]) newValue(t reflect.Type, label string, body []byte) (B, error) {
	var zero B
	isPtr := t.Kind() == reflect.Pointer
	var ptr reflect.Value
	if isPtr {
		ptr = reflect.New(t.Elem())
	} else {
		ptr = reflect.New(t)
	}
	if err := c.engine.Unmarshal(body, ptr.Interface()); err != nil {
		return zero, err
	}
	res := ptr
	if !isPtr {
		res = ptr.Elem()
	}
	v, ok := res.Interface().(B)
	if !ok {
		return zero, &ConfigurationError{Base: c.reg.base, Label: label, Type: t, Reason: "registered type does not implement the base type"}
	}
	return v, nil
}

// EncodeSlice encodes vs as a JSON array of tagged objects.
func (c *Codec[B]) EncodeSlice(vs []B) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range vs {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := c.Encode(v)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// DecodeSlice decodes a JSON array of tagged objects.
func (c *Codec[B]) DecodeSlice(data []byte) ([]B, error) {
	if codec.IsNull(data) {
		return nil, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		err = &MalformedPayloadError{Base: c.reg.base, Err: err}
		c.done(OpDecode, "", err)
		return nil, err
	}
	out := make([]B, 0, len(raws))
	for i, raw := range raws {
		v, err := c.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// EncodeAny is EncodeObject for callers that only hold an any.
func (c *Codec[B]) EncodeAny(v any) (*codec.Object, error) {
	if v == nil {
		return nil, nil
	}
	b, ok := v.(B)
	if !ok {
		err := &UnregisteredTypeError{Base: c.reg.base, Type: reflect.TypeOf(v)}
		c.done(OpEncode, "", err)
		return nil, err
	}
	return c.EncodeObject(b)
}

// DecodeAny is Decode returning the value as an any.
func (c *Codec[B]) DecodeAny(data []byte) (any, error) {
	v, err := c.Decode(data)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Codec[B]) done(op Op, label string, err error) {
	if c.observe != nil {
		c.observe(op, label, err)
	}
	if err != nil {
		c.log.Debug("variant "+string(op)+" failed",
			zap.String("base", typeName(c.reg.base)),
			zap.String("label", label),
			zap.Error(err),
		)
	}
}
