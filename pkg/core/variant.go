package core

import (
	"reflect"

	"github.com/joeydtaylor/steeze-codec/pkg/variant"
)

// Variant embeds a value of family base type B in an ordinary struct. It
// marshals through the family codec registered for B, so
//
//	type Drawing struct {
//		Shapes []core.Variant[Shape] `json:"shapes"`
//	}
//
// round-trips each element in flat tagged form.
type Variant[B any] struct {
	V B
}

func codecFor[B any]() (*variant.Codec[B], error) {
	t := reflect.TypeOf((*B)(nil)).Elem()
	name, fam, ok := FamilyFor(t)
	if !ok {
		return nil, &variant.ConfigurationError{Base: t, Reason: "no family registered for base type"}
	}
	c, ok := fam.(*variant.Codec[B])
	if !ok {
		return nil, &variant.ConfigurationError{Base: t, Reason: "family " + name + " is not a codec for this base type"}
	}
	return c, nil
}

func (v Variant[B]) MarshalJSON() ([]byte, error) {
	c, err := codecFor[B]()
	if err != nil {
		return nil, err
	}
	return c.Encode(v.V)
}

func (v *Variant[B]) UnmarshalJSON(data []byte) error {
	c, err := codecFor[B]()
	if err != nil {
		return err
	}
	x, err := c.Decode(data)
	if err != nil {
		return err
	}
	v.V = x
	return nil
}
