package main

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/joeydtaylor/steeze-codec/pkg/adapters"
	"github.com/joeydtaylor/steeze-codec/pkg/core"
	"github.com/joeydtaylor/steeze-codec/pkg/core/transform"
	"github.com/joeydtaylor/steeze-codec/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-codec/pkg/variant"
	"go.uber.org/zap"
)

const family = "shape"

// Shape is the base type of the demo family.
type Shape interface {
	Area() float64
}

type Circle struct {
	Center adapters.Point `json:"center"`
	Radius float64        `json:"radius"`
	Fill   adapters.Color `json:"fill"`
}

func (c Circle) Area() float64 { return math.Pi * c.Radius * c.Radius }

type Square struct {
	Corner adapters.Point `json:"corner"`
	Side   float64        `json:"side"`
	Fill   adapters.Color `json:"fill"`
}

func (s Square) Area() float64 { return s.Side * s.Side }

// Polygon is stored by pointer to exercise pointer registration.
type Polygon struct {
	ID       adapters.UUID    `json:"id"`
	Vertices []adapters.Point `json:"vertices"`
	Drawn    adapters.Instant `json:"drawn"`
}

// Area uses the shoelace formula.
func (p *Polygon) Area() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	var sum int
	for i := 0; i < n; i++ {
		a, b := p.Vertices[i], p.Vertices[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(float64(sum)) / 2
}

func newShapeCodec(log *zap.Logger) (*variant.Codec[Shape], error) {
	reg := variant.NewRegistry[Shape]()
	if err := reg.RegisterAll(
		variant.Entry[Shape]{Label: "circle", Prototype: Circle{}},
		variant.Entry[Shape]{Label: "square", Prototype: Square{}},
		variant.Entry[Shape]{Label: "polygon", Prototype: &Polygon{}},
	); err != nil {
		return nil, err
	}
	return variant.NewCodec(reg,
		variant.WithLogger(log),
		variant.WithObserver(metrics.ObserveCodec(family)),
	)
}

var errDegenerate = errors.New("shape has no area")

func registerShapes(log *zap.Logger) error {
	c, err := newShapeCodec(log)
	if err != nil {
		return err
	}
	if err := core.RegisterFamily(family, c); err != nil {
		return err
	}

	transform.Register(family, "scale2", transform.Transformer[Shape](scale2))
	transform.Register(family, "require-area", transform.Transformer[Shape](func(s Shape) (Shape, error) {
		if s.Area() <= 0 {
			return nil, errDegenerate
		}
		return s, nil
	}))

	checks, err := transform.Resolve[Shape](family, []string{"require-area"})
	if err != nil {
		return err
	}

	core.Register("area", func(_ context.Context, in []byte) ([]byte, int, error) {
		s, err := c.Decode(in)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		if s == nil {
			return []byte(`null`), http.StatusOK, nil
		}
		for _, check := range checks {
			if s, err = check(s); err != nil {
				return nil, http.StatusUnprocessableEntity, err
			}
		}
		label, _ := c.Registry().LabelOf(s)
		out, err := json.Marshal(struct {
			Label string  `json:"label"`
			Area  float64 `json:"area"`
		}{label, s.Area()})
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return out, http.StatusOK, nil
	})
	return nil
}

func scale2(s Shape) (Shape, error) {
	switch v := s.(type) {
	case Circle:
		v.Radius *= 2
		return v, nil
	case Square:
		v.Side *= 2
		return v, nil
	case *Polygon:
		out := &Polygon{ID: v.ID, Drawn: v.Drawn, Vertices: make([]adapters.Point, len(v.Vertices))}
		for i, p := range v.Vertices {
			out.Vertices[i] = adapters.Point{X: p.X * 2, Y: p.Y * 2}
		}
		return out, nil
	}
	return s, nil
}
