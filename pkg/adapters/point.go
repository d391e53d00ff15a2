package adapters

import (
	"encoding/json"
	"fmt"
	"image"
)

// Point is an integer 2D point.
type Point struct {
	X, Y int
}

// PointOf converts an image.Point.
func PointOf(p image.Point) Point { return Point{X: p.X, Y: p.Y} }

// Image returns p as an image.Point.
func (p Point) Image() image.Point { return image.Pt(p.X, p.Y) }

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		X int `json:"x"`
		Y int `json:"y"`
	}{p.X, p.Y})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	switch leading(data) {
	case '{':
		var pj struct {
			X *int `json:"x"`
			Y *int `json:"y"`
		}
		if err := json.Unmarshal(data, &pj); err != nil {
			return fmt.Errorf("adapters: point: %w", err)
		}
		if pj.X == nil || pj.Y == nil {
			return fmt.Errorf("adapters: point: fields %q and %q are required", "x", "y")
		}
		*p = Point{X: *pj.X, Y: *pj.Y}
	case '[':
		var xy []int
		if err := json.Unmarshal(data, &xy); err != nil {
			return fmt.Errorf("adapters: point: %w", err)
		}
		if len(xy) != 2 {
			return fmt.Errorf("adapters: point: expected [x, y], got %d elements", len(xy))
		}
		*p = Point{X: xy[0], Y: xy[1]}
	default:
		return unsupported("point", data)
	}
	return nil
}
