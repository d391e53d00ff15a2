package adapters

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
)

// Color is a non-premultiplied 8-bit ARGB color. It implements color.Color.
type Color struct {
	A, R, G, B uint8
}

var _ color.Color = Color{}

// ColorFromARGB unpacks a 32-bit ARGB value (alpha in the high byte).
func ColorFromARGB(argb uint32) Color {
	return Color{
		A: uint8(argb >> 24),
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
	}
}

// ColorOf converts any color.Color.
func ColorOf(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{A: n.A, R: n.R, G: n.G, B: n.B}
}

// ARGB packs the color with alpha in the high byte. The result is signed so
// that opaque colors encode as negative numbers, matching the usual packed-int form.
func (c Color) ARGB() int32 {
	return int32(uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B))
}

func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

type colorJSON struct {
	RGB *json.Number `json:"rgb"`
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		RGB int32 `json:"rgb"`
	}{RGB: c.ARGB()})
}

func (c *Color) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var n json.Number
	switch leading(data) {
	case '{':
		var cj colorJSON
		if err := json.Unmarshal(data, &cj); err != nil {
			return fmt.Errorf("adapters: color: %w", err)
		}
		if cj.RGB == nil {
			return fmt.Errorf("adapters: color: missing field %q", "rgb")
		}
		n = *cj.RGB
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("adapters: color: %w", err)
		}
	default:
		return unsupported("color", data)
	}

	v, err := n.Int64()
	if err != nil {
		return fmt.Errorf("adapters: color: %w", err)
	}
	if v < math.MinInt32 || v > math.MaxUint32 {
		return fmt.Errorf("adapters: color: %d is not a 32-bit ARGB value", v)
	}
	*c = ColorFromARGB(uint32(v))
	return nil
}
