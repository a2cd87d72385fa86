package geo

import (
	"fmt"
	"math"
)

// RGB is a color with channels in [0,1]. It is a value type: copies never
// alias, which is what keeps a glyph's base color immutable.
type RGB [3]float64

var (
	Green = RGB{0, 1, 0}
	Red   = RGB{1, 0, 0}
)

// Scale multiplies every channel by f and clamps the result to [0,1].
func (c RGB) Scale(f float64) RGB {
	var out RGB
	for i, v := range c {
		out[i] = clamp01(v * f)
	}
	return out
}

// Mul modulates c channel-wise by o.
func (c RGB) Mul(o RGB) RGB {
	return RGB{clamp01(c[0] * o[0]), clamp01(c[1] * o[1]), clamp01(c[2] * o[2])}
}

// Hex renders c as #rrggbb for terminal styling.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", to8(c[0]), to8(c[1]), to8(c[2]))
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Scaler maps a population to glyph dimensions and color.
type Scaler struct {
	BaseHeight  float64
	HeightScale float64
	MinRadius   float64
	MaxRadius   float64
}

// DefaultScaler yields heights in [0.02, 0.17] and radii in [0.003, 0.015].
func DefaultScaler() Scaler {
	return Scaler{
		BaseHeight:  0.02,
		HeightScale: 0.15,
		MinRadius:   0.003,
		MaxRadius:   0.015,
	}
}

// Ratio normalizes pop against maxPop into [0,1]. A non-positive maxPop
// means no city can be ranked, so every ratio is 0.
func (Scaler) Ratio(pop, maxPop int64) float64 {
	if maxPop <= 0 {
		return 0
	}
	return clamp01(float64(pop) / float64(maxPop))
}

func (s Scaler) Height(ratio float64) float64 {
	return s.BaseHeight + clamp01(ratio)*s.HeightScale
}

func (s Scaler) Radius(ratio float64) float64 {
	return s.MinRadius + clamp01(ratio)*(s.MaxRadius-s.MinRadius)
}

// Color runs green (small) to red (large). Channels are floored to 8-bit
// levels first.
func (Scaler) Color(ratio float64) RGB {
	r := clamp01(ratio)
	return RGB{
		math.Floor(r*255) / 255,
		math.Floor((1-r)*255) / 255,
		0,
	}
}
