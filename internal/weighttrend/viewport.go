package weighttrend

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidViewport = errors.New("invalid viewport")

// Viewport is the plotting area size, in pixels.
// Padding is applied on all four sides.
type Viewport struct {
	Width   float64 `json:"width" yaml:"width" toml:"width"`
	Height  float64 `json:"height" yaml:"height" toml:"height"`
	Padding float64 `json:"padding" yaml:"padding" toml:"padding"`
}

// Validate rejects negative or non-finite dimensions. A viewport whose padding
// leaves no plot area (including the zero viewport before first layout) is valid:
// everything is plotted at (Padding, Padding).
func (v Viewport) Validate() error {
	for _, d := range []float64{v.Width, v.Height, v.Padding} {
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return fmt.Errorf("%w: dimensions must be finite and non-negative: %+v", ErrInvalidViewport, v)
		}
	}
	return nil
}

func (v Viewport) innerWidth() float64 {
	return math.Max(0, v.Width-2*v.Padding)
}

func (v Viewport) innerHeight() float64 {
	return math.Max(0, v.Height-2*v.Padding)
}

// Bottom is the Y coordinate of the plot area's bottom edge.
func (v Viewport) Bottom() float64 {
	return v.Padding + v.innerHeight()
}

// ValueRange is the plotted weight range, in kilograms.
type ValueRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

func (r ValueRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Y maps a weight to the plot Y coordinate, heavier values plotted higher.
func (r ValueRange) Y(weightKg float64, vp Viewport) float64 {
	span := r.Max - r.Min
	if span <= 0 {
		return vp.Padding + vp.innerHeight()/2
	}
	return vp.Padding + (1-(weightKg-r.Min)/span)*vp.innerHeight()
}

// indexX maps a series index to the plot X coordinate.
func indexX(i, n int, vp Viewport) float64 {
	if n < 2 {
		return vp.Padding
	}
	return vp.Padding + float64(i)/float64(n-1)*vp.innerWidth()
}
