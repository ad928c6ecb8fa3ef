package weighttrend

import (
	"math"
	"time"
)

const (
	yTicksCount    = 5
	maxXTicksCount = 5
)

type YTick struct {
	WeightKg float64 `json:"weightKg" yaml:"weightKg"`
	Y        float64 `json:"y" yaml:"y"`
}

// XTick carries the entry date; formatting it is up to the renderer.
type XTick struct {
	Date time.Time `json:"date" yaml:"date"`
	X    float64   `json:"x" yaml:"x"`
}

type AxisLabels struct {
	YTicks []YTick
	XTicks []XTick
}

// BuildAxisLabels derives evenly spaced weight ticks over the value range and
// up to 5 date ticks spread by index over the plotted series.
func BuildAxisLabels(points []PlotPoint, vp Viewport, vr ValueRange) AxisLabels {
	if len(points) == 0 {
		return AxisLabels{}
	}

	labels := AxisLabels{
		YTicks: make([]YTick, yTicksCount),
	}
	step := (vr.Max - vr.Min) / (yTicksCount - 1)
	for i := 0; i < yTicksCount; i++ {
		v := vr.Min + float64(i)*step
		if i == yTicksCount-1 {
			v = vr.Max
		}
		labels.YTicks[i] = YTick{
			WeightKg: v,
			Y:        vr.Y(v, vp),
		}
	}

	n := len(points)
	if n <= maxXTicksCount {
		labels.XTicks = make([]XTick, n)
		for i, p := range points {
			labels.XTicks[i] = XTick{Date: p.Date, X: p.X}
		}
		return labels
	}

	labels.XTicks = make([]XTick, maxXTicksCount)
	for i := 0; i < maxXTicksCount; i++ {
		idx := int(math.Round(float64(i) * float64(n-1) / (maxXTicksCount - 1)))
		labels.XTicks[i] = XTick{
			Date: points[idx].Date,
			X:    points[idx].X,
		}
	}

	return labels
}
