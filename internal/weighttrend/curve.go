package weighttrend

import (
	"math"
	"strconv"
	"strings"
)

type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// PlotPoint is a series entry paired with its plotted coordinates.
type PlotPoint struct {
	WeightLogEntry `yaml:",inline"`
	Point          `yaml:",inline"`
}

// QuadSegment is a quadratic bezier segment; its start is the end of the previous segment.
type QuadSegment struct {
	Control Point `json:"control" yaml:"control"`
	End     Point `json:"end" yaml:"end"`
}

// Path is a smoothed curve through the plotted points.
type Path struct {
	Start    Point         `json:"start" yaml:"start"`
	Segments []QuadSegment `json:"segments" yaml:"segments"`
}

func (p Path) IsEmpty() bool {
	return len(p.Segments) == 0
}

// SVG returns the path as an SVG path data attribute.
func (p Path) SVG() string {
	if p.IsEmpty() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("M")
	writePoint(&sb, p.Start)
	for _, s := range p.Segments {
		sb.WriteString(" Q")
		writePoint(&sb, s.Control)
		sb.WriteString(" ")
		writePoint(&sb, s.End)
	}
	return sb.String()
}

func (p Path) end() Point {
	if p.IsEmpty() {
		return p.Start
	}
	return p.Segments[len(p.Segments)-1].End
}

// AreaPath is the curve closed along the plot bottom, used for shaded area rendering.
type AreaPath struct {
	Curve     Path    `json:"curve" yaml:"curve"`
	BaselineY float64 `json:"baselineY" yaml:"baselineY"`
}

func (a AreaPath) IsEmpty() bool {
	return a.Curve.IsEmpty()
}

func (a AreaPath) SVG() string {
	if a.IsEmpty() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(a.Curve.SVG())
	sb.WriteString(" L")
	writePoint(&sb, Point{X: a.Curve.end().X, Y: a.BaselineY})
	sb.WriteString(" L")
	writePoint(&sb, Point{X: a.Curve.Start.X, Y: a.BaselineY})
	sb.WriteString(" Z")
	return sb.String()
}

type Curve struct {
	Points []PlotPoint
	Path   Path
	Area   AreaPath
	Range  ValueRange
}

// BuildCurve maps the filtered entries to plot coordinates and smooths a path through them.
// targetKg is optional; when set, the value range is extended so the goal line fits.
func BuildCurve(filtered []WeightLogEntry, vp Viewport, targetKg *float64) Curve {
	curve := Curve{
		Range: valueRange(filtered, targetKg),
	}
	if len(filtered) == 0 {
		return curve
	}

	curve.Points = make([]PlotPoint, len(filtered))
	for i, e := range filtered {
		curve.Points[i] = PlotPoint{
			WeightLogEntry: e,
			Point: Point{
				X: indexX(i, len(filtered), vp),
				Y: curve.Range.Y(e.WeightKg, vp),
			},
		}
	}

	curve.Path = smoothPath(curve.Points)
	if !curve.Path.IsEmpty() {
		curve.Area = AreaPath{
			Curve:     curve.Path,
			BaselineY: vp.Bottom(),
		}
	}

	return curve
}

// smoothPath builds two quadratic segments per adjacent pair of points,
// meeting at the pair's midpoint. The curve passes through every point and never
// overshoots the pair's vertical extent.
func smoothPath(points []PlotPoint) Path {
	if len(points) < 2 {
		return Path{}
	}

	path := Path{
		Start:    points[0].Point,
		Segments: make([]QuadSegment, 0, 2*(len(points)-1)),
	}
	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1].Point, points[i].Point
		cpx := (prev.X + curr.X) / 2
		midY := (prev.Y + curr.Y) / 2
		path.Segments = append(path.Segments,
			QuadSegment{
				Control: Point{X: cpx, Y: prev.Y},
				End:     Point{X: cpx, Y: midY},
			},
			QuadSegment{
				Control: Point{X: cpx, Y: curr.Y},
				End:     curr,
			},
		)
	}

	return path
}

func valueRange(filtered []WeightLogEntry, targetKg *float64) ValueRange {
	if len(filtered) == 0 {
		if validWeight(targetKg) {
			return ValueRange{Min: *targetKg - 1, Max: *targetKg + 1}
		}
		return ValueRange{}
	}

	r := ValueRange{Min: filtered[0].WeightKg, Max: filtered[0].WeightKg}
	for _, e := range filtered {
		r.Min = math.Min(r.Min, e.WeightKg)
		r.Max = math.Max(r.Max, e.WeightKg)
	}
	r.Min--
	r.Max++

	if validWeight(targetKg) {
		r.Min = math.Min(r.Min, *targetKg)
		r.Max = math.Max(r.Max, *targetKg)
	}

	return r
}

func writePoint(sb *strings.Builder, p Point) {
	sb.WriteString(strconv.FormatFloat(p.X, 'f', 2, 64))
	sb.WriteString(",")
	sb.WriteString(strconv.FormatFloat(p.Y, 'f', 2, 64))
}
