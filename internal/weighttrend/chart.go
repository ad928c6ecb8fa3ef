package weighttrend

import (
	"fmt"
	"math"
	"time"
)

type Input struct {
	History  []WeightLogEntry
	Window   TimeWindow
	Now      time.Time
	Viewport Viewport
	// optional, nil when the user has not set them
	TargetWeightKg  *float64
	CurrentWeightKg *float64
}

// ChartModel is everything a renderer needs to draw the weight trend chart.
// It is recomputed from scratch on every input change and never mutated.
type ChartModel struct {
	Window     TimeWindow  `json:"window" yaml:"window"`
	Series     []PlotPoint `json:"series" yaml:"series"`
	Statistics Statistics  `json:"statistics" yaml:"statistics"`
	Path       Path        `json:"path" yaml:"path"`
	PathSVG    string      `json:"pathSvg" yaml:"pathSvg"`
	Area       AreaPath    `json:"area" yaml:"area"`
	AreaSVG    string      `json:"areaSvg" yaml:"areaSvg"`
	Range      ValueRange  `json:"range" yaml:"range"`
	YAxisTicks []YTick     `json:"yAxisTicks" yaml:"yAxisTicks"`
	XAxisTicks []XTick     `json:"xAxisTicks" yaml:"xAxisTicks"`
	GoalLineY  *float64    `json:"goalLineY" yaml:"goalLineY"`

	NoData           bool `json:"noData" yaml:"noData"`
	InsufficientData bool `json:"insufficientData" yaml:"insufficientData"`
	// DroppedEntries counts history entries rejected for an invalid weight
	DroppedEntries int `json:"droppedEntries" yaml:"droppedEntries"`
}

// Build runs the whole pipeline: filter, aggregate, curve, axis labels and goal line.
// Data problems (no data, too few points, invalid entries) are reported as flags on the
// returned model. Errors are reserved for invalid arguments: a bad viewport or an
// unknown window.
func Build(in Input) (*ChartModel, error) {
	if err := in.Viewport.Validate(); err != nil {
		return nil, err
	}
	if !in.Window.IsValid() {
		return nil, fmt.Errorf("%w: [%s]", ErrUnknownTimeWindow, in.Window)
	}

	filtered := Filter(in.History, in.Window, in.Now)
	stats := Aggregate(filtered.Entries, in.TargetWeightKg, in.CurrentWeightKg)
	curve := BuildCurve(filtered.Entries, in.Viewport, in.TargetWeightKg)
	axis := BuildAxisLabels(curve.Points, in.Viewport, curve.Range)

	model := &ChartModel{
		Window:           in.Window,
		Series:           curve.Points,
		Statistics:       stats,
		Path:             curve.Path,
		PathSVG:          curve.Path.SVG(),
		Area:             curve.Area,
		AreaSVG:          curve.Area.SVG(),
		Range:            curve.Range,
		YAxisTicks:       axis.YTicks,
		XAxisTicks:       axis.XTicks,
		NoData:           filtered.Valid == 0,
		InsufficientData: len(filtered.Entries) < 2,
		DroppedEntries:   filtered.Dropped,
	}
	if len(curve.Points) > 0 {
		model.GoalLineY = GoalLine(in.TargetWeightKg, curve.Range, in.Viewport)
	}

	return model, nil
}

// NearestPoint returns the plotted point closest to the given X coordinate,
// used by renderers for tooltip lookup.
func (m *ChartModel) NearestPoint(x float64) (PlotPoint, bool) {
	if len(m.Series) == 0 {
		return PlotPoint{}, false
	}
	nearest := m.Series[0]
	for _, p := range m.Series[1:] {
		if math.Abs(p.X-x) < math.Abs(nearest.X-x) {
			nearest = p
		}
	}
	return nearest, true
}
