package weighttrend

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var ErrUnknownTimeWindow = errors.New("unknown time window")

// WeightLogEntry is one user recorded measurement.
type WeightLogEntry struct {
	ID       string    `json:"id" yaml:"id"`
	Date     time.Time `json:"date" yaml:"date"`
	WeightKg float64   `json:"weightKg" yaml:"weightKg"`
	Notes    string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// IsValid reports whether the weight is a finite, positive number.
func (e WeightLogEntry) IsValid() bool {
	return !math.IsNaN(e.WeightKg) && !math.IsInf(e.WeightKg, 0) && e.WeightKg > 0
}

// TimeWindow is a lookback period used to filter a history before analysis.
type TimeWindow string

const (
	TimeWindowWeek     TimeWindow = "1W"
	TimeWindowMonth    TimeWindow = "1M"
	TimeWindowQuarter  TimeWindow = "3M"
	TimeWindowHalfYear TimeWindow = "6M"
	TimeWindowYear     TimeWindow = "1Y"
	TimeWindowAll      TimeWindow = "ALL"
)

var AllTimeWindows = []TimeWindow{
	TimeWindowWeek,
	TimeWindowMonth,
	TimeWindowQuarter,
	TimeWindowHalfYear,
	TimeWindowYear,
	TimeWindowAll,
}

// Days returns the day threshold of the window.
// ok is false for ALL, which has no lower bound.
func (tw TimeWindow) Days() (days int, ok bool) {
	switch tw {
	case TimeWindowWeek:
		return 7, true
	case TimeWindowMonth:
		return 30, true
	case TimeWindowQuarter:
		return 90, true
	case TimeWindowHalfYear:
		return 180, true
	case TimeWindowYear:
		return 365, true
	default:
		return 0, false
	}
}

func (tw TimeWindow) IsValid() bool {
	for _, w := range AllTimeWindows {
		if w == tw {
			return true
		}
	}
	return false
}

func (tw TimeWindow) String() string {
	return string(tw)
}

func ParseTimeWindow(s string) (TimeWindow, error) {
	tw := TimeWindow(strings.ToUpper(strings.TrimSpace(s)))
	if !tw.IsValid() {
		return "", fmt.Errorf("%w: [%s]", ErrUnknownTimeWindow, s)
	}
	return tw, nil
}
