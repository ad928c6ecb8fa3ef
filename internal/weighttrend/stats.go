package weighttrend

import (
	"math"
	"time"
)

type Statistics struct {
	Average     float64 `json:"average" yaml:"average"`
	Min         float64 `json:"min" yaml:"min"`
	Max         float64 `json:"max" yaml:"max"`
	StartWeight float64 `json:"startWeight" yaml:"startWeight"`
	EndWeight   float64 `json:"endWeight" yaml:"endWeight"`
	TotalChange float64 `json:"totalChange" yaml:"totalChange"`
	// WeeklyRate is the total change normalized to a 7 day period
	WeeklyRate float64 `json:"weeklyRate" yaml:"weeklyRate"`
	// ProgressToGoal is the percentage [0, 100] of the start -> target distance
	// closed by the latest measurement
	ProgressToGoal float64 `json:"progressToGoal" yaml:"progressToGoal"`
	HasProgress    bool    `json:"hasProgress" yaml:"hasProgress"`
	// DaysSpanned is the number of whole days between the first and the last entry
	DaysSpanned      int  `json:"daysSpanned" yaml:"daysSpanned"`
	InsufficientData bool `json:"insufficientData" yaml:"insufficientData"`
}

// Aggregate computes summaries over an already filtered and sorted series.
// targetKg and currentKg are optional; progress to goal is only computed when both are set.
func Aggregate(filtered []WeightLogEntry, targetKg, currentKg *float64) Statistics {
	if len(filtered) == 0 {
		return Statistics{InsufficientData: true}
	}

	first, last := filtered[0], filtered[len(filtered)-1]
	stats := Statistics{
		Min:              first.WeightKg,
		Max:              first.WeightKg,
		StartWeight:      first.WeightKg,
		EndWeight:        last.WeightKg,
		InsufficientData: len(filtered) < 2,
	}

	var sum float64
	for _, e := range filtered {
		sum += e.WeightKg
		stats.Min = math.Min(stats.Min, e.WeightKg)
		stats.Max = math.Max(stats.Max, e.WeightKg)
	}
	stats.Average = sum / float64(len(filtered))
	if math.IsInf(sum, 0) {
		stats.Average = runningMean(filtered)
	}
	stats.TotalChange = stats.EndWeight - stats.StartWeight

	stats.DaysSpanned = daysBetween(first.Date, last.Date)
	rateDays := stats.DaysSpanned
	if rateDays < 1 {
		rateDays = 1
	}
	stats.WeeklyRate = clamp(stats.TotalChange/float64(rateDays)*7, -math.MaxFloat64, math.MaxFloat64)

	if validWeight(targetKg) && validWeight(currentKg) {
		stats.HasProgress = true
		stats.ProgressToGoal = progressToGoal(stats.StartWeight, stats.EndWeight, *targetKg)
	}

	return stats
}

// runningMean stays finite where a plain sum of huge weights overflows.
func runningMean(entries []WeightLogEntry) float64 {
	var avg float64
	for i, e := range entries {
		avg += (e.WeightKg - avg) / float64(i+1)
	}
	return avg
}

func progressToGoal(start, end, target float64) float64 {
	totalToLose := start - target
	if totalToLose == 0 {
		return 0
	}
	return clamp((start-end)/totalToLose*100, 0, 100)
}

func daysBetween(from, to time.Time) int {
	days := math.Round(to.Sub(from).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func validWeight(w *float64) bool {
	return w != nil && !math.IsNaN(*w) && !math.IsInf(*w, 0) && *w > 0
}
