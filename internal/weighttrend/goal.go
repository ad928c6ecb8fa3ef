package weighttrend

// GoalLine returns the plotted Y of the target weight reference line,
// or nil when there is no target or it falls outside the plotted range.
func GoalLine(targetKg *float64, vr ValueRange, vp Viewport) *float64 {
	if !validWeight(targetKg) || !vr.Contains(*targetKg) {
		return nil
	}
	y := vr.Y(*targetKg, vp)
	return &y
}
