package weighttrend_test

import (
	"testing"

	"github.com/2beens/weighttrend/internal/weighttrend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAxisLabels_Empty(t *testing.T) {
	labels := weighttrend.BuildAxisLabels(nil, testViewport, weighttrend.ValueRange{Min: 70, Max: 80})
	assert.Empty(t, labels.YTicks)
	assert.Empty(t, labels.XTicks)
}

func TestBuildAxisLabels_YTicks(t *testing.T) {
	filtered := []weighttrend.WeightLogEntry{
		entry("1", day(-1), 90),
		entry("2", day(0), 88),
	}
	curve := weighttrend.BuildCurve(filtered, testViewport, nil)

	labels := weighttrend.BuildAxisLabels(curve.Points, testViewport, curve.Range)
	require.Len(t, labels.YTicks, 5)

	expectedValues := []float64{87, 88, 89, 90, 91}
	expectedYs := []float64{210, 160, 110, 60, 10}
	for i, tick := range labels.YTicks {
		assert.InDelta(t, expectedValues[i], tick.WeightKg, 1e-9)
		assert.InDelta(t, expectedYs[i], tick.Y, 1e-9)
	}
	assert.Equal(t, curve.Range.Min, labels.YTicks[0].WeightKg)
	assert.Equal(t, curve.Range.Max, labels.YTicks[4].WeightKg)
}

func TestBuildAxisLabels_XTicksFewPoints(t *testing.T) {
	filtered := []weighttrend.WeightLogEntry{
		entry("1", day(-3), 90),
		entry("2", day(-2), 89),
		entry("3", day(0), 88),
	}
	curve := weighttrend.BuildCurve(filtered, testViewport, nil)

	labels := weighttrend.BuildAxisLabels(curve.Points, testViewport, curve.Range)
	require.Len(t, labels.XTicks, 3)
	for i, tick := range labels.XTicks {
		assert.Equal(t, filtered[i].Date, tick.Date)
		assert.Equal(t, curve.Points[i].X, tick.X)
	}
}

func TestBuildAxisLabels_XTicksSpreadByIndex(t *testing.T) {
	filtered := make([]weighttrend.WeightLogEntry, 9)
	for i := range filtered {
		filtered[i] = entry("", day(-9+i), 80+float64(i%3))
	}
	curve := weighttrend.BuildCurve(filtered, testViewport, nil)

	labels := weighttrend.BuildAxisLabels(curve.Points, testViewport, curve.Range)
	require.Len(t, labels.XTicks, 5)

	// n = 9 -> indexes 0, 2, 4, 6, 8
	for i, idx := range []int{0, 2, 4, 6, 8} {
		assert.Equal(t, filtered[idx].Date, labels.XTicks[i].Date)
		assert.InDelta(t, curve.Points[idx].X, labels.XTicks[i].X, 1e-9)
	}
	assert.Equal(t, testViewport.Padding, labels.XTicks[0].X)
	assert.Equal(t, testViewport.Width-testViewport.Padding, labels.XTicks[4].X)
}

func TestGoalLine(t *testing.T) {
	vr := weighttrend.ValueRange{Min: 87, Max: 91}

	y := weighttrend.GoalLine(kg(89), vr, testViewport)
	require.NotNil(t, y)
	assert.InDelta(t, 110.0, *y, 1e-9)

	y = weighttrend.GoalLine(kg(87), vr, testViewport)
	require.NotNil(t, y)
	assert.InDelta(t, testViewport.Bottom(), *y, 1e-9)

	assert.Nil(t, weighttrend.GoalLine(kg(70), vr, testViewport))
	assert.Nil(t, weighttrend.GoalLine(kg(95), vr, testViewport))
	assert.Nil(t, weighttrend.GoalLine(nil, vr, testViewport))
}
