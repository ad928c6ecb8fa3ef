package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/2beens/weighttrend/internal/weightlog"
	"github.com/2beens/weighttrend/internal/weighttrend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testHistoryJSON = `{
  "targetWeightKg": 80,
  "entries": [
    {"id": "a", "date": "2024-03-01T08:00:00Z", "weightKg": 86},
    {"date": "2024-03-08T08:00:00Z", "weightKg": 85},
    {"id": "c", "date": "2024-03-15T08:00:00Z", "weightKg": 84}
  ]
}`

func writeHistory(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	root := newRootCmd()
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestBuild_JSONHistory(t *testing.T) {
	path := writeHistory(t, "history.json", testHistoryJSON)

	out, err := runCmd(t, "build", "--history", path, "--window", "ALL", "--now", "2024-03-15T12:00:00Z")
	require.NoError(t, err)

	var model weighttrend.ChartModel
	require.NoError(t, json.Unmarshal([]byte(out), &model))
	assert.Equal(t, weighttrend.TimeWindowAll, model.Window)
	require.Len(t, model.Series, 3)
	assert.NotEmpty(t, model.Series[1].ID)
	assert.Equal(t, -2.0, model.Statistics.TotalChange)
	assert.False(t, model.Statistics.HasProgress)
	// target 80 is below the data, the range is stretched down to it
	assert.Equal(t, 80.0, model.Range.Min)
	require.NotNil(t, model.GoalLineY)
}

func TestBuild_CurrentFlagEnablesProgress(t *testing.T) {
	path := writeHistory(t, "history.json", testHistoryJSON)

	out, err := runCmd(t, "build", "--history", path, "-w", "ALL", "--now", "2024-03-15T12:00:00Z", "--current", "84")
	require.NoError(t, err)

	var model weighttrend.ChartModel
	require.NoError(t, json.Unmarshal([]byte(out), &model))
	assert.True(t, model.Statistics.HasProgress)
	assert.InDelta(t, 100.0/3, model.Statistics.ProgressToGoal, 1e-9)
}

func TestBuild_YAMLOutputFromYAMLHistory(t *testing.T) {
	path := writeHistory(t, "history.yaml", `
- id: a
  date: 2024-03-14T08:00:00Z
  weightKg: 70.5
- id: b
  date: 2024-03-15T08:00:00Z
  weightKg: 70
`)

	out, err := runCmd(t, "build", "--history", path, "-w", "1W", "--now", "2024-03-15T12:00:00Z", "-f", "yaml")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "1W", decoded["window"])
	assert.Len(t, decoded["series"], 2)
	assert.Equal(t, false, decoded["insufficientData"])
}

func TestBuild_SVGOutput(t *testing.T) {
	path := writeHistory(t, "history.json", testHistoryJSON)

	out, err := runCmd(t, "build", "--history", path, "-w", "ALL", "--now", "2024-03-15T12:00:00Z", "-f", "svg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Equal(t, 3, strings.Count(out, "<circle"))
	assert.Contains(t, out, `stroke-dasharray="4 4"`)
}

func TestBuild_SQLiteHistory(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "weights.db")

	store, err := weightlog.OpenSQLite(ctx, dbPath)
	require.NoError(t, err)
	base := time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC)
	for i, w := range []float64{92, 91.4, 91} {
		require.NoError(t, store.AddEntry(ctx, "u1", weighttrend.WeightLogEntry{
			ID:       string(rune('a' + i)),
			Date:     base.AddDate(0, 0, i),
			WeightKg: w,
		}))
	}
	require.NoError(t, store.Close())

	out, err := runCmd(t, "build", "--history", dbPath, "--user", "u1", "-w", "1W", "--now", "2024-03-15T12:00:00Z")
	require.NoError(t, err)

	var model weighttrend.ChartModel
	require.NoError(t, json.Unmarshal([]byte(out), &model))
	require.Len(t, model.Series, 3)
	assert.Equal(t, "a", model.Series[0].ID)
	assert.Nil(t, model.GoalLineY)

	_, err = runCmd(t, "build", "--history", dbPath, "-w", "1W")
	assert.EqualError(t, err, "--user is required for sqlite histories")
}

func TestBuild_Errors(t *testing.T) {
	path := writeHistory(t, "history.json", testHistoryJSON)

	_, err := runCmd(t, "build")
	assert.EqualError(t, err, "--history is required")

	_, err = runCmd(t, "build", "--history", path, "-w", "2W")
	assert.ErrorIs(t, err, weighttrend.ErrUnknownTimeWindow)

	_, err = runCmd(t, "build", "--history", path, "--width=-5")
	assert.ErrorIs(t, err, weighttrend.ErrInvalidViewport)

	_, err = runCmd(t, "build", "--history", path, "-f", "png")
	assert.EqualError(t, err, "unknown output format: png")

	_, err = runCmd(t, "build", "--history", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWindows(t *testing.T) {
	out, err := runCmd(t, "windows")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(weighttrend.AllTimeWindows))
	assert.Equal(t, "1W\t7 days", lines[0])
	assert.Equal(t, "ALL\tall history", lines[len(lines)-1])
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch_RebuildsOnChange(t *testing.T) {
	path := writeHistory(t, "history.json", testHistoryJSON)

	out := &syncBuffer{}
	root := newRootCmd()
	root.SetOut(out)
	root.SetArgs([]string{"watch", "--history", path, "-w", "ALL", "--now", "2024-03-15T12:00:00Z", "--debounce", "20ms"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- root.ExecuteContext(ctx)
	}()

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), `"window"`) == 1
	}, 5*time.Second, 10*time.Millisecond)

	updated := strings.Replace(testHistoryJSON, `"weightKg": 84}`, `"weightKg": 84}, {"id": "d", "date": "2024-03-15T09:00:00Z", "weightKg": 83.5}`, 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), `"id": "d"`)
	}, 5*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, strings.Count(out.String(), `"window"`), 2)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
