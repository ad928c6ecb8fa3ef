package chart

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/2beens/weighttrend/internal/telemetry/metrics"
	"github.com/2beens/weighttrend/internal/telemetry/tracing"
	"github.com/2beens/weighttrend/internal/weighttrend"
	"github.com/2beens/weighttrend/internal/weightlog"

	"github.com/cespare/xxhash/v2"
	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=chart_test

type historySource interface {
	ListEntries(ctx context.Context, userID string) ([]weighttrend.WeightLogEntry, error)
}

type profileSource interface {
	GetProfile(ctx context.Context, userID string) (*weightlog.Profile, error)
}

type Request struct {
	UserID   string
	Window   weighttrend.TimeWindow
	Viewport weighttrend.Viewport
}

type StatsResponse struct {
	Window           weighttrend.TimeWindow `json:"window"`
	Statistics       weighttrend.Statistics `json:"statistics"`
	NoData           bool                   `json:"noData"`
	InsufficientData bool                   `json:"insufficientData"`
	DroppedEntries   int                    `json:"droppedEntries"`
}

type Service struct {
	history        historySource
	profiles       profileSource
	cache          *freecache.Cache
	cacheTTL       time.Duration
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewService(
	history historySource,
	profiles profileSource,
	cacheSizeMB int,
	cacheTTL time.Duration,
	metricsManager *metrics.Manager,
) *Service {
	megabyte := 1024 * 1024
	return &Service{
		history:        history,
		profiles:       profiles,
		cache:          freecache.NewCache(cacheSizeMB * megabyte),
		cacheTTL:       cacheTTL,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

// Chart loads the user history and goal profile and returns the chart model.
// Models are memoized per history content, goal, window, viewport and minute.
func (s *Service) Chart(ctx context.Context, req Request) (_ *weighttrend.ChartModel, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.chart.build")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", req.UserID),
		attribute.String("chart.window", req.Window.String()),
	)

	if err := req.Viewport.Validate(); err != nil {
		return nil, err
	}
	if !req.Window.IsValid() {
		return nil, fmt.Errorf("%w: [%s]", weighttrend.ErrUnknownTimeWindow, req.Window)
	}

	history, profile, err := s.load(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	in := weighttrend.Input{
		History:         history,
		Window:          req.Window,
		Now:             s.windowNow(),
		Viewport:        req.Viewport,
		TargetWeightKg:  profile.TargetWeightKg,
		CurrentWeightKg: profile.CurrentWeightKg,
	}

	cacheKey := modelCacheKey(in)
	if cached, err := s.cache.Get(cacheKey); err == nil {
		model := &weighttrend.ChartModel{}
		if err := json.Unmarshal(cached, model); err == nil {
			s.metricsManager.CounterChartCacheHits.Inc()
			span.SetAttributes(attribute.Bool("chart.cached", true))
			return model, nil
		} else {
			log.Errorf("unmarshal cached chart model for user %s: %s", req.UserID, err)
		}
	}
	s.metricsManager.CounterChartCacheMisses.Inc()

	start := time.Now()
	model, err := weighttrend.Build(in)
	if err != nil {
		return nil, err
	}
	s.metricsManager.HistChartBuildDuration.Observe(time.Since(start).Seconds())
	s.metricsManager.CounterChartsBuilt.WithLabelValues(req.Window.String(), outcome(model)).Inc()
	s.metricsManager.CounterInvalidEntriesDropped.Add(float64(model.DroppedEntries))
	if model.DroppedEntries > 0 {
		log.Debugf("user %s: dropped %d invalid weight entries", req.UserID, model.DroppedEntries)
	}

	span.SetAttributes(
		attribute.Int("chart.points", len(model.Series)),
		attribute.Int("chart.dropped", model.DroppedEntries),
	)

	if modelJson, err := json.Marshal(model); err != nil {
		log.Errorf("marshal chart model for cache: %s", err)
	} else if err := s.cache.Set(cacheKey, modelJson, int(s.cacheTTL.Seconds())); err != nil {
		log.Warnf("set chart model cache for user %s: %s", req.UserID, err)
	}

	return model, nil
}

// Stats returns the window statistics only, without building the curve.
func (s *Service) Stats(ctx context.Context, userID string, window weighttrend.TimeWindow) (_ *StatsResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.chart.stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("chart.window", window.String()),
	)

	if !window.IsValid() {
		return nil, fmt.Errorf("%w: [%s]", weighttrend.ErrUnknownTimeWindow, window)
	}

	history, profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := weighttrend.Filter(history, window, s.windowNow())
	return &StatsResponse{
		Window:           window,
		Statistics:       weighttrend.Aggregate(filtered.Entries, profile.TargetWeightKg, profile.CurrentWeightKg),
		NoData:           filtered.Valid == 0,
		InsufficientData: len(filtered.Entries) < 2,
		DroppedEntries:   filtered.Dropped,
	}, nil
}

// windowNow is the reference time for window cutoffs, truncated to the minute
// so cached models expire with the cutoff.
func (s *Service) windowNow() time.Time {
	return s.now().UTC().Truncate(time.Minute)
}

func (s *Service) load(ctx context.Context, userID string) ([]weighttrend.WeightLogEntry, *weightlog.Profile, error) {
	history, err := s.history.ListEntries(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list weight entries: %w", err)
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	switch {
	case errors.Is(err, weightlog.ErrProfileNotFound):
		profile = &weightlog.Profile{UserID: userID}
	case err != nil:
		return nil, nil, fmt.Errorf("get weight profile: %w", err)
	}

	return history, profile, nil
}

func outcome(model *weighttrend.ChartModel) string {
	switch {
	case model.NoData:
		return "no_data"
	case model.InsufficientData:
		return "insufficient_data"
	default:
		return "ok"
	}
}

// modelCacheKey hashes every input the model depends on.
func modelCacheKey(in weighttrend.Input) []byte {
	d := xxhash.New()
	buf := make([]byte, 8)
	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
		_, _ = d.Write(buf)
	}
	writeOptional := func(f *float64) {
		if f == nil {
			_, _ = d.Write([]byte{0})
			return
		}
		_, _ = d.Write([]byte{1})
		writeFloat(*f)
	}

	for _, e := range in.History {
		_, _ = d.WriteString(e.ID)
		_, _ = d.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf, uint64(e.Date.UnixNano()))
		_, _ = d.Write(buf)
		writeFloat(e.WeightKg)
		_, _ = d.WriteString(e.Notes)
		_, _ = d.Write([]byte{0})
	}
	historyVersion := d.Sum64()

	d.Reset()
	binary.LittleEndian.PutUint64(buf, historyVersion)
	_, _ = d.Write(buf)
	_, _ = d.WriteString(in.Window.String())
	binary.LittleEndian.PutUint64(buf, uint64(in.Now.Unix()))
	_, _ = d.Write(buf)
	writeOptional(in.TargetWeightKg)
	writeOptional(in.CurrentWeightKg)
	writeFloat(in.Viewport.Width)
	writeFloat(in.Viewport.Height)
	writeFloat(in.Viewport.Padding)

	return []byte(fmt.Sprintf("chart::%016x::%016x", historyVersion, d.Sum64()))
}
