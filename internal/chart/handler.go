package chart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/2beens/weighttrend/internal/middleware"
	"github.com/2beens/weighttrend/internal/telemetry/metrics"
	"github.com/2beens/weighttrend/internal/telemetry/tracing"
	"github.com/2beens/weighttrend/internal/weighttrend"
	"github.com/2beens/weighttrend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"gopkg.in/yaml.v3"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=chart_test

type chartService interface {
	Chart(ctx context.Context, req Request) (*weighttrend.ChartModel, error)
	Stats(ctx context.Context, userID string, window weighttrend.TimeWindow) (*StatsResponse, error)
}

type WindowInfo struct {
	Window weighttrend.TimeWindow `json:"window"`
	// Days is nil for the unbounded window
	Days *int `json:"days"`
}

type Handler struct {
	service         chartService
	defaultWindow   weighttrend.TimeWindow
	defaultViewport weighttrend.Viewport
	maxSidePixels   float64
}

func NewHandler(
	service chartService,
	defaultWindow weighttrend.TimeWindow,
	defaultViewport weighttrend.Viewport,
	maxSidePixels float64,
) *Handler {
	return &Handler{
		service:         service,
		defaultWindow:   defaultWindow,
		defaultViewport: defaultViewport,
		maxSidePixels:   maxSidePixels,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	allowedPerMin int,
) {
	weightRouter := mainRouter.PathPrefix("/weight").Subrouter()
	weightRouter.HandleFunc("/windows", handler.HandleWindows).Methods("GET", "OPTIONS").Name("windows")
	weightRouter.HandleFunc("/{user}/chart", handler.HandleChart).Methods("GET", "OPTIONS").Name("chart")
	weightRouter.HandleFunc("/{user}/stats", handler.HandleStats).Methods("GET", "OPTIONS").Name("stats")

	weightRouter.Use(middleware.RateLimit(rateLimiter, "weight", allowedPerMin, metricsManager))
}

func (handler *Handler) HandleWindows(w http.ResponseWriter, _ *http.Request) {
	windows := make([]WindowInfo, 0, len(weighttrend.AllTimeWindows))
	for _, tw := range weighttrend.AllTimeWindows {
		info := WindowInfo{Window: tw}
		if days, bounded := tw.Days(); bounded {
			info.Days = &days
		}
		windows = append(windows, info)
	}

	windowsJson, err := json.Marshal(windows)
	if err != nil {
		log.Errorf("marshal time windows: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, windowsJson)
}

func (handler *Handler) HandleChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.chart.get")
	defer span.End()

	userID := mux.Vars(r)["user"]
	window, err := handler.parseWindow(r)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	viewport, err := handler.parseViewport(r)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	model, err := handler.service.Chart(ctx, Request{
		UserID:   userID,
		Window:   window,
		Viewport: viewport,
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.writeServiceError(w, "build chart", userID, err)
		return
	}

	if r.Header.Get("Accept") == pkg.ContentType.YAML {
		modelYaml, err := yaml.Marshal(model)
		if err != nil {
			log.Errorf("marshal chart model yaml: %s", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		pkg.WriteResponseBytesOK(w, pkg.ContentType.YAML, modelYaml)
		return
	}

	modelJson, err := json.Marshal(model)
	if err != nil {
		log.Errorf("marshal chart model: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, modelJson)
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.chart.stats")
	defer span.End()

	userID := mux.Vars(r)["user"]
	window, err := handler.parseWindow(r)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stats, err := handler.service.Stats(ctx, userID, window)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.writeServiceError(w, "get stats", userID, err)
		return
	}

	statsJson, err := json.Marshal(stats)
	if err != nil {
		log.Errorf("marshal stats: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, statsJson)
}

func (handler *Handler) writeServiceError(w http.ResponseWriter, op, userID string, err error) {
	switch {
	case errors.Is(err, weighttrend.ErrInvalidViewport),
		errors.Is(err, weighttrend.ErrUnknownTimeWindow):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s for user [%s]: %s", op, userID, err)
		http.Error(w, "failed to "+op, http.StatusInternalServerError)
	}
}

func (handler *Handler) parseWindow(r *http.Request) (weighttrend.TimeWindow, error) {
	windowParam := r.URL.Query().Get("window")
	if windowParam == "" {
		return handler.defaultWindow, nil
	}
	return weighttrend.ParseTimeWindow(windowParam)
}

func (handler *Handler) parseViewport(r *http.Request) (weighttrend.Viewport, error) {
	vp := handler.defaultViewport
	query := r.URL.Query()

	for _, p := range []struct {
		name string
		dest *float64
	}{
		{"width", &vp.Width},
		{"height", &vp.Height},
		{"padding", &vp.Padding},
	} {
		raw := query.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return vp, fmt.Errorf("invalid %s: %s", p.name, raw)
		}
		*p.dest = v
	}

	if err := vp.Validate(); err != nil {
		return vp, err
	}
	if vp.Width > handler.maxSidePixels || vp.Height > handler.maxSidePixels {
		return vp, fmt.Errorf("%w: sides must not exceed %.0f", weighttrend.ErrInvalidViewport, handler.maxSidePixels)
	}

	return vp, nil
}
