package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests              *prometheus.CounterVec
	CounterHandleRequestPanic    prometheus.Counter
	CounterRateLimitedRequests   prometheus.Counter
	CounterChartsBuilt           *prometheus.CounterVec
	CounterInvalidEntriesDropped prometheus.Counter
	CounterChartCacheHits        prometheus.Counter
	CounterChartCacheMisses      prometheus.Counter

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
	HistChartBuildDuration   prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("backend", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("backend", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterChartsBuilt := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "charts_built",
		Help:      "The total number of built chart models, per time window",
	}, []string{"window", "outcome"})
	counterInvalidEntriesDropped := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "invalid_entries_dropped",
		Help:      "The total number of weight log entries dropped for non-finite or non-positive weight",
	})
	counterChartCacheHits := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "chart_cache_hits",
		Help:      "Chart models served from cache",
	})
	counterChartCacheMisses := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "chart_cache_misses",
		Help:      "Chart models built because the cache had none",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})
	histChartBuildDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "chart_build_duration_seconds",
		Help:      "Duration of a single chart model build, history fetch excluded",
		Buckets: []float64{
			0.00001, 0.00005, 0.0001, 0.0005, 0.001,
			0.005, 0.01, 0.05, 0.1, 0.5, 1,
		},
	})

	return &Manager{
		CounterRequests:              counterRequests,
		CounterHandleRequestPanic:    counterHandleRequestPanic,
		CounterRateLimitedRequests:   counterRateLimitedRequests,
		CounterChartsBuilt:           counterChartsBuilt,
		CounterInvalidEntriesDropped: counterInvalidEntriesDropped,
		CounterChartCacheHits:        counterChartCacheHits,
		CounterChartCacheMisses:      counterChartCacheMisses,
		GaugeRequests:                gaugeRequests,
		GaugeLifeSignal:              gaugeLifeSignal,
		HistogramRequestDuration:     histogramRequestDuration,
		HistChartBuildDuration:       histChartBuildDuration,
	}
}
