package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/weighttrend/internal/chart"
	"github.com/2beens/weighttrend/internal/config"
	"github.com/2beens/weighttrend/internal/db"
	"github.com/2beens/weighttrend/internal/health"
	"github.com/2beens/weighttrend/internal/middleware"
	"github.com/2beens/weighttrend/internal/telemetry/metrics"
	"github.com/2beens/weighttrend/internal/telemetry/tracing"
	"github.com/2beens/weighttrend/internal/weighttrend"
	"github.com/2beens/weighttrend/internal/weightlog"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config       *config.Config
	dbPool       *pgxpool.Pool // nil unless the history is read from postgres
	redisClient  *redis.Client
	rateLimiter  middleware.RequestRateLimiter
	chartService *chart.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "weighttrend-backend", rdb)
	if err != nil {
		return nil, err
	}

	var (
		dbPool     *pgxpool.Pool
		collectors []prometheus.Collector
		history    interface {
			ListEntries(ctx context.Context, userID string) ([]weighttrend.WeightLogEntry, error)
			GetProfile(ctx context.Context, userID string) (*weightlog.Profile, error)
		}
	)

	switch cfg.HistorySource {
	case config.HistorySourcePostgres:
		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			MaxConns:       cfg.PostgresMaxConns,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}

		collectors = append(collectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
		history = weightlog.NewRepo(dbPool)
	case config.HistorySourceHTTP:
		history = weightlog.NewClient(cfg.HistoryApiBaseURL, &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   time.Duration(cfg.HistoryApiTimeoutS) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown history source: %s", cfg.HistorySource)
	}

	promRegistry, err := metrics.SetupPrometheus(collectors...)
	if err != nil {
		return nil, fmt.Errorf("setup prometheus: %w", err)
	}
	metricsManager := metrics.NewManager("backend", "weighttrend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	return &Server{
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,
		rateLimiter: redis_rate.NewLimiter(rdb),
		versionInfo: params.VersionInfo,
		chartService: chart.NewService(
			history,
			history,
			cfg.ChartCacheSizeMB,
			time.Duration(cfg.ChartCacheTTLSeconds)*time.Second,
			metricsManager,
		),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	defaultWindow, err := weighttrend.ParseTimeWindow(s.config.DefaultWindow)
	if err != nil {
		return nil, fmt.Errorf("default window: %w", err)
	}

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("weighttrend-router"))

	var dbPinger interface {
		Ping(ctx context.Context) error
	}
	if s.dbPool != nil {
		dbPinger = s.dbPool
	}
	healthHandler := health.NewHandler(s.redisClient, dbPinger, s.versionInfo)
	healthHandler.SetupRoutes(r)

	chartHandler := chart.NewHandler(
		s.chartService,
		defaultWindow,
		s.config.DefaultViewport,
		s.config.MaxViewportSidePixels,
	)
	chartHandler.SetupRoutes(
		r,
		s.rateLimiter,
		s.metricsManager,
		s.config.ChartRateLimitPerMin,
	)

	// all the rest - unhandled paths
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins...))
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
