package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/2beens/weighttrend/internal/telemetry/tracing"
	"github.com/2beens/weighttrend/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const pingTimeout = 2 * time.Second

type dbPinger interface {
	Ping(ctx context.Context) error
}

type Status struct {
	Status   string            `json:"status"`
	Version  string            `json:"version,omitempty"`
	Checks   map[string]string `json:"checks"`
	Degraded bool              `json:"degraded"`
}

type Handler struct {
	redisClient *redis.Client
	db          dbPinger
	versionInfo string
}

// NewHandler creates the health handler; db may be nil when the
// history is not read from postgres.
func NewHandler(redisClient *redis.Client, db dbPinger, versionInfo string) *Handler {
	return &Handler{
		redisClient: redisClient,
		db:          db,
		versionInfo: versionInfo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET").Name("root")
	mainRouter.HandleFunc("/health", handler.handleHealth).Methods("GET").Name("health")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "healthHandler.health")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := Status{
		Status:  "ok",
		Version: handler.versionInfo,
		Checks:  map[string]string{},
	}

	if err := handler.redisClient.Ping(ctx).Err(); err != nil {
		log.Warnf("health: redis ping: %s", err)
		status.Checks["redis"] = err.Error()
		status.Degraded = true
	} else {
		status.Checks["redis"] = "ok"
	}

	if handler.db != nil {
		if err := handler.db.Ping(ctx); err != nil {
			log.Warnf("health: postgres ping: %s", err)
			status.Checks["postgres"] = err.Error()
			status.Degraded = true
		} else {
			status.Checks["postgres"] = "ok"
		}
	}

	statusCode := http.StatusOK
	if status.Degraded {
		status.Status = "degraded"
		statusCode = http.StatusServiceUnavailable
		span.SetStatus(codes.Error, "degraded")
	}
	span.SetAttributes(attribute.Bool("health.degraded", status.Degraded))

	statusJson, err := json.Marshal(status)
	if err != nil {
		log.Errorf("marshal health status: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, statusJson, statusCode)
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}
