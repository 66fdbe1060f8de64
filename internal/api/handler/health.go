package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/otocare/booking-portal/internal/infrastructure/backend"
)

// HealthHandler handles GET /health — liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ReadinessHandler handles GET /health/ready — readiness probe.
// Checks Redis, MongoDB, and the accounts backend before declaring
// the portal ready.
type ReadinessHandler struct {
	mongo   *mongo.Database
	redis   *redis.Client
	backend *backend.Client
}

func NewReadinessHandler(db *mongo.Database, rdb *redis.Client, gw *backend.Client) *ReadinessHandler {
	return &ReadinessHandler{
		mongo:   db,
		redis:   rdb,
		backend: gw,
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	if err := h.mongo.Client().Ping(ctx, nil); err != nil {
		deps["mongodb"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["mongodb"] = dependencyStatus{Status: "ok"}
	}

	if _, err := h.redis.Ping(ctx).Result(); err != nil {
		deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["redis"] = dependencyStatus{Status: "ok"}
	}

	// The backend being down degrades readiness but is survivable:
	// the session layer falls back to claims-derived identities.
	if err := h.backend.Ping(ctx); err != nil {
		deps["backend"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["backend"] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}

// ServicesHandler handles GET /health/services — cached availability
// of the optional backend microservices.
type ServicesHandler struct {
	checker *backend.AvailabilityChecker
	prober  backend.HealthProber
}

func NewServicesHandler(checker *backend.AvailabilityChecker, prober backend.HealthProber) *ServicesHandler {
	return &ServicesHandler{checker: checker, prober: prober}
}

func (h *ServicesHandler) Services(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out := make(map[string]string, len(backend.KnownServices))
	for _, svc := range backend.KnownServices {
		if h.checker.Check(ctx, h.prober, svc) {
			out[svc] = "ok"
		} else {
			out[svc] = "unavailable"
		}
	}
	return c.JSON(http.StatusOK, out)
}
