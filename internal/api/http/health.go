package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	dependencyUp       = "up"
	dependencyDown     = "down"
	dependencyDisabled = "disabled"
)

type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// DependencyCheck pings one backing service. A nil Ping reports "disabled".
type DependencyCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthHandler struct {
	serviceName string
	version     string
	checks      []DependencyCheck
	timeout     time.Duration
}

func NewHealthHandler(serviceName, version string, checks ...DependencyCheck) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		checks:      checks,
		timeout:     time.Second,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	var deps map[string]string
	if len(h.checks) > 0 {
		deps = make(map[string]string, len(h.checks))
	}
	for _, check := range h.checks {
		if check.Ping == nil {
			deps[check.Name] = dependencyDisabled
			continue
		}
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		if err := check.Ping(pingCtx); err != nil {
			deps[check.Name] = dependencyDown
		} else {
			deps[check.Name] = dependencyUp
		}
		cancel()
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:       "healthy",
		Timestamp:    time.Now().UTC(),
		Service:      h.serviceName,
		Version:      h.version,
		Dependencies: deps,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
