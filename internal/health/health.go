package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// ComponentHealth represents the health of a single component
type ComponentHealth struct {
	Status   Status `json:"status"`
	Message  string `json:"message,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// HealthResponse represents the full health check response
type HealthResponse struct {
	Status     Status                     `json:"status"`
	Timestamp  string                     `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// Checker performs health checks on the store backend
type Checker struct {
	db           *sql.DB
	version      string
	checkTimeout time.Duration
}

// CheckerConfig holds configuration for the health checker
type CheckerConfig struct {
	// DB is nil when the in-memory backend is active
	DB      *sql.DB
	Version string
	Timeout time.Duration
}

// NewChecker creates a new health checker
func NewChecker(cfg *CheckerConfig) *Checker {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Checker{
		db:           cfg.DB,
		version:      cfg.Version,
		checkTimeout: timeout,
	}
}

// Check probes every configured component
func (c *Checker) Check(ctx context.Context) HealthResponse {
	resp := HealthResponse{
		Status:     StatusHealthy,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Version:    c.version,
		Components: make(map[string]ComponentHealth),
	}

	if c.db == nil {
		resp.Components["store"] = ComponentHealth{
			Status:  StatusHealthy,
			Message: "in-memory store",
		}
		return resp
	}

	start := time.Now()
	checkCtx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	component := ComponentHealth{Status: StatusHealthy}
	if err := c.db.PingContext(checkCtx); err != nil {
		component.Status = StatusUnhealthy
		component.Message = err.Error()
		resp.Status = StatusUnhealthy
	}
	component.Duration = time.Since(start).String()
	resp.Components["database"] = component

	return resp
}

// Handler serves health check endpoints
type Handler struct {
	checker *Checker
}

// NewHandler creates a new health handler
func NewHandler(checker *Checker) *Handler {
	return &Handler{checker: checker}
}

// HealthHandler handles GET /health
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := h.checker.Check(r.Context())

	status := http.StatusOK
	if resp.Status != StatusHealthy {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
