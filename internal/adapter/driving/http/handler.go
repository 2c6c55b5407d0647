package httphandler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/dbsession/internal/domain/port/driven"
)

// probeTimeout bounds the liveness ping issued for one health request.
const probeTimeout = 2 * time.Second

// Handler is the HTTP driving adapter that reports database health.
type Handler struct {
	db     driven.ConnectionManager
	logger *slog.Logger
}

// NewHandler creates a Handler. db must be safe for concurrent use; wrap a
// plain manager in application.SyncConnection.
func NewHandler(db driven.ConnectionManager, logger *slog.Logger) *Handler {
	return &Handler{
		db:     db,
		logger: logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Health reports whether the managed database connection is alive.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:   "ok",
		Database: "connected",
		Time:     time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	if !h.db.IsConnected(ctx) {
		resp.Status = "degraded"
		resp.Database = "disconnected"
		status = http.StatusServiceUnavailable
		h.logger.Warn("health check: database unavailable", "state", h.db.State())
	}

	writeJSON(w, status, resp)
}
