// Package health reports process liveness and dependency readiness.
package health

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lexid/pkg/platform/httputil"
)

// Pinger is any dependency with a context-aware health probe.
type Pinger interface {
	Health(ctx context.Context) error
}

// Handler answers /healthz. The database is required; Redis is optional and
// only degrades the report when configured.
type Handler struct {
	db     *sql.DB
	cache  Pinger
	logger *slog.Logger
}

func NewHandler(db *sql.DB, cache Pinger, logger *slog.Logger) *Handler {
	return &Handler{db: db, cache: cache, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	healthy := true

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.ErrorContext(ctx, "health check: database unreachable", "error", err)
			status["database"] = "unreachable"
			healthy = false
		} else {
			status["database"] = "ok"
		}
	}

	if h.cache != nil {
		if err := h.cache.Health(ctx); err != nil {
			h.logger.WarnContext(ctx, "health check: cache unreachable", "error", err)
			status["cache"] = "unreachable"
		} else {
			status["cache"] = "ok"
		}
	}

	if !healthy {
		status["status"] = "degraded"
		httputil.WriteJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}
