package authz

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lexid/internal/platform/middleware"
	dErrors "lexid/pkg/domain-errors"
	"lexid/pkg/platform/httputil"
	"lexid/pkg/requestcontext"
)

// Handler exposes the anonymous login-path authorization endpoint. No auth
// middleware: callers are unauthenticated by definition.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	authRouter := chi.NewRouter()
	authRouter.Use(middleware.Recovery(h.logger))
	authRouter.Use(middleware.RequestID)
	authRouter.Use(middleware.RequestTime)
	authRouter.Use(middleware.Logger(h.logger))
	authRouter.Use(middleware.Timeout(10 * time.Second))
	authRouter.Use(middleware.ContentTypeJSON)

	authRouter.Post("/wallet/authorize", h.handleAuthorize)

	r.Mount("/auth", authRouter)
}

func (h *Handler) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.service.Authorize(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "authorization check failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeDependency, "authorization check unavailable"))
		return
	}

	// Denials are 200s with a structured body; only infrastructure faults
	// surface as HTTP errors.
	httputil.WriteJSON(w, http.StatusOK, result)
}
