// Package handler is the thin HTTP layer over the profile service. It
// delegates to the service without embedding business logic so transport
// concerns remain isolated.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lexid/internal/audit"
	"lexid/internal/platform/middleware"
	profileModel "lexid/internal/profile/models"
	id "lexid/pkg/domain"
	dErrors "lexid/pkg/domain-errors"
	"lexid/pkg/platform/httputil"
	"lexid/pkg/requestcontext"
)

// Service defines the profile operations the admin surface exposes.
type Service interface {
	Register(ctx context.Context, req profileModel.RegisterRequest) (id.ProfileID, error)
	UpdateWallet(ctx context.Context, profileID id.ProfileID, req profileModel.UpdateWalletRequest) error
	SetVerified(ctx context.Context, profileID id.ProfileID, verified bool) error
	ListProfiles(ctx context.Context) ([]*profileModel.Profile, error)
	FindByWallet(ctx context.Context, address string) (*profileModel.Profile, error)
	AuditHistory(ctx context.Context, profileID id.ProfileID) ([]audit.Entry, error)
}

// Handler handles the administrative profile endpoints.
type Handler struct {
	logger    *slog.Logger
	profiles  Service
	validator middleware.TokenValidator
}

func New(profiles Service, validator middleware.TokenValidator, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		profiles:  profiles,
		validator: validator,
	}
}

// Register mounts the admin routes with the full middleware chain. Every
// route requires an authenticated caller; the service enforces the role
// gate on top.
func (h *Handler) Register(r chi.Router) {
	adminRouter := chi.NewRouter()
	adminRouter.Use(middleware.Recovery(h.logger))
	adminRouter.Use(middleware.RequestID)
	adminRouter.Use(middleware.RequestTime)
	adminRouter.Use(middleware.Logger(h.logger))
	adminRouter.Use(middleware.Timeout(30 * time.Second))
	adminRouter.Use(middleware.ContentTypeJSON)
	adminRouter.Use(middleware.RequireAuth(h.validator, h.logger))

	adminRouter.Post("/profiles", h.handleRegister)
	adminRouter.Get("/profiles", h.handleList)
	adminRouter.Get("/profiles/wallet/{address}", h.handleFindByWallet)
	adminRouter.Put("/profiles/{profileID}/wallet", h.handleUpdateWallet)
	adminRouter.Put("/profiles/{profileID}/verification", h.handleSetVerified)
	adminRouter.Get("/profiles/{profileID}/audit", h.handleAuditHistory)

	r.Mount("/admin", adminRouter)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req profileModel.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	profileID, err := h.profiles.Register(ctx, req)
	if err != nil {
		h.logFailure(ctx, "register profile", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]string{
		"profile_id": profileID.String(),
	})
}

func (h *Handler) handleUpdateWallet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profileID, err := id.ParseProfileID(chi.URLParam(r, "profileID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req profileModel.UpdateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.profiles.UpdateWallet(ctx, profileID, req); err != nil {
		h.logFailure(ctx, "update wallet", err)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetVerified(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profileID, err := id.ParseProfileID(chi.URLParam(r, "profileID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req profileModel.SetVerifiedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.profiles.SetVerified(ctx, profileID, req.Verified); err != nil {
		h.logFailure(ctx, "set verified", err)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.ListProfiles(r.Context())
	if err != nil {
		h.logFailure(r.Context(), "list profiles", err)
		httputil.WriteError(w, err)
		return
	}

	out := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileResponse(p))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleFindByWallet(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.FindByWallet(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *Handler) handleAuditHistory(w http.ResponseWriter, r *http.Request) {
	profileID, err := id.ParseProfileID(chi.URLParam(r, "profileID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, err := h.profiles.AuditHistory(r.Context(), profileID)
	if err != nil {
		h.logFailure(r.Context(), "audit history", err)
		httputil.WriteError(w, err)
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// logFailure keeps handler logging uniform: expected outcomes (conflicts,
// not-found, authorization) log at warn, infrastructure at error.
func (h *Handler) logFailure(ctx context.Context, op string, err error) {
	attrs := []any{
		"error", err.Error(),
		"request_id", requestcontext.RequestID(ctx),
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeDependency, dErrors.CodeCompensation, dErrors.CodeInternal:
		h.logger.ErrorContext(ctx, "failed to "+op, attrs...)
	default:
		h.logger.WarnContext(ctx, "rejected "+op, attrs...)
	}
}
