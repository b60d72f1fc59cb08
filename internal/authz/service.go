// Package authz answers the single login-path question: is this wallet,
// for this role, currently authorized to authenticate? It is a pure read
// over the profile store, safe to call on every login attempt by anonymous
// callers, and never returns data not already tied to the exact wallet
// supplied.
package authz

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"lexid/internal/profile/models"
	"lexid/internal/wallet"
	"lexid/pkg/platform/sentinel"
)

var (
	authorizeDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lexid_authorize_duration_ms",
		Help:    "Latency of wallet authorization checks in milliseconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50},
	})
	authorizeResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lexid_authorize_results_total",
		Help: "Authorization check outcomes",
	}, []string{"outcome"})
)

// Request is the login-path authorization query. Signature and Message are
// accepted for forward compatibility but are not cryptographically
// verified; wallet possession is not proven here.
type Request struct {
	WalletAddress string `json:"wallet_address"`
	Role          string `json:"role"`
	Signature     string `json:"signature,omitempty"`
	Message       string `json:"message,omitempty"`
}

// Result is always structured; a missing wallet is a denial, not an error.
// Identity fields are populated whenever a matching profile exists so the
// caller can render a meaningful denial, and never otherwise.
type Result struct {
	Authorized bool   `json:"authorized"`
	Reason     string `json:"reason,omitempty"`
	ProfileID  string `json:"profile_id,omitempty"`
	FullName   string `json:"full_name,omitempty"`
	Role       string `json:"role,omitempty"`
}

// ProfileReader is the slice of the profile store this service needs.
type ProfileReader interface {
	FindByWallet(ctx context.Context, address string) (*models.Profile, error)
}

// Service evaluates authorization queries, optionally through a cache.
type Service struct {
	profiles ProfileReader
	cache    *Cache
	logger   *slog.Logger
}

// ServiceOption configures optional collaborators.
type ServiceOption func(*Service)

// WithCache attaches a read-through cache. A nil cache is ignored.
func WithCache(cache *Cache) ServiceOption {
	return func(s *Service) { s.cache = cache }
}

func NewService(profiles ProfileReader, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{profiles: profiles, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authorize evaluates the three-way check: wallet bound, role matches,
// wallet verified. Infrastructure failures are the only error return; every
// domain outcome is a structured Result.
func (s *Service) Authorize(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	defer func() {
		authorizeDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	address, err := wallet.Normalize(req.WalletAddress)
	if err != nil {
		authorizeResults.WithLabelValues("invalid_wallet").Inc()
		return Result{Authorized: false, Reason: "invalid wallet address format"}, nil
	}

	profile, err := s.lookup(ctx, address)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			authorizeResults.WithLabelValues("not_found").Inc()
			return Result{Authorized: false, Reason: "wallet not registered"}, nil
		}
		authorizeResults.WithLabelValues("error").Inc()
		return Result{}, err
	}

	result := Result{
		ProfileID: profile.ID.String(),
		FullName:  profile.FullName,
		Role:      profile.Role.String(),
	}
	switch {
	case profile.Role.String() != req.Role:
		result.Reason = "role mismatch"
		authorizeResults.WithLabelValues("role_mismatch").Inc()
	case !profile.WalletVerified:
		result.Reason = "wallet not verified"
		authorizeResults.WithLabelValues("unverified").Inc()
	default:
		result.Authorized = true
		authorizeResults.WithLabelValues("authorized").Inc()
	}
	return result, nil
}

// lookup consults the cache first when one is configured. Cache failures
// degrade to the store; the login path must not depend on Redis health.
func (s *Service) lookup(ctx context.Context, address string) (*models.Profile, error) {
	if s.cache != nil {
		if profile, ok, err := s.cache.Get(ctx, address); err != nil {
			s.logger.WarnContext(ctx, "authorize cache read failed", "error", err)
		} else if ok {
			return profile, nil
		}
	}

	profile, err := s.profiles.FindByWallet(ctx, address)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, profile); err != nil {
			s.logger.WarnContext(ctx, "authorize cache write failed", "error", err)
		}
	}
	return profile, nil
}
