// Package service implements the administrative operations on profiles:
// registration, wallet rebinding, verification toggles, and the read
// surface. All mutating operations require an admin or judiciary caller in
// the request context and emit audit ledger entries for every real state
// change.
package service

import (
	"context"
	"log/slog"

	"lexid/internal/audit"
	"lexid/internal/identity"
	"lexid/internal/platform/metrics"
	"lexid/internal/profile/store"
	id "lexid/pkg/domain"
	dErrors "lexid/pkg/domain-errors"
	"lexid/pkg/requestcontext"
)

// CacheInvalidator drops cached authorization lookups for a wallet after a
// mutation. A nil invalidator disables invalidation (no cache configured).
type CacheInvalidator interface {
	Invalidate(ctx context.Context, walletAddress string) error
}

// Service orchestrates profile lifecycle operations.
type Service struct {
	profiles store.Store
	provider identity.Provider
	recorder *audit.Recorder
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tx       TxRunner
	cache    CacheInvalidator
}

type serviceConfig struct {
	metrics *metrics.Metrics
	tx      TxRunner
	cache   CacheInvalidator
}

// Option configures optional service collaborators.
type Option func(*serviceConfig)

func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

func WithTxRunner(tx TxRunner) Option {
	return func(cfg *serviceConfig) { cfg.tx = tx }
}

func WithCacheInvalidator(cache CacheInvalidator) Option {
	return func(cfg *serviceConfig) { cfg.cache = cache }
}

func New(profiles store.Store, provider identity.Provider, recorder *audit.Recorder, logger *slog.Logger, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	tx := cfg.tx
	if tx == nil {
		tx = NoopTxRunner{}
	}
	return &Service{
		profiles: profiles,
		provider: provider,
		recorder: recorder,
		logger:   logger,
		metrics:  cfg.metrics,
		tx:       tx,
		cache:    cfg.cache,
	}
}

// requireAdministrativeCaller resolves the acting caller from context and
// checks the role gate before anything else touches storage.
func requireAdministrativeCaller(ctx context.Context) (id.ProfileID, error) {
	actorID := requestcontext.ActorID(ctx)
	role := requestcontext.ActorRole(ctx)
	if actorID.IsNil() && role == "" {
		return id.ProfileID{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if !role.CanAdminister() {
		return id.ProfileID{}, dErrors.New(dErrors.CodeForbidden, "admin or judiciary role required")
	}
	return actorID, nil
}

// invalidateCache is best-effort; a stale cache entry expires on its own TTL
// and must never fail the mutation that triggered it.
func (s *Service) invalidateCache(ctx context.Context, walletAddress string) {
	if s.cache == nil || walletAddress == "" {
		return
	}
	if err := s.cache.Invalidate(ctx, walletAddress); err != nil {
		s.logger.WarnContext(ctx, "authorize cache invalidation failed",
			"wallet", walletAddress,
			"error", err,
		)
	}
}
