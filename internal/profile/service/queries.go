package service

import (
	"context"
	"errors"

	"lexid/internal/audit"
	"lexid/internal/profile/models"
	"lexid/internal/wallet"
	id "lexid/pkg/domain"
	dErrors "lexid/pkg/domain-errors"
	"lexid/pkg/platform/sentinel"
)

// ListProfiles returns all profiles, newest created first.
func (s *Service) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "failed to list profiles")
	}
	return profiles, nil
}

// FindByWallet looks up the profile bound to a wallet address.
func (s *Service) FindByWallet(ctx context.Context, address string) (*models.Profile, error) {
	normalized, err := wallet.Normalize(address)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.FindByWallet(ctx, normalized)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no profile bound to wallet")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "failed to look up wallet")
	}
	return profile, nil
}

// AuditHistory returns a profile's ledger entries, newest first. Restricted
// to administrative callers like every mutating operation.
func (s *Service) AuditHistory(ctx context.Context, profileID id.ProfileID) ([]audit.Entry, error) {
	if _, err := requireAdministrativeCaller(ctx); err != nil {
		return nil, err
	}
	if profileID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "profile ID is required")
	}
	entries, err := s.recorder.History(ctx, profileID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "failed to read audit history")
	}
	return entries, nil
}
