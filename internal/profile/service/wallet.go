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
	"lexid/pkg/requestcontext"
)

const defaultRebindReason = "Admin updated"

// UpdateWallet rebinds a profile's wallet address. The rebind re-verifies
// the wallet: an administrator changing the binding counts as a fresh
// attestation, so the user is never locked out by a silently unverified
// wallet.
//
// Rebinding to the address the profile already holds is a no-op for the
// ledger, which keeps client retries from double-appending entries.
func (s *Service) UpdateWallet(ctx context.Context, profileID id.ProfileID, req models.UpdateWalletRequest) error {
	actorID, err := requireAdministrativeCaller(ctx)
	if err != nil {
		return err
	}
	if profileID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "profile ID is required")
	}

	address, err := wallet.Normalize(req.WalletAddress)
	if err != nil {
		return err
	}

	profile, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "profile not found")
		}
		return dErrors.Wrap(err, dErrors.CodeDependency, "failed to load profile")
	}

	// Fast pre-check; the unique constraint still decides races.
	if other, err := s.profiles.FindByWallet(ctx, address); err == nil {
		if other.ID != profileID {
			return dErrors.New(dErrors.CodeConflict, "wallet already in use")
		}
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeDependency, "failed to check wallet availability")
	}

	reason := req.Reason
	if reason == "" {
		reason = defaultRebindReason
	}

	oldAddress := profile.WalletAddress
	profile.ApplyWalletBinding(address, requestcontext.Now(ctx))

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.profiles.Update(txCtx, profile); err != nil {
			return err
		}
		return s.recorder.Record(txCtx, audit.Entry{
			ProfileID: profileID,
			Action:    audit.ActionWalletChanged,
			OldValue:  oldAddress,
			NewValue:  address,
			ChangedBy: actorPtr(actorID),
		})
	})
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrWalletTaken):
			return dErrors.New(dErrors.CodeConflict, "wallet already in use")
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.New(dErrors.CodeNotFound, "profile not found")
		default:
			return dErrors.Wrap(err, dErrors.CodeDependency, "failed to update wallet")
		}
	}

	s.invalidateCache(ctx, oldAddress)
	s.invalidateCache(ctx, address)
	s.metrics.IncrementWalletRebinds()
	s.logger.InfoContext(ctx, "wallet rebound",
		"profile_id", profileID.String(),
		"reason", reason,
	)
	return nil
}
