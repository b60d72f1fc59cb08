package service

import (
	"context"
	"errors"
	"strconv"

	"lexid/internal/audit"
	id "lexid/pkg/domain"
	dErrors "lexid/pkg/domain-errors"
	"lexid/pkg/platform/sentinel"
	"lexid/pkg/requestcontext"
)

// SetVerified toggles a wallet's verification state. Both directions are
// legal from either state; setting the current value is an idempotent no-op
// that emits no ledger entry.
//
// Unverifying revokes login authorization immediately; callers should treat
// it as a destructive action.
func (s *Service) SetVerified(ctx context.Context, profileID id.ProfileID, verified bool) error {
	actorID, err := requireAdministrativeCaller(ctx)
	if err != nil {
		return err
	}
	if profileID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "profile ID is required")
	}

	profile, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "profile not found")
		}
		return dErrors.Wrap(err, dErrors.CodeDependency, "failed to load profile")
	}

	wasVerified := profile.WalletVerified
	if !profile.ApplyVerification(verified, requestcontext.Now(ctx)) {
		return nil
	}

	action := audit.ActionWalletVerified
	if !verified {
		action = audit.ActionWalletUnverified
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.profiles.Update(txCtx, profile); err != nil {
			return err
		}
		return s.recorder.Record(txCtx, audit.Entry{
			ProfileID: profileID,
			Action:    action,
			OldValue:  strconv.FormatBool(wasVerified),
			NewValue:  strconv.FormatBool(verified),
			ChangedBy: actorPtr(actorID),
		})
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "profile not found")
		}
		return dErrors.Wrap(err, dErrors.CodeDependency, "failed to update verification state")
	}

	s.invalidateCache(ctx, profile.WalletAddress)
	s.metrics.IncrementVerificationToggles(verified)
	s.logger.InfoContext(ctx, "wallet verification changed",
		"profile_id", profileID.String(),
		"verified", verified,
	)
	return nil
}
