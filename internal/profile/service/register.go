package service

import (
	"context"
	"errors"
	"strings"

	"lexid/internal/audit"
	"lexid/internal/identity"
	"lexid/internal/profile/models"
	"lexid/internal/wallet"
	id "lexid/pkg/domain"
	dErrors "lexid/pkg/domain-errors"
	"lexid/pkg/platform/sentinel"
	"lexid/pkg/requestcontext"
)

// Register creates a new profile with an immediately verified wallet.
// Administrative registration implies trust: the registering admin is
// attesting the wallet binding.
//
// The identity-provider create and the profile insert live in different
// systems, so the sequence is compensated rather than transactional: if the
// profile insert fails after the identity was created, the identity is
// deleted again. A failed compensation leaves an orphaned identity; that is
// reported as CodeCompensation and logged loudly for operator cleanup,
// never silently folded into "registration failed".
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (id.ProfileID, error) {
	actorID, err := requireAdministrativeCaller(ctx)
	if err != nil {
		return id.ProfileID{}, err
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" {
		return id.ProfileID{}, dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if req.FullName == "" {
		return id.ProfileID{}, dErrors.New(dErrors.CodeValidation, "full name is required")
	}
	role, err := id.ParseRole(req.Role)
	if err != nil {
		return id.ProfileID{}, dErrors.New(dErrors.CodeValidation, "invalid role")
	}
	address, err := wallet.Normalize(req.WalletAddress)
	if err != nil {
		return id.ProfileID{}, err
	}

	// Pre-checks give a fast, friendly conflict before touching the
	// identity provider. The store constraint remains the source of truth;
	// a lost race resurfaces below as the same conflict.
	if err := s.checkAvailability(ctx, address, req.Email); err != nil {
		return id.ProfileID{}, err
	}

	identityID, err := s.createIdentity(ctx, req, role)
	if err != nil {
		s.metrics.IncrementRegistrationFailures("identity_provider")
		return id.ProfileID{}, err
	}

	now := requestcontext.Now(ctx)
	profile := &models.Profile{
		ID:               id.NewProfileID(),
		IdentityID:       identityID,
		Email:            req.Email,
		FullName:         req.FullName,
		Phone:            strings.TrimSpace(req.Phone),
		Role:             role,
		WalletAddress:    address,
		WalletVerified:   true,
		WalletVerifiedAt: &now,
		CreatedAt:        now,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.profiles.Create(txCtx, profile); err != nil {
			return err
		}
		return s.recorder.Record(txCtx, audit.Entry{
			ProfileID: profile.ID,
			Action:    audit.ActionWalletAdded,
			NewValue:  address,
			ChangedBy: actorPtr(actorID),
		})
	})
	if err != nil {
		s.compensate(ctx, identityID, &err)
		s.metrics.IncrementRegistrationFailures("profile_insert")
		return id.ProfileID{}, translateConflict(err, "failed to create profile")
	}

	s.invalidateCache(ctx, address)
	s.metrics.IncrementProfilesRegistered()
	s.logger.InfoContext(ctx, "profile registered",
		"profile_id", profile.ID.String(),
		"role", role.String(),
	)
	return profile.ID, nil
}

func (s *Service) checkAvailability(ctx context.Context, address, email string) error {
	if _, err := s.profiles.FindByWallet(ctx, address); err == nil {
		return dErrors.New(dErrors.CodeConflict, "wallet already registered")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeDependency, "failed to check wallet availability")
	}

	if _, err := s.profiles.FindByEmail(ctx, email); err == nil {
		return dErrors.New(dErrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeDependency, "failed to check email availability")
	}
	return nil
}

func (s *Service) createIdentity(ctx context.Context, req models.RegisterRequest, role id.Role) (string, error) {
	credential, err := identity.GenerateTempCredential()
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate credential")
	}
	hashed, err := identity.HashCredential(credential)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash credential")
	}
	identityID, err := s.provider.CreateIdentity(ctx, req.Email, hashed, identity.Metadata{
		FullName: req.FullName,
		Role:     role.String(),
	})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeDependency, "identity provider rejected creation")
	}
	return identityID, nil
}

// compensate undoes the identity created before a failed profile insert.
// One retry; a second failure upgrades the outgoing error to
// CodeCompensation so the orphaned identity is observable.
func (s *Service) compensate(ctx context.Context, identityID string, outErr *error) {
	delErr := s.provider.DeleteIdentity(ctx, identityID)
	if delErr != nil {
		delErr = s.provider.DeleteIdentity(ctx, identityID)
	}
	if delErr == nil {
		return
	}

	s.metrics.IncrementCompensationFailures()
	s.logger.ErrorContext(ctx, "identity compensation failed, orphaned identity requires manual cleanup",
		"identity_id", identityID,
		"insert_error", (*outErr).Error(),
		"delete_error", delErr.Error(),
	)
	*outErr = dErrors.Wrap(*outErr, dErrors.CodeCompensation,
		"registration failed and identity cleanup failed; identity "+identityID+" is orphaned")
}

// translateConflict maps store sentinel conflicts onto the caller-facing
// conflict errors, keeping constraint-detected races indistinguishable from
// pre-check conflicts.
func translateConflict(err error, fallback string) error {
	switch {
	case dErrors.HasCode(err, dErrors.CodeCompensation):
		return err
	case errors.Is(err, sentinel.ErrWalletTaken):
		return dErrors.New(dErrors.CodeConflict, "wallet already registered")
	case errors.Is(err, sentinel.ErrEmailTaken):
		return dErrors.New(dErrors.CodeConflict, "email already registered")
	default:
		return dErrors.Wrap(err, dErrors.CodeDependency, fallback)
	}
}

func actorPtr(actorID id.ProfileID) *id.ProfileID {
	if actorID.IsNil() {
		return nil
	}
	return &actorID
}
