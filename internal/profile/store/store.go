// Package store persists profiles. Stores are interface-driven so the
// service layer stays testable and the in-memory and PostgreSQL
// implementations are interchangeable.
package store

import (
	"context"

	"lexid/internal/profile/models"
	id "lexid/pkg/domain"
)

// Store is the profile persistence surface.
//
// Uniqueness contract: Create and Update return sentinel.ErrWalletTaken or
// sentinel.ErrEmailTaken when the write loses to the wallet/email
// constraint. The storage constraint, not any pre-check, is the
// authoritative guard against concurrent check-then-act races.
type Store interface {
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	FindByID(ctx context.Context, profileID id.ProfileID) (*models.Profile, error)
	FindByWallet(ctx context.Context, address string) (*models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)

	// Delete exists only for registration compensation; no administrative
	// operation removes profiles.
	Delete(ctx context.Context, profileID id.ProfileID) error
}
