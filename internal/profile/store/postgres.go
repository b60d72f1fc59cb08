package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"lexid/internal/profile/models"
	id "lexid/pkg/domain"
	"lexid/pkg/platform/sentinel"
	txcontext "lexid/pkg/platform/tx"
)

// PostgresStore persists profiles in the profiles table.
//
// Schema expectations:
//
//	CREATE TABLE profiles (
//	    id                 UUID PRIMARY KEY,
//	    identity_id        TEXT NOT NULL,
//	    email              TEXT NOT NULL,
//	    full_name          TEXT NOT NULL,
//	    phone              TEXT NOT NULL DEFAULT '',
//	    role               TEXT NOT NULL,
//	    wallet_address     TEXT NULL,
//	    wallet_verified    BOOLEAN NOT NULL DEFAULT FALSE,
//	    wallet_verified_at TIMESTAMPTZ NULL,
//	    created_at         TIMESTAMPTZ NOT NULL,
//	    CONSTRAINT profiles_email_key UNIQUE (email),
//	    CONSTRAINT profiles_wallet_address_key UNIQUE (wallet_address)
//	);
//
// The unique constraints are the authoritative guard for concurrent
// registrations and rebinds; this store translates their violations into
// sentinel errors so the service reports them as ordinary conflicts.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const (
	walletConstraint = "profiles_wallet_address_key"
	emailConstraint  = "profiles_email_key"
	uniqueViolation  = "23505"
)

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// mapConstraintErr converts unique-violation driver errors into sentinel
// errors. The constraint name decides which uniqueness invariant lost.
func mapConstraintErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		switch pqErr.Constraint {
		case walletConstraint:
			return sentinel.ErrWalletTaken
		case emailConstraint:
			return sentinel.ErrEmailTaken
		}
	}
	return err
}

func (s *PostgresStore) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, identity_id, email, full_name, phone, role,
			wallet_address, wallet_verified, wallet_verified_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(profile.ID),
		profile.IdentityID,
		strings.ToLower(profile.Email),
		profile.FullName,
		profile.Phone,
		string(profile.Role),
		nullableWallet(profile.WalletAddress),
		profile.WalletVerified,
		profile.WalletVerifiedAt,
		profile.CreatedAt,
	)
	if err != nil {
		if mapped := mapConstraintErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET wallet_address = $2, wallet_verified = $3, wallet_verified_at = $4
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(profile.ID),
		nullableWallet(profile.WalletAddress),
		profile.WalletVerified,
		profile.WalletVerifiedAt,
	)
	if err != nil {
		if mapped := mapConstraintErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, profileID id.ProfileID) (*models.Profile, error) {
	return s.findOne(ctx, `WHERE id = $1`, uuid.UUID(profileID))
}

func (s *PostgresStore) FindByWallet(ctx context.Context, address string) (*models.Profile, error) {
	// Stored values are canonical; lower-casing the argument keeps lookups
	// correct even for callers that skipped normalization.
	return s.findOne(ctx, `WHERE wallet_address = LOWER($1)`, address)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return s.findOne(ctx, `WHERE email = LOWER($1)`, email)
}

const selectColumns = `
	SELECT id, identity_id, email, full_name, phone, role,
	       wallet_address, wallet_verified, wallet_verified_at, created_at
	FROM profiles
`

func (s *PostgresStore) findOne(ctx context.Context, where string, arg any) (*models.Profile, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+where, arg)
	profile, err := scanProfile(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return profile, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Profile, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+`ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		profile, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return profiles, nil
}

func (s *PostgresStore) Delete(ctx context.Context, profileID id.ProfileID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, uuid.UUID(profileID))
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanProfile(scan func(dest ...any) error) (*models.Profile, error) {
	var (
		profileID  uuid.UUID
		role       string
		wallet     sql.NullString
		verifiedAt sql.NullTime
		profile    models.Profile
	)
	err := scan(
		&profileID,
		&profile.IdentityID,
		&profile.Email,
		&profile.FullName,
		&profile.Phone,
		&role,
		&wallet,
		&profile.WalletVerified,
		&verifiedAt,
		&profile.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	profile.ID = id.ProfileID(profileID)
	profile.Role = id.Role(role)
	if wallet.Valid {
		profile.WalletAddress = wallet.String
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time.UTC()
		profile.WalletVerifiedAt = &t
	}
	return &profile, nil
}

// nullableWallet stores unbound wallets as NULL so the unique constraint
// ignores them; an empty-string column would collide on the second unbound
// profile.
func nullableWallet(address string) any {
	if address == "" {
		return nil
	}
	return address
}
