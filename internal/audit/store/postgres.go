package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"lexid/internal/audit"
	id "lexid/pkg/domain"
	txcontext "lexid/pkg/platform/tx"
)

// PostgresStore persists ledger entries in the audit_entries table.
//
// Schema expectations:
//
//	CREATE TABLE audit_entries (
//	    id         UUID PRIMARY KEY,
//	    profile_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
//	    action     TEXT NOT NULL,
//	    old_value  TEXT NOT NULL DEFAULT '',
//	    new_value  TEXT NOT NULL DEFAULT '',
//	    changed_by UUID NULL,
//	    changed_at TIMESTAMPTZ NOT NULL
//	);
//
// ON DELETE CASCADE is what removes a profile's history if the profile row
// is ever removed; the store itself exposes no delete.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execer returns the context transaction when one is present so ledger
// appends commit atomically with the profile mutation that caused them.
func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Append(ctx context.Context, entry audit.Entry) error {
	query := `
		INSERT INTO audit_entries (id, profile_id, action, old_value, new_value, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	var changedBy *uuid.UUID
	if entry.ChangedBy != nil {
		u := uuid.UUID(*entry.ChangedBy)
		changedBy = &u
	}

	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(entry.ID),
		uuid.UUID(entry.ProfileID),
		string(entry.Action),
		entry.OldValue,
		entry.NewValue,
		changedBy,
		entry.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByProfile(ctx context.Context, profileID id.ProfileID) ([]audit.Entry, error) {
	query := `
		SELECT id, profile_id, action, old_value, new_value, changed_by, changed_at
		FROM audit_entries
		WHERE profile_id = $1
		ORDER BY changed_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(profileID))
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			entryID   uuid.UUID
			ownerID   uuid.UUID
			action    string
			entry     audit.Entry
			changedBy *uuid.UUID
		)
		err := rows.Scan(&entryID, &ownerID, &action, &entry.OldValue, &entry.NewValue, &changedBy, &entry.ChangedAt)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.ID = id.EntryID(entryID)
		entry.ProfileID = id.ProfileID(ownerID)
		entry.Action = audit.Action(action)
		if changedBy != nil {
			actor := id.ProfileID(*changedBy)
			entry.ChangedBy = &actor
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}
