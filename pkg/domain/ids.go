// Package domain hosts the small shared vocabulary of the service: typed
// identifiers and the role enumeration. Keep this package free of
// infrastructure imports so every layer can depend on it.
package domain

import (
	"github.com/google/uuid"

	dErrors "lexid/pkg/domain-errors"
)

// ProfileID identifies a user profile.
// Invariant: a valid ProfileID is a non-nil UUID.
type ProfileID uuid.UUID

// EntryID identifies an audit ledger entry.
type EntryID uuid.UUID

// NewProfileID mints a random profile identifier.
func NewProfileID() ProfileID { return ProfileID(uuid.New()) }

// NewEntryID mints a random audit entry identifier.
func NewEntryID() EntryID { return EntryID(uuid.New()) }

// ParseProfileID constructs a ProfileID from external input.
//
// Usage: call from handlers/adapters when parsing requests; direct casting
// bypasses validation.
//
// Errors: CodeInvalidInput when the value is empty, not a UUID, or the nil
// UUID.
func ParseProfileID(s string) (ProfileID, error) {
	u, err := parseUUID(s, "profile ID")
	if err != nil {
		return ProfileID{}, err
	}
	return ProfileID(u), nil
}

// ParseEntryID constructs an EntryID from external input.
func ParseEntryID(s string) (EntryID, error) {
	u, err := parseUUID(s, "entry ID")
	if err != nil {
		return EntryID{}, err
	}
	return EntryID(u), nil
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be nil")
	}
	return u, nil
}

func (id ProfileID) String() string { return uuid.UUID(id).String() }
func (id ProfileID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id EntryID) String() string { return uuid.UUID(id).String() }
func (id EntryID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
