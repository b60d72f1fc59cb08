package audit

import (
	"time"

	id "lexid/pkg/domain"
)

// Action identifies the state transition an entry records.
type Action string

const (
	ActionWalletAdded      Action = "wallet_added"
	ActionWalletChanged    Action = "wallet_changed"
	ActionWalletVerified   Action = "wallet_verified"
	ActionWalletUnverified Action = "wallet_unverified"
	ActionRoleAssigned     Action = "role_assigned"
)

// Entry is one append-only ledger row. Entries are never updated or deleted
// independently of their owning profile; they cascade away with it.
//
// ChangedBy is nil when the mutation is attributed to the system itself
// rather than an authenticated administrative caller.
type Entry struct {
	ID        id.EntryID
	ProfileID id.ProfileID
	Action    Action
	OldValue  string
	NewValue  string
	ChangedBy *id.ProfileID
	ChangedAt time.Time
}
