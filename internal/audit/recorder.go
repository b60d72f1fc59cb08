package audit

import (
	"context"
	"log/slog"

	id "lexid/pkg/domain"
	"lexid/pkg/requestcontext"
)

// Store is the persistence surface for ledger entries. Append-only: there is
// deliberately no update or delete.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByProfile(ctx context.Context, profileID id.ProfileID) ([]Entry, error)
}

// Recorder writes ledger entries and fans them out to an optional mirror
// channel consumed by a background publisher. The store is the source of
// truth; the mirror is fire-and-forget.
type Recorder struct {
	store  Store
	mirror chan<- Entry
	logger *slog.Logger
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithMirror attaches a mirror channel. Entries that cannot be enqueued
// without blocking are dropped; the ledger row has already been written.
func WithMirror(mirror chan<- Entry) RecorderOption {
	return func(r *Recorder) { r.mirror = mirror }
}

func NewRecorder(store Store, logger *slog.Logger, opts ...RecorderOption) *Recorder {
	r := &Recorder{store: store, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record appends one entry for a real value change. Entries whose old and
// new values are equal are no-op transitions and are silently skipped, which
// keeps retried toggles from double-appending.
func (r *Recorder) Record(ctx context.Context, entry Entry) error {
	if entry.OldValue == entry.NewValue {
		return nil
	}
	if entry.ID.IsNil() {
		entry.ID = id.NewEntryID()
	}
	if entry.ChangedAt.IsZero() {
		entry.ChangedAt = requestcontext.Now(ctx)
	}
	if err := r.store.Append(ctx, entry); err != nil {
		return err
	}
	if r.mirror != nil {
		select {
		case r.mirror <- entry:
		default:
			r.logger.WarnContext(ctx, "audit mirror queue full, entry dropped from mirror",
				"entry_id", entry.ID.String(),
				"action", string(entry.Action),
			)
		}
	}
	return nil
}

// History returns a profile's entries, newest first.
func (r *Recorder) History(ctx context.Context, profileID id.ProfileID) ([]Entry, error) {
	return r.store.ListByProfile(ctx, profileID)
}
