// Package store provides the ledger persistence implementations: an
// in-memory store for tests and development wiring, and a PostgreSQL store
// for production.
package store

import (
	"context"
	"sort"
	"sync"

	"lexid/internal/audit"
	id "lexid/pkg/domain"
)

// InMemoryStore keeps ledger entries in memory. It favors clarity over
// performance and doubles as the test double for the recorder and services.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []audit.Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, entry audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *InMemoryStore) ListByProfile(_ context.Context, profileID id.ProfileID) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.Entry
	for _, e := range s.entries {
		if e.ProfileID == profileID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ChangedAt.After(out[j].ChangedAt)
	})
	return out, nil
}

// DeleteByProfile removes a profile's entries, mirroring the cascade the
// relational schema performs when the owning profile row is removed.
func (s *InMemoryStore) DeleteByProfile(_ context.Context, profileID id.ProfileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.ProfileID != profileID {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return nil
}
