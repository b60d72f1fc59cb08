package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"lexid/internal/profile/models"
	id "lexid/pkg/domain"
	"lexid/pkg/platform/sentinel"
)

// InMemoryStore keeps profiles in memory. It enforces the same uniqueness
// contract as the PostgreSQL store under a single mutex, so service tests
// exercise real conflict behavior without a database.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[id.ProfileID]*models.Profile
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[id.ProfileID]*models.Profile)}
}

func (s *InMemoryStore) Create(_ context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnique(profile); err != nil {
		return err
	}
	clone := *profile
	s.profiles[profile.ID] = &clone
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[profile.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if err := s.checkUnique(profile); err != nil {
		return err
	}
	clone := *profile
	s.profiles[profile.ID] = &clone
	return nil
}

// checkUnique mirrors the relational constraints: wallet and email must not
// collide with any other profile. Caller holds the write lock.
func (s *InMemoryStore) checkUnique(profile *models.Profile) error {
	for _, existing := range s.profiles {
		if existing.ID == profile.ID {
			continue
		}
		if profile.WalletAddress != "" && existing.WalletAddress == profile.WalletAddress {
			return sentinel.ErrWalletTaken
		}
		if strings.EqualFold(existing.Email, profile.Email) {
			return sentinel.ErrEmailTaken
		}
	}
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, profileID id.ProfileID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if profile, ok := s.profiles[profileID]; ok {
		clone := *profile
		return &clone, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindByWallet(_ context.Context, address string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, profile := range s.profiles {
		if profile.WalletAddress != "" && profile.WalletAddress == address {
			clone := *profile
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, profile := range s.profiles {
		if strings.EqualFold(profile.Email, email) {
			clone := *profile
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Profile, 0, len(s.profiles))
	for _, profile := range s.profiles {
		clone := *profile
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, profileID id.ProfileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[profileID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.profiles, profileID)
	return nil
}
