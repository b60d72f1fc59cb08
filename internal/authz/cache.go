package authz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"lexid/internal/profile/models"
	id "lexid/pkg/domain"
)

const cacheKeyPrefix = "authz:wallet:"

// Cache is a Redis read-through cache of profile-by-wallet lookups for the
// login hot path. Mutating operations invalidate affected keys; the TTL
// bounds staleness if an invalidation is ever missed.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// cachedProfile holds only what Authorize needs to answer.
type cachedProfile struct {
	ProfileID string `json:"profile_id"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	Wallet    string `json:"wallet"`
	Verified  bool   `json:"verified"`
}

func (c *Cache) Get(ctx context.Context, address string) (*models.Profile, bool, error) {
	raw, err := c.client.Get(ctx, cacheKeyPrefix+address).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var cached cachedProfile
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		// A corrupt entry is treated as a miss and overwritten on the next Set.
		return nil, false, nil
	}
	profileID, err := uuid.Parse(cached.ProfileID)
	if err != nil {
		return nil, false, nil
	}

	return &models.Profile{
		ID:             id.ProfileID(profileID),
		FullName:       cached.FullName,
		Role:           id.Role(cached.Role),
		WalletAddress:  cached.Wallet,
		WalletVerified: cached.Verified,
	}, true, nil
}

func (c *Cache) Set(ctx context.Context, profile *models.Profile) error {
	if profile.WalletAddress == "" {
		return nil
	}
	payload, err := json.Marshal(cachedProfile{
		ProfileID: profile.ID.String(),
		FullName:  profile.FullName,
		Role:      profile.Role.String(),
		Wallet:    profile.WalletAddress,
		Verified:  profile.WalletVerified,
	})
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+profile.WalletAddress, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached lookup for a wallet. Satisfies the profile
// service's CacheInvalidator.
func (c *Cache) Invalidate(ctx context.Context, address string) error {
	if err := c.client.Del(ctx, cacheKeyPrefix+address).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
