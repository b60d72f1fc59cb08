//go:build integration

package authz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lexid/internal/profile/models"
	id "lexid/pkg/domain"
	"lexid/pkg/testutil/containers"
)

type CacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *Cache
}

func TestCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.cache = NewCache(s.redis.Client, time.Minute)
}

func (s *CacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *CacheSuite) cachedProfile() *models.Profile {
	now := time.Now().UTC()
	return &models.Profile{
		ID:               id.NewProfileID(),
		FullName:         "Dana Whitfield",
		Role:             id.RoleLawyer,
		WalletAddress:    testWallet,
		WalletVerified:   true,
		WalletVerifiedAt: &now,
	}
}

func (s *CacheSuite) TestSetGetRoundTrip() {
	ctx := context.Background()
	profile := s.cachedProfile()
	s.Require().NoError(s.cache.Set(ctx, profile))

	got, ok, err := s.cache.Get(ctx, testWallet)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal(profile.ID, got.ID)
	s.Equal(profile.FullName, got.FullName)
	s.Equal(profile.Role, got.Role)
	s.True(got.WalletVerified)
}

func (s *CacheSuite) TestGetMiss() {
	_, ok, err := s.cache.Get(context.Background(), testWallet)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *CacheSuite) TestInvalidate() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, s.cachedProfile()))
	s.Require().NoError(s.cache.Invalidate(ctx, testWallet))

	_, ok, err := s.cache.Get(ctx, testWallet)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *CacheSuite) TestEntriesExpire() {
	ctx := context.Background()
	shortLived := NewCache(s.redis.Client, 100*time.Millisecond)
	s.Require().NoError(shortLived.Set(ctx, s.cachedProfile()))

	time.Sleep(200 * time.Millisecond)

	_, ok, err := shortLived.Get(ctx, testWallet)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *CacheSuite) TestCorruptEntryTreatedAsMiss() {
	ctx := context.Background()
	s.Require().NoError(s.redis.Client.Set(ctx, cacheKeyPrefix+testWallet, "{not json", time.Minute).Err())

	_, ok, err := s.cache.Get(ctx, testWallet)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *CacheSuite) TestSetSkipsUnboundWallet() {
	ctx := context.Background()
	profile := s.cachedProfile()
	profile.WalletAddress = ""
	s.Require().NoError(s.cache.Set(ctx, profile))

	keys, err := s.redis.Client.Keys(ctx, cacheKeyPrefix+"*").Result()
	s.Require().NoError(err)
	s.Empty(keys)
}
