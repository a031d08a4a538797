//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"signup/internal/lookup/cache"
	"signup/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = cache.NewRedisCache(s.redis.Client, "")
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestGetMiss() {
	_, err := s.cache.Get(context.Background(), "city:00000")
	s.ErrorIs(err, cache.ErrNotFound)
}

func (s *RedisCacheSuite) TestSetGetDelete() {
	ctx := context.Background()

	s.Require().NoError(s.cache.Set(ctx, "city:93955", []byte(`{"city":"Seaside"}`), time.Minute))
	got, err := s.cache.Get(ctx, "city:93955")
	s.Require().NoError(err)
	s.JSONEq(`{"city":"Seaside"}`, string(got))

	s.Require().NoError(s.cache.Delete(ctx, "city:93955"))
	_, err = s.cache.Get(ctx, "city:93955")
	s.ErrorIs(err, cache.ErrNotFound)
}

func (s *RedisCacheSuite) TestKeysArePrefixedAndExpire() {
	ctx := context.Background()

	s.Require().NoError(s.cache.Set(ctx, "states", []byte(`[]`), time.Minute))

	ttl, err := s.redis.Client.TTL(ctx, cache.DefaultKeyPrefix+"states").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}
