package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type MemoryCacheSuite struct {
	suite.Suite
	now   time.Time
	cache *MemoryCache
}

func TestMemoryCacheSuite(t *testing.T) {
	suite.Run(t, new(MemoryCacheSuite))
}

func (s *MemoryCacheSuite) SetupTest() {
	s.now = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.cache = NewMemoryCache(WithClock(func() time.Time { return s.now }))
}

func (s *MemoryCacheSuite) TestGetMiss() {
	_, err := s.cache.Get(context.Background(), "city:93955")
	s.ErrorIs(err, ErrNotFound)
}

func (s *MemoryCacheSuite) TestSetThenGet() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, "city:93955", []byte(`{"city":"Seaside"}`), time.Minute))

	got, err := s.cache.Get(ctx, "city:93955")
	s.Require().NoError(err)
	s.JSONEq(`{"city":"Seaside"}`, string(got))
}

func (s *MemoryCacheSuite) TestExpiry() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, "states", []byte(`[]`), time.Minute))

	s.now = s.now.Add(59 * time.Second)
	_, err := s.cache.Get(ctx, "states")
	s.NoError(err)

	s.now = s.now.Add(time.Second)
	_, err = s.cache.Get(ctx, "states")
	s.ErrorIs(err, ErrNotFound)

	s.Equal(1, s.cache.Purge())
	s.Equal(0, s.cache.Len())
}

func (s *MemoryCacheSuite) TestNonPositiveTTLIsNoop() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, "k", []byte("v"), 0))
	s.Equal(0, s.cache.Len())
}

func (s *MemoryCacheSuite) TestStoredValueIsIsolated() {
	ctx := context.Background()
	value := []byte("Monterey")
	s.Require().NoError(s.cache.Set(ctx, "k", value, time.Minute))
	value[0] = 'X'

	got, err := s.cache.Get(ctx, "k")
	s.Require().NoError(err)
	s.Equal("Monterey", string(got))

	got[0] = 'Y'
	again, _ := s.cache.Get(ctx, "k")
	s.Equal("Monterey", string(again))
}

func (s *MemoryCacheSuite) TestDelete() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, "k", []byte("v"), time.Minute))
	s.Require().NoError(s.cache.Delete(ctx, "k"))
	_, err := s.cache.Get(ctx, "k")
	s.ErrorIs(err, ErrNotFound)
}

func (s *MemoryCacheSuite) TestConcurrentAccess() {
	cache := NewMemoryCache()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			key := string(rune('a' + i%5))
			_ = cache.Set(ctx, key, []byte{byte(i)}, time.Minute)
			_, _ = cache.Get(ctx, key)
		})
	}
	wg.Wait()
	s.Equal(5, cache.Len())
}
