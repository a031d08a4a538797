package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"signup/internal/lookup/cache"
	"signup/internal/lookup/metrics"
	"signup/internal/lookup/models"
)

// CacheTTLs sets how long each cacheable endpoint's answers are kept.
type CacheTTLs struct {
	States   time.Duration
	Counties time.Duration
	City     time.Duration
}

// CachingClient decorates Lookups with a response cache for the reference-data endpoints
// (states, counties, city) and collapses concurrent identical calls.
// Username availability and password suggestions always go to the remote.
type CachingClient struct {
	next    Lookups
	cache   cache.Cache
	ttls    CacheTTLs
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewCachingClient wraps next. metrics and logger may be nil.
func NewCachingClient(next Lookups, c cache.Cache, ttls CacheTTLs, m *metrics.Metrics, logger *slog.Logger) *CachingClient {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CachingClient{
		next:    next,
		cache:   c,
		ttls:    ttls,
		metrics: m,
		logger:  logger,
	}
}

const statesKey = "states"

func countiesKey(state string) string {
	return "counties:" + strings.ToUpper(strings.TrimSpace(state))
}

func cityKey(zip string) string {
	return "city:" + strings.TrimSpace(zip)
}

func (c *CachingClient) States(ctx context.Context) ([]models.State, error) {
	return cached(ctx, c, EndpointStates, statesKey, c.ttls.States, func(ctx context.Context) ([]models.State, error) {
		return c.next.States(ctx)
	})
}

func (c *CachingClient) CountiesByState(ctx context.Context, state string) ([]models.County, error) {
	if strings.TrimSpace(state) == "" {
		return c.next.CountiesByState(ctx, state)
	}
	return cached(ctx, c, EndpointCounties, countiesKey(state), c.ttls.Counties, func(ctx context.Context) ([]models.County, error) {
		return c.next.CountiesByState(ctx, state)
	})
}

func (c *CachingClient) CityByZip(ctx context.Context, zip string) (*models.CityInfo, error) {
	if strings.TrimSpace(zip) == "" {
		return c.next.CityByZip(ctx, zip)
	}
	return cached(ctx, c, EndpointCity, cityKey(zip), c.ttls.City, func(ctx context.Context) (*models.CityInfo, error) {
		return c.next.CityByZip(ctx, zip)
	})
}

func (c *CachingClient) UsernameAvailable(ctx context.Context, username string) (*models.UsernameAvailability, error) {
	return c.next.UsernameAvailable(ctx, username)
}

func (c *CachingClient) SuggestPassword(ctx context.Context, length int) (*models.PasswordSuggestion, error) {
	return c.next.SuggestPassword(ctx, length)
}

// cached reads key from the cache, or fetches once per key across concurrent callers and
// stores successful answers. Errors, including not-found, are never stored.
// The shared fetch runs detached from any single caller's cancellation so one
// abandoned keystroke cannot fail the others waiting on it.
func cached[T any](ctx context.Context, c *CachingClient, endpoint, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	if data, err := c.cache.Get(ctx, key); err == nil {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			c.recordHit(endpoint)
			return v, nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable lookup cache entry", "endpoint", endpoint)
	} else if !errors.Is(err, cache.ErrNotFound) {
		c.logger.WarnContext(ctx, "lookup cache read failed", "endpoint", endpoint, "error", err)
	}
	c.recordMiss(endpoint)

	ch := c.group.DoChan(key, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		v, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		if data, merr := json.Marshal(v); merr == nil {
			if serr := c.cache.Set(fetchCtx, key, data, ttl); serr != nil {
				c.logger.WarnContext(ctx, "lookup cache write failed", "endpoint", endpoint, "error", serr)
			}
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, NewLookupError(ErrorCanceled, endpoint, "request canceled", ctx.Err())
	case res := <-ch:
		if res.Shared && c.metrics != nil {
			c.metrics.RecordSharedCall(endpoint)
		}
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func (c *CachingClient) recordHit(endpoint string) {
	if c.metrics != nil {
		c.metrics.RecordCacheHit(endpoint)
	}
}

func (c *CachingClient) recordMiss(endpoint string) {
	if c.metrics != nil {
		c.metrics.RecordCacheMiss(endpoint)
	}
}

var _ Lookups = (*CachingClient)(nil)
