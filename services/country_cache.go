package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dalewoodman1994/100-percent/models"
)

// CountryFetcher is the upstream source of the eligible country set.
type CountryFetcher interface {
	FetchEligibleCountries(ctx context.Context) ([]models.Country, error)
}

// CountryCache holds the process-wide eligible country set. It is populated
// on first use or by the refresh job and replaced wholesale on reload; a
// failed reload keeps whatever was cached before.
type CountryCache struct {
	fetcher CountryFetcher
	log     *zap.Logger

	mu          sync.RWMutex
	countries   []models.Country
	lastRefresh time.Time
}

func NewCountryCache(fetcher CountryFetcher, log *zap.Logger) *CountryCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &CountryCache{
		fetcher: fetcher,
		log:     log,
	}
}

// Ready reports whether the cache has ever been populated.
func (c *CountryCache) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.countries) > 0
}

// Countries returns a copy of the cached eligible set, or ErrCacheNotReady
// if no load has succeeded yet.
func (c *CountryCache) Countries() ([]models.Country, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.countries) == 0 {
		return nil, ErrCacheNotReady
	}

	out := make([]models.Country, len(c.countries))
	copy(out, c.countries)
	return out, nil
}

// Count returns the number of cached countries.
func (c *CountryCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.countries)
}

// LastRefresh returns when the cache last loaded successfully.
func (c *CountryCache) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRefresh
}

// EnsureLoaded loads the cache only if it is still empty. Concurrent callers
// may both trigger a fetch; the load is idempotent so the last write simply
// replaces an equivalent set.
func (c *CountryCache) EnsureLoaded(ctx context.Context) error {
	if c.Ready() {
		return nil
	}
	return c.Reload(ctx)
}

// Reload fetches a fresh eligible set and swaps it in atomically. On any
// fetch failure the previous contents stay in place.
func (c *CountryCache) Reload(ctx context.Context) error {
	started := time.Now()

	countries, err := c.fetcher.FetchEligibleCountries(ctx)
	if err != nil {
		c.log.Error("country cache reload failed", zap.Error(err))
		return err
	}
	if len(countries) == 0 {
		err := fmt.Errorf("%w: provider returned no eligible countries", ErrFetchFailed)
		c.log.Error("country cache reload failed", zap.Error(err))
		return err
	}

	c.mu.Lock()
	c.countries = countries
	c.lastRefresh = time.Now()
	c.mu.Unlock()

	c.log.Info("country cache reloaded",
		zap.Int("countries", len(countries)),
		zap.Duration("took", time.Since(started)),
	)
	return nil
}
