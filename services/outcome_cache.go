package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nfl-pool-go/interfaces"
	"nfl-pool-go/logging"
	"nfl-pool-go/models"
)

type cachedSeason struct {
	outcomes []models.GameOutcome
	loadedAt time.Time
}

// OutcomeCache keeps each season's outcomes in memory for a bounded time.
// Entries are dropped by Invalidate when the feed or change stream reports
// new results, so recomputation never reads outcomes older than the TTL.
type OutcomeCache struct {
	mu      sync.RWMutex
	store   interfaces.OutcomeStore
	ttl     time.Duration
	seasons map[int]*cachedSeason
	now     func() time.Time
	logger  *logging.Logger
}

// NewOutcomeCache wraps store. A ttl of zero or less disables caching.
func NewOutcomeCache(store interfaces.OutcomeStore, ttl time.Duration) *OutcomeCache {
	return &OutcomeCache{
		store:   store,
		ttl:     ttl,
		seasons: make(map[int]*cachedSeason),
		now:     time.Now,
		logger:  logging.WithPrefix("OutcomeCache"),
	}
}

// Season returns every outcome of season, loading from the store on a miss
func (c *OutcomeCache) Season(ctx context.Context, season int) ([]models.GameOutcome, error) {
	c.mu.RLock()
	entry, ok := c.seasons[season]
	fresh := ok && c.ttl > 0 && c.now().Sub(entry.loadedAt) < c.ttl
	c.mu.RUnlock()

	if fresh {
		return copyOutcomes(entry.outcomes), nil
	}

	outcomes, err := c.store.FindBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load outcomes for season %d: %w", season, err)
	}

	if c.ttl > 0 {
		c.mu.Lock()
		c.seasons[season] = &cachedSeason{outcomes: outcomes, loadedAt: c.now()}
		c.mu.Unlock()
		c.logger.Debugf("Cached %d outcomes for season %d", len(outcomes), season)
	}

	return copyOutcomes(outcomes), nil
}

// Week returns the outcomes of one week of season
func (c *OutcomeCache) Week(ctx context.Context, season, week int) ([]models.GameOutcome, error) {
	all, err := c.Season(ctx, season)
	if err != nil {
		return nil, err
	}

	var outcomes []models.GameOutcome
	for _, o := range all {
		if o.Week == week {
			outcomes = append(outcomes, o)
		}
	}
	return outcomes, nil
}

// Invalidate drops the cached outcomes of season
func (c *OutcomeCache) Invalidate(season int) {
	c.mu.Lock()
	delete(c.seasons, season)
	c.mu.Unlock()
}

// InvalidateAll drops every cached season
func (c *OutcomeCache) InvalidateAll() {
	c.mu.Lock()
	c.seasons = make(map[int]*cachedSeason)
	c.mu.Unlock()
}

func copyOutcomes(src []models.GameOutcome) []models.GameOutcome {
	if src == nil {
		return nil
	}
	dst := make([]models.GameOutcome, len(src))
	copy(dst, src)
	return dst
}

// LatestDecidedWeek returns the highest week with at least one final game, or 0
func LatestDecidedWeek(outcomes []models.GameOutcome) int {
	latest := 0
	for _, o := range outcomes {
		if o.IsFinal() && o.Week > latest {
			latest = o.Week
		}
	}
	return latest
}
