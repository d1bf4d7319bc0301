package services

import (
	"context"
	"fmt"

	"nfl-pool-go/interfaces"
	"nfl-pool-go/logging"
)

// DataLoader performs a full outcome load for a season, used at startup
// and by the recompute command before the poller takes over
type DataLoader struct {
	source interfaces.OutcomeSource
	store  interfaces.OutcomeStore
	cache  *OutcomeCache
	logger *logging.Logger
}

func NewDataLoader(source interfaces.OutcomeSource, store interfaces.OutcomeStore, cache *OutcomeCache) *DataLoader {
	return &DataLoader{
		source: source,
		store:  store,
		cache:  cache,
		logger: logging.WithPrefix("DataLoader"),
	}
}

// LoadSeason fetches every outcome of season and upserts them, returning how many changed
func (dl *DataLoader) LoadSeason(ctx context.Context, season int) (int, error) {
	if err := validateSeason(season); err != nil {
		return 0, err
	}

	dl.logger.Infof("Loading outcomes for season %d", season)
	outcomes, err := dl.source.GetOutcomesForYear(ctx, season)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch outcomes: %w", err)
	}

	changed, err := dl.store.BulkUpsert(ctx, outcomes)
	if err != nil {
		return 0, fmt.Errorf("failed to store outcomes: %w", err)
	}
	if dl.cache != nil {
		dl.cache.Invalidate(season)
	}

	dl.logger.Infof("Loaded %d outcomes for season %d, %d changed", len(outcomes), season, changed)
	return changed, nil
}
