package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"nfl-pool-go/interfaces"
	"nfl-pool-go/logging"
	"nfl-pool-go/metrics"
	"nfl-pool-go/models"
)

// UpdateResult summarizes one polling pass
type UpdateResult struct {
	Fetched         int
	Changed         int
	NewlyFinal      int
	RecomputedWeeks []int
}

// BackgroundUpdater polls the results feed, stores changed outcomes and
// recomputes the pools whenever a game becomes final
type BackgroundUpdater struct {
	source     interfaces.OutcomeSource
	store      interfaces.OutcomeStore
	cache      *OutcomeCache
	survivor   interfaces.SurvivorService
	confidence interfaces.ConfidenceService
	metrics    *metrics.Manager
	season     int
	interval   time.Duration
	logger     *logging.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewBackgroundUpdater creates a new background updater service. An interval
// of zero picks one from the calendar on every start.
func NewBackgroundUpdater(source interfaces.OutcomeSource, store interfaces.OutcomeStore, cache *OutcomeCache,
	survivor interfaces.SurvivorService, confidence interfaces.ConfidenceService, m *metrics.Manager,
	season int, interval time.Duration) *BackgroundUpdater {
	return &BackgroundUpdater{
		source:     source,
		store:      store,
		cache:      cache,
		survivor:   survivor,
		confidence: confidence,
		metrics:    m,
		season:     season,
		interval:   interval,
		logger:     logging.WithPrefix("BackgroundUpdater"),
	}
}

// Start begins polling until Stop is called or ctx is cancelled
func (bu *BackgroundUpdater) Start(ctx context.Context) {
	bu.mu.Lock()
	defer bu.mu.Unlock()

	if bu.running {
		bu.logger.Warn("Already running")
		return
	}

	interval := bu.interval
	if interval <= 0 {
		interval = getUpdateInterval(time.Now())
	}
	bu.logger.Infof("Starting results polling for season %d every %v", bu.season, interval)

	ctx, bu.cancel = context.WithCancel(ctx)
	bu.done = make(chan struct{})
	bu.running = true

	go bu.loop(ctx, interval, bu.done)
}

func (bu *BackgroundUpdater) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bu.runAndLog(ctx)
	for {
		select {
		case <-ticker.C:
			bu.runAndLog(ctx)
		case <-ctx.Done():
			bu.logger.Info("Stopping background updates")
			return
		}
	}
}

func (bu *BackgroundUpdater) runAndLog(ctx context.Context) {
	if _, err := bu.RunOnce(ctx); err != nil && ctx.Err() == nil {
		bu.logger.Errorf("Update failed: %v", err)
	}
}

// Stop halts polling and waits for an in-flight pass to finish
func (bu *BackgroundUpdater) Stop() {
	bu.mu.Lock()
	if !bu.running {
		bu.mu.Unlock()
		return
	}
	bu.running = false
	cancel, done := bu.cancel, bu.done
	bu.mu.Unlock()

	cancel()
	<-done
}

// IsRunning returns whether the background updater is currently running
func (bu *BackgroundUpdater) IsRunning() bool {
	bu.mu.Lock()
	defer bu.mu.Unlock()
	return bu.running
}

// RunOnce performs a single fetch, store and recompute pass
func (bu *BackgroundUpdater) RunOnce(ctx context.Context) (*UpdateResult, error) {
	startTime := time.Now()

	fetched, err := bu.source.GetOutcomesForYear(ctx, bu.season)
	if err != nil {
		bu.metrics.RecordFeedError()
		return nil, err
	}

	result := &UpdateResult{Fetched: len(fetched)}
	if len(fetched) == 0 {
		bu.logger.Info("No outcomes received from results feed")
		return result, nil
	}

	existing, err := bu.store.FindBySeason(ctx, bu.season)
	if err != nil {
		return nil, err
	}

	changed, finalWeeks := diffOutcomes(existing, fetched)
	result.Changed = len(changed)
	result.NewlyFinal = len(finalWeeks)

	if len(changed) == 0 {
		bu.logger.Debugf("Update completed in %v - %d outcomes, no changes", time.Since(startTime), len(fetched))
		return result, nil
	}

	written, err := bu.store.BulkUpsert(ctx, changed)
	if err != nil {
		return nil, err
	}
	bu.metrics.RecordOutcomesUpdated(written)
	bu.cache.Invalidate(bu.season)

	if len(finalWeeks) > 0 {
		if _, err := bu.survivor.RecomputeSeason(ctx, bu.season, 0); err != nil {
			return nil, err
		}
		for _, week := range finalWeeks {
			if _, err := bu.confidence.RecomputeWeek(ctx, bu.season, week); err != nil {
				return nil, err
			}
			result.RecomputedWeeks = append(result.RecomputedWeeks, week)
		}
	}

	bu.logger.Infof("Update completed in %v - %d outcomes, %d changed, weeks recomputed %v",
		time.Since(startTime), len(fetched), len(changed), result.RecomputedWeeks)
	return result, nil
}

// diffOutcomes returns the fetched outcomes that are new or differ from the
// stored ones, and the sorted weeks in which a game became final or had its
// final result corrected
func diffOutcomes(existing, fetched []models.GameOutcome) ([]models.GameOutcome, []int) {
	stored := make(map[string]models.GameOutcome, len(existing))
	for _, o := range existing {
		stored[o.GameID] = o
	}

	var changed []models.GameOutcome
	weeks := make(map[int]bool)

	for _, o := range fetched {
		prev, ok := stored[o.GameID]
		if ok && !outcomeChanged(prev, o) {
			continue
		}
		changed = append(changed, o)

		if o.IsFinal() && (!ok || !prev.IsFinal() || prev.Winner != o.Winner) {
			weeks[o.Week] = true
		}
		// a result withdrawn from final also changes past decisions
		if ok && prev.IsFinal() && !o.IsFinal() {
			weeks[o.Week] = true
		}
	}

	finalWeeks := make([]int, 0, len(weeks))
	for w := range weeks {
		finalWeeks = append(finalWeeks, w)
	}
	sort.Ints(finalWeeks)
	return changed, finalWeeks
}

func outcomeChanged(prev, next models.GameOutcome) bool {
	return prev.Status != next.Status ||
		prev.Winner != next.Winner ||
		prev.HomeScore != next.HomeScore ||
		prev.AwayScore != next.AwayScore ||
		prev.HomeTeam != next.HomeTeam ||
		prev.AwayTeam != next.AwayTeam ||
		prev.Week != next.Week
}

// getUpdateInterval polls every 2 minutes from September to February and
// every 30 minutes in the off-season
func getUpdateInterval(now time.Time) time.Duration {
	month := now.Month()
	if month >= time.September || month <= time.February {
		return 2 * time.Minute
	}
	return 30 * time.Minute
}
