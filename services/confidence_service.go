package services

import (
	"context"
	"fmt"
	"time"

	"nfl-pool-go/interfaces"
	"nfl-pool-go/logging"
	"nfl-pool-go/metrics"
	"nfl-pool-go/models"
	"nfl-pool-go/scoring"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ConfidenceService scores confidence-pool weeks and serves standings
type ConfidenceService struct {
	picks       interfaces.PickStore
	outcomes    *OutcomeCache
	scores      interfaces.ScoreStore
	scorer      *scoring.Scorer
	metrics     *metrics.Manager
	concurrency int
	logger      *logging.Logger
}

// NewConfidenceService creates a confidence service. metrics may be nil.
func NewConfidenceService(picks interfaces.PickStore, outcomes *OutcomeCache, scores interfaces.ScoreStore,
	scorer *scoring.Scorer, m *metrics.Manager) *ConfidenceService {
	if scorer == nil {
		scorer = scoring.NewScorer(scoring.DefaultRules(), nil)
	}
	return &ConfidenceService{
		picks:       picks,
		outcomes:    outcomes,
		scores:      scores,
		scorer:      scorer,
		metrics:     m,
		concurrency: defaultRecomputeConcurrency,
		logger:      logging.WithPrefix("ConfidenceService"),
	}
}

// SetConcurrency bounds how many participants are scored at once
func (s *ConfidenceService) SetConcurrency(n int) {
	if n > 0 {
		s.concurrency = n
	}
}

// RecomputeWeek scores every participant's picks for one week and replaces
// their stored scores
func (s *ConfidenceService) RecomputeWeek(ctx context.Context, season, week int) ([]models.WeeklyScore, error) {
	if err := validateSeason(season); err != nil {
		return nil, err
	}
	if err := validateWeek(week); err != nil {
		return nil, err
	}

	start := time.Now()
	logger := s.logger.WithFields(map[string]interface{}{
		"run":    uuid.NewString(),
		"season": season,
		"week":   week,
	})

	outcomes, err := s.outcomes.Week(ctx, season, week)
	if err != nil {
		s.metrics.RecordRecomputeError(string(models.PoolConfidence))
		return nil, err
	}

	groups, err := s.picks.FindConfidencePicks(ctx, season, week)
	if err != nil {
		s.metrics.RecordRecomputeError(string(models.PoolConfidence))
		return nil, fmt.Errorf("failed to load confidence picks: %w", err)
	}

	scores := make([]models.WeeklyScore, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, group := range groups {
		i, group := i, group
		g.Go(func() error {
			score := s.scorer.ScoreWeek(group.Picks, outcomes)
			score.ParticipantID = group.ParticipantID
			score.Season = season
			score.Week = week

			if score.SubmittedPicks > 0 && len(score.DuplicateConfidence) > 0 {
				logger.WithField("participant", group.ParticipantID).
					Warnf("Confidence values used more than once: %v", score.DuplicateConfidence)
			}

			if err := s.scores.Replace(gctx, &score); err != nil {
				return err
			}
			for _, r := range score.PickResults {
				s.metrics.RecordPickScored(string(r.Status))
			}
			scores[i] = score
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.metrics.RecordRecomputeError(string(models.PoolConfidence))
		return nil, fmt.Errorf("confidence recompute for season %d week %d failed: %w", season, week, err)
	}

	s.metrics.ObserveRecompute(string(models.PoolConfidence), time.Since(start))
	logger.Infof("Scored %d participants in %v", len(scores), time.Since(start))
	return scores, nil
}

// RecomputeSeason rescores every week that has at least one outcome
func (s *ConfidenceService) RecomputeSeason(ctx context.Context, season int) (map[int][]models.WeeklyScore, error) {
	if err := validateSeason(season); err != nil {
		return nil, err
	}

	outcomes, err := s.outcomes.Season(ctx, season)
	if err != nil {
		return nil, err
	}

	results := make(map[int][]models.WeeklyScore)
	for _, week := range WeeksWithOutcomes(outcomes) {
		scores, err := s.RecomputeWeek(ctx, season, week)
		if err != nil {
			return nil, err
		}
		results[week] = scores
	}
	return results, nil
}

// WeekScores returns the stored scores of one week
func (s *ConfidenceService) WeekScores(ctx context.Context, season, week int) ([]models.WeeklyScore, error) {
	if err := validateSeason(season); err != nil {
		return nil, err
	}
	if err := validateWeek(week); err != nil {
		return nil, err
	}
	return s.scores.FindByWeek(ctx, season, week)
}

// Standings returns season totals, highest first
func (s *ConfidenceService) Standings(ctx context.Context, season int) ([]models.SeasonStanding, error) {
	if err := validateSeason(season); err != nil {
		return nil, err
	}
	return s.scores.SeasonStandings(ctx, season)
}

// WeeksWithOutcomes returns the distinct valid weeks in outcomes, ascending
func WeeksWithOutcomes(outcomes []models.GameOutcome) []int {
	var seen [models.MaxWeek + 1]bool
	for _, o := range outcomes {
		if models.IsValidWeek(o.Week) {
			seen[o.Week] = true
		}
	}

	var weeks []int
	for w := 1; w <= models.MaxWeek; w++ {
		if seen[w] {
			weeks = append(weeks, w)
		}
	}
	return weeks
}
