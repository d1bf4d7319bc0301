package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"nfl-pool-go/database"
	"nfl-pool-go/interfaces"
	"nfl-pool-go/logging"
	"nfl-pool-go/metrics"
	"nfl-pool-go/models"
	"nfl-pool-go/scoring"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultRecomputeConcurrency = 8

// SurvivorService recomputes survivor verdicts from stored picks and outcomes.
// Every recomputation evaluates each participant's full history and overwrites
// the stored verdict, so repeated runs converge on the same state.
type SurvivorService struct {
	picks       interfaces.PickStore
	outcomes    *OutcomeCache
	verdicts    interfaces.VerdictStore
	evaluator   *scoring.Evaluator
	metrics     *metrics.Manager
	concurrency int
	logger      *logging.Logger
}

// NewSurvivorService creates a survivor service. metrics may be nil.
func NewSurvivorService(picks interfaces.PickStore, outcomes *OutcomeCache, verdicts interfaces.VerdictStore,
	evaluator *scoring.Evaluator, m *metrics.Manager) *SurvivorService {
	if evaluator == nil {
		evaluator = scoring.NewEvaluator(scoring.DefaultRules(), nil)
	}
	return &SurvivorService{
		picks:       picks,
		outcomes:    outcomes,
		verdicts:    verdicts,
		evaluator:   evaluator,
		metrics:     m,
		concurrency: defaultRecomputeConcurrency,
		logger:      logging.WithPrefix("SurvivorService"),
	}
}

// SetConcurrency bounds how many participants are evaluated at once
func (s *SurvivorService) SetConcurrency(n int) {
	if n > 0 {
		s.concurrency = n
	}
}

// RecomputeSeason evaluates every survivor participant of season through
// throughWeek and replaces their stored verdicts. A throughWeek of zero or
// less means the latest week with a final game.
func (s *SurvivorService) RecomputeSeason(ctx context.Context, season, throughWeek int) ([]models.SurvivorVerdict, error) {
	if err := validateSeason(season); err != nil {
		return nil, err
	}

	start := time.Now()
	logger := s.logger.WithField("run", uuid.NewString()).WithField("season", season)

	outcomes, err := s.outcomes.Season(ctx, season)
	if err != nil {
		s.metrics.RecordRecomputeError(string(models.PoolSurvivor))
		return nil, err
	}
	throughWeek = resolveThroughWeek(throughWeek, outcomes)

	groups, err := s.picks.FindAllSurvivorPicks(ctx, season)
	if err != nil {
		s.metrics.RecordRecomputeError(string(models.PoolSurvivor))
		return nil, fmt.Errorf("failed to load survivor picks: %w", err)
	}

	logger.Infof("Recomputing %d participants through week %d", len(groups), throughWeek)

	verdicts := make([]models.SurvivorVerdict, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, group := range groups {
		i, group := i, group
		g.Go(func() error {
			verdict, err := s.evaluateAndStore(gctx, logger, season, group.ParticipantID, group.Picks, outcomes, throughWeek)
			if err != nil {
				return err
			}
			verdicts[i] = *verdict
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.metrics.RecordRecomputeError(string(models.PoolSurvivor))
		return nil, fmt.Errorf("survivor recompute for season %d failed: %w", season, err)
	}

	alive := 0
	for i := range verdicts {
		if verdicts[i].IsAlive {
			alive++
		}
	}
	s.metrics.SetAlive(strconv.Itoa(season), alive)
	s.metrics.ObserveRecompute(string(models.PoolSurvivor), time.Since(start))

	logger.Infof("Recompute finished in %v: %d alive, %d eliminated", time.Since(start), alive, len(verdicts)-alive)
	return verdicts, nil
}

// RecomputeParticipant evaluates and stores one participant's verdict
func (s *SurvivorService) RecomputeParticipant(ctx context.Context, season int, participantID string, throughWeek int) (*models.SurvivorVerdict, error) {
	if err := validateSeason(season); err != nil {
		return nil, err
	}

	picks, outcomes, throughWeek, err := s.loadParticipant(ctx, season, participantID, throughWeek)
	if err != nil {
		return nil, err
	}

	logger := s.logger.WithField("season", season)
	return s.evaluateAndStore(ctx, logger, season, participantID, picks, outcomes, throughWeek)
}

// EvaluateParticipant computes one participant's verdict without storing it
func (s *SurvivorService) EvaluateParticipant(ctx context.Context, season int, participantID string, throughWeek int) (*models.SurvivorVerdict, error) {
	if err := validateSeason(season); err != nil {
		return nil, err
	}

	picks, outcomes, throughWeek, err := s.loadParticipant(ctx, season, participantID, throughWeek)
	if err != nil {
		return nil, err
	}

	verdict := s.evaluate(season, participantID, picks, outcomes, throughWeek)
	return &verdict, nil
}

// Verdicts returns the stored verdicts of season
func (s *SurvivorService) Verdicts(ctx context.Context, season int) ([]models.SurvivorVerdict, error) {
	if err := validateSeason(season); err != nil {
		return nil, err
	}
	return s.verdicts.FindBySeason(ctx, season)
}

func (s *SurvivorService) loadParticipant(ctx context.Context, season int, participantID string, throughWeek int) ([]models.Pick, []models.GameOutcome, int, error) {
	outcomes, err := s.outcomes.Season(ctx, season)
	if err != nil {
		return nil, nil, 0, err
	}

	picks, err := s.picks.FindSurvivorPicks(ctx, season, participantID)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to load picks for %s: %w", participantID, err)
	}

	return picks, outcomes, resolveThroughWeek(throughWeek, outcomes), nil
}

func (s *SurvivorService) evaluate(season int, participantID string, picks []models.Pick, outcomes []models.GameOutcome, throughWeek int) models.SurvivorVerdict {
	verdict := s.evaluator.Evaluate(picks, outcomes, throughWeek)
	verdict.ParticipantID = participantID
	verdict.Season = season
	verdict.EvaluatedAt = time.Now()
	return verdict
}

// evaluateAndStore computes a fresh verdict, logs any disagreement with the
// stored one, then overwrites it
func (s *SurvivorService) evaluateAndStore(ctx context.Context, logger *logging.Logger, season int, participantID string,
	picks []models.Pick, outcomes []models.GameOutcome, throughWeek int) (*models.SurvivorVerdict, error) {

	verdict := s.evaluate(season, participantID, picks, outcomes, throughWeek)

	previous, err := s.verdicts.FindByParticipant(ctx, season, participantID)
	switch {
	case err == nil:
		if !verdict.SameOutcome(previous) {
			logger.WithField("participant", participantID).Warnf("Verdict changed: alive %t -> %t, eliminated week %d -> %d (%s)",
				previous.IsAlive, verdict.IsAlive, previous.EliminatedIn(), verdict.EliminatedIn(), verdict.EliminationReason)
		}
	case errors.Is(err, database.ErrNotFound):
	default:
		return nil, fmt.Errorf("failed to read stored verdict for %s: %w", participantID, err)
	}

	if err := s.verdicts.Replace(ctx, &verdict); err != nil {
		return nil, err
	}

	s.metrics.RecordVerdict(verdict.IsAlive, string(verdict.EliminationReason))
	return &verdict, nil
}

func resolveThroughWeek(throughWeek int, outcomes []models.GameOutcome) int {
	if throughWeek > 0 {
		if throughWeek > models.MaxWeek {
			return models.MaxWeek
		}
		return throughWeek
	}
	return LatestDecidedWeek(outcomes)
}
