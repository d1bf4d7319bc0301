package services

import (
	"context"
	"errors"
	"fmt"

	"nfl-pool-go/interfaces"
	"nfl-pool-go/logging"
	"nfl-pool-go/models"
	"nfl-pool-go/scoring"
)

// MaxConfidence is the highest confidence rank, one per game in a full week
const MaxConfidence = 16

var (
	// ErrUnknownTeam is returned when a submitted team matches no alias
	ErrUnknownTeam = errors.New("unknown team")
	// ErrInvalidConfidence is returned for a confidence rank outside 1..MaxConfidence
	ErrInvalidConfidence = errors.New("invalid confidence")
	// ErrMissingParticipant is returned for a pick with no participant
	ErrMissingParticipant = errors.New("participant is required")
)

// PickService records picks entered by pool operators. Teams are stored under
// their canonical name so later evaluation never depends on alias drift.
type PickService struct {
	picks      interfaces.PickStore
	normalizer *scoring.Normalizer
	logger     *logging.Logger
}

// NewPickService creates a pick service
func NewPickService(picks interfaces.PickStore, normalizer *scoring.Normalizer) *PickService {
	if normalizer == nil {
		normalizer = scoring.NewNormalizer(nil)
	}
	return &PickService{
		picks:      picks,
		normalizer: normalizer,
		logger:     logging.WithPrefix("PickService"),
	}
}

// SubmitSurvivorPick stores a participant's survivor pick for one week,
// replacing any earlier pick for that week
func (s *PickService) SubmitSurvivorPick(ctx context.Context, season, week int, participantID, team string) (*models.Pick, error) {
	canonical, err := s.validate(season, week, participantID, team)
	if err != nil {
		return nil, err
	}

	pick := models.NewSurvivorPick(participantID, season, week, canonical)
	if err := s.picks.UpsertPick(ctx, pick); err != nil {
		return nil, err
	}

	s.logger.Infof("Survivor pick: %s week %d -> %s", participantID, week, canonical)
	return pick, nil
}

// SubmitConfidencePick stores a participant's confidence pick for one game
func (s *PickService) SubmitConfidencePick(ctx context.Context, season, week int, participantID, gameID, team string, confidence int) (*models.Pick, error) {
	canonical, err := s.validate(season, week, participantID, team)
	if err != nil {
		return nil, err
	}
	if confidence < 1 || confidence > MaxConfidence {
		return nil, fmt.Errorf("%w: %d", ErrInvalidConfidence, confidence)
	}

	pick := models.NewConfidencePick(participantID, season, week, gameID, canonical, confidence)
	if err := s.picks.UpsertPick(ctx, pick); err != nil {
		return nil, err
	}

	s.logger.Infof("Confidence pick: %s week %d -> %s (%d)", participantID, week, canonical, confidence)
	return pick, nil
}

// ImportSurvivorHistory stores a comma-joined pick history where entry i is
// the pick for week i+1. Empty entries are weeks without a pick.
func (s *PickService) ImportSurvivorHistory(ctx context.Context, season int, participantID, history string) ([]models.Pick, error) {
	entries := scoring.SplitPickHistory(history)
	if len(entries) > models.MaxWeek {
		return nil, fmt.Errorf("%w: history has %d weeks", ErrInvalidWeek, len(entries))
	}

	var stored []models.Pick
	for i, team := range entries {
		if team == "" {
			continue
		}
		pick, err := s.SubmitSurvivorPick(ctx, season, i+1, participantID, team)
		if err != nil {
			return stored, fmt.Errorf("week %d: %w", i+1, err)
		}
		stored = append(stored, *pick)
	}
	return stored, nil
}

func (s *PickService) validate(season, week int, participantID, team string) (string, error) {
	if err := validateSeason(season); err != nil {
		return "", err
	}
	if err := validateWeek(week); err != nil {
		return "", err
	}
	if participantID == "" {
		return "", ErrMissingParticipant
	}

	canonical, ok := s.normalizer.Lookup(team)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTeam, team)
	}
	return canonical, nil
}
