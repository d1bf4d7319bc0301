package interfaces

import (
	"context"

	"nfl-pool-go/models"
)

// SurvivorService recomputes and serves survivor verdicts
type SurvivorService interface {
	RecomputeSeason(ctx context.Context, season, throughWeek int) ([]models.SurvivorVerdict, error)
	RecomputeParticipant(ctx context.Context, season int, participantID string, throughWeek int) (*models.SurvivorVerdict, error)
	EvaluateParticipant(ctx context.Context, season int, participantID string, throughWeek int) (*models.SurvivorVerdict, error)
	Verdicts(ctx context.Context, season int) ([]models.SurvivorVerdict, error)
}

// ConfidenceService recomputes and serves confidence-pool scores
type ConfidenceService interface {
	RecomputeWeek(ctx context.Context, season, week int) ([]models.WeeklyScore, error)
	WeekScores(ctx context.Context, season, week int) ([]models.WeeklyScore, error)
	Standings(ctx context.Context, season int) ([]models.SeasonStanding, error)
}

// AuthService defines methods for authentication and authorization
type AuthService interface {
	Login(email, password string) (*models.User, string, error)
	ValidateToken(tokenString string) (*models.User, error)
	GenerateToken(user *models.User) (string, error)
}

// OutcomeSource fetches outcomes from an external results feed
type OutcomeSource interface {
	GetOutcomesForYear(ctx context.Context, season int) ([]models.GameOutcome, error)
	HealthCheck() bool
}

// PickService validates and records operator-entered picks
type PickService interface {
	SubmitSurvivorPick(ctx context.Context, season, week int, participantID, team string) (*models.Pick, error)
	SubmitConfidencePick(ctx context.Context, season, week int, participantID, gameID, team string, confidence int) (*models.Pick, error)
	ImportSurvivorHistory(ctx context.Context, season int, participantID, history string) ([]models.Pick, error)
}
