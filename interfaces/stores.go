package interfaces

import (
	"context"

	"nfl-pool-go/models"
)

// PickStore reads and writes participant picks
type PickStore interface {
	FindSurvivorPicks(ctx context.Context, season int, participantID string) ([]models.Pick, error)
	FindAllSurvivorPicks(ctx context.Context, season int) ([]models.ParticipantPicks, error)
	FindConfidencePicks(ctx context.Context, season, week int) ([]models.ParticipantPicks, error)
	UpsertPick(ctx context.Context, pick *models.Pick) error
}

// OutcomeStore holds game outcomes as reported by the results feed
type OutcomeStore interface {
	FindBySeason(ctx context.Context, season int) ([]models.GameOutcome, error)
	FindByWeek(ctx context.Context, season, week int) ([]models.GameOutcome, error)
	// BulkUpsert returns the number of outcomes inserted or changed
	BulkUpsert(ctx context.Context, outcomes []models.GameOutcome) (int, error)
}

// VerdictStore persists survivor verdicts. Replace overwrites any stored
// verdict for the same participant and season.
type VerdictStore interface {
	Replace(ctx context.Context, verdict *models.SurvivorVerdict) error
	FindBySeason(ctx context.Context, season int) ([]models.SurvivorVerdict, error)
	FindByParticipant(ctx context.Context, season int, participantID string) (*models.SurvivorVerdict, error)
}

// ScoreStore persists confidence-pool weekly scores
type ScoreStore interface {
	Replace(ctx context.Context, score *models.WeeklyScore) error
	FindByWeek(ctx context.Context, season, week int) ([]models.WeeklyScore, error)
	FindByParticipant(ctx context.Context, season int, participantID string) ([]models.WeeklyScore, error)
	SeasonStandings(ctx context.Context, season int) ([]models.SeasonStanding, error)
}

// UserRepository defines the admin user data access used by AuthService
type UserRepository interface {
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id int) (*models.User, error)
	CreateUser(user *models.User) error
}
