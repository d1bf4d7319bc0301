package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxWeek is the last week of the NFL regular season
const MaxWeek = 18

// PoolType distinguishes the two contests a pick can belong to
type PoolType string

const (
	PoolSurvivor   PoolType = "survivor"
	PoolConfidence PoolType = "confidence"
)

// Pick represents one participant's selection for one week.
// Survivor picks carry a team only; confidence picks also carry a GameID
// and a Confidence rank used as the point value.
type Pick struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ParticipantID string             `bson:"participant_id" json:"participantId"`
	Pool          PoolType           `bson:"pool" json:"pool"`
	Season        int                `bson:"season" json:"season"`
	Week          int                `bson:"week" json:"week"`
	Team          string             `bson:"team" json:"team"`                                   // raw; normalized by the scoring package
	GameID        string             `bson:"game_id,omitempty" json:"gameId,omitempty"`          // confidence pool only
	Confidence    *int               `bson:"confidence,omitempty" json:"confidence,omitempty"`   // confidence pool only
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt,omitempty"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt,omitempty"`
}

// HasTeam reports whether the pick names a team at all
func (p *Pick) HasTeam() bool {
	return strings.TrimSpace(p.Team) != ""
}

// HasConfidence reports whether the pick carries a usable confidence value
func (p *Pick) HasConfidence() bool {
	return p.Confidence != nil && *p.Confidence > 0
}

// ConfidenceValue returns the confidence rank, or 0 when absent
func (p *Pick) ConfidenceValue() int {
	if p.Confidence == nil {
		return 0
	}
	return *p.Confidence
}

// IsValidWeek reports whether week falls inside the regular season
func IsValidWeek(week int) bool {
	return week >= 1 && week <= MaxWeek
}

// NewSurvivorPick creates a survivor pick for one week
func NewSurvivorPick(participantID string, season, week int, team string) *Pick {
	now := time.Now()
	return &Pick{
		ParticipantID: participantID,
		Pool:          PoolSurvivor,
		Season:        season,
		Week:          week,
		Team:          team,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewConfidencePick creates a confidence pick for one game
func NewConfidencePick(participantID string, season, week int, gameID, team string, confidence int) *Pick {
	now := time.Now()
	return &Pick{
		ParticipantID: participantID,
		Pool:          PoolConfidence,
		Season:        season,
		Week:          week,
		Team:          team,
		GameID:        gameID,
		Confidence:    &confidence,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ParticipantPicks groups one participant's picks, as returned by the pick store
type ParticipantPicks struct {
	ParticipantID string `json:"participantId"`
	Picks         []Pick `json:"picks"`
}
