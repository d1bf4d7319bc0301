package models

import (
	"time"
)

// EliminationReason explains why a participant left the survivor pool
type EliminationReason string

const (
	ReasonNoPick        EliminationReason = "NO_PICK"
	ReasonDuplicateTeam EliminationReason = "DUPLICATE_TEAM"
	ReasonGameLoss      EliminationReason = "GAME_LOSS"
)

// SurvivorVerdict is the alive/eliminated status of one participant as of
// ThroughWeek. It is always derived fresh from the full pick history and
// every known outcome; stores overwrite it rather than merge.
type SurvivorVerdict struct {
	ParticipantID     string            `json:"participantId" bson:"participant_id"`
	Season            int               `json:"season" bson:"season"`
	ThroughWeek       int               `json:"throughWeek" bson:"through_week"`
	IsAlive           bool              `json:"isAlive" bson:"is_alive"`
	EliminatedWeek    *int              `json:"eliminatedWeek,omitempty" bson:"eliminated_week,omitempty"`
	EliminationReason EliminationReason `json:"eliminationReason,omitempty" bson:"elimination_reason,omitempty"`
	Reason            string            `json:"reason,omitempty" bson:"reason,omitempty"`
	TeamsUsed         []string          `json:"teamsUsed,omitempty" bson:"teams_used,omitempty"`
	EvaluatedAt       time.Time         `json:"evaluatedAt,omitempty" bson:"evaluated_at"`
}

// Alive builds a verdict for a participant still in the pool
func Alive(participantID string, throughWeek int) SurvivorVerdict {
	return SurvivorVerdict{
		ParticipantID: participantID,
		ThroughWeek:   throughWeek,
		IsAlive:       true,
	}
}

// Eliminated builds a terminal verdict
func Eliminated(participantID string, throughWeek, week int, reason EliminationReason, detail string) SurvivorVerdict {
	return SurvivorVerdict{
		ParticipantID:     participantID,
		ThroughWeek:       throughWeek,
		IsAlive:           false,
		EliminatedWeek:    &week,
		EliminationReason: reason,
		Reason:            detail,
	}
}

// EliminatedIn returns the eliminating week, or 0 for a live participant
func (v *SurvivorVerdict) EliminatedIn() int {
	if v.EliminatedWeek == nil {
		return 0
	}
	return *v.EliminatedWeek
}

// SameOutcome compares the decision part of two verdicts, ignoring
// bookkeeping fields such as EvaluatedAt and ThroughWeek
func (v *SurvivorVerdict) SameOutcome(other *SurvivorVerdict) bool {
	if other == nil {
		return false
	}
	return v.IsAlive == other.IsAlive &&
		v.EliminatedIn() == other.EliminatedIn() &&
		v.EliminationReason == other.EliminationReason
}
