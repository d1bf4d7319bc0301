package models

import (
	"time"
)

// PickStatus is the per-pick outcome reported by the confidence scorer
type PickStatus string

const (
	PickCorrect      PickStatus = "CORRECT"
	PickIncorrect    PickStatus = "INCORRECT"
	PickTie          PickStatus = "TIE"
	PickPending      PickStatus = "PENDING"
	PickTeamNotFound PickStatus = "TEAM_NOT_FOUND"
)

// PickResult is the scored form of one confidence pick
type PickResult struct {
	Team       string     `json:"team" bson:"team"`
	Confidence int        `json:"confidence" bson:"confidence"`
	Status     PickStatus `json:"status" bson:"status"`
	Correct    bool       `json:"correct" bson:"correct"`
	Points     int        `json:"points" bson:"points"`
}

// IsResolved reports whether the pick has a correctness verdict
func (r PickResult) IsResolved() bool {
	return r.Status == PickCorrect || r.Status == PickIncorrect || r.Status == PickTie
}

// WeeklyScore is a participant's confidence-pool result for one week.
// Recomputed from scratch whenever results change; never accumulated.
type WeeklyScore struct {
	ParticipantID       string                `json:"participantId" bson:"participant_id"`
	Season              int                   `json:"season" bson:"season"`
	Week                int                   `json:"week" bson:"week"`
	TotalPoints         int                   `json:"totalPoints" bson:"total_points"`
	CorrectPicks        int                   `json:"correctPicks" bson:"correct_picks"`
	TotalPicks          int                   `json:"totalPicks" bson:"total_picks"`
	PendingPicks        int                   `json:"pendingPicks" bson:"pending_picks"`
	SubmittedPicks      int                   `json:"submittedPicks" bson:"submitted_picks"`
	IsComplete          bool                  `json:"isComplete" bson:"is_complete"`
	DuplicateConfidence []int                 `json:"duplicateConfidence,omitempty" bson:"duplicate_confidence,omitempty"`
	PickResults         map[string]PickResult `json:"pickResults" bson:"pick_results"`
	UpdatedAt           time.Time             `json:"updatedAt,omitempty" bson:"updated_at"`
}

// NewWeeklyScore returns an empty score ready to accumulate pick results
func NewWeeklyScore(participantID string, season, week int) *WeeklyScore {
	return &WeeklyScore{
		ParticipantID: participantID,
		Season:        season,
		Week:          week,
		PickResults:   make(map[string]PickResult),
	}
}

// PointsFromResults sums the per-pick points; always equals TotalPoints
func (ws *WeeklyScore) PointsFromResults() int {
	total := 0
	for _, r := range ws.PickResults {
		total += r.Points
	}
	return total
}

// Accuracy returns CorrectPicks / resolved picks, or 0 when nothing is resolved
func (ws *WeeklyScore) Accuracy() float64 {
	resolved := ws.TotalPicks - ws.PendingPicks
	if resolved <= 0 {
		return 0.0
	}
	return float64(ws.CorrectPicks) / float64(resolved)
}

// SeasonStanding is one row of the confidence-pool season table
type SeasonStanding struct {
	ParticipantID string `json:"participantId" bson:"_id"`
	Season        int    `json:"season" bson:"season"`
	TotalPoints   int    `json:"totalPoints" bson:"total_points"`
	CorrectPicks  int    `json:"correctPicks" bson:"correct_picks"`
	WeeksScored   int    `json:"weeksScored" bson:"weeks_scored"`
}
