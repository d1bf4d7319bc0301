package models

import (
	"fmt"
	"time"
)

// GameStatus represents the lifecycle state of a game
type GameStatus string

const (
	GameStatusScheduled  GameStatus = "scheduled"
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusFinal      GameStatus = "final"
)

// TieMarker is stored in Winner when a final game ended level
const TieMarker = "TIE"

// GameOutcome is the result of one scheduled, in-progress or completed game.
// Winner is only ever set once the game is final.
type GameOutcome struct {
	GameID    string     `json:"gameId" bson:"game_id"`
	Season    int        `json:"season" bson:"season"`
	Week      int        `json:"week" bson:"week"`
	HomeTeam  string     `json:"homeTeam" bson:"home_team"`
	AwayTeam  string     `json:"awayTeam" bson:"away_team"`
	Status    GameStatus `json:"status" bson:"status"`
	Winner    string     `json:"winner,omitempty" bson:"winner,omitempty"`
	HomeScore int        `json:"homeScore" bson:"home_score"`
	AwayScore int        `json:"awayScore" bson:"away_score"`
	Kickoff   time.Time  `json:"kickoff,omitempty" bson:"kickoff,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt,omitempty" bson:"updated_at"`
}

// IsFinal returns true if the game will not change further
func (g *GameOutcome) IsFinal() bool {
	return g.Status == GameStatusFinal
}

// IsTie returns true for a final game with no winner or an explicit tie marker
func (g *GameOutcome) IsTie() bool {
	return g.IsFinal() && (g.Winner == "" || g.Winner == TieMarker)
}

// Involves reports whether team played in this game (exact match)
func (g *GameOutcome) Involves(team string) bool {
	return team != "" && (g.HomeTeam == team || g.AwayTeam == team)
}

// Key identifies the game inside a week: the game ID when known, else "away@home"
func (g *GameOutcome) Key() string {
	if g.GameID != "" {
		return g.GameID
	}
	return g.AwayTeam + "@" + g.HomeTeam
}

// Matchup returns the "AWAY @ HOME" description
func (g *GameOutcome) Matchup() string {
	return fmt.Sprintf("%s @ %s", g.AwayTeam, g.HomeTeam)
}

// Validate checks the outcome invariants enforced at the storage boundary
func (g *GameOutcome) Validate() error {
	if g.HomeTeam == "" || g.AwayTeam == "" {
		return fmt.Errorf("game %s: home and away teams are required", g.Key())
	}
	if g.HomeTeam == g.AwayTeam {
		return fmt.Errorf("game %s: home and away teams must differ", g.Key())
	}
	if !IsValidWeek(g.Week) {
		return fmt.Errorf("game %s: week %d out of range", g.Key(), g.Week)
	}

	switch g.Status {
	case GameStatusScheduled, GameStatusInProgress:
		if g.Winner != "" {
			return fmt.Errorf("game %s: winner set before game is final", g.Key())
		}
	case GameStatusFinal:
		if g.Winner != "" && g.Winner != TieMarker && !g.Involves(g.Winner) {
			return fmt.Errorf("game %s: winner %q is neither %q nor %q", g.Key(), g.Winner, g.HomeTeam, g.AwayTeam)
		}
	default:
		return fmt.Errorf("game %s: unknown status %q", g.Key(), g.Status)
	}

	return nil
}

// WinnerFromScores derives the winner of a final game from its score line
func WinnerFromScores(home, away string, homeScore, awayScore int) string {
	switch {
	case homeScore > awayScore:
		return home
	case awayScore > homeScore:
		return away
	default:
		return TieMarker
	}
}
