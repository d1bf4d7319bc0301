package scoring

import (
	"fmt"
	"sort"

	"nfl-pool-go/models"
)

// Scorer computes confidence-pool points for one participant and week
type Scorer struct {
	Rules      Rules
	Normalizer *Normalizer
}

// NewScorer returns a Scorer; a nil normalizer uses the built-in table
func NewScorer(rules Rules, normalizer *Normalizer) *Scorer {
	if normalizer == nil {
		normalizer = defaultNormalizer
	}
	return &Scorer{Rules: rules, Normalizer: normalizer}
}

// ScoreWeek scores with DefaultRules and the built-in alias table
func ScoreWeek(picks []models.Pick, outcomes []models.GameOutcome) models.WeeklyScore {
	return NewScorer(DefaultRules(), nil).ScoreWeek(picks, outcomes)
}

// ScoreWeek matches each pick to its game and awards the pick's confidence
// value when it is correct. Picks missing a team or a confidence value are
// skipped; picks whose team played no listed game are reported as
// TEAM_NOT_FOUND and kept out of TotalPicks.
func (s *Scorer) ScoreWeek(picks []models.Pick, outcomes []models.GameOutcome) models.WeeklyScore {
	participantID, season := pickOwner(picks)
	score := models.NewWeeklyScore(participantID, season, scoredWeek(picks))
	index := newOutcomeIndex(outcomes, s.Normalizer)

	seenConfidence := make(map[int]bool)
	duplicates := make(map[int]bool)

	for _, pick := range picks {
		if !pick.HasTeam() || !pick.HasConfidence() {
			continue
		}
		score.SubmittedPicks++

		confidence := pick.ConfidenceValue()
		if seenConfidence[confidence] {
			duplicates[confidence] = true
		}
		seenConfidence[confidence] = true

		team := s.Normalizer.Normalize(pick.Team)
		result := models.PickResult{Team: team, Confidence: confidence}

		game, found := index.find(pick.Week, team)
		if !found {
			result.Status = models.PickTeamNotFound
			addResult(score, "unmatched:"+team, result)
			continue
		}

		score.TotalPicks++
		switch {
		case !game.IsFinal():
			result.Status = models.PickPending
			score.PendingPicks++
		case game.IsTie():
			result.Status = models.PickTie
			if s.Rules.TieCreditsConfidence {
				result.Correct = true
				result.Points = confidence
			}
		case game.Winner == team:
			result.Status = models.PickCorrect
			result.Correct = true
			result.Points = confidence
		default:
			result.Status = models.PickIncorrect
		}

		if result.Correct {
			score.CorrectPicks++
		}
		score.TotalPoints += result.Points
		addResult(score, game.Key(), result)
	}

	score.IsComplete = score.PendingPicks == 0
	if len(duplicates) > 0 {
		score.DuplicateConfidence = make([]int, 0, len(duplicates))
		for c := range duplicates {
			score.DuplicateConfidence = append(score.DuplicateConfidence, c)
		}
		sort.Ints(score.DuplicateConfidence)
	}

	return *score
}

// addResult stores r under key, suffixing the key when a second pick lands
// on the same game so no result overwrites another.
func addResult(score *models.WeeklyScore, key string, r models.PickResult) {
	if _, taken := score.PickResults[key]; taken {
		base := key
		for i := 2; ; i++ {
			key = fmt.Sprintf("%s#%d", base, i)
			if _, taken := score.PickResults[key]; !taken {
				break
			}
		}
	}
	score.PickResults[key] = r
}

// scoredWeek returns the week shared by the picks, or 0 if none is recorded
func scoredWeek(picks []models.Pick) int {
	for _, p := range picks {
		if models.IsValidWeek(p.Week) {
			return p.Week
		}
	}
	return 0
}
