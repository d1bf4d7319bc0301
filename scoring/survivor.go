package scoring

import (
	"fmt"

	"nfl-pool-go/models"
)

// Evaluator decides alive/eliminated for one survivor participant
type Evaluator struct {
	Rules      Rules
	Normalizer *Normalizer
}

// NewEvaluator returns an Evaluator; a nil normalizer uses the built-in table
func NewEvaluator(rules Rules, normalizer *Normalizer) *Evaluator {
	if normalizer == nil {
		normalizer = defaultNormalizer
	}
	return &Evaluator{Rules: rules, Normalizer: normalizer}
}

// EvaluateSurvivor evaluates with DefaultRules and the built-in alias table
func EvaluateSurvivor(picks []models.Pick, outcomes []models.GameOutcome, throughWeek int) models.SurvivorVerdict {
	return NewEvaluator(DefaultRules(), nil).Evaluate(picks, outcomes, throughWeek)
}

// Evaluate scans weeks 1..throughWeek in order and stops at the first week
// that eliminates the participant. Weeks whose game is not final yet are
// undecided: they still count toward team usage but cannot eliminate by loss.
func (e *Evaluator) Evaluate(picks []models.Pick, outcomes []models.GameOutcome, throughWeek int) models.SurvivorVerdict {
	if throughWeek > models.MaxWeek {
		throughWeek = models.MaxWeek
	}

	participantID, season := pickOwner(picks)
	byWeek := firstPickPerWeek(picks)
	index := newOutcomeIndex(outcomes, e.Normalizer)

	usedIn := make(map[string]int)
	var teamsUsed []string

	for week := 1; week <= throughWeek; week++ {
		pick, ok := byWeek[week]
		if !ok {
			if !e.Rules.MissingPickEliminates {
				continue
			}
			return e.finish(models.Eliminated(participantID, throughWeek, week, models.ReasonNoPick,
				fmt.Sprintf("no pick submitted for week %d", week)), season, teamsUsed)
		}

		team := e.Normalizer.Normalize(pick.Team)

		if earlier, used := usedIn[team]; used && e.Rules.UniqueTeams {
			return e.finish(models.Eliminated(participantID, throughWeek, week, models.ReasonDuplicateTeam,
				fmt.Sprintf("%s already picked in week %d", team, earlier)), season, teamsUsed)
		}
		if _, used := usedIn[team]; !used {
			usedIn[team] = week
		}
		teamsUsed = append(teamsUsed, team)

		game, found := index.find(week, team)
		if !found || !game.IsFinal() {
			continue
		}

		if game.IsTie() {
			if e.Rules.TieSurvives {
				continue
			}
			return e.finish(models.Eliminated(participantID, throughWeek, week, models.ReasonGameLoss,
				fmt.Sprintf("%s tied in week %d (%s)", team, week, game.Matchup())), season, teamsUsed)
		}

		if game.Winner != team {
			return e.finish(models.Eliminated(participantID, throughWeek, week, models.ReasonGameLoss,
				fmt.Sprintf("%s lost to %s in week %d", team, game.Winner, week)), season, teamsUsed)
		}
	}

	if throughWeek < 0 {
		throughWeek = 0
	}
	return e.finish(models.Alive(participantID, throughWeek), season, teamsUsed)
}

func (e *Evaluator) finish(v models.SurvivorVerdict, season int, teamsUsed []string) models.SurvivorVerdict {
	v.Season = season
	v.TeamsUsed = teamsUsed
	return v
}

// firstPickPerWeek keeps the first well-formed pick for each week. Entries
// without a team are dropped so the week reads as missing.
func firstPickPerWeek(picks []models.Pick) map[int]models.Pick {
	byWeek := make(map[int]models.Pick, len(picks))
	for _, p := range picks {
		if !models.IsValidWeek(p.Week) || !p.HasTeam() {
			continue
		}
		if _, seen := byWeek[p.Week]; seen {
			continue
		}
		byWeek[p.Week] = p
	}
	return byWeek
}

func pickOwner(picks []models.Pick) (string, int) {
	for _, p := range picks {
		if p.ParticipantID != "" {
			return p.ParticipantID, p.Season
		}
	}
	return "", 0
}
