package scoring

import (
	"testing"

	"nfl-pool-go/models"

	. "github.com/smartystreets/goconvey/convey"
)

func survivorPick(week int, team string) models.Pick {
	return models.Pick{ParticipantID: "alice", Season: 2025, Week: week, Team: team, Pool: models.PoolSurvivor}
}

func finalGame(week int, home, away, winner string) models.GameOutcome {
	return models.GameOutcome{Week: week, HomeTeam: home, AwayTeam: away, Status: models.GameStatusFinal, Winner: winner}
}

func TestEvaluateSurvivorScenarios(t *testing.T) {
	Convey("Given a week 1 pick of the Denver Broncos", t, func() {
		picks := []models.Pick{survivorPick(1, "Denver Broncos")}

		Convey("When Denver wins", func() {
			outcomes := []models.GameOutcome{finalGame(1, "Denver Broncos", "Las Vegas Raiders", "Denver Broncos")}
			v := EvaluateSurvivor(picks, outcomes, 1)

			Convey("Then the participant is alive", func() {
				So(v.IsAlive, ShouldBeTrue)
				So(v.EliminatedWeek, ShouldBeNil)
				So(v.EliminationReason, ShouldBeEmpty)
				So(v.ParticipantID, ShouldEqual, "alice")
				So(v.Season, ShouldEqual, 2025)
			})
		})

		Convey("When Las Vegas wins", func() {
			outcomes := []models.GameOutcome{finalGame(1, "Denver Broncos", "Las Vegas Raiders", "Las Vegas Raiders")}
			v := EvaluateSurvivor(picks, outcomes, 1)

			Convey("Then the participant is eliminated in week 1 by a loss", func() {
				So(v.IsAlive, ShouldBeFalse)
				So(*v.EliminatedWeek, ShouldEqual, 1)
				So(v.EliminationReason, ShouldEqual, models.ReasonGameLoss)
				So(v.Reason, ShouldContainSubstring, "Las Vegas Raiders")
			})
		})

		Convey("When the game ties", func() {
			outcomes := []models.GameOutcome{finalGame(1, "Denver Broncos", "Las Vegas Raiders", "")}

			Convey("Then the default rules keep the participant alive", func() {
				So(EvaluateSurvivor(picks, outcomes, 1).IsAlive, ShouldBeTrue)
			})

			Convey("Then a strict tie rule eliminates", func() {
				rules := DefaultRules()
				rules.TieSurvives = false
				v := NewEvaluator(rules, nil).Evaluate(picks, outcomes, 1)
				So(v.IsAlive, ShouldBeFalse)
				So(v.EliminationReason, ShouldEqual, models.ReasonGameLoss)
			})
		})

		Convey("When the game is still in progress", func() {
			outcomes := []models.GameOutcome{{Week: 1, HomeTeam: "Denver Broncos", AwayTeam: "Las Vegas Raiders", Status: models.GameStatusInProgress}}

			Convey("Then the week is undecided and the participant is alive", func() {
				So(EvaluateSurvivor(picks, outcomes, 1).IsAlive, ShouldBeTrue)
			})
		})

		Convey("When result feeds spell the teams differently", func() {
			outcomes := []models.GameOutcome{finalGame(1, "DEN", "LV", "LV")}

			Convey("Then the names are normalized before matching", func() {
				v := EvaluateSurvivor(picks, outcomes, 1)
				So(v.IsAlive, ShouldBeFalse)
				So(v.EliminationReason, ShouldEqual, models.ReasonGameLoss)
			})
		})
	})
}

func TestEvaluateSurvivorDuplicateTeam(t *testing.T) {
	Convey("Given Dallas picked in week 1 and again in week 3", t, func() {
		picks := []models.Pick{
			survivorPick(1, "Dallas Cowboys"),
			survivorPick(2, "Buffalo Bills"),
			survivorPick(3, "Dallas Cowboys"),
		}
		outcomes := []models.GameOutcome{
			finalGame(1, "Dallas Cowboys", "New York Giants", "Dallas Cowboys"),
			finalGame(2, "Buffalo Bills", "Miami Dolphins", "Buffalo Bills"),
		}

		Convey("Then week 3 eliminates for a duplicate team whatever its result", func() {
			for _, winner := range []string{"Dallas Cowboys", "Philadelphia Eagles", ""} {
				withWeek3 := append(append([]models.GameOutcome{}, outcomes...),
					finalGame(3, "Dallas Cowboys", "Philadelphia Eagles", winner))
				v := EvaluateSurvivor(picks, withWeek3, 3)
				So(v.IsAlive, ShouldBeFalse)
				So(*v.EliminatedWeek, ShouldEqual, 3)
				So(v.EliminationReason, ShouldEqual, models.ReasonDuplicateTeam)
			}
		})

		Convey("Then a duplicate is caught even before week 3 has a result", func() {
			v := EvaluateSurvivor(picks, outcomes, 3)
			So(v.EliminationReason, ShouldEqual, models.ReasonDuplicateTeam)
		})

		Convey("Then alias spellings count as the same team", func() {
			picks[2].Team = " DAL "
			v := EvaluateSurvivor(picks, outcomes, 3)
			So(v.EliminationReason, ShouldEqual, models.ReasonDuplicateTeam)
		})

		Convey("Then disabling the rule lets the reuse through", func() {
			rules := DefaultRules()
			rules.UniqueTeams = false
			v := NewEvaluator(rules, nil).Evaluate(picks, outcomes, 3)
			So(v.IsAlive, ShouldBeTrue)
		})
	})
}

func TestEvaluateSurvivorMissingPick(t *testing.T) {
	Convey("Given a pick for week 1 and no record for week 2", t, func() {
		picks := []models.Pick{survivorPick(1, "Detroit Lions")}
		outcomes := []models.GameOutcome{finalGame(1, "Detroit Lions", "Chicago Bears", "Detroit Lions")}

		Convey("Then evaluating through week 2 eliminates in week 2 for NO_PICK", func() {
			v := EvaluateSurvivor(picks, outcomes, 2)
			So(v.IsAlive, ShouldBeFalse)
			So(*v.EliminatedWeek, ShouldEqual, 2)
			So(v.EliminationReason, ShouldEqual, models.ReasonNoPick)
		})

		Convey("Then a malformed week 2 entry also reads as NO_PICK", func() {
			withBlank := append(picks, survivorPick(2, "   "))
			v := EvaluateSurvivor(withBlank, outcomes, 2)
			So(v.EliminationReason, ShouldEqual, models.ReasonNoPick)
		})

		Convey("Then evaluating through week 1 keeps the participant alive", func() {
			So(EvaluateSurvivor(picks, outcomes, 1).IsAlive, ShouldBeTrue)
		})

		Convey("Then a lenient rule skips the missing week", func() {
			rules := DefaultRules()
			rules.MissingPickEliminates = false
			So(NewEvaluator(rules, nil).Evaluate(picks, outcomes, 2).IsAlive, ShouldBeTrue)
		})
	})

	Convey("Given no picks at all", t, func() {
		Convey("Then week 1 eliminates", func() {
			v := EvaluateSurvivor(nil, nil, 1)
			So(v.EliminationReason, ShouldEqual, models.ReasonNoPick)
		})

		Convey("Then a zero through-week examines nothing", func() {
			So(EvaluateSurvivor(nil, nil, 0).IsAlive, ShouldBeTrue)
		})
	})
}

func TestEvaluateSurvivorProperties(t *testing.T) {
	Convey("Given a participant who loses in week 2", t, func() {
		picks := []models.Pick{
			survivorPick(1, "Baltimore Ravens"),
			survivorPick(2, "Cleveland Browns"),
			survivorPick(3, "Pittsburgh Steelers"),
		}
		outcomes := []models.GameOutcome{
			finalGame(1, "Baltimore Ravens", "Cincinnati Bengals", "Baltimore Ravens"),
			finalGame(2, "Cleveland Browns", "Houston Texans", "Houston Texans"),
		}

		Convey("Then evaluation is idempotent", func() {
			first := EvaluateSurvivor(picks, outcomes, 3)
			second := EvaluateSurvivor(picks, outcomes, 3)
			So(second, ShouldResemble, first)
		})

		Convey("Then later outcomes never move or undo the elimination", func() {
			before := EvaluateSurvivor(picks, outcomes, 3)
			later := append(append([]models.GameOutcome{}, outcomes...),
				finalGame(3, "Pittsburgh Steelers", "Tennessee Titans", "Pittsburgh Steelers"),
				finalGame(4, "Kansas City Chiefs", "Denver Broncos", "Kansas City Chiefs"))
			after := EvaluateSurvivor(picks, later, 18)

			So(before.IsAlive, ShouldBeFalse)
			So(after.IsAlive, ShouldBeFalse)
			So(*after.EliminatedWeek, ShouldEqual, *before.EliminatedWeek)
			So(after.EliminationReason, ShouldEqual, before.EliminationReason)
		})

		Convey("Then input order does not change the verdict", func() {
			reversed := []models.Pick{picks[2], picks[1], picks[0]}
			forward := EvaluateSurvivor(picks, outcomes, 3)
			backward := EvaluateSurvivor(reversed, outcomes, 3)
			So(backward.SameOutcome(&forward), ShouldBeTrue)
		})

		Convey("Then teams used up to elimination are reported", func() {
			v := EvaluateSurvivor(picks, outcomes, 3)
			So(v.TeamsUsed, ShouldResemble, []string{"Baltimore Ravens", "Cleveland Browns"})
		})
	})
}
