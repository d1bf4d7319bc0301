package services

import (
	"context"
	"errors"
	"testing"

	"nfl-pool-go/models"

	. "github.com/smartystreets/goconvey/convey"
)

func newSurvivorFixture() (*SurvivorService, *fakeOutcomeStore, *fakeVerdictStore, *OutcomeCache) {
	picks := &fakePickStore{picks: []models.Pick{
		survivor("alice", 1, "Denver Broncos"),
		survivor("alice", 2, "Dallas Cowboys"),
		survivor("bob", 1, "DEN"),
		survivor("bob", 2, "Denver Broncos"),
	}}
	outcomes := &fakeOutcomeStore{outcomes: []models.GameOutcome{
		final("g1", 1, "Denver Broncos", "Las Vegas Raiders", "Denver Broncos"),
		final("g2", 2, "Dallas Cowboys", "New York Giants", "Dallas Cowboys"),
		final("g3", 2, "Denver Broncos", "Kansas City Chiefs", "Denver Broncos"),
	}}
	verdicts := newFakeVerdictStore()
	cache := NewOutcomeCache(outcomes, 0)

	svc := NewSurvivorService(picks, cache, verdicts, nil, nil)
	svc.SetConcurrency(2)
	return svc, outcomes, verdicts, cache
}

func TestSurvivorServiceRecomputeSeason(t *testing.T) {
	ctx := context.Background()

	Convey("Given two participants and two decided weeks", t, func() {
		svc, outcomes, verdicts, _ := newSurvivorFixture()

		Convey("When the season is recomputed through the latest decided week", func() {
			result, err := svc.RecomputeSeason(ctx, 2025, 0)
			So(err, ShouldBeNil)
			So(len(result), ShouldEqual, 2)

			Convey("Then each verdict covers week 2 and is stored", func() {
				So(result[0].ParticipantID, ShouldEqual, "alice")
				So(result[0].IsAlive, ShouldBeTrue)
				So(result[0].ThroughWeek, ShouldEqual, 2)

				So(result[1].ParticipantID, ShouldEqual, "bob")
				So(result[1].IsAlive, ShouldBeFalse)
				So(result[1].EliminationReason, ShouldEqual, models.ReasonDuplicateTeam)

				stored, err := verdicts.FindByParticipant(ctx, 2025, "bob")
				So(err, ShouldBeNil)
				So(stored.SameOutcome(&result[1]), ShouldBeTrue)
				So(stored.EvaluatedAt.IsZero(), ShouldBeFalse)
			})

			Convey("Then running again overwrites with the same outcome", func() {
				again, err := svc.RecomputeSeason(ctx, 2025, 0)
				So(err, ShouldBeNil)
				So(verdicts.writes, ShouldEqual, 4)
				So(again[0].SameOutcome(&result[0]), ShouldBeTrue)
				So(again[1].SameOutcome(&result[1]), ShouldBeTrue)
			})

			Convey("Then a corrected result replaces the stored verdict", func() {
				outcomes.outcomes[1].Winner = "New York Giants"

				again, err := svc.RecomputeSeason(ctx, 2025, 0)
				So(err, ShouldBeNil)
				So(again[0].IsAlive, ShouldBeFalse)
				So(again[0].EliminationReason, ShouldEqual, models.ReasonGameLoss)

				stored, _ := verdicts.FindByParticipant(ctx, 2025, "alice")
				So(stored.IsAlive, ShouldBeFalse)
				So(stored.EliminatedIn(), ShouldEqual, 2)
			})
		})

		Convey("When an explicit through-week passes the last pick", func() {
			v, err := svc.RecomputeParticipant(ctx, 2025, "alice", 25)
			So(err, ShouldBeNil)

			Convey("Then the week is capped and the missing pick eliminates", func() {
				So(v.ThroughWeek, ShouldEqual, models.MaxWeek)
				So(v.EliminationReason, ShouldEqual, models.ReasonNoPick)
				So(v.EliminatedIn(), ShouldEqual, 3)
			})
		})

		Convey("When a participant is evaluated without storing", func() {
			v, err := svc.EvaluateParticipant(ctx, 2025, "alice", 2)
			So(err, ShouldBeNil)

			Convey("Then nothing is written", func() {
				So(v.IsAlive, ShouldBeTrue)
				So(verdicts.writes, ShouldEqual, 0)
			})
		})

		Convey("When the season is out of range", func() {
			_, err := svc.RecomputeSeason(ctx, 1800, 0)

			Convey("Then ErrInvalidSeason is returned", func() {
				So(errors.Is(err, ErrInvalidSeason), ShouldBeTrue)
			})
		})

		Convey("When stored verdicts are listed", func() {
			_, err := svc.RecomputeSeason(ctx, 2025, 1)
			So(err, ShouldBeNil)
			list, err := svc.Verdicts(ctx, 2025)
			So(err, ShouldBeNil)

			Convey("Then every participant is present", func() {
				So(len(list), ShouldEqual, 2)
				So(list[0].IsAlive, ShouldBeTrue)
				So(list[1].IsAlive, ShouldBeTrue)
			})
		})
	})
}

func TestResolveThroughWeek(t *testing.T) {
	Convey("Through-week resolution", t, func() {
		outcomes := []models.GameOutcome{
			final("a", 3, "A", "B", "A"),
			{GameID: "b", Week: 4, Status: models.GameStatusInProgress},
		}
		So(resolveThroughWeek(0, outcomes), ShouldEqual, 3)
		So(resolveThroughWeek(-1, nil), ShouldEqual, 0)
		So(resolveThroughWeek(5, outcomes), ShouldEqual, 5)
		So(resolveThroughWeek(40, outcomes), ShouldEqual, models.MaxWeek)
	})
}
