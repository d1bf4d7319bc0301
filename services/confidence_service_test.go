package services

import (
	"context"
	"errors"
	"testing"

	"nfl-pool-go/models"

	. "github.com/smartystreets/goconvey/convey"
)

func TestConfidenceServiceRecomputeWeek(t *testing.T) {
	ctx := context.Background()

	Convey("Given confidence picks for two weeks", t, func() {
		picks := &fakePickStore{picks: []models.Pick{
			confidence("carol", 1, "g1", "Kansas City Chiefs", 3),
			confidence("carol", 1, "g2", "Buffalo Bills", 2),
			confidence("dan", 1, "g1", "Denver Broncos", 3),
			confidence("dan", 1, "g2", "BUF", 1),
			confidence("carol", 2, "g3", "Detroit Lions", 5),
		}}
		outcomes := &fakeOutcomeStore{outcomes: []models.GameOutcome{
			final("g1", 1, "Kansas City Chiefs", "Denver Broncos", ""),
			final("g2", 1, "Buffalo Bills", "Miami Dolphins", "Miami Dolphins"),
			final("g3", 2, "Detroit Lions", "Chicago Bears", "Detroit Lions"),
		}}
		scores := newFakeScoreStore()
		svc := NewConfidenceService(picks, NewOutcomeCache(outcomes, 0), scores, nil, nil)

		Convey("When week 1 is recomputed", func() {
			result, err := svc.RecomputeWeek(ctx, 2025, 1)
			So(err, ShouldBeNil)

			Convey("Then ties credit both sides and losses score nothing", func() {
				So(len(result), ShouldEqual, 2)
				So(result[0].ParticipantID, ShouldEqual, "carol")
				So(result[0].TotalPoints, ShouldEqual, 3)
				So(result[1].ParticipantID, ShouldEqual, "dan")
				So(result[1].TotalPoints, ShouldEqual, 3)
				So(result[1].CorrectPicks, ShouldEqual, 1)
			})

			Convey("Then the scores are stored", func() {
				stored, err := svc.WeekScores(ctx, 2025, 1)
				So(err, ShouldBeNil)
				So(len(stored), ShouldEqual, 2)
			})
		})

		Convey("When the whole season is recomputed", func() {
			byWeek, err := svc.RecomputeSeason(ctx, 2025)
			So(err, ShouldBeNil)

			Convey("Then every week with outcomes is scored and standings add up", func() {
				So(len(byWeek), ShouldEqual, 2)
				standings, err := svc.Standings(ctx, 2025)
				So(err, ShouldBeNil)
				So(standings[0].ParticipantID, ShouldEqual, "carol")
				So(standings[0].TotalPoints, ShouldEqual, 8)
				So(standings[0].WeeksScored, ShouldEqual, 2)
			})
		})

		Convey("When a week outside the season is requested", func() {
			_, err := svc.RecomputeWeek(ctx, 2025, 19)

			Convey("Then ErrInvalidWeek is returned", func() {
				So(errors.Is(err, ErrInvalidWeek), ShouldBeTrue)
			})
		})
	})
}

func TestWeeksWithOutcomes(t *testing.T) {
	Convey("Weeks are distinct, valid and ascending", t, func() {
		outcomes := []models.GameOutcome{{Week: 4}, {Week: 1}, {Week: 4}, {Week: 0}, {Week: 22}}
		So(WeeksWithOutcomes(outcomes), ShouldResemble, []int{1, 4})
		So(WeeksWithOutcomes(nil), ShouldBeEmpty)
	})
}
