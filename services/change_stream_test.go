package services

import (
	"testing"

	"nfl-pool-go/database"

	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/bson"
)

func TestChangeEventFromDocument(t *testing.T) {
	Convey("Given raw change stream events", t, func() {
		Convey("An outcome update carries season, week and game", func() {
			event := bson.M{
				"operationType": "update",
				"fullDocument":  bson.M{"season": int32(2025), "week": int64(4), "game_id": "401"},
			}
			ce, ok := changeEventFromDocument(event, database.OutcomesCollection)
			So(ok, ShouldBeTrue)
			So(ce.Operation, ShouldEqual, "update")
			So(ce.Season, ShouldEqual, 2025)
			So(ce.Week, ShouldEqual, 4)
			So(ce.GameID, ShouldEqual, "401")
			So(ce.ParticipantID, ShouldBeEmpty)
		})

		Convey("A pick insert carries participant and pool", func() {
			event := bson.M{
				"operationType": "insert",
				"fullDocument":  bson.M{"season": int32(2025), "week": int32(2), "participant_id": "alice", "pool": "survivor"},
			}
			ce, ok := changeEventFromDocument(event, database.PicksCollection)
			So(ok, ShouldBeTrue)
			So(ce.ParticipantID, ShouldEqual, "alice")
			So(ce.Pool, ShouldEqual, "survivor")
		})

		Convey("A delete has no document and zero season", func() {
			ce, ok := changeEventFromDocument(bson.M{"operationType": "delete"}, database.OutcomesCollection)
			So(ok, ShouldBeTrue)
			So(ce.Season, ShouldEqual, 0)
		})

		Convey("Events without an operation are ignored", func() {
			_, ok := changeEventFromDocument(bson.M{}, database.PicksCollection)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestChangePipeline(t *testing.T) {
	Convey("Only the outcomes stream is filtered", t, func() {
		So(len(changePipeline(database.OutcomesCollection)), ShouldEqual, 1)
		So(changePipeline(database.PicksCollection), ShouldBeEmpty)
	})
}
