package database

import (
	"context"
	"fmt"
	"time"

	"nfl-pool-go/logging"
	"nfl-pool-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoOutcomeRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoOutcomeRepository(db *MongoDB) *MongoOutcomeRepository {
	return &MongoOutcomeRepository{
		collection: db.GetCollection(OutcomesCollection),
		logger:     logging.WithPrefix("OutcomeRepo"),
	}
}

// EnsureIndexes creates the unique (game_id, season) index used by upserts
func (r *MongoOutcomeRepository) EnsureIndexes() error {
	ctx, cancel := WithShortTimeout()
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "game_id", Value: 1}, {Key: "season", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "season", Value: 1}, {Key: "week", Value: 1}},
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create outcome indexes: %w", err)
	}
	return nil
}

// FindBySeason returns every outcome of a season ordered by week and kickoff
func (r *MongoOutcomeRepository) FindBySeason(ctx context.Context, season int) ([]models.GameOutcome, error) {
	ctx, cancel := boundedContext(ctx, MediumTimeout)
	defer cancel()

	outcomes, err := r.find(ctx, bson.M{"season": season})
	if err != nil {
		return nil, fmt.Errorf("failed to find outcomes for season %d: %w", season, err)
	}
	return outcomes, nil
}

// FindByWeek returns one week's outcomes ordered by kickoff
func (r *MongoOutcomeRepository) FindByWeek(ctx context.Context, season, week int) ([]models.GameOutcome, error) {
	ctx, cancel := boundedContext(ctx, MediumTimeout)
	defer cancel()

	outcomes, err := r.find(ctx, bson.M{"season": season, "week": week})
	if err != nil {
		return nil, fmt.Errorf("failed to find outcomes for week %d season %d: %w", week, season, err)
	}
	return outcomes, nil
}

func (r *MongoOutcomeRepository) find(ctx context.Context, filter bson.M) ([]models.GameOutcome, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "week", Value: 1},
		{Key: "kickoff", Value: 1},
		{Key: "home_team", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var outcomes []models.GameOutcome
	if err := cursor.All(ctx, &outcomes); err != nil {
		return nil, fmt.Errorf("failed to decode outcomes: %w", err)
	}
	return outcomes, nil
}

// BulkUpsert validates every outcome, then writes them keyed by game and
// season. It returns how many documents were inserted or changed.
func (r *MongoOutcomeRepository) BulkUpsert(ctx context.Context, outcomes []models.GameOutcome) (int, error) {
	if len(outcomes) == 0 {
		return 0, nil
	}

	for i := range outcomes {
		if outcomes[i].GameID == "" {
			return 0, fmt.Errorf("outcome %s has no game id", outcomes[i].Matchup())
		}
		if err := outcomes[i].Validate(); err != nil {
			return 0, fmt.Errorf("invalid outcome: %w", err)
		}
	}

	ctx, cancel := boundedContext(ctx, LongTimeout)
	defer cancel()

	operations := make([]mongo.WriteModel, 0, len(outcomes))
	for i := range outcomes {
		operations = append(operations, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"game_id": outcomes[i].GameID, "season": outcomes[i].Season}).
			SetUpdate(outcomeUpdate(&outcomes[i], time.Now())).
			SetUpsert(true))
	}

	result, err := r.collection.BulkWrite(ctx, operations, options.BulkWrite().SetOrdered(false))
	if err != nil {
		r.logger.Errorf("Bulk write error details: %v", err)
		return 0, fmt.Errorf("bulk upsert failed: %w", err)
	}

	changed := int(result.UpsertedCount + result.ModifiedCount)
	r.logger.Infof("Processed %d outcomes: %d upserted, %d modified",
		len(outcomes), result.UpsertedCount, result.ModifiedCount)
	return changed, nil
}

// outcomeUpdate writes the result fields and stamps updated_at. Callers
// that want no change events for unchanged games filter them out first.
func outcomeUpdate(o *models.GameOutcome, now time.Time) bson.M {
	set := bson.M{
		"game_id":    o.GameID,
		"season":     o.Season,
		"week":       o.Week,
		"home_team":  o.HomeTeam,
		"away_team":  o.AwayTeam,
		"status":     o.Status,
		"home_score": o.HomeScore,
		"away_score": o.AwayScore,
		"kickoff":    o.Kickoff,
		"updated_at": now,
	}

	update := bson.M{
		"$set": set,
	}
	if o.Winner != "" {
		set["winner"] = o.Winner
	} else {
		update["$unset"] = bson.M{"winner": ""}
	}
	return update
}
