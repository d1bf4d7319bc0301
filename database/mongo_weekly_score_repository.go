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

// MongoWeeklyScoreRepository stores confidence-pool weekly scores
type MongoWeeklyScoreRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

// NewMongoWeeklyScoreRepository creates a new MongoDB weekly score repository
func NewMongoWeeklyScoreRepository(db *MongoDB) *MongoWeeklyScoreRepository {
	return &MongoWeeklyScoreRepository{
		collection: db.GetCollection(WeeklyScoresCollection),
		logger:     logging.WithPrefix("WeeklyScoreRepo"),
	}
}

func (r *MongoWeeklyScoreRepository) EnsureIndexes() error {
	ctx, cancel := WithShortTimeout()
	defer cancel()

	index := mongo.IndexModel{
		Keys: bson.D{
			{Key: "season", Value: 1},
			{Key: "week", Value: 1},
			{Key: "participant_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create weekly score index: %w", err)
	}
	return nil
}

// Replace overwrites the participant's score for the week. Scores are
// recomputed from scratch, so nothing from the previous document survives.
func (r *MongoWeeklyScoreRepository) Replace(ctx context.Context, score *models.WeeklyScore) error {
	ctx, cancel := boundedContext(ctx, ShortTimeout)
	defer cancel()

	score.UpdatedAt = time.Now()
	filter := bson.M{
		"participant_id": score.ParticipantID,
		"season":         score.Season,
		"week":           score.Week,
	}

	if _, err := r.collection.ReplaceOne(ctx, filter, score, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to replace weekly score: %w", err)
	}

	r.logger.Debugf("Stored weekly score for %s, season %d, week %d: %d points",
		score.ParticipantID, score.Season, score.Week, score.TotalPoints)
	return nil
}

// FindByWeek returns all scores for a week, highest first
func (r *MongoWeeklyScoreRepository) FindByWeek(ctx context.Context, season, week int) ([]models.WeeklyScore, error) {
	ctx, cancel := boundedContext(ctx, MediumTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "total_points", Value: -1},
		{Key: "participant_id", Value: 1},
	})
	return r.find(ctx, bson.M{"season": season, "week": week}, opts)
}

// FindByParticipant returns one participant's scores for a season, by week
func (r *MongoWeeklyScoreRepository) FindByParticipant(ctx context.Context, season int, participantID string) ([]models.WeeklyScore, error) {
	ctx, cancel := boundedContext(ctx, MediumTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "week", Value: 1}})
	return r.find(ctx, bson.M{"season": season, "participant_id": participantID}, opts)
}

func (r *MongoWeeklyScoreRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.WeeklyScore, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find weekly scores: %w", err)
	}
	defer cursor.Close(ctx)

	var scores []models.WeeklyScore
	if err := cursor.All(ctx, &scores); err != nil {
		return nil, fmt.Errorf("failed to decode weekly scores: %w", err)
	}
	return scores, nil
}

// SeasonStandings totals every participant's weekly scores, ordered by points
func (r *MongoWeeklyScoreRepository) SeasonStandings(ctx context.Context, season int) ([]models.SeasonStanding, error) {
	ctx, cancel := boundedContext(ctx, LongTimeout)
	defer cancel()

	cursor, err := r.collection.Aggregate(ctx, standingsPipeline(season))
	if err != nil {
		return nil, fmt.Errorf("failed to get season standings: %w", err)
	}
	defer cursor.Close(ctx)

	var standings []models.SeasonStanding
	if err := cursor.All(ctx, &standings); err != nil {
		return nil, fmt.Errorf("failed to decode standings: %w", err)
	}

	for i := range standings {
		standings[i].Season = season
	}
	return standings, nil
}

func standingsPipeline(season int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "season", Value: season}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$participant_id"},
			{Key: "total_points", Value: bson.D{{Key: "$sum", Value: "$total_points"}}},
			{Key: "correct_picks", Value: bson.D{{Key: "$sum", Value: "$correct_picks"}}},
			{Key: "weeks_scored", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_points", Value: -1}, {Key: "_id", Value: 1}}}},
	}
}
