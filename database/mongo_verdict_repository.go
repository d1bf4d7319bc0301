package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nfl-pool-go/logging"
	"nfl-pool-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoVerdictRepository stores one survivor verdict per participant and season
type MongoVerdictRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoVerdictRepository(db *MongoDB) *MongoVerdictRepository {
	return &MongoVerdictRepository{
		collection: db.GetCollection(VerdictsCollection),
		logger:     logging.WithPrefix("VerdictRepo"),
	}
}

func (r *MongoVerdictRepository) EnsureIndexes() error {
	ctx, cancel := WithShortTimeout()
	defer cancel()

	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "season", Value: 1}, {Key: "participant_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create verdict index: %w", err)
	}
	return nil
}

// Replace overwrites the stored verdict with v. Fields absent from v, such as
// the eliminated week of a participant now alive, are removed rather than kept.
func (r *MongoVerdictRepository) Replace(ctx context.Context, v *models.SurvivorVerdict) error {
	ctx, cancel := boundedContext(ctx, ShortTimeout)
	defer cancel()

	if v.EvaluatedAt.IsZero() {
		v.EvaluatedAt = time.Now()
	}

	filter := bson.M{"season": v.Season, "participant_id": v.ParticipantID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, v, opts); err != nil {
		return fmt.Errorf("failed to replace verdict for %s: %w", v.ParticipantID, err)
	}
	return nil
}

// FindBySeason returns every stored verdict of a season, alive participants first
func (r *MongoVerdictRepository) FindBySeason(ctx context.Context, season int) ([]models.SurvivorVerdict, error) {
	ctx, cancel := boundedContext(ctx, MediumTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "is_alive", Value: -1},
		{Key: "eliminated_week", Value: -1},
		{Key: "participant_id", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"season": season}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find verdicts for season %d: %w", season, err)
	}
	defer cursor.Close(ctx)

	var verdicts []models.SurvivorVerdict
	if err := cursor.All(ctx, &verdicts); err != nil {
		return nil, fmt.Errorf("failed to decode verdicts: %w", err)
	}
	return verdicts, nil
}

// FindByParticipant returns ErrNotFound when no verdict has been stored yet
func (r *MongoVerdictRepository) FindByParticipant(ctx context.Context, season int, participantID string) (*models.SurvivorVerdict, error) {
	ctx, cancel := boundedContext(ctx, ShortTimeout)
	defer cancel()

	var verdict models.SurvivorVerdict
	err := r.collection.FindOne(ctx, bson.M{"season": season, "participant_id": participantID}).Decode(&verdict)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find verdict for %s: %w", participantID, err)
	}
	return &verdict, nil
}
