package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"nfl-pool-go/logging"
	"nfl-pool-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPickRepository stores survivor and confidence picks in one collection
type MongoPickRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

// NewMongoPickRepository creates a new MongoDB pick repository
func NewMongoPickRepository(db *MongoDB) *MongoPickRepository {
	return &MongoPickRepository{
		collection: db.GetCollection(PicksCollection),
		logger:     logging.WithPrefix("PickRepo"),
	}
}

// EnsureIndexes creates the compound indexes used by the pool queries
func (r *MongoPickRepository) EnsureIndexes() error {
	ctx, cancel := WithMediumTimeout()
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "pool", Value: 1},
				{Key: "season", Value: 1},
				{Key: "week", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "participant_id", Value: 1},
				{Key: "pool", Value: 1},
				{Key: "season", Value: 1},
				{Key: "week", Value: 1},
				{Key: "game_id", Value: 1},
				{Key: "team", Value: 1},
			},
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create pick indexes: %w", err)
	}
	return nil
}

// FindSurvivorPicks returns one participant's survivor picks for a season, ordered by week
func (r *MongoPickRepository) FindSurvivorPicks(ctx context.Context, season int, participantID string) ([]models.Pick, error) {
	ctx, cancel := boundedContext(ctx, MediumTimeout)
	defer cancel()

	filter := bson.M{
		"pool":           models.PoolSurvivor,
		"season":         season,
		"participant_id": participantID,
	}
	opts := options.Find().SetSort(bson.D{{Key: "week", Value: 1}, {Key: "created_at", Value: 1}})

	picks, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find survivor picks for %s: %w", participantID, err)
	}
	return picks, nil
}

// FindAllSurvivorPicks returns every participant's survivor picks for a season
func (r *MongoPickRepository) FindAllSurvivorPicks(ctx context.Context, season int) ([]models.ParticipantPicks, error) {
	ctx, cancel := boundedContext(ctx, LongTimeout)
	defer cancel()

	filter := bson.M{"pool": models.PoolSurvivor, "season": season}
	opts := options.Find().SetSort(bson.D{
		{Key: "participant_id", Value: 1},
		{Key: "week", Value: 1},
		{Key: "created_at", Value: 1},
	})

	picks, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find survivor picks for season %d: %w", season, err)
	}
	return GroupByParticipant(picks), nil
}

// FindConfidencePicks returns every participant's confidence picks for one week
func (r *MongoPickRepository) FindConfidencePicks(ctx context.Context, season, week int) ([]models.ParticipantPicks, error) {
	ctx, cancel := boundedContext(ctx, MediumTimeout)
	defer cancel()

	filter := bson.M{"pool": models.PoolConfidence, "season": season, "week": week}
	opts := options.Find().SetSort(bson.D{
		{Key: "participant_id", Value: 1},
		{Key: "confidence", Value: -1},
	})

	picks, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find confidence picks for season %d week %d: %w", season, week, err)
	}
	return GroupByParticipant(picks), nil
}

// UpsertPick inserts or replaces a pick identified by PickFilter
func (r *MongoPickRepository) UpsertPick(ctx context.Context, pick *models.Pick) error {
	ctx, cancel := boundedContext(ctx, ShortTimeout)
	defer cancel()

	now := time.Now()
	pick.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"team":       pick.Team,
			"confidence": pick.Confidence,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, PickFilter(pick), update, opts); err != nil {
		return fmt.Errorf("failed to upsert pick: %w", err)
	}

	r.logger.Debugf("Upserted %s pick for %s season %d week %d: %s",
		pick.Pool, pick.ParticipantID, pick.Season, pick.Week, pick.Team)
	return nil
}

func (r *MongoPickRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Pick, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var picks []models.Pick
	if err := cursor.All(ctx, &picks); err != nil {
		return nil, fmt.Errorf("failed to decode picks: %w", err)
	}
	return picks, nil
}

// PickFilter identifies the stored slot a pick occupies. A survivor
// participant has one slot per week; a confidence participant has one per
// game, keyed by game ID or, when the feed gave none, by team.
func PickFilter(pick *models.Pick) bson.M {
	filter := bson.M{
		"participant_id": pick.ParticipantID,
		"pool":           pick.Pool,
		"season":         pick.Season,
		"week":           pick.Week,
	}
	if pick.Pool == models.PoolConfidence {
		if pick.GameID != "" {
			filter["game_id"] = pick.GameID
		} else {
			filter["team"] = strings.TrimSpace(pick.Team)
		}
	}
	return filter
}

// GroupByParticipant buckets picks per participant, keeping each bucket in
// input order and ordering buckets by participant ID
func GroupByParticipant(picks []models.Pick) []models.ParticipantPicks {
	index := make(map[string]int)
	var grouped []models.ParticipantPicks

	for _, p := range picks {
		i, ok := index[p.ParticipantID]
		if !ok {
			i = len(grouped)
			index[p.ParticipantID] = i
			grouped = append(grouped, models.ParticipantPicks{ParticipantID: p.ParticipantID})
		}
		grouped[i].Picks = append(grouped[i].Picks, p)
	}

	sort.SliceStable(grouped, func(a, b int) bool {
		return grouped[a].ParticipantID < grouped[b].ParticipantID
	})
	return grouped
}
