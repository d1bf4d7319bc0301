package services

import (
	"context"
	"time"

	"nfl-pool-go/database"
	"nfl-pool-go/logging"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const changeStreamRetryDelay = 5 * time.Second

// ChangeEvent represents a database change event with context
type ChangeEvent struct {
	Collection    string `json:"collection"`
	Operation     string `json:"operation"`
	Season        int    `json:"season"`
	Week          int    `json:"week"`
	GameID        string `json:"gameId,omitempty"`
	ParticipantID string `json:"participantId,omitempty"`
	Pool          string `json:"pool,omitempty"`
}

// ChangeStreamWatcher watches the outcomes and picks collections and reports
// changes that can alter a verdict or score
type ChangeStreamWatcher struct {
	db       *database.MongoDB
	onChange func(event ChangeEvent)
	logger   *logging.Logger
}

// NewChangeStreamWatcher creates a new change stream watcher
func NewChangeStreamWatcher(db *database.MongoDB, onChange func(event ChangeEvent)) *ChangeStreamWatcher {
	return &ChangeStreamWatcher{
		db:       db,
		onChange: onChange,
		logger:   logging.WithPrefix("ChangeStream"),
	}
}

// Start watches both collections until ctx is cancelled
func (w *ChangeStreamWatcher) Start(ctx context.Context) {
	go w.watchCollection(ctx, database.OutcomesCollection)
	go w.watchCollection(ctx, database.PicksCollection)
}

// changePipeline filters outcome updates down to fields the pools read.
// Pick changes are all relevant.
func changePipeline(collectionName string) mongo.Pipeline {
	if collectionName != database.OutcomesCollection {
		return mongo.Pipeline{}
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"$or": []bson.M{
				{"operationType": bson.M{"$in": []string{"insert", "replace", "delete"}}},
				{
					"operationType": "update",
					"$or": []bson.M{
						{"updateDescription.updatedFields.status": bson.M{"$exists": true}},
						{"updateDescription.updatedFields.winner": bson.M{"$exists": true}},
						{"updateDescription.removedFields": "winner"},
						{"updateDescription.updatedFields.home_team": bson.M{"$exists": true}},
						{"updateDescription.updatedFields.away_team": bson.M{"$exists": true}},
					},
				},
			},
		}}},
	}
}

// watchCollection keeps a change stream open, reconnecting after errors
func (w *ChangeStreamWatcher) watchCollection(ctx context.Context, collectionName string) {
	collection := w.db.GetCollection(collectionName)
	pipeline := changePipeline(collectionName)
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	w.logger.Infof("Starting to watch %s collection for changes", collectionName)

	for {
		if ctx.Err() != nil {
			w.logger.Infof("Stopped watching %s", collectionName)
			return
		}

		changeStream, err := collection.Watch(ctx, pipeline, opts)
		if err != nil {
			w.logger.Errorf("Error creating change stream for %s: %v", collectionName, err)
			if !sleepCtx(ctx, changeStreamRetryDelay) {
				return
			}
			continue
		}

		w.logger.Infof("Successfully connected to %s collection", collectionName)

		for changeStream.Next(ctx) {
			var event bson.M
			if err := changeStream.Decode(&event); err != nil {
				w.logger.Errorf("Error decoding change event from %s: %v", collectionName, err)
				continue
			}

			changeEvent, ok := changeEventFromDocument(event, collectionName)
			if !ok {
				continue
			}

			w.logger.Debugf("%s %s season=%d week=%d", collectionName, changeEvent.Operation, changeEvent.Season, changeEvent.Week)
			if w.onChange != nil {
				w.onChange(changeEvent)
			}
		}

		if err := changeStream.Err(); err != nil && ctx.Err() == nil {
			w.logger.Errorf("Change stream error for %s: %v", collectionName, err)
		}
		changeStream.Close(context.Background())

		if !sleepCtx(ctx, changeStreamRetryDelay) {
			w.logger.Infof("Stopped watching %s", collectionName)
			return
		}
		w.logger.Warnf("Connection to %s closed, reconnecting", collectionName)
	}
}

// changeEventFromDocument extracts season, week and identity from a raw
// change stream event. Deletes carry only the document key, so their season
// and week stay zero and consumers treat them as affecting every season.
func changeEventFromDocument(event bson.M, collection string) (ChangeEvent, bool) {
	operation, ok := event["operationType"].(string)
	if !ok {
		return ChangeEvent{}, false
	}

	changeEvent := ChangeEvent{Collection: collection, Operation: operation}

	doc, _ := event["fullDocument"].(bson.M)
	if doc == nil {
		return changeEvent, true
	}

	changeEvent.Season = asInt(doc["season"])
	changeEvent.Week = asInt(doc["week"])
	if gameID, ok := doc["game_id"].(string); ok {
		changeEvent.GameID = gameID
	}
	if collection == database.PicksCollection {
		if pid, ok := doc["participant_id"].(string); ok {
			changeEvent.ParticipantID = pid
		}
		if pool, ok := doc["pool"].(string); ok {
			changeEvent.Pool = pool
		}
	}

	return changeEvent, true
}

// asInt reads a BSON number, which decodes as int32 or int64 depending on the writer
func asInt(v interface{}) int {
	switch n := v.(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

// sleepCtx waits for d, returning false if ctx ends first
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
