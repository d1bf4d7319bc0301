package database

import (
	"context"
	"fmt"
	"time"

	"nfl-pool-go/logging"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared by repositories and the change stream watcher
const (
	PicksCollection        = "picks"
	OutcomesCollection     = "outcomes"
	VerdictsCollection     = "survivor_verdicts"
	WeeklyScoresCollection = "weekly_scores"
	UsersCollection        = "users"
)

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Timeout  time.Duration
}

// URI builds the connection string, authenticating against the pool database when credentials are set
func (c Config) URI() string {
	if c.Username != "" && c.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=%s",
			c.Username, c.Password, c.Host, c.Port, c.Database, c.Database)
	}
	return fmt.Sprintf("mongodb://%s:%s/%s", c.Host, c.Port, c.Database)
}

type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
}

func NewMongoConnection(config Config) (*MongoDB, error) {
	logger := logging.WithPrefix("MongoDB")

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = MediumTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if config.Username != "" && config.Password != "" {
		logger.Infof("Connecting with authentication as user: %s", config.Username)
	} else {
		logger.Info("Connecting without authentication")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.URI()))
	if err != nil {
		logger.Errorf("Failed to connect: %v", err)
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		logger.Errorf("Failed to ping: %v", err)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(config.Database)
	logger.Infof("Successfully connected to %s:%s database=%s", config.Host, config.Port, config.Database)

	return &MongoDB{
		client:   client,
		database: database,
	}, nil
}

func (m *MongoDB) Close() error {
	logger := logging.WithPrefix("MongoDB")
	ctx, cancel := WithShortTimeout()
	defer cancel()

	err := m.client.Disconnect(ctx)
	if err != nil {
		logger.Errorf("Error disconnecting: %v", err)
	} else {
		logger.Info("Connection closed successfully")
	}
	return err
}

// Ping checks the server is reachable within ctx
func (m *MongoDB) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("MongoDB ping failed: %w", err)
	}
	return nil
}

func (m *MongoDB) GetCollection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

// EnsureIndexes creates the indexes every repository relies on
func (m *MongoDB) EnsureIndexes() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{PicksCollection, NewMongoPickRepository(m).EnsureIndexes},
		{OutcomesCollection, NewMongoOutcomeRepository(m).EnsureIndexes},
		{VerdictsCollection, NewMongoVerdictRepository(m).EnsureIndexes},
		{WeeklyScoresCollection, NewMongoWeeklyScoreRepository(m).EnsureIndexes},
		{UsersCollection, NewMongoUserRepository(m).EnsureIndexes},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", step.name, err)
		}
	}

	logging.WithPrefix("MongoDB").Info("Indexes ensured")
	return nil
}
