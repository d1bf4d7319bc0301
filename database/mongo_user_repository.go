package database

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"nfl-pool-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository stores pool operators allowed to use the admin API
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoDB user repository
func NewMongoUserRepository(db *MongoDB) *MongoUserRepository {
	return &MongoUserRepository{
		collection: db.GetCollection(UsersCollection),
	}
}

// GetUserByEmail retrieves a user by their email address (case-insensitive)
func (r *MongoUserRepository) GetUserByEmail(email string) (*models.User, error) {
	pattern := "^" + regexp.QuoteMeta(strings.ToLower(strings.TrimSpace(email))) + "$"
	filter := bson.M{"email": bson.M{"$regex": pattern, "$options": "i"}}
	return r.findOne(filter)
}

// GetUserByID retrieves a user by their ID
func (r *MongoUserRepository) GetUserByID(id int) (*models.User, error) {
	return r.findOne(bson.M{"_id": id})
}

func (r *MongoUserRepository) findOne(filter bson.M) (*models.User, error) {
	ctx, cancel := WithShortTimeout()
	defer cancel()

	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// CreateUser inserts a new user. A zero ID is replaced by the next free one.
func (r *MongoUserRepository) CreateUser(user *models.User) error {
	ctx, cancel := WithShortTimeout()
	defer cancel()

	if user.ID == 0 {
		next, err := r.nextID()
		if err != nil {
			return err
		}
		user.ID = next
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
	return nil
}

func (r *MongoUserRepository) nextID() (int, error) {
	ctx, cancel := WithShortTimeout()
	defer cancel()

	var last models.User
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find last user id: %w", err)
	}
	return last.ID + 1, nil
}

// EnsureIndexes creates necessary indexes for the users collection
func (r *MongoUserRepository) EnsureIndexes() error {
	ctx, cancel := WithMediumTimeout()
	defer cancel()

	emailIndexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := r.collection.Indexes().CreateOne(ctx, emailIndexModel)
	return err
}
