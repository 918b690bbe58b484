package ratingRepo

import (
	"context"
	"fmt"
	"time"

	"transylvania/database"
	"transylvania/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RatingRepository defines methods for room rating access.
type RatingRepository interface {
	// Upsert inserts or replaces the caller's rating for a room.
	Upsert(ctx context.Context, rating *models.Rating) error
	// GetByProfile returns the caller's rating for a room, or nil.
	GetByProfile(ctx context.Context, roomID int, profileID string) (*models.Rating, error)
	// Summary aggregates average and count for a room.
	Summary(ctx context.Context, roomID int) (*models.RatingSummary, error)
}

// MongoRatingRepo implements RatingRepository using MongoDB.
type MongoRatingRepo struct {
	coll *mongo.Collection
}

// NewMongoRatingRepo creates a new instance of RatingRepository using MongoDB.
func NewMongoRatingRepo() RatingRepository {
	coll := database.DB().Collection("ratings")
	repo := &MongoRatingRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoRatingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "room_id", Value: 1}, {Key: "profile_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoRatingRepo) Upsert(ctx context.Context, rating *models.Rating) error {
	rating.UpdatedAt = time.Now()
	filter := bson.M{"room_id": rating.RoomID, "profile_id": rating.ProfileID}
	update := bson.M{"$set": rating}
	opts := options.Update().SetUpsert(true)

	if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

func (r *MongoRatingRepo) GetByProfile(ctx context.Context, roomID int, profileID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.coll.FindOne(ctx, bson.M{"room_id": roomID, "profile_id": profileID}).Decode(&rating)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rating: %w", err)
	}
	return &rating, nil
}

func (r *MongoRatingRepo) Summary(ctx context.Context, roomID int) (*models.RatingSummary, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"room_id": roomID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings for room %d: %w", roomID, err)
	}
	defer cur.Close(ctx)

	var results []models.RatingSummary
	if err := cur.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode rating summary: %w", err)
	}
	if len(results) == 0 {
		return &models.RatingSummary{}, nil
	}
	return &results[0], nil
}
