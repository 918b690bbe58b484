package roomRepo

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

// MongoRoomRepo implements RoomRepository using MongoDB.
type MongoRoomRepo struct {
	coll *mongo.Collection
}

// NewMongoRoomRepo creates a new instance of RoomRepository using MongoDB.
func NewMongoRoomRepo() RoomRepository {
	coll := database.DB().Collection("rooms")
	repo := &MongoRoomRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoRoomRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoRoomRepo) GetByID(ctx context.Context, id int) (*models.Room, error) {
	var room models.Room
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&room)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room %d: %w", id, err)
	}
	return &room, nil
}

func (r *MongoRoomRepo) List(ctx context.Context) ([]models.Room, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer cur.Close(ctx)

	var rooms []models.Room
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	return rooms, nil
}

func (r *MongoRoomRepo) Upsert(ctx context.Context, room *models.Room) error {
	filter := bson.M{"id": room.ID}
	update := bson.M{"$set": room}
	opts := options.Update().SetUpsert(true)

	if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert room %d: %w", room.ID, err)
	}
	return nil
}

func (r *MongoRoomRepo) Delete(ctx context.Context, id int) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete room %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("room %d not found", id)
	}
	return nil
}

// ReserveIfAvailable is the single point of mutual exclusion for booking:
// the status precondition makes concurrent reservations resolve to exactly
// one winner at the database.
func (r *MongoRoomRepo) ReserveIfAvailable(ctx context.Context, id int, profileID string) (int64, error) {
	filter := bson.M{"id": id, "status": models.RoomStatusAvailable}
	update := bson.M{"$set": bson.M{
		"status":    models.RoomStatusBooked,
		"booked_by": profileID,
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to reserve room %d: %w", id, err)
	}
	return res.MatchedCount, nil
}

func (r *MongoRoomRepo) ReleaseIfHeldBy(ctx context.Context, id int, profileID string) (int64, error) {
	filter := bson.M{"id": id, "booked_by": profileID}
	update := bson.M{"$set": bson.M{
		"status":    models.RoomStatusAvailable,
		"booked_by": nil,
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to release room %d: %w", id, err)
	}
	return res.MatchedCount, nil
}
