package bookingRepo

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

// MongoBookingRepo implements BookingRepository using MongoDB. The active
// ledger lives in "bookings", archived stays in "history_bookings".
type MongoBookingRepo struct {
	coll        *mongo.Collection
	historyColl *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	db := database.DB()
	repo := &MongoBookingRepo{
		coll:        db.Collection("bookings"),
		historyColl: db.Collection("history_bookings"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "profile_id", Value: 1}}},
		{Keys: bson.D{{Key: "checkout_date", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) Insert(ctx context.Context, booking *models.Booking) error {
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, bookingID, status string) error {
	filter := bson.M{"id": bookingID}
	update := bson.M{"$set": bson.M{"status": status}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", bookingID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found", bookingID)
	}
	return nil
}

func (r *MongoBookingRepo) FindActive(ctx context.Context, roomID int, profileID string) (*models.Booking, error) {
	filter := bson.M{
		"room_id":    roomID,
		"profile_id": profileID,
		"status":     models.BookingStatusBooked,
	}
	var booking models.Booking
	err := r.coll.FindOne(ctx, filter).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active booking for room %d: %w", roomID, err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) ListActive(ctx context.Context) ([]models.Booking, error) {
	return r.list(ctx, r.coll, bson.M{"status": models.BookingStatusBooked})
}

func (r *MongoBookingRepo) ListByProfile(ctx context.Context, profileID string) ([]models.Booking, error) {
	return r.list(ctx, r.coll, bson.M{"profile_id": profileID})
}

func (r *MongoBookingRepo) ListDue(ctx context.Context, date string) ([]models.Booking, error) {
	filter := bson.M{
		"status":        models.BookingStatusBooked,
		"checkout_date": bson.M{"$lte": date},
	}
	return r.list(ctx, r.coll, filter)
}

func (r *MongoBookingRepo) list(ctx context.Context, coll *mongo.Collection, filter bson.M) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cur.Close(ctx)

	var bookings []models.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// Archive copies the booking into history before removing the active row.
// Insert-then-delete keeps the entry recoverable if the delete fails.
func (r *MongoBookingRepo) Archive(ctx context.Context, booking *models.Booking) error {
	hist := models.HistoryBooking{Booking: *booking, ArchivedAt: time.Now()}
	if _, err := r.historyColl.InsertOne(ctx, hist); err != nil {
		return fmt.Errorf("failed to insert history booking %s: %w", booking.ID, err)
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"id": booking.ID}); err != nil {
		return fmt.Errorf("failed to remove archived booking %s: %w", booking.ID, err)
	}
	return nil
}

func (r *MongoBookingRepo) ListHistory(ctx context.Context) ([]models.HistoryBooking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "archived_at", Value: -1}})
	cur, err := r.historyColl.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list history bookings: %w", err)
	}
	defer cur.Close(ctx)

	var bookings []models.HistoryBooking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode history bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) BookedRoomIDsOn(ctx context.Context, date string) ([]int, error) {
	filter := bson.M{
		"status":        models.BookingStatusBooked,
		"checkin_date":  bson.M{"$lte": date},
		"checkout_date": bson.M{"$gt": date},
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"room_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings on %s: %w", date, err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		RoomID int `bson:"room_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode bookings on %s: %w", date, err)
	}

	ids := make([]int, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.RoomID)
	}
	return ids, nil
}
