package chatlogRepo

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

// ChatLogRepository records assistant exchanges for the admin analytics view.
type ChatLogRepository interface {
	// Insert appends one exchange.
	Insert(ctx context.Context, entry *models.ChatLog) error
	// ListRecent returns up to limit recent exchanges, newest first.
	ListRecent(ctx context.Context, limit int64) ([]models.ChatLog, error)
	// FallbackCounts returns total exchanges and how many hit the model fallback.
	FallbackCounts(ctx context.Context) (total int64, fallbacks int64, err error)
}

// MongoChatLogRepo implements ChatLogRepository using MongoDB.
type MongoChatLogRepo struct {
	coll *mongo.Collection
}

// NewMongoChatLogRepo creates a new instance of ChatLogRepository using MongoDB.
func NewMongoChatLogRepo() ChatLogRepository {
	return &MongoChatLogRepo{coll: database.DB().Collection("chat_logs")}
}

func (r *MongoChatLogRepo) Insert(ctx context.Context, entry *models.ChatLog) error {
	entry.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert chat log: %w", err)
	}
	return nil
}

func (r *MongoChatLogRepo) ListRecent(ctx context.Context, limit int64) ([]models.ChatLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat logs: %w", err)
	}
	defer cur.Close(ctx)

	var entries []models.ChatLog
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode chat logs: %w", err)
	}
	return entries, nil
}

func (r *MongoChatLogRepo) FallbackCounts(ctx context.Context) (int64, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count chat logs: %w", err)
	}
	fallbacks, err := r.coll.CountDocuments(ctx, bson.M{"is_fallback": true})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count fallback chat logs: %w", err)
	}
	return total, fallbacks, nil
}
