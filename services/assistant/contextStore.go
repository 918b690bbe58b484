package assistant

import (
	"context"
	"encoding/json"
	"time"

	"transylvania/models"

	"github.com/go-redis/redis/v8"
)

const dialogPrefix = "chat:dialog:"

// DialogStore persists the per-user slot-filling state between messages.
type DialogStore interface {
	Get(ctx context.Context, profileID string) (*models.DialogState, error)
	Set(ctx context.Context, profileID string, state *models.DialogState) error
	Clear(ctx context.Context, profileID string) error
}

// RedisDialogStore implements DialogStore on Redis with a TTL; an expired or
// absent key reads back as the Idle state.
type RedisDialogStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDialogStore creates a DialogStore backed by the given Redis client.
func NewRedisDialogStore(client *redis.Client, ttl time.Duration) *RedisDialogStore {
	return &RedisDialogStore{client: client, ttl: ttl}
}

func (s *RedisDialogStore) Get(ctx context.Context, profileID string) (*models.DialogState, error) {
	data, err := s.client.Get(ctx, dialogPrefix+profileID).Result()
	if err == redis.Nil {
		return &models.DialogState{}, nil
	}
	if err != nil {
		return nil, err
	}
	var state models.DialogState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *RedisDialogStore) Set(ctx context.Context, profileID string, state *models.DialogState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, dialogPrefix+profileID, b, s.ttl).Err()
}

func (s *RedisDialogStore) Clear(ctx context.Context, profileID string) error {
	return s.client.Del(ctx, dialogPrefix+profileID).Err()
}
