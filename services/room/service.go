package room

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	roomRepo "transylvania/database/repository/room"
	"transylvania/models"
	"transylvania/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const catalogueTTL = 5 * time.Minute

// Service is the explicit cache/store for the room catalogue: reads are
// cache-first, invalidation is an explicit call, and state changes flow
// through a pub/sub stream instead of ambient mutation.
type Service interface {
	List(ctx context.Context) ([]models.Room, error)
	Get(ctx context.Context, id int) (*models.Room, error)
	Amenities(id int) []string
	Refresh(ctx context.Context) ([]models.Room, error)
	Invalidate(ctx context.Context)
	Seed(ctx context.Context, rooms []models.Room) error
	Save(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id int) error
	PublishRoomChange(ctx context.Context, change models.RoomChange)
	SubscribeChanges(ctx context.Context) *redis.PubSub
}

// DefaultService implements Service on the room repository plus Redis.
type DefaultService struct {
	Repo  roomRepo.RoomRepository
	Cache *redis.Client
}

func (s *DefaultService) List(ctx context.Context) ([]models.Room, error) {
	if s.Cache != nil {
		if data, err := s.Cache.Get(ctx, utils.RoomCacheKey).Result(); err == nil {
			var rooms []models.Room
			if err := json.Unmarshal([]byte(data), &rooms); err == nil {
				return rooms, nil
			}
		}
	}
	return s.Refresh(ctx)
}

func (s *DefaultService) Get(ctx context.Context, id int) (*models.Room, error) {
	rooms, err := s.List(ctx)
	if err == nil {
		for i := range rooms {
			if rooms[i].ID == id {
				return &rooms[i], nil
			}
		}
	}
	// Cache miss on the individual room: go straight to the store.
	return s.Repo.GetByID(ctx, id)
}

// Refresh reloads the catalogue from the store and repopulates the cache.
func (s *DefaultService) Refresh(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh room catalogue: %w", err)
	}
	if s.Cache != nil {
		if b, err := json.Marshal(rooms); err == nil {
			if err := s.Cache.Set(ctx, utils.RoomCacheKey, b, catalogueTTL).Err(); err != nil {
				utils.GetLogger().Warn("failed to cache room catalogue", zap.Error(err))
			}
		}
	}
	return rooms, nil
}

// Invalidate drops the cached catalogue; the next read refreshes it.
func (s *DefaultService) Invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, utils.RoomCacheKey).Err(); err != nil {
		utils.GetLogger().Warn("failed to invalidate room cache", zap.Error(err))
	}
}

// Seed upserts the given rooms (idempotent on room ID).
func (s *DefaultService) Seed(ctx context.Context, rooms []models.Room) error {
	for i := range rooms {
		if err := s.Repo.Upsert(ctx, &rooms[i]); err != nil {
			return err
		}
	}
	s.Invalidate(ctx)
	return nil
}

func (s *DefaultService) Save(ctx context.Context, room *models.Room) error {
	if err := s.Repo.Upsert(ctx, room); err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

func (s *DefaultService) Delete(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

// PublishRoomChange emits a change event on the room feed channel and drops
// the stale cached catalogue. Publishing is best-effort.
func (s *DefaultService) PublishRoomChange(ctx context.Context, change models.RoomChange) {
	s.Invalidate(ctx)
	if s.Cache == nil {
		return
	}
	b, err := json.Marshal(change)
	if err != nil {
		return
	}
	if err := s.Cache.Publish(ctx, utils.RoomChangeChannel, b).Err(); err != nil {
		utils.GetLogger().Warn("failed to publish room change", zap.Int("roomID", change.RoomID), zap.Error(err))
	}
}

// SubscribeChanges opens a subscription on the room feed channel; the caller
// owns the returned PubSub and must close it.
func (s *DefaultService) SubscribeChanges(ctx context.Context) *redis.PubSub {
	return s.Cache.Subscribe(ctx, utils.RoomChangeChannel)
}
