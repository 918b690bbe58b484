package roomRepo

import (
	"context"

	"transylvania/models"
)

// RoomRepository defines methods for room data access. The conditional
// updates return the matched-document count so callers can distinguish a
// lost race from a successful transition.
type RoomRepository interface {
	// GetByID retrieves a room by its numeric ID.
	GetByID(ctx context.Context, id int) (*models.Room, error)
	// List retrieves all rooms ordered by ID.
	List(ctx context.Context) ([]models.Room, error)
	// Upsert inserts or replaces a room by ID (seeding, admin edits).
	Upsert(ctx context.Context, room *models.Room) error
	// Delete removes a room by ID.
	Delete(ctx context.Context, id int) error
	// ReserveIfAvailable flips the room to booked with the given holder only
	// if it is currently available. Returns the number of matched documents
	// (0 means the room was already booked).
	ReserveIfAvailable(ctx context.Context, id int, profileID string) (int64, error)
	// ReleaseIfHeldBy flips the room back to available only if the given
	// profile is the current holder. Returns the matched count (0 means the
	// caller was not the holder).
	ReleaseIfHeldBy(ctx context.Context, id int, profileID string) (int64, error)
}
