package assistant

import (
	"context"
	"fmt"

	bookingRepo "transylvania/database/repository/booking"
	"transylvania/models"
)

// RoomCatalogue is the read surface the assistant needs from the room service.
type RoomCatalogue interface {
	List(ctx context.Context) ([]models.Room, error)
	Get(ctx context.Context, id int) (*models.Room, error)
	Amenities(id int) []string
}

// Oracle answers date-ranged availability questions. Implementations may be
// privileged (ledger-backed) and can fail for permission or transport
// reasons; callers degrade to the room's current status then.
type Oracle interface {
	IsAvailable(ctx context.Context, roomID int, date string) (bool, error)
	AvailableRoomIDs(ctx context.Context, date string) ([]int, error)
}

// LedgerOracle resolves availability from the booking ledger: a room is free
// on a date when no active stay covers it.
type LedgerOracle struct {
	Ledger bookingRepo.BookingRepository
	Rooms  RoomCatalogue
}

func (o *LedgerOracle) IsAvailable(ctx context.Context, roomID int, date string) (bool, error) {
	booked, err := o.Ledger.BookedRoomIDsOn(ctx, date)
	if err != nil {
		return false, fmt.Errorf("availability check for room %d: %w", roomID, err)
	}
	for _, id := range booked {
		if id == roomID {
			return false, nil
		}
	}
	return true, nil
}

func (o *LedgerOracle) AvailableRoomIDs(ctx context.Context, date string) ([]int, error) {
	booked, err := o.Ledger.BookedRoomIDsOn(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("availability listing on %s: %w", date, err)
	}
	bookedSet := make(map[int]struct{}, len(booked))
	for _, id := range booked {
		bookedSet[id] = struct{}{}
	}

	rooms, err := o.Rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("availability listing on %s: %w", date, err)
	}
	var free []int
	for _, r := range rooms {
		if _, taken := bookedSet[r.ID]; !taken {
			free = append(free, r.ID)
		}
	}
	return free, nil
}
