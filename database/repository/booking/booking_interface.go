package bookingRepo

import (
	"context"

	"transylvania/models"
)

// BookingRepository defines methods for the booking ledger and its history
// counterpart.
type BookingRepository interface {
	// Insert adds a booking row to the active ledger.
	Insert(ctx context.Context, booking *models.Booking) error
	// UpdateStatus sets the status of a booking by ID.
	UpdateStatus(ctx context.Context, bookingID, status string) error
	// FindActive returns the active ("booked") ledger entry for a room held
	// by the given profile, or nil.
	FindActive(ctx context.Context, roomID int, profileID string) (*models.Booking, error)
	// ListActive returns all "booked" ledger entries.
	ListActive(ctx context.Context) ([]models.Booking, error)
	// ListByProfile returns all ledger entries for one profile, newest first.
	ListByProfile(ctx context.Context, profileID string) ([]models.Booking, error)
	// ListDue returns active bookings whose checkout date is on or before the
	// given YYYY-MM-DD date.
	ListDue(ctx context.Context, date string) ([]models.Booking, error)
	// Archive moves a booking into the history ledger and removes it from the
	// active one.
	Archive(ctx context.Context, booking *models.Booking) error
	// ListHistory returns archived bookings, newest first.
	ListHistory(ctx context.Context) ([]models.HistoryBooking, error)
	// BookedRoomIDsOn returns room IDs with an active stay covering the given
	// date (checkin <= date < checkout).
	BookedRoomIDsOn(ctx context.Context, date string) ([]int, error)
}
