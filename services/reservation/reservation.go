package reservation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	bookingRepo "transylvania/database/repository/booking"
	roomRepo "transylvania/database/repository/room"
	"transylvania/models"
	"transylvania/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stay length bounds enforced before any remote call.
const (
	MinDays = 1
	MaxDays = 5
)

// ChangePublisher receives room-state change events for the live feed.
// Publishing is best-effort; a failed publish never fails a reservation.
type ChangePublisher interface {
	PublishRoomChange(ctx context.Context, change models.RoomChange)
}

// Engine coordinates marking a room booked and recording a ledger entry as a
// single logical operation. There is no cross-collection transaction here:
// the room's conditional update is the single point of mutual exclusion, and
// a failed ledger insert is compensated by reverting the room.
type Engine interface {
	Reserve(ctx context.Context, roomID int, profileID, checkin string, days int) (*models.Booking, *models.Room, error)
	Cancel(ctx context.Context, roomID int, profileID string) error
	ArchiveDue(ctx context.Context, now time.Time) (int, error)
}

// DefaultEngine implements Engine.
type DefaultEngine struct {
	Rooms  roomRepo.RoomRepository
	Ledger bookingRepo.BookingRepository
	Feed   ChangePublisher
}

var dateShape = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)

// AddDays returns date + n days in YYYY-MM-DD form. Out-of-range day/month
// components roll over the way the original UI's date math did.
func AddDays(date string, n int) (string, error) {
	m := dateShape.FindStringSubmatch(date)
	if m == nil {
		return "", fmt.Errorf("date %q is not in YYYY-MM-DD form", date)
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	t := time.Date(y, time.Month(mo), d+n, 0, 0, 0, 0, time.UTC)
	return t.Format("2006-01-02"), nil
}

// Reserve attempts the two-step reservation: conditional room update first,
// ledger insert second, compensating room release on insert failure.
func (e *DefaultEngine) Reserve(ctx context.Context, roomID int, profileID, checkin string, days int) (*models.Booking, *models.Room, error) {
	logger := utils.GetLogger()

	if days < MinDays || days > MaxDays {
		return nil, nil, &ValidationError{Field: "days", Message: fmt.Sprintf("must be between %d and %d", MinDays, MaxDays)}
	}
	if checkin == "" {
		return nil, nil, &ValidationError{Field: "checkin", Message: "check-in date is required"}
	}
	normalized, err := AddDays(checkin, 0)
	if err != nil {
		return nil, nil, &ValidationError{Field: "checkin", Message: err.Error()}
	}
	checkout, err := AddDays(checkin, days)
	if err != nil {
		return nil, nil, &ValidationError{Field: "checkin", Message: err.Error()}
	}

	// Single point of mutual exclusion: whichever caller's conditional
	// update lands first wins the room.
	matched, err := e.Rooms.ReserveIfAvailable(ctx, roomID, profileID)
	if err != nil {
		return nil, nil, fmt.Errorf("reserve room %d: %w", roomID, err)
	}
	if matched == 0 {
		return nil, nil, ErrRoomUnavailable
	}

	booking := &models.Booking{
		ID:           uuid.NewString(),
		RoomID:       roomID,
		ProfileID:    profileID,
		CheckinDate:  normalized,
		CheckoutDate: checkout,
		Status:       models.BookingStatusBooked,
		CreatedAt:    time.Now(),
	}

	if insertErr := e.Ledger.Insert(ctx, booking); insertErr != nil {
		// Compensate: revert the room, conditioned on the holder still being
		// us so a later winner is never clobbered.
		ledgerErr := &LedgerError{InsertErr: insertErr}
		if _, rbErr := e.Rooms.ReleaseIfHeldBy(ctx, roomID, profileID); rbErr != nil {
			ledgerErr.RollbackErr = rbErr
			logger.Error("reservation rollback failed; room left booked with no ledger row",
				zap.Int("roomID", roomID),
				zap.String("profileID", profileID),
				zap.Error(rbErr))
		} else {
			logger.Warn("booking insert failed; room reverted",
				zap.Int("roomID", roomID),
				zap.Error(insertErr))
		}
		return nil, nil, ledgerErr
	}

	room, err := e.Rooms.GetByID(ctx, roomID)
	if err != nil {
		logger.Warn("reserved room could not be re-read", zap.Int("roomID", roomID), zap.Error(err))
	}
	if e.Feed != nil {
		e.Feed.PublishRoomChange(ctx, models.RoomChange{
			RoomID:   roomID,
			Status:   models.RoomStatusBooked,
			BookedBy: &profileID,
		})
	}
	return booking, room, nil
}

// Cancel releases the room if the caller holds it, then best-effort marks the
// ledger entry cancelled. A ledger failure never reverses the release.
func (e *DefaultEngine) Cancel(ctx context.Context, roomID int, profileID string) error {
	logger := utils.GetLogger()

	matched, err := e.Rooms.ReleaseIfHeldBy(ctx, roomID, profileID)
	if err != nil {
		return fmt.Errorf("release room %d: %w", roomID, err)
	}
	if matched == 0 {
		return ErrNotHolder
	}

	if booking, err := e.Ledger.FindActive(ctx, roomID, profileID); err != nil {
		logger.Warn("could not locate ledger entry after cancel", zap.Int("roomID", roomID), zap.Error(err))
	} else if booking != nil {
		if err := e.Ledger.UpdateStatus(ctx, booking.ID, models.BookingStatusCancelled); err != nil {
			logger.Warn("could not mark ledger entry cancelled", zap.String("bookingID", booking.ID), zap.Error(err))
		}
	}

	if e.Feed != nil {
		e.Feed.PublishRoomChange(ctx, models.RoomChange{
			RoomID: roomID,
			Status: models.RoomStatusAvailable,
		})
	}
	return nil
}

// ArchiveDue moves bookings whose checkout date has passed into the history
// ledger and releases their rooms. Each booking is archived independently;
// failures are logged and skipped so one bad row never blocks the sweep.
func (e *DefaultEngine) ArchiveDue(ctx context.Context, now time.Time) (int, error) {
	logger := utils.GetLogger()
	today := now.Format("2006-01-02")

	due, err := e.Ledger.ListDue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("list due bookings: %w", err)
	}

	archived := 0
	for i := range due {
		b := &due[i]
		if err := e.Ledger.Archive(ctx, b); err != nil {
			logger.Error("failed to archive booking", zap.String("bookingID", b.ID), zap.Error(err))
			continue
		}
		if _, err := e.Rooms.ReleaseIfHeldBy(ctx, b.RoomID, b.ProfileID); err != nil {
			logger.Error("failed to release room after archive", zap.Int("roomID", b.RoomID), zap.Error(err))
		} else if e.Feed != nil {
			e.Feed.PublishRoomChange(ctx, models.RoomChange{
				RoomID: b.RoomID,
				Status: models.RoomStatusAvailable,
			})
		}
		archived++
	}
	return archived, nil
}
