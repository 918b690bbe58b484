package models

import "time"

// Booking status values.
const (
	BookingStatusBooked    = "booked"
	BookingStatusCancelled = "cancelled"
)

// Booking is a ledger entry recording a stay request against a room.
// The room's status field is the authoritative availability signal; the
// ledger is a history/audit artifact and may lag it (see reservation service).
type Booking struct {
	ID           string    `bson:"id" json:"id"`                       // UUID
	RoomID       int       `bson:"room_id" json:"room_id"`
	ProfileID    string    `bson:"profile_id" json:"profile_id"`       // Holder
	CheckinDate  string    `bson:"checkin_date" json:"checkin_date"`   // YYYY-MM-DD
	CheckoutDate string    `bson:"checkout_date" json:"checkout_date"` // YYYY-MM-DD, exclusive
	Status       string    `bson:"status" json:"status"`               // "booked" or "cancelled"
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// HistoryBooking is a booking that has been archived out of the active ledger
// after its checkout date passed.
type HistoryBooking struct {
	Booking    `bson:",inline"`
	ArchivedAt time.Time `bson:"archived_at" json:"archived_at"`
}
