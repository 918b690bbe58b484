package models

// Room status values. A booked room always carries the holder in BookedBy;
// an available room always has BookedBy empty.
const (
	RoomStatusAvailable = "available"
	RoomStatusBooked    = "booked"
)

// Room represents a bookable hotel room.
type Room struct {
	ID          int      `bson:"id" json:"id"`                     // Stable numeric room identifier
	Name        string   `bson:"name" json:"name"`                 // Display name, e.g. "Deluxe King"
	Image       string   `bson:"image" json:"image"`               // Image reference (Cloudinary public ID or asset path)
	Short       string   `bson:"short,omitempty" json:"short,omitempty"`
	Description string   `bson:"description" json:"description"`
	Capacity    int      `bson:"capacity" json:"capacity"`
	Price       float64  `bson:"price,omitempty" json:"price,omitempty"`
	Amenities   []string `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Status      string   `bson:"status" json:"status"`             // "available" or "booked"
	BookedBy    *string  `bson:"booked_by" json:"booked_by"`       // Profile ID of the holder, nil when available
}

// RoomChange is the event published on the room feed whenever a room's
// availability flips.
type RoomChange struct {
	RoomID   int     `json:"room_id"`
	Status   string  `json:"status"`
	BookedBy *string `json:"booked_by,omitempty"`
}
