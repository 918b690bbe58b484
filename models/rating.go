package models

import "time"

// Rating is a per-user star rating for a room. One rating per (room, profile);
// resubmitting replaces the previous entry.
type Rating struct {
	RoomID    int       `bson:"room_id" json:"room_id"`
	ProfileID string    `bson:"profile_id" json:"profile_id"`
	Rating    int       `bson:"rating" json:"rating"` // 1..5
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// RatingSummary aggregates the ratings for one room.
type RatingSummary struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}
