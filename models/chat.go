package models

import "time"

// Chat message roles.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleSystem    = "system"
)

// ChatMessage is one turn of the conversation as sent by the frontend.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload coming into /api/chat/message. Messages carry the
// recent transcript, newest last; the last user message is the one evaluated.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// RoomAvailability is one entry of a structured availability answer.
type RoomAvailability struct {
	RoomID    int    `json:"room_id"`
	Name      string `json:"name,omitempty"`
	Available bool   `json:"available"`
}

// ChatReply is the assistant's structured answer. Rooms and Availability are
// only set for the listing/availability intents; Pending is only set when a
// reservation awaits explicit confirmation.
type ChatReply struct {
	Content      string              `json:"content"`
	Intent       string              `json:"intent,omitempty"`
	Degraded     bool                `json:"degraded,omitempty"` // answer computed from a coarser signal
	Rooms        []Room              `json:"rooms,omitempty"`
	Availability []RoomAvailability  `json:"availability,omitempty"`
	Pending      *PendingReservation `json:"pending,omitempty"`
}

// ChatLog is the per-exchange audit row written for locally answered intents
// and model fallbacks alike.
type ChatLog struct {
	ProfileID  string    `bson:"profile_id,omitempty" json:"profile_id,omitempty"`
	Question   string    `bson:"question" json:"question"`
	Answer     string    `bson:"answer" json:"answer"`
	IsFallback bool      `bson:"is_fallback" json:"is_fallback"`
	Intent     string    `bson:"intent,omitempty" json:"intent,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
