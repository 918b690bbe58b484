package models

// PendingReservation is a transient booking plan awaiting explicit
// confirmation. It lives only in the dialog state's TTL window and never
// touches the room or the ledger until confirmed.
type PendingReservation struct {
	RoomID   int    `json:"room_id"`
	Checkin  string `json:"checkin"`  // YYYY-MM-DD
	Days     int    `json:"days"`     // 1..5
	Checkout string `json:"checkout"` // derived, exclusive
}

// Slot-filling steps for the guided booking dialogue.
const (
	DialogStepDate = "date"
	DialogStepDays = "days"
)

// DialogState is the assistant's per-user slot-filling state, advanced one
// field per message. Stored in Redis with a TTL; absence means Idle.
type DialogState struct {
	Step    string              `json:"step,omitempty"` // "date" or "days"; empty when not slot-filling
	RoomID  int                 `json:"room_id,omitempty"`
	Checkin string              `json:"checkin,omitempty"`
	Pending *PendingReservation `json:"pending,omitempty"` // set while awaiting explicit confirmation
}
