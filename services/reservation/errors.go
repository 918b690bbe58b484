package reservation

import (
	"errors"
	"fmt"
)

// ErrRoomUnavailable is returned when the conditional room update matched
// zero rows: another caller won the room first. No side effects remain.
var ErrRoomUnavailable = errors.New("room is no longer available")

// ErrNotHolder is returned by Cancel when the caller does not hold the room.
var ErrNotHolder = errors.New("room is not held by this user")

// ValidationError rejects a reservation before any remote call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// LedgerError reports a reservation that failed after the room had already
// been marked booked. InsertErr is the original ledger failure. RollbackErr
// is non-nil when the compensating room release also failed, leaving a room
// marked booked with no ledger row; that divergence is surfaced here and
// left to operational cleanup rather than reconciled automatically.
type LedgerError struct {
	InsertErr   error
	RollbackErr error
}

func (e *LedgerError) Error() string {
	if e.RollbackErr != nil {
		return fmt.Sprintf("booking insert failed: %v (room rollback also failed: %v)", e.InsertErr, e.RollbackErr)
	}
	return fmt.Sprintf("booking insert failed: %v (room reverted)", e.InsertErr)
}

func (e *LedgerError) Unwrap() error { return e.InsertErr }
