package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeArchiveDue = "booking:archive_due"

// ArchivePayload names the cutoff date for an archival sweep.
type ArchivePayload struct {
	Date string `json:"date"`
}

// NewArchiveDueTask builds a sweep task that archives every booking whose
// checkout is on or before the payload date.
func NewArchiveDueTask(date string, processAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ArchivePayload{Date: date})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeArchiveDue, b)
	opts := []asynq.Option{
		asynq.ProcessAt(processAt),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}
