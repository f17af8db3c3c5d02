package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskBlobSweep deletes stored blobs no longer referenced by any
	// profile photo or gallery. Blob writes and record saves are not
	// transactional, so a crash between them leaks a blob; the sweep
	// reclaims those.
	TaskBlobSweep = "blob:sweep"

	// TaskSessionPurge deletes expired session audit rows.
	TaskSessionPurge = "session:purge"
)

// BlobSweepPayload carries scheduling metadata.
type BlobSweepPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewBlobSweepTask constructs an Asynq task for the blob sweep.
func NewBlobSweepTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(BlobSweepPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBlobSweep, body, asynq.Queue(QueueDefault)), nil
}

// SessionPurgePayload carries scheduling metadata.
type SessionPurgePayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewSessionPurgeTask constructs an Asynq task for the session purge.
func NewSessionPurgeTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(SessionPurgePayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionPurge, body, asynq.Queue(QueueDefault)), nil
}
