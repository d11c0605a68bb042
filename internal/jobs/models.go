// Package jobs tracks generation jobs: an in-memory status store consulted
// by the query surface and a bounded FIFO queue drained by a single worker.
package jobs

import "time"

// Status identifies where a job is in its lifecycle. The values double as
// pipeline checkpoints reported to clients.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusStarting  Status = "starting"
	StatusFetching  Status = "fetching"
	StatusScripting Status = "scripting"
	StatusSaving    Status = "saving"
	StatusImage     Status = "image"
	StatusVoice     Status = "voice"
	StatusVideo     Status = "video"
	StatusCompleted Status = "completed"
	StatusManual    Status = "manual"
	StatusError     Status = "error"

	// StatusUnknown is reported for job ids the store has no record of.
	StatusUnknown Status = "unknown"
)

// Terminal reports whether the status is an end state: the job will never
// progress past it.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusManual, StatusError:
		return true
	}
	return false
}

// Record is the externally visible state of a job.
type Record struct {
	JobID     string    `json:"job_id"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"`
	Message   string    `json:"message"`
	ProjectID string    `json:"project_id,omitempty"`
	Title     string    `json:"title,omitempty"`
	Year      string    `json:"year,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Descriptor is a queued unit of work.
type Descriptor struct {
	JobID        string
	AutoGenerate bool
	UseNovaReel  bool
}
