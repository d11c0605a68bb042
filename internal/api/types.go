package api

import (
	"time"

	"chronoreel/internal/jobs"
	"chronoreel/internal/projects"
)

// GenerateRequest is the submission payload. AutoGenerate defaults to true
// when omitted; UseNova defaults to false (local compositing).
type GenerateRequest struct {
	AutoGenerate *bool `json:"auto_generate"`
	UseNova      bool  `json:"use_nova"`
}

// GenerateResponse acknowledges a queued job.
type GenerateResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	UseNova bool   `json:"use_nova"`
}

// JobStatus is the transport representation of a job status record.
type JobStatus struct {
	JobID     string     `json:"job_id"`
	Status    string     `json:"status"`
	Progress  int        `json:"progress"`
	Message   string     `json:"message,omitempty"`
	ProjectID string     `json:"project_id,omitempty"`
	Title     string     `json:"title,omitempty"`
	Year      string     `json:"year,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ProjectSummary describes one project for listings.
type ProjectSummary struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Year        string     `json:"year"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	SourceURL   string     `json:"source_url,omitempty"`
	HasImage    bool       `json:"has_image"`
	HasVoice    bool       `json:"has_voice"`
	HasVideo    bool       `json:"has_video"`
}

// ProjectDetail extends the summary with generation inputs and location.
type ProjectDetail struct {
	ProjectSummary
	Script      string `json:"script"`
	ImagePrompt string `json:"image_prompt"`
	Path        string `json:"path"`
}

// StatsResponse summarizes the project store for the dashboard.
type StatsResponse struct {
	TotalProjects   int `json:"total_projects"`
	CompletedVideos int `json:"completed_videos"`
	Pending         int `json:"pending"`
}

// HealthResponse reports daemon liveness and provider readiness.
type HealthResponse struct {
	Status     string `json:"status"`
	ElevenLabs bool   `json:"elevenlabs"`
}

// FromJobRecord converts a status record to its wire form.
func FromJobRecord(record jobs.Record) JobStatus {
	status := JobStatus{
		JobID:     record.JobID,
		Status:    string(record.Status),
		Progress:  record.Progress,
		Message:   record.Message,
		ProjectID: record.ProjectID,
		Title:     record.Title,
		Year:      record.Year,
	}
	if !record.UpdatedAt.IsZero() {
		at := record.UpdatedAt
		status.UpdatedAt = &at
	}
	return status
}

// FromProjectRecord converts a stored project to its listing form.
func FromProjectRecord(record *projects.Record) ProjectSummary {
	return ProjectSummary{
		ID:          record.ID,
		Title:       record.Title,
		Year:        record.Year,
		Status:      string(record.Status),
		CreatedAt:   record.CreatedAt,
		CompletedAt: record.CompletedAt,
		SourceURL:   record.SourceURL,
		HasImage:    record.HasImage,
		HasVoice:    record.HasVoice,
		HasVideo:    record.HasVideo,
	}
}

// FromProjectRecords converts a listing of stored projects.
func FromProjectRecords(records []*projects.Record) []ProjectSummary {
	summaries := make([]ProjectSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, FromProjectRecord(record))
	}
	return summaries
}
