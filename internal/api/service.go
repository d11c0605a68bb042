package api

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"chronoreel/internal/jobs"
	"chronoreel/internal/logging"
	"chronoreel/internal/projects"
)

// ErrVideoNotFound is returned when a project exists but has no final video.
var ErrVideoNotFound = errors.New("video not found")

// Service implements the dashboard operations over the job and project
// stores. It is transport-agnostic; the HTTP layer only translates.
type Service struct {
	queue      *jobs.Queue
	statuses   *jobs.Store
	projects   projects.Repository
	voiceReady bool
	logger     *slog.Logger
	newID      func() string
}

// ServiceOption customizes the service.
type ServiceOption func(*Service)

// WithIDGenerator overrides job id generation (used in tests).
func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService wires the dashboard service. voiceReady reports whether speech
// synthesis is configured; it feeds the health endpoint.
func NewService(queue *jobs.Queue, statuses *jobs.Store, repository projects.Repository, voiceReady bool, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	service := &Service{
		queue:      queue,
		statuses:   statuses,
		projects:   repository,
		voiceReady: voiceReady,
		logger:     logger.With(logging.String(logging.FieldComponent, "api")),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Submit queues a new generation job and records its initial status. The
// returned job id is an opaque handle for later status polls.
func (s *Service) Submit(req GenerateRequest) (GenerateResponse, error) {
	autoGenerate := true
	if req.AutoGenerate != nil {
		autoGenerate = *req.AutoGenerate
	}

	jobID := s.newID()
	s.statuses.Set(jobs.Record{
		JobID:    jobID,
		Status:   jobs.StatusQueued,
		Progress: 0,
		Message:  "Queued...",
	})

	err := s.queue.Submit(jobs.Descriptor{
		JobID:        jobID,
		AutoGenerate: autoGenerate,
		UseNovaReel:  req.UseNova,
	})
	if err != nil {
		s.statuses.Set(jobs.Record{
			JobID:    jobID,
			Status:   jobs.StatusError,
			Progress: 0,
			Message:  fmt.Sprintf("submission rejected: %v", err),
		})
		return GenerateResponse{}, err
	}

	s.logger.Info("job submitted",
		logging.String(logging.FieldJobID, jobID),
		logging.Bool("auto_generate", autoGenerate),
		logging.Bool("use_nova", req.UseNova),
	)
	return GenerateResponse{JobID: jobID, Status: string(jobs.StatusQueued), UseNova: req.UseNova}, nil
}

// Status reports the current state of a job. Unknown ids report the
// "unknown" status rather than an error.
func (s *Service) Status(jobID string) JobStatus {
	return FromJobRecord(s.statuses.Get(jobID))
}

// Projects lists all projects newest-first.
func (s *Service) Projects() ([]ProjectSummary, error) {
	records, err := s.projects.List()
	if err != nil {
		return nil, err
	}
	return FromProjectRecords(records), nil
}

// Project resolves a project id fragment to its full detail.
func (s *Service) Project(id string) (ProjectDetail, error) {
	record, err := s.projects.Get(id)
	if err != nil {
		return ProjectDetail{}, err
	}
	return ProjectDetail{
		ProjectSummary: FromProjectRecord(record),
		Script:         record.Script,
		ImagePrompt:    record.ImagePrompt,
		Path:           record.Dir,
	}, nil
}

// VideoPath resolves a project id fragment to its final video file.
// A project without an assembled video yields ErrVideoNotFound.
func (s *Service) VideoPath(id string) (string, error) {
	record, err := s.projects.Get(id)
	if err != nil {
		return "", err
	}
	if !record.HasVideo {
		return "", ErrVideoNotFound
	}
	return record.VideoPath(), nil
}

// Stats summarizes the project store.
func (s *Service) Stats() (StatsResponse, error) {
	stats, err := s.projects.Stats()
	if err != nil {
		return StatsResponse{}, err
	}
	return StatsResponse{
		TotalProjects:   stats.Total,
		CompletedVideos: stats.Completed,
		Pending:         stats.Pending,
	}, nil
}

// Health reports liveness and whether speech synthesis is configured.
func (s *Service) Health() HealthResponse {
	return HealthResponse{Status: "ok", ElevenLabs: s.voiceReady}
}
