// Package pipeline sequences the video production steps for one job: fetch an
// event, write a script, persist the project, then generate image, voiceover,
// and video.
//
// Progress values are fixed checkpoints rather than time estimates, so a
// poller can reconstruct exactly which step a job reached. Step failures are
// terminal for the job; partial artifacts are left in place for manual
// recovery.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"chronoreel/internal/jobs"
	"chronoreel/internal/logging"
	"chronoreel/internal/media"
	"chronoreel/internal/projects"
	"chronoreel/internal/script"
	"chronoreel/internal/services"
	"chronoreel/internal/services/wikipedia"
)

// Progress checkpoints per step.
const (
	progressStarting   = 0
	progressFetching   = 10
	progressScripting  = 20
	progressSaving     = 30
	progressImage      = 50
	progressVoice      = 70
	progressCloudVideo = 85
	progressLocalVideo = 90
	progressDone       = 100
)

// tempClipName holds a cloud-rendered clip until the voiceover is merged in.
const tempClipName = "nova_temp.mp4"

// EventSource supplies a historical event, falling back locally on error.
type EventSource interface {
	RandomEvent(ctx context.Context) wikipedia.Event
}

// ImageGenerator renders a still image for a prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt, destPath string) error
}

// VoiceSynthesizer renders a voiceover for narration text.
type VoiceSynthesizer interface {
	Synthesize(ctx context.Context, text, destPath string) error
}

// VideoBackend renders a video clip for a prompt (cloud generation).
type VideoBackend interface {
	Generate(ctx context.Context, prompt, destPath string) error
}

// Compositor assembles final videos from artifacts.
type Compositor interface {
	AssembleFromImage(ctx context.Context, req media.AssembleRequest) error
	MergeAudio(ctx context.Context, req media.MergeRequest) error
}

// Orchestrator runs the production pipeline and reports progress through the
// job status store. It implements jobs.Processor.
type Orchestrator struct {
	statuses   *jobs.Store
	projects   projects.Repository
	scripts    *script.Generator
	events     EventSource
	images     ImageGenerator
	voices     VoiceSynthesizer
	cloudVideo VideoBackend
	compositor Compositor
	logger     *slog.Logger
	now        func() time.Time
}

// Option customizes the orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the completion timestamp source (used in tests).
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithCloudVideo enables the cloud video backend for jobs that request it.
func WithCloudVideo(backend VideoBackend) Option {
	return func(o *Orchestrator) {
		o.cloudVideo = backend
	}
}

// NewOrchestrator wires the pipeline dependencies together.
func NewOrchestrator(
	statuses *jobs.Store,
	repository projects.Repository,
	scripts *script.Generator,
	events EventSource,
	images ImageGenerator,
	voices VoiceSynthesizer,
	compositor Compositor,
	logger *slog.Logger,
	opts ...Option,
) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	orchestrator := &Orchestrator{
		statuses:   statuses,
		projects:   repository,
		scripts:    scripts,
		events:     events,
		images:     images,
		voices:     voices,
		compositor: compositor,
		logger:     logger.With(logging.String(logging.FieldComponent, "pipeline")),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(orchestrator)
	}
	return orchestrator
}

// Process runs the full pipeline for one job descriptor. It never returns an
// error: every outcome, including panics, ends as a terminal status record so
// the worker loop is never blocked by a fault.
func (o *Orchestrator) Process(ctx context.Context, descriptor jobs.Descriptor) {
	log := o.logger.With(logging.String(logging.FieldJobID, descriptor.JobID))
	ctx = services.WithJobID(ctx, descriptor.JobID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline panicked", logging.Any("panic", r))
			o.statuses.Set(jobs.Record{
				JobID:    descriptor.JobID,
				Status:   jobs.StatusError,
				Progress: progressStarting,
				Message:  fmt.Sprint(r),
			})
		}
	}()

	o.setStep(descriptor.JobID, jobs.StatusStarting, progressStarting, "Starting...")

	o.setStep(descriptor.JobID, jobs.StatusFetching, progressFetching, "Fetching historical event...")
	event := o.events.RandomEvent(services.WithStep(ctx, "fetch"))
	log.Info("event selected",
		logging.String("title", event.Title),
		logging.String("year", event.Year),
	)

	o.setStep(descriptor.JobID, jobs.StatusScripting, progressScripting, "Generating script...")
	narration := o.scripts.Script(event)
	prompt := o.scripts.ImagePrompt(event)

	o.setStep(descriptor.JobID, jobs.StatusSaving, progressSaving, "Creating project...")
	record, err := o.projects.Create(projects.Project{
		Title:       event.Title,
		Year:        event.Year,
		Script:      narration,
		ImagePrompt: prompt,
		SourceURL:   event.URL,
	})
	if err != nil {
		log.Error("project creation failed", logging.Error(err))
		o.statuses.Set(jobs.Record{
			JobID:    descriptor.JobID,
			Status:   jobs.StatusError,
			Progress: progressStarting,
			Message:  err.Error(),
		})
		return
	}
	log = log.With(logging.String(logging.FieldProjectID, record.ID))

	if !descriptor.AutoGenerate {
		o.statuses.Set(jobs.Record{
			JobID:     descriptor.JobID,
			Status:    jobs.StatusManual,
			Progress:  progressDone,
			Message:   "Project ready - add image and voiceover",
			ProjectID: record.ID,
			Title:     record.Title,
			Year:      record.Year,
		})
		log.Info("project staged for manual production")
		return
	}

	o.setStep(descriptor.JobID, jobs.StatusImage, progressImage, "Generating image...")
	if err := o.images.Generate(services.WithStep(ctx, "image"), record.ImagePrompt, record.ImagePath()); err != nil {
		o.failStep(log, descriptor.JobID, progressImage, "Image failed", err)
		return
	}

	o.setStep(descriptor.JobID, jobs.StatusVoice, progressVoice, "Generating voiceover...")
	if err := o.voices.Synthesize(services.WithStep(ctx, "voice"), record.Script, record.VoicePath()); err != nil {
		o.failStep(log, descriptor.JobID, progressVoice, "Voice failed", err)
		return
	}

	videoProgress := progressLocalVideo
	if descriptor.UseNovaReel {
		videoProgress = progressCloudVideo
		o.setStep(descriptor.JobID, jobs.StatusVideo, progressCloudVideo, "Generating cloud video (2-5 min)...")
		if err := o.cloudAssemble(services.WithStep(ctx, "video"), record); err != nil {
			o.failStep(log, descriptor.JobID, progressCloudVideo, "Video failed", err)
			return
		}
	} else {
		o.setStep(descriptor.JobID, jobs.StatusVideo, progressLocalVideo, "Assembling video...")
		err := o.compositor.AssembleFromImage(services.WithStep(ctx, "video"), media.AssembleRequest{
			ImagePath:  record.ImagePath(),
			AudioPath:  record.VoicePath(),
			OutputPath: record.VideoPath(),
			Title:      record.Title,
			Year:       record.Year,
		})
		if err != nil {
			o.failStep(log, descriptor.JobID, progressLocalVideo, "Video failed", err)
			return
		}
	}

	if err := o.projects.MarkCompleted(record.ID, o.now()); err != nil {
		o.failStep(log, descriptor.JobID, videoProgress, "Video failed", err)
		return
	}

	o.statuses.Set(jobs.Record{
		JobID:     descriptor.JobID,
		Status:    jobs.StatusCompleted,
		Progress:  progressDone,
		Message:   "Video complete!",
		ProjectID: record.ID,
		Title:     record.Title,
		Year:      record.Year,
	})
	log.Info("video produced", logging.String("path", record.VideoPath()))
}

// cloudAssemble renders a clip through the cloud backend and merges the
// voiceover into it. The intermediate clip is removed on success.
func (o *Orchestrator) cloudAssemble(ctx context.Context, record *projects.Record) error {
	if o.cloudVideo == nil {
		return services.Failf("cloud video backend not configured")
	}

	clipPath := filepath.Join(record.Dir, tempClipName)
	if err := o.cloudVideo.Generate(ctx, record.ImagePrompt, clipPath); err != nil {
		return err
	}

	err := o.compositor.MergeAudio(ctx, media.MergeRequest{
		VideoPath:  clipPath,
		AudioPath:  record.VoicePath(),
		OutputPath: record.VideoPath(),
		Title:      record.Title,
		Year:       record.Year,
	})
	if removeErr := os.Remove(clipPath); removeErr != nil {
		logging.WithContext(ctx, o.logger).Warn("temp clip not removed", logging.Error(removeErr))
	}
	return err
}

func (o *Orchestrator) setStep(jobID string, status jobs.Status, progress int, message string) {
	o.statuses.Set(jobs.Record{
		JobID:    jobID,
		Status:   status,
		Progress: progress,
		Message:  message,
	})
}

// failStep records a terminal error at the failing step's checkpoint. Typed
// failures contribute their reason; anything else contributes its error text.
func (o *Orchestrator) failStep(log *slog.Logger, jobID string, progress int, label string, err error) {
	reason := err.Error()
	if r, ok := services.FailureReason(err); ok {
		reason = r
	}
	log.Error("pipeline step failed",
		logging.Int("progress", progress),
		logging.String("reason", reason),
	)
	o.statuses.Set(jobs.Record{
		JobID:    jobID,
		Status:   jobs.StatusError,
		Progress: progress,
		Message:  fmt.Sprintf("%s: %s", label, reason),
	})
}
