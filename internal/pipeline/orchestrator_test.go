package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"chronoreel/internal/jobs"
	"chronoreel/internal/media"
	"chronoreel/internal/projects"
	"chronoreel/internal/script"
	"chronoreel/internal/services"
	"chronoreel/internal/services/wikipedia"
)

type fakeEvents struct {
	event wikipedia.Event
	panic bool
}

func (f *fakeEvents) RandomEvent(ctx context.Context) wikipedia.Event {
	if f.panic {
		panic("event source exploded")
	}
	return f.event
}

type fakeGenerator struct {
	calls  int
	prompt string
	err    error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt, destPath string) error {
	f.calls++
	f.prompt = prompt
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(destPath, []byte("artifact"), 0o644)
}

type fakeVoices struct {
	calls int
	text  string
	err   error
}

func (f *fakeVoices) Synthesize(ctx context.Context, text, destPath string) error {
	f.calls++
	f.text = text
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(destPath, []byte("audio"), 0o644)
}

type fakeCompositor struct {
	assembleCalls int
	mergeCalls    int
	assembleErr   error
	mergeErr      error
	lastMerge     media.MergeRequest
}

func (f *fakeCompositor) AssembleFromImage(ctx context.Context, req media.AssembleRequest) error {
	f.assembleCalls++
	if f.assembleErr != nil {
		return f.assembleErr
	}
	return os.WriteFile(req.OutputPath, []byte("video"), 0o644)
}

func (f *fakeCompositor) MergeAudio(ctx context.Context, req media.MergeRequest) error {
	f.mergeCalls++
	f.lastMerge = req
	if f.mergeErr != nil {
		return f.mergeErr
	}
	return os.WriteFile(req.OutputPath, []byte("video"), 0o644)
}

type harness struct {
	orchestrator *Orchestrator
	statuses     *jobs.Store
	store        *projects.Store
	events       *fakeEvents
	images       *fakeGenerator
	voices       *fakeVoices
	cloud        *fakeGenerator
	compositor   *fakeCompositor
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	store, err := projects.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	h := &harness{
		statuses: jobs.NewStore(16),
		store:    store,
		events: &fakeEvents{event: wikipedia.Event{
			Title:   "The Moon Landing",
			Extract: "On July 20, 1969, Neil Armstrong became the first human to set foot on the moon.",
			Year:    "1969",
			URL:     "https://example.org/moon",
		}},
		images:     &fakeGenerator{},
		voices:     &fakeVoices{},
		cloud:      &fakeGenerator{},
		compositor: &fakeCompositor{},
	}
	scripts := script.NewGenerator(
		script.WithPicker(func(n int) int { return 0 }),
		script.WithClock(func() time.Time { return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) }),
	)
	h.orchestrator = NewOrchestrator(
		h.statuses, h.store, scripts, h.events, h.images, h.voices, h.compositor, nil, opts...,
	)
	return h
}

func (h *harness) run(t *testing.T, descriptor jobs.Descriptor) jobs.Record {
	t.Helper()
	h.orchestrator.Process(context.Background(), descriptor)
	return h.statuses.Get(descriptor.JobID)
}

func (h *harness) onlyProject(t *testing.T) *projects.Record {
	t.Helper()
	records, err := h.store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d", len(records))
	}
	return records[0]
}

func TestProcessCompletesLocalPipeline(t *testing.T) {
	h := newHarness(t)
	record := h.run(t, jobs.Descriptor{JobID: "job-1", AutoGenerate: true})

	if record.Status != jobs.StatusCompleted || record.Progress != 100 {
		t.Fatalf("record = %+v", record)
	}
	if record.Message != "Video complete!" {
		t.Errorf("message = %q", record.Message)
	}
	if record.Title != "The Moon Landing" || record.Year != "1969" {
		t.Errorf("record metadata = %+v", record)
	}

	project := h.onlyProject(t)
	if record.ProjectID != project.ID {
		t.Errorf("project id = %q, want %q", record.ProjectID, project.ID)
	}
	if project.Status != projects.StatusCompleted || project.CompletedAt == nil {
		t.Errorf("project = %+v", project.Project)
	}
	if !project.HasImage || !project.HasVoice || !project.HasVideo {
		t.Errorf("artifacts = image:%v voice:%v video:%v",
			project.HasImage, project.HasVoice, project.HasVideo)
	}
	if h.compositor.assembleCalls != 1 || h.compositor.mergeCalls != 0 {
		t.Errorf("compositor calls = %+v", h.compositor)
	}
}

func TestProcessManualSkipsGenerators(t *testing.T) {
	h := newHarness(t)
	record := h.run(t, jobs.Descriptor{JobID: "job-1", AutoGenerate: false})

	if record.Status != jobs.StatusManual || record.Progress != 100 {
		t.Fatalf("record = %+v", record)
	}
	if record.Message != "Project ready - add image and voiceover" {
		t.Errorf("message = %q", record.Message)
	}
	if h.images.calls != 0 || h.voices.calls != 0 || h.compositor.assembleCalls != 0 {
		t.Errorf("generators invoked: images=%d voices=%d assemble=%d",
			h.images.calls, h.voices.calls, h.compositor.assembleCalls)
	}

	project := h.onlyProject(t)
	if project.HasImage || project.HasVoice || project.HasVideo {
		t.Errorf("unexpected artifacts: %+v", project)
	}
	if script, err := os.ReadFile(project.ScriptPath()); err != nil || len(script) == 0 {
		t.Errorf("script missing: %v", err)
	}
}

func TestProcessImageFailureStopsPipeline(t *testing.T) {
	h := newHarness(t)
	h.images.err = services.Failf("image api status 502")

	record := h.run(t, jobs.Descriptor{JobID: "job-1", AutoGenerate: true})
	if record.Status != jobs.StatusError || record.Progress != 50 {
		t.Fatalf("record = %+v", record)
	}
	if record.Message != "Image failed: image api status 502" {
		t.Errorf("message = %q", record.Message)
	}
	if h.voices.calls != 0 || h.compositor.assembleCalls != 0 {
		t.Errorf("later steps ran: voices=%d assemble=%d", h.voices.calls, h.compositor.assembleCalls)
	}

	project := h.onlyProject(t)
	if project.Status != projects.StatusCreated {
		t.Errorf("project status = %q", project.Status)
	}
	if project.HasVoice || project.HasVideo {
		t.Errorf("unexpected artifacts: %+v", project)
	}
}

func TestProcessVoiceFailureStopsPipeline(t *testing.T) {
	h := newHarness(t)
	h.voices.err = services.Failf("voice api status 401")

	record := h.run(t, jobs.Descriptor{JobID: "job-1", AutoGenerate: true})
	if record.Status != jobs.StatusError || record.Progress != 70 {
		t.Fatalf("record = %+v", record)
	}
	if record.Message != "Voice failed: voice api status 401" {
		t.Errorf("message = %q", record.Message)
	}
	if h.images.calls != 1 {
		t.Errorf("image calls = %d", h.images.calls)
	}
	if h.compositor.assembleCalls != 0 || h.compositor.mergeCalls != 0 {
		t.Errorf("video step ran: %+v", h.compositor)
	}
}

func TestProcessLocalVideoFailure(t *testing.T) {
	h := newHarness(t)
	h.compositor.assembleErr = services.Failf("ffmpeg exited 1")

	record := h.run(t, jobs.Descriptor{JobID: "job-1", AutoGenerate: true})
	if record.Status != jobs.StatusError || record.Progress != 90 {
		t.Fatalf("record = %+v", record)
	}
	if record.Message != "Video failed: ffmpeg exited 1" {
		t.Errorf("message = %q", record.Message)
	}
}

func TestProcessCloudVideoMergesVoiceover(t *testing.T) {
	h := newHarness(t)
	h.orchestrator.cloudVideo = h.cloud

	record := h.run(t, jobs.Descriptor{JobID: "job-1", AutoGenerate: true, UseNovaReel: true})
	if record.Status != jobs.StatusCompleted || record.Progress != 100 {
		t.Fatalf("record = %+v", record)
	}

	project := h.onlyProject(t)
	if h.cloud.calls != 1 || h.cloud.prompt != project.ImagePrompt {
		t.Errorf("cloud backend calls=%d prompt=%q", h.cloud.calls, h.cloud.prompt)
	}
	if h.compositor.mergeCalls != 1 || h.compositor.assembleCalls != 0 {
		t.Errorf("compositor calls = %+v", h.compositor)
	}
	if h.compositor.lastMerge.AudioPath != project.VoicePath() {
		t.Errorf("merge audio = %q", h.compositor.lastMerge.AudioPath)
	}
	// The intermediate clip is cleaned up after the merge.
	if _, err := os.Stat(filepath.Join(project.Dir, "nova_temp.mp4")); !os.IsNotExist(err) {
		t.Errorf("temp clip still present: %v", err)
	}
}

func TestProcessCloudVideoFailure(t *testing.T) {
	h := newHarness(t)
	h.orchestrator.cloudVideo = h.cloud
	h.cloud.err = services.Failf("timeout waiting for video generation")

	record := h.run(t, jobs.Descriptor{JobID: "job-1", AutoGenerate: true, UseNovaReel: true})
	if record.Status != jobs.StatusError || record.Progress != 85 {
		t.Fatalf("record = %+v", record)
	}
	if record.Message != "Video failed: timeout waiting for video generation" {
		t.Errorf("message = %q", record.Message)
	}
}

func TestProcessCloudVideoUnconfigured(t *testing.T) {
	h := newHarness(t)

	record := h.run(t, jobs.Descriptor{JobID: "job-1", AutoGenerate: true, UseNovaReel: true})
	if record.Status != jobs.StatusError || record.Progress != 85 {
		t.Fatalf("record = %+v", record)
	}
	if record.Message != "Video failed: cloud video backend not configured" {
		t.Errorf("message = %q", record.Message)
	}
}

func TestProcessRecoversFromPanic(t *testing.T) {
	h := newHarness(t)
	h.events.panic = true

	record := h.run(t, jobs.Descriptor{JobID: "job-1", AutoGenerate: true})
	if record.Status != jobs.StatusError || record.Progress != 0 {
		t.Fatalf("record = %+v", record)
	}
	if record.Message != "event source exploded" {
		t.Errorf("message = %q", record.Message)
	}
}

func TestProcessStampsCompletionTime(t *testing.T) {
	at := time.Date(2026, 8, 3, 15, 0, 0, 0, time.UTC)
	h := newHarness(t, WithClock(func() time.Time { return at }))

	h.run(t, jobs.Descriptor{JobID: "job-1", AutoGenerate: true})
	project := h.onlyProject(t)
	if project.CompletedAt == nil || !project.CompletedAt.Equal(at) {
		t.Errorf("completed_at = %v", project.CompletedAt)
	}
}
