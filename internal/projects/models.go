package projects

import (
	"path/filepath"
	"time"
)

// Status represents the lifecycle of a persisted project.
type Status string

const (
	// StatusCreated marks a project whose metadata and script exist but whose
	// final video has not been assembled.
	StatusCreated Status = "created"
	// StatusCompleted marks a project with a fully assembled video.
	StatusCompleted Status = "completed"
)

// Artifact file names inside a project directory.
const (
	MetadataFile = "metadata.json"
	ScriptFile   = "script.txt"
	ImageFile    = "scene.jpg"
	VoiceFile    = "voiceover.mp3"
	VideoFile    = "final_video.mp4"
)

// Project is the persisted metadata record for one historical event.
type Project struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Year        string     `json:"year"`
	Script      string     `json:"script"`
	ImagePrompt string     `json:"image_prompt"`
	CreatedAt   time.Time  `json:"created_at"`
	SourceURL   string     `json:"source_url"`
	Status      Status     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Record pairs a project with its on-disk location and artifact presence.
type Record struct {
	Project
	Dir      string
	HasImage bool
	HasVoice bool
	HasVideo bool
}

// ImagePath returns the scene image location inside the project directory.
func (r *Record) ImagePath() string { return filepath.Join(r.Dir, ImageFile) }

// VoicePath returns the voiceover location inside the project directory.
func (r *Record) VoicePath() string { return filepath.Join(r.Dir, VoiceFile) }

// VideoPath returns the final video location inside the project directory.
func (r *Record) VideoPath() string { return filepath.Join(r.Dir, VideoFile) }

// ScriptPath returns the narration script location inside the project directory.
func (r *Record) ScriptPath() string { return filepath.Join(r.Dir, ScriptFile) }

// Stats summarizes the project store for the dashboard.
type Stats struct {
	Total     int
	Completed int
	Pending   int
}
