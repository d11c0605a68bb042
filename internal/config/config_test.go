package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("exists = true for missing file")
	}
	if cfg.Wikipedia.BaseURL != defaultWikipediaBaseURL {
		t.Errorf("wikipedia base url = %q", cfg.Wikipedia.BaseURL)
	}
	if cfg.Jobs.QueueCapacity != defaultJobsQueueCapacity {
		t.Errorf("queue capacity = %d", cfg.Jobs.QueueCapacity)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
projects_dir = "` + filepath.Join(dir, "output") + `"

[elevenlabs]
api_key = "secret"

[nova_reel]
enabled = true
output_s3_uri = "s3://my-bucket/reels"

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.ElevenLabs.APIKey != "secret" {
		t.Errorf("api key = %q", cfg.ElevenLabs.APIKey)
	}
	if !cfg.NovaReel.Enabled || cfg.NovaReel.OutputS3URI != "s3://my-bucket/reels" {
		t.Errorf("nova reel = %+v", cfg.NovaReel)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
	// Untouched sections keep defaults.
	if cfg.FFmpeg.Binary != defaultFFmpegBinary {
		t.Errorf("ffmpeg binary = %q", cfg.FFmpeg.Binary)
	}
}

func TestValidateNovaReelRequiresS3URI(t *testing.T) {
	cfg := Default()
	cfg.NovaReel.Enabled = true
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "output_s3_uri") {
		t.Fatalf("expected output_s3_uri error, got %v", err)
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected log format error")
	}
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("ELEVENLABS_API_KEY", "env-key")
	t.Setenv("ELEVENLABS_VOICE_ID", "env-voice")
	t.Setenv("PORT", "9999")

	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	if cfg.ElevenLabs.APIKey != "env-key" {
		t.Errorf("api key = %q", cfg.ElevenLabs.APIKey)
	}
	if cfg.ElevenLabs.VoiceID != "env-voice" {
		t.Errorf("voice id = %q", cfg.ElevenLabs.VoiceID)
	}
	if !strings.HasSuffix(cfg.Paths.APIBind, ":9999") {
		t.Errorf("api bind = %q", cfg.Paths.APIBind)
	}
	if !cfg.ElevenLabsConfigured() {
		t.Error("ElevenLabsConfigured() = false with env key")
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := expandPath("~/projects")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "projects") {
		t.Errorf("expandPath(~/projects) = %q", got)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}
