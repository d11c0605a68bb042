package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	ProjectsDir string `toml:"projects_dir"`
	LogDir      string `toml:"log_dir"`
	APIBind     string `toml:"api_bind"`
}

// Wikipedia contains configuration for the random-event content source.
type Wikipedia struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ElevenLabs contains configuration for the speech synthesis provider.
type ElevenLabs struct {
	APIKey         string `toml:"api_key"`
	VoiceID        string `toml:"voice_id"`
	Model          string `toml:"model"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Pollinations contains configuration for the image synthesis provider.
type Pollinations struct {
	BaseURL        string `toml:"base_url"`
	Width          int    `toml:"width"`
	Height         int    `toml:"height"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// NovaReel contains configuration for the optional cloud video backend.
type NovaReel struct {
	Enabled             bool   `toml:"enabled"`
	ModelID             string `toml:"model_id"`
	Region              string `toml:"region"`
	OutputS3URI         string `toml:"output_s3_uri"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	PollMaxAttempts     int    `toml:"poll_max_attempts"`
	DurationSeconds     int    `toml:"duration_seconds"`
	FPS                 int    `toml:"fps"`
	Dimension           string `toml:"dimension"`
}

// FFmpeg contains configuration for the local compositing tool.
type FFmpeg struct {
	Binary         string `toml:"binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Jobs contains configuration for the submission queue and status store.
type Jobs struct {
	QueueCapacity   int `toml:"queue_capacity"`
	StatusRetention int `toml:"status_retention"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for chronoreel.
//
// Configuration sections by subsystem:
//   - Paths: projects/log directories and API bind address
//   - Wikipedia: random historical event source
//   - ElevenLabs: voiceover synthesis credentials and voice selection
//   - Pollinations: image synthesis endpoint and output dimensions
//   - NovaReel: optional AWS cloud video generation backend
//   - FFmpeg: local compositing binary and execution timeout
//   - Jobs: queue capacity and status record retention
//   - Logging: log format and level
type Config struct {
	Paths        Paths        `toml:"paths"`
	Wikipedia    Wikipedia    `toml:"wikipedia"`
	ElevenLabs   ElevenLabs   `toml:"elevenlabs"`
	Pollinations Pollinations `toml:"pollinations"`
	NovaReel     NovaReel     `toml:"nova_reel"`
	FFmpeg       FFmpeg       `toml:"ffmpeg"`
	Jobs         Jobs         `toml:"jobs"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/chronoreel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return value
// is the resolved path, the third reports whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(defaultPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultPath, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return defaultPath, true, nil
}

// WriteSample writes the embedded sample configuration to path, creating
// parent directories as needed. It refuses to overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config already exists at %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", trimmed, err)
	}
	return abs, nil
}
