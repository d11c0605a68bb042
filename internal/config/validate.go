package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var dimensionPattern = regexp.MustCompile(`^\d+x\d+$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateNovaReel(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ProjectsDir) == "" {
		return errors.New("paths.projects_dir must be set")
	}
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateNovaReel() error {
	if !c.NovaReel.Enabled {
		return nil
	}
	if c.NovaReel.OutputS3URI == "" {
		return errors.New("nova_reel.output_s3_uri must be set when nova_reel.enabled is true")
	}
	if !strings.HasPrefix(c.NovaReel.OutputS3URI, "s3://") {
		return fmt.Errorf("nova_reel.output_s3_uri must be an s3:// URI, got %q", c.NovaReel.OutputS3URI)
	}
	if !dimensionPattern.MatchString(c.NovaReel.Dimension) {
		return fmt.Errorf("nova_reel.dimension must look like 1280x720, got %q", c.NovaReel.Dimension)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

// ElevenLabsConfigured reports whether a speech synthesis credential is
// available. Missing credentials are not a validation error; the voice step
// surfaces a structured failure instead.
func (c *Config) ElevenLabsConfigured() bool {
	return strings.TrimSpace(c.ElevenLabs.APIKey) != ""
}
