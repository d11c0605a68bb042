package config

import (
	"fmt"
	"net"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeWikipedia()
	c.normalizeElevenLabs()
	c.normalizePollinations()
	c.normalizeNovaReel()
	c.normalizeFFmpeg()
	c.normalizeJobs()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("CHRONOREEL_OUTPUT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.ProjectsDir = value
	}
	var err error
	if c.Paths.ProjectsDir, err = expandPath(c.Paths.ProjectsDir); err != nil {
		return fmt.Errorf("paths.projects_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	// Hosting platforms hand out the listen port via PORT.
	if port, ok := os.LookupEnv("PORT"); ok && strings.TrimSpace(port) != "" {
		host, _, err := net.SplitHostPort(c.Paths.APIBind)
		if err != nil {
			host = "0.0.0.0"
		}
		c.Paths.APIBind = net.JoinHostPort(host, strings.TrimSpace(port))
	}
	return nil
}

func (c *Config) normalizeWikipedia() {
	c.Wikipedia.BaseURL = strings.TrimRight(strings.TrimSpace(c.Wikipedia.BaseURL), "/")
	if c.Wikipedia.BaseURL == "" {
		c.Wikipedia.BaseURL = defaultWikipediaBaseURL
	}
	if c.Wikipedia.TimeoutSeconds <= 0 {
		c.Wikipedia.TimeoutSeconds = defaultWikipediaTimeout
	}
}

func (c *Config) normalizeElevenLabs() {
	if c.ElevenLabs.APIKey == "" {
		if value, ok := os.LookupEnv("ELEVENLABS_API_KEY"); ok {
			c.ElevenLabs.APIKey = value
		}
	}
	if value, ok := os.LookupEnv("ELEVENLABS_VOICE_ID"); ok && strings.TrimSpace(value) != "" {
		c.ElevenLabs.VoiceID = value
	}
	c.ElevenLabs.APIKey = strings.TrimSpace(c.ElevenLabs.APIKey)
	c.ElevenLabs.VoiceID = strings.TrimSpace(c.ElevenLabs.VoiceID)
	if c.ElevenLabs.VoiceID == "" {
		c.ElevenLabs.VoiceID = defaultElevenLabsVoiceID
	}
	if c.ElevenLabs.Model == "" {
		c.ElevenLabs.Model = defaultElevenLabsModel
	}
	c.ElevenLabs.BaseURL = strings.TrimRight(strings.TrimSpace(c.ElevenLabs.BaseURL), "/")
	if c.ElevenLabs.BaseURL == "" {
		c.ElevenLabs.BaseURL = defaultElevenLabsBaseURL
	}
	if c.ElevenLabs.TimeoutSeconds <= 0 {
		c.ElevenLabs.TimeoutSeconds = defaultElevenLabsTimeout
	}
}

func (c *Config) normalizePollinations() {
	c.Pollinations.BaseURL = strings.TrimRight(strings.TrimSpace(c.Pollinations.BaseURL), "/")
	if c.Pollinations.BaseURL == "" {
		c.Pollinations.BaseURL = defaultPollinationsBaseURL
	}
	if c.Pollinations.Width <= 0 {
		c.Pollinations.Width = defaultPollinationsWidth
	}
	if c.Pollinations.Height <= 0 {
		c.Pollinations.Height = defaultPollinationsHeight
	}
	if c.Pollinations.TimeoutSeconds <= 0 {
		c.Pollinations.TimeoutSeconds = defaultPollinationsTimeout
	}
}

func (c *Config) normalizeNovaReel() {
	c.NovaReel.ModelID = strings.TrimSpace(c.NovaReel.ModelID)
	if c.NovaReel.ModelID == "" {
		c.NovaReel.ModelID = defaultNovaReelModelID
	}
	c.NovaReel.Region = strings.TrimSpace(c.NovaReel.Region)
	if c.NovaReel.Region == "" {
		c.NovaReel.Region = defaultNovaReelRegion
	}
	c.NovaReel.OutputS3URI = strings.TrimSpace(c.NovaReel.OutputS3URI)
	if c.NovaReel.PollIntervalSeconds <= 0 {
		c.NovaReel.PollIntervalSeconds = defaultNovaReelPollInterval
	}
	if c.NovaReel.PollMaxAttempts <= 0 {
		c.NovaReel.PollMaxAttempts = defaultNovaReelPollAttempts
	}
	if c.NovaReel.DurationSeconds <= 0 {
		c.NovaReel.DurationSeconds = defaultNovaReelDuration
	}
	if c.NovaReel.FPS <= 0 {
		c.NovaReel.FPS = defaultNovaReelFPS
	}
	c.NovaReel.Dimension = strings.TrimSpace(c.NovaReel.Dimension)
	if c.NovaReel.Dimension == "" {
		c.NovaReel.Dimension = defaultNovaReelDimension
	}
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = defaultFFmpegBinary
	}
	if c.FFmpeg.TimeoutSeconds <= 0 {
		c.FFmpeg.TimeoutSeconds = defaultFFmpegTimeout
	}
}

func (c *Config) normalizeJobs() {
	if c.Jobs.QueueCapacity <= 0 {
		c.Jobs.QueueCapacity = defaultJobsQueueCapacity
	}
	if c.Jobs.StatusRetention <= 0 {
		c.Jobs.StatusRetention = defaultJobsStatusRetention
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
