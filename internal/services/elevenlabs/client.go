// Package elevenlabs synthesizes voiceover audio through the ElevenLabs
// text-to-speech API.
//
// A missing API key is reported as a structured "not configured" failure
// rather than an error, so unconfigured installations degrade to manual
// voiceover instead of crashing the pipeline.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"chronoreel/internal/config"
	"chronoreel/internal/logging"
	"chronoreel/internal/services"
)

// NotConfiguredReason is the failure reason reported when no API key is set.
const NotConfiguredReason = "speech synthesis not configured"

// HTTPDoer describes the HTTP client used by the ElevenLabs service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client synthesizes speech for narration scripts.
type Client struct {
	baseURL string
	apiKey  string
	voiceID string
	model   string
	client  HTTPDoer
	logger  *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.client = doer
		}
	}
}

// NewClient constructs an ElevenLabs client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger, opts ...Option) *Client {
	settings := config.Default().ElevenLabs
	if cfg != nil {
		settings = cfg.ElevenLabs
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	client := &Client{
		baseURL: settings.BaseURL,
		apiKey:  strings.TrimSpace(settings.APIKey),
		voiceID: settings.VoiceID,
		model:   settings.Model,
		client:  &http.Client{Timeout: time.Duration(settings.TimeoutSeconds) * time.Second},
		logger:  logger.With(logging.String(logging.FieldComponent, "elevenlabs")),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Configured reports whether an API key is available.
func (c *Client) Configured() bool { return c.apiKey != "" }

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize renders text to speech and writes the audio to destPath.
// Provider rejections and a missing credential come back as
// *services.Failure.
func (c *Client) Synthesize(ctx context.Context, text, destPath string) error {
	if !c.Configured() {
		return &services.Failure{Reason: NotConfiguredReason}
	}

	payload, err := json.Marshal(synthesizeRequest{
		Text:    text,
		ModelID: c.model,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.5,
		},
	})
	if err != nil {
		return fmt.Errorf("encode synthesis request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build synthesis request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return services.Failf("voice request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return services.Failf("voice api status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return services.Failf("read voice response: %v", err)
	}
	if err := os.WriteFile(destPath, audio, 0o644); err != nil {
		return fmt.Errorf("write voice file: %w", err)
	}

	logging.WithContext(ctx, c.logger).Debug("voiceover synthesized",
		logging.Int("bytes", len(audio)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}
