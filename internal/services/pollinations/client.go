// Package pollinations generates still images through the Pollinations API.
//
// The service is keyless; failures carry the HTTP status or transport error
// as a structured reason so the pipeline can surface them verbatim.
package pollinations

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"time"

	"chronoreel/internal/config"
	"chronoreel/internal/logging"
	"chronoreel/internal/services"
)

// HTTPDoer describes the HTTP client used by the Pollinations service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches generated images.
type Client struct {
	baseURL string
	width   int
	height  int
	client  HTTPDoer
	logger  *slog.Logger
	seed    func() int
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

// WithSeeder overrides generation seed selection (used in tests).
func WithSeeder(seed func() int) Option {
	return func(c *Client) {
		if seed != nil {
			c.seed = seed
		}
	}
}

// NewClient constructs a Pollinations client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger, opts ...Option) *Client {
	settings := config.Default().Pollinations
	if cfg != nil {
		settings = cfg.Pollinations
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	client := &Client{
		baseURL: settings.BaseURL,
		width:   settings.Width,
		height:  settings.Height,
		client:  &http.Client{Timeout: time.Duration(settings.TimeoutSeconds) * time.Second},
		logger:  logger.With(logging.String(logging.FieldComponent, "pollinations")),
		seed:    func() int { return rand.IntN(10000) + 1 },
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Generate requests an image for prompt and writes it to destPath. Provider
// rejections come back as *services.Failure.
func (c *Client) Generate(ctx context.Context, prompt, destPath string) error {
	endpoint := fmt.Sprintf("%s/prompt/%s?width=%d&height=%d&seed=%d&nologo=true",
		c.baseURL, url.PathEscape(prompt), c.width, c.height, c.seed())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build image request: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return services.Failf("image request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return services.Failf("image api status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return services.Failf("read image response: %v", err)
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return fmt.Errorf("write image file: %w", err)
	}

	logging.WithContext(ctx, c.logger).Debug("image generated",
		logging.Int("bytes", len(data)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}
