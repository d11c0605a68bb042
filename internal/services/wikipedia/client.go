package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"chronoreel/internal/config"
	"chronoreel/internal/logging"
)

// Event is one historical fact record driving a pipeline job.
type Event struct {
	ID      string
	Title   string
	Extract string
	Year    string
	URL     string
}

// HTTPDoer describes the HTTP client used by the Wikipedia service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches random page summaries, falling back to built-in events on
// any failure.
type Client struct {
	baseURL string
	client  HTTPDoer
	logger  *slog.Logger
	pick    func(n int) int
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

// WithPicker overrides fallback selection (used in tests).
func WithPicker(pick func(n int) int) Option {
	return func(c *Client) {
		if pick != nil {
			c.pick = pick
		}
	}
}

// NewClient constructs a Wikipedia client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger, opts ...Option) *Client {
	baseURL := defaultBaseURL
	timeout := 15 * time.Second
	if cfg != nil {
		if cfg.Wikipedia.BaseURL != "" {
			baseURL = cfg.Wikipedia.BaseURL
		}
		if cfg.Wikipedia.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.Wikipedia.TimeoutSeconds) * time.Second
		}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With(logging.String(logging.FieldComponent, "wikipedia")),
		pick:    rand.IntN,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

const defaultBaseURL = "https://en.wikipedia.org/api/rest_v1"

// RandomEvent returns one historical event. It never returns an error: any
// fetch or decode problem selects a fallback event instead.
func (c *Client) RandomEvent(ctx context.Context) Event {
	event, err := c.fetchRandomSummary(ctx)
	if err != nil {
		logging.WithContext(ctx, c.logger).Warn("random summary fetch failed; using fallback event", logging.Error(err))
		return fallbackEvents[c.pick(len(fallbackEvents))]
	}
	return event
}

func (c *Client) fetchRandomSummary(ctx context.Context) (Event, error) {
	url := c.baseURL + "/page/random/summary"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Event{}, fmt.Errorf("build random summary request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Event{}, fmt.Errorf("fetch random summary: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Event{}, fmt.Errorf("random summary returned %d", resp.StatusCode)
	}

	var payload struct {
		PageID  int64  `json:"pageid"`
		Title   string `json:"title"`
		Extract string `json:"extract"`
		Content struct {
			Desktop struct {
				Page string `json:"page"`
			} `json:"desktop"`
		} `json:"content_urls"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Event{}, fmt.Errorf("decode random summary: %w", err)
	}
	if strings.TrimSpace(payload.Title) == "" {
		return Event{}, fmt.Errorf("random summary missing title")
	}

	return Event{
		ID:      strconv.FormatInt(payload.PageID, 10),
		Title:   payload.Title,
		Extract: payload.Extract,
		Year:    ExtractYear(payload.Extract),
		URL:     payload.Content.Desktop.Page,
	}, nil
}

var yearPattern = regexp.MustCompile(`\b(1[0-9]{3}|20[0-2][0-9])\b`)

// ExtractYear infers a four-digit year (1000-2029) from text, returning
// "Unknown" when none is present.
func ExtractYear(text string) string {
	if match := yearPattern.FindString(text); match != "" {
		return match
	}
	return "Unknown"
}

var fallbackEvents = []Event{
	{
		Title:   "The Fall of Constantinople",
		Extract: "In 1453, Constantinople fell to the Ottoman Empire, ending the Byzantine Empire and marking the end of the Middle Ages.",
		Year:    "1453",
	},
	{
		Title:   "The First Flight",
		Extract: "On December 17, 1903, the Wright brothers made the first powered flight in Kitty Hawk, North Carolina.",
		Year:    "1903",
	},
	{
		Title:   "The Moon Landing",
		Extract: "On July 20, 1969, Neil Armstrong became the first human to set foot on the moon.",
		Year:    "1969",
	},
	{
		Title:   "The Printing Press",
		Extract: "In 1440, Johannes Gutenberg invented the printing press, revolutionizing the spread of knowledge.",
		Year:    "1440",
	},
	{
		Title:   "The French Revolution",
		Extract: "Beginning in 1789, the French Revolution overthrew the monarchy and established a republic.",
		Year:    "1789",
	},
}
