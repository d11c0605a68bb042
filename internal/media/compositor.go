// Package media assembles final videos with ffmpeg.
//
// Two compositions are supported: animating a still image under a voiceover
// (Ken Burns style zoom with title overlays), and merging a generated video
// clip with a voiceover track. ffmpeg failures surface as *services.Failure
// carrying a bounded stderr excerpt.
package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"chronoreel/internal/config"
	"chronoreel/internal/fileutil"
	"chronoreel/internal/logging"
	"chronoreel/internal/services"
	"chronoreel/internal/textutil"
)

// stderrExcerptBytes bounds the diagnostic excerpt attached to failures.
const stderrExcerptBytes = 500

// commandRunner executes an external command and returns captured stderr.
type commandRunner func(ctx context.Context, name string, args ...string) (string, error)

// AssembleRequest describes inputs for still-image composition.
type AssembleRequest struct {
	ImagePath  string
	AudioPath  string
	OutputPath string
	Title      string
	Year       string
}

// MergeRequest describes inputs for merging a video clip with a voiceover.
type MergeRequest struct {
	VideoPath  string
	AudioPath  string
	OutputPath string
	Title      string
	Year       string
}

// Compositor renders final videos through ffmpeg.
type Compositor struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
	run     commandRunner
}

// Option customizes the compositor.
type Option func(*Compositor)

// WithCommandRunner injects a custom command runner (used in tests).
func WithCommandRunner(run commandRunner) Option {
	return func(c *Compositor) {
		if run != nil {
			c.run = run
		}
	}
}

// NewCompositor constructs a compositor from configuration.
func NewCompositor(cfg *config.Config, logger *slog.Logger, opts ...Option) *Compositor {
	settings := config.Default().FFmpeg
	if cfg != nil {
		settings = cfg.FFmpeg
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	compositor := &Compositor{
		binary:  settings.Binary,
		timeout: time.Duration(settings.TimeoutSeconds) * time.Second,
		logger:  logger.With(logging.String(logging.FieldComponent, "media")),
		run:     runCommand,
	}
	for _, opt := range opts {
		opt(compositor)
	}
	return compositor
}

// AssembleFromImage loops a still image under the voiceover with a slow zoom,
// fades, and title overlays, producing OutputPath.
func (c *Compositor) AssembleFromImage(ctx context.Context, req AssembleRequest) error {
	if !fileutil.Exists(req.ImagePath) || !fileutil.Exists(req.AudioPath) {
		return services.Failf("missing image or audio")
	}

	filter := strings.Join([]string{
		"zoompan=z='min(zoom+0.001,1.15)':d=100:x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)'",
		"fade=in:0:25",
		"fade=out:st=3:d=1",
		drawtext(req.Title, 64, 80, true),
		drawtext(req.Year, 48, 150, false),
	}, ",")

	args := []string{
		"-y",
		"-loop", "1",
		"-i", req.ImagePath,
		"-i", req.AudioPath,
		"-vf", filter,
		"-c:v", "libx264",
		"-preset", "fast",
		"-tune", "stillimage",
		"-c:a", "aac",
		"-b:a", "192k",
		"-pix_fmt", "yuv420p",
		"-shortest",
		req.OutputPath,
	}
	return c.execute(ctx, "still image composition", args)
}

// MergeAudio overlays titles onto an existing clip and muxes in the
// voiceover, producing OutputPath.
func (c *Compositor) MergeAudio(ctx context.Context, req MergeRequest) error {
	if !fileutil.Exists(req.VideoPath) || !fileutil.Exists(req.AudioPath) {
		return services.Failf("missing video or audio")
	}

	filter := strings.Join([]string{
		drawtext(req.Title, 48, 40, true),
		drawtext(req.Year, 36, 90, false),
	}, ",")

	args := []string{
		"-y",
		"-i", req.VideoPath,
		"-i", req.AudioPath,
		"-vf", filter,
		"-c:v", "libx264",
		"-preset", "fast",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		req.OutputPath,
	}
	return c.execute(ctx, "clip merge", args)
}

func (c *Compositor) execute(ctx context.Context, operation string, args []string) error {
	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	stderr, err := c.run(runCtx, c.binary, args...)
	if err != nil {
		excerpt := textutil.Truncate(strings.TrimSpace(stderr), stderrExcerptBytes)
		if excerpt == "" {
			excerpt = err.Error()
		}
		return services.Failf("%s", excerpt)
	}

	logging.WithContext(ctx, c.logger).Info("video assembled",
		logging.String("operation", operation),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// drawtext builds a single drawtext filter stage. Boxed stages get a dark
// backing box behind the text.
func drawtext(text string, fontsize, y int, boxed bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "drawtext=text='%s':fontcolor=white:fontsize=%d", escapeDrawtext(text), fontsize)
	if boxed {
		b.WriteString(":box=1:boxcolor=black@0.6:boxborderw=10")
	}
	fmt.Fprintf(&b, ":x=(w-text_w)/2:y=%d", y)
	return b.String()
}

// escapeDrawtext escapes characters with meaning inside ffmpeg filter
// expressions.
func escapeDrawtext(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return replacer.Replace(text)
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}
