// Package daemonrun wires the chronoreel daemon: logger, single-instance
// lock, stores, pipeline worker, and the dashboard HTTP server.
package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"chronoreel/internal/api"
	"chronoreel/internal/config"
	"chronoreel/internal/jobs"
	"chronoreel/internal/logging"
	"chronoreel/internal/media"
	"chronoreel/internal/pipeline"
	"chronoreel/internal/projects"
	"chronoreel/internal/script"
	"chronoreel/internal/services/elevenlabs"
	"chronoreel/internal/services/novareel"
	"chronoreel/internal/services/pollinations"
	"chronoreel/internal/services/wikipedia"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run starts the chronoreel daemon and blocks until the context is cancelled
// or a termination signal arrives.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if strings.TrimSpace(opts.LogLevel) != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "chronoreel.lock")
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errors.New("another chronoreel daemon instance is already running")
	}
	defer lock.Unlock()

	pidPath := filepath.Join(cfg.Paths.LogDir, "chronoreel.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := projects.NewStore(cfg.Paths.ProjectsDir)
	if err != nil {
		return fmt.Errorf("open project store: %w", err)
	}

	statuses := jobs.NewStore(cfg.Jobs.StatusRetention)
	queue := jobs.NewQueue(cfg.Jobs.QueueCapacity)

	events := wikipedia.NewClient(cfg, logger)
	images := pollinations.NewClient(cfg, logger)
	voices := elevenlabs.NewClient(cfg, logger)
	compositor := media.NewCompositor(cfg, logger)
	scripts := script.NewGenerator()

	pipelineOpts := []pipeline.Option{}
	if cfg.NovaReel.Enabled {
		cloud, cloudErr := novareel.NewClient(signalCtx, cfg, logger)
		if cloudErr != nil {
			logger.Warn("cloud video backend unavailable", logging.Error(cloudErr))
		} else {
			pipelineOpts = append(pipelineOpts, pipeline.WithCloudVideo(cloud))
		}
	}

	orchestrator := pipeline.NewOrchestrator(
		statuses, store, scripts, events, images, voices, compositor, logger, pipelineOpts...,
	)
	worker := jobs.NewWorker(queue, orchestrator, logger)
	worker.Start(signalCtx)

	service := api.NewService(queue, statuses, store, voices.Configured(), logger)
	server := &http.Server{
		Handler:           api.NewHandler(service, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      5 * time.Minute, // video downloads
		IdleTimeout:       60 * time.Second,
	}

	listener, err := net.Listen("tcp", cfg.Paths.APIBind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	go func() {
		if serveErr := server.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("api server error", logging.Error(serveErr))
		}
	}()

	logger.Info("chronoreel daemon started",
		logging.String("projects_dir", cfg.Paths.ProjectsDir),
		logging.String("address", listener.Addr().String()),
		logging.Bool("elevenlabs_configured", voices.Configured()),
		logging.Bool("cloud_video_enabled", cfg.NovaReel.Enabled),
	)

	<-signalCtx.Done()
	logger.Info("chronoreel daemon shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)

	queue.Close()
	worker.Wait()
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
