package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"chronoreel/internal/jobs"
	"chronoreel/internal/logging"
	"chronoreel/internal/projects"
)

// handler serves the dashboard HTTP surface.
type handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler mounts the dashboard routes on a fresh mux.
func NewHandler(service *Service, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	h := &handler{
		service: service,
		logger:  logger.With(logging.String(logging.FieldComponent, "http")),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate", h.handleGenerate)
	mux.HandleFunc("/api/status/", h.handleStatus)
	mux.HandleFunc("/api/projects", h.handleProjects)
	mux.HandleFunc("/api/project/", h.handleProject)
	mux.HandleFunc("/api/video/", h.handleVideo)
	mux.HandleFunc("/api/stats", h.handleStats)
	mux.HandleFunc("/health", h.handleHealth)
	return mux
}

func (h *handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// An empty body means default options; anything else malformed is a 400.
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Submit(req)
	if err != nil {
		if errors.Is(err, jobs.ErrQueueFull) || errors.Is(err, jobs.ErrQueueClosed) {
			h.writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jobID := pathSuffix(r.URL.Path, "/api/status/")
	if jobID == "" {
		h.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	h.writeJSON(w, http.StatusOK, h.service.Status(jobID))
}

func (h *handler) handleProjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	summaries, err := h.service.Projects()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

func (h *handler) handleProject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := pathSuffix(r.URL.Path, "/api/project/")
	if id == "" {
		h.writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	detail, err := h.service.Project(id)
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

func (h *handler) handleVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := pathSuffix(r.URL.Path, "/api/video/")
	if id == "" {
		h.writeError(w, http.StatusNotFound, "Video not found")
		return
	}
	path, err := h.service.VideoPath(id)
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) || errors.Is(err, ErrVideoNotFound) {
			h.writeError(w, http.StatusNotFound, "Video not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	http.ServeFile(w, r, path)
}

func (h *handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stats, err := h.service.Stats()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.writeJSON(w, http.StatusOK, h.service.Health())
}

// pathSuffix extracts the single trailing path element after prefix.
func pathSuffix(path, prefix string) string {
	suffix := strings.TrimPrefix(path, prefix)
	if suffix == "" || strings.Contains(suffix, "/") {
		return ""
	}
	return suffix
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encode response failed", logging.Error(err))
	}
}

func (h *handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
