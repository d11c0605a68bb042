package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chronoreel/internal/api"
)

// runCommand executes the CLI against addr and captures stdout.
func runCommand(t *testing.T, addr string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--address", addr}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func newDashboardStub(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		var req api.GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode generate request: %v", err)
		}
		json.NewEncoder(w).Encode(api.GenerateResponse{JobID: "job-42", Status: "queued", UseNova: req.UseNova})
	})
	mux.HandleFunc("/api/status/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.JobStatus{JobID: "job-42", Status: "image", Progress: 50, Message: "Generating image..."})
	})
	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.StatsResponse{TotalProjects: 3, CompletedVideos: 1, Pending: 2})
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.HealthResponse{Status: "ok", ElevenLabs: true})
	})
	mux.HandleFunc("/api/projects", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.ProjectSummary{
			{ID: "20260801_090000_Moon_Landing", Title: "Moon Landing", Year: "1969", Status: "completed", HasVideo: true},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, strings.TrimPrefix(server.URL, "http://")
}

func TestGenerateCommandPrintsJobID(t *testing.T) {
	_, addr := newDashboardStub(t)
	out, err := runCommand(t, addr, "generate", "--nova")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "job-42") || !strings.Contains(out, "nova: yes") {
		t.Errorf("output = %q", out)
	}
}

func TestStatusCommandRendersTable(t *testing.T) {
	_, addr := newDashboardStub(t)
	out, err := runCommand(t, addr, "status", "job-42")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"job-42", "image", "50%", "Generating image..."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestStatusCommandJSONOutput(t *testing.T) {
	_, addr := newDashboardStub(t)
	out, err := runCommand(t, addr, "--json", "status", "job-42")
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	var status api.JobStatus
	if err := json.Unmarshal([]byte(out), &status); err != nil {
		t.Fatalf("decode output: %v (%s)", err, out)
	}
	if status.Progress != 50 {
		t.Errorf("progress = %d", status.Progress)
	}
}

func TestProjectsCommandListsLibrary(t *testing.T) {
	_, addr := newDashboardStub(t)
	out, err := runCommand(t, addr, "projects")
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	if !strings.Contains(out, "Moon Landing") || !strings.Contains(out, "1969") {
		t.Errorf("output = %q", out)
	}
}

func TestStatsAndHealthCommands(t *testing.T) {
	_, addr := newDashboardStub(t)

	out, err := runCommand(t, addr, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "Total projects") || !strings.Contains(out, "3") {
		t.Errorf("stats output = %q", out)
	}

	out, err = runCommand(t, addr, "health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if !strings.Contains(out, "ok") || !strings.Contains(out, "ElevenLabs configured: yes") {
		t.Errorf("health output = %q", out)
	}
}
