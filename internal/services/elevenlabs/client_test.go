package elevenlabs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"chronoreel/internal/config"
	"chronoreel/internal/services"
)

func testClient(t *testing.T, baseURL, apiKey string) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.ElevenLabs.BaseURL = baseURL
	cfg.ElevenLabs.APIKey = apiKey
	cfg.ElevenLabs.VoiceID = "test-voice"
	return NewClient(&cfg, nil)
}

func TestSynthesizeWritesAudio(t *testing.T) {
	var gotPath, gotKey string
	var gotBody synthesizeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "voiceover.mp3")
	client := testClient(t, server.URL, "secret")
	if err := client.Synthesize(context.Background(), "hello history", dest); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if gotPath != "/text-to-speech/test-voice" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("api key header = %q", gotKey)
	}
	if gotBody.Text != "hello history" || gotBody.ModelID != "eleven_monolingual_v1" {
		t.Errorf("body = %+v", gotBody)
	}
	if gotBody.VoiceSettings.Stability != 0.5 || gotBody.VoiceSettings.SimilarityBoost != 0.5 {
		t.Errorf("voice settings = %+v", gotBody.VoiceSettings)
	}

	audio, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("audio = %q", audio)
	}
}

func TestSynthesizeWithoutKeyFailsDistinctly(t *testing.T) {
	client := testClient(t, "http://127.0.0.1:0", "")
	if client.Configured() {
		t.Error("Configured() = true without key")
	}
	err := client.Synthesize(context.Background(), "text", filepath.Join(t.TempDir(), "v.mp3"))
	reason, ok := services.FailureReason(err)
	if !ok {
		t.Fatalf("expected services.Failure, got %v", err)
	}
	if reason != NotConfiguredReason {
		t.Errorf("reason = %q", reason)
	}
}

func TestSynthesizeSurfacesStatusFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := testClient(t, server.URL, "bad-key")
	err := client.Synthesize(context.Background(), "text", filepath.Join(t.TempDir(), "v.mp3"))
	reason, ok := services.FailureReason(err)
	if !ok {
		t.Fatalf("expected services.Failure, got %v", err)
	}
	if reason != "voice api status 401" {
		t.Errorf("reason = %q", reason)
	}
}
