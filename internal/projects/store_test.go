package projects

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T, times ...time.Time) *Store {
	t.Helper()
	index := 0
	clock := func() time.Time {
		if index < len(times) {
			value := times[index]
			index++
			return value
		}
		return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	}
	store, err := NewStore(t.TempDir(), WithClock(clock))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func mustCreate(t *testing.T, store *Store, title string) *Record {
	t.Helper()
	record, err := store.Create(Project{
		Title:       title,
		Year:        "1903",
		Script:      "narration text",
		ImagePrompt: "a prompt",
		SourceURL:   "https://example.org",
	})
	if err != nil {
		t.Fatalf("Create(%q): %v", title, err)
	}
	return record
}

func TestCreateWritesMetadataAndScript(t *testing.T) {
	store := newTestStore(t, time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC))
	record := mustCreate(t, store, "The First Flight")

	if record.ID != "20260801_093000_The_First_Flight" {
		t.Errorf("id = %q", record.ID)
	}
	if record.Status != StatusCreated {
		t.Errorf("status = %q", record.Status)
	}
	if record.CompletedAt != nil {
		t.Error("completed_at set on fresh project")
	}

	script, err := os.ReadFile(record.ScriptPath())
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if string(script) != "narration text" {
		t.Errorf("script content = %q", script)
	}

	// Round trip through Get.
	got, err := store.Get(record.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "The First Flight" || got.Year != "1903" || got.ImagePrompt != "a prompt" {
		t.Errorf("round trip mismatch: %+v", got.Project)
	}
}

func TestCreateDisambiguatesCollidingIDs(t *testing.T) {
	at := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	store := newTestStore(t, at, at)

	first := mustCreate(t, store, "Same Title")
	second := mustCreate(t, store, "Same Title")

	if first.ID == second.ID {
		t.Fatalf("ids collided: %q", first.ID)
	}
	if second.ID != first.ID+"-2" {
		t.Errorf("second id = %q", second.ID)
	}
}

func TestGetTieBreaking(t *testing.T) {
	store := newTestStore(t,
		time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC),
	)
	older := mustCreate(t, store, "Moon Landing")
	newer := mustCreate(t, store, "Moon Landing Anniversary")

	// Exact match wins over substring containment.
	got, err := store.Get(older.ID)
	if err != nil {
		t.Fatalf("Get exact: %v", err)
	}
	if got.ID != older.ID {
		t.Errorf("exact match = %q, want %q", got.ID, older.ID)
	}

	// Prefix match when no exact match exists.
	got, err = store.Get("20260802_090000")
	if err != nil {
		t.Fatalf("Get prefix: %v", err)
	}
	if got.ID != newer.ID {
		t.Errorf("prefix match = %q, want %q", got.ID, newer.ID)
	}

	// Substring fallback resolves to the lexicographically first directory.
	got, err = store.Get("Moon_Landing")
	if err != nil {
		t.Fatalf("Get substring: %v", err)
	}
	if got.ID != older.ID {
		t.Errorf("substring match = %q, want %q", got.ID, older.ID)
	}
}

func TestGetNotFound(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get("no-such-project"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := store.Get(""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty fragment err = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirstWithArtifactFlags(t *testing.T) {
	store := newTestStore(t,
		time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC),
	)
	older := mustCreate(t, store, "Printing Press")
	newer := mustCreate(t, store, "French Revolution")

	if err := os.WriteFile(older.ImagePath(), []byte("jpg"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(older.VideoPath(), []byte("mp4"), 0o644); err != nil {
		t.Fatal(err)
	}

	// A stray directory without metadata must be skipped.
	if err := os.MkdirAll(filepath.Join(store.Root(), "zz_not_a_project"), 0o755); err != nil {
		t.Fatal(err)
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d", len(records))
	}
	if records[0].ID != newer.ID || records[1].ID != older.ID {
		t.Errorf("order = [%q, %q]", records[0].ID, records[1].ID)
	}
	if !records[1].HasImage || records[1].HasVoice || !records[1].HasVideo {
		t.Errorf("artifact flags = image:%v voice:%v video:%v",
			records[1].HasImage, records[1].HasVoice, records[1].HasVideo)
	}
}

func TestMarkCompleted(t *testing.T) {
	store := newTestStore(t)
	record := mustCreate(t, store, "Moon Landing")

	at := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	if err := store.MarkCompleted(record.ID, at); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}

	got, err := store.Get(record.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %q", got.Status)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(at) {
		t.Errorf("completed_at = %v", got.CompletedAt)
	}
}

func TestStats(t *testing.T) {
	store := newTestStore(t,
		time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC),
	)
	done := mustCreate(t, store, "Completed One")
	mustCreate(t, store, "Pending One")
	mustCreate(t, store, "Pending Two")

	if err := os.WriteFile(done.VideoPath(), []byte("mp4"), 0o644); err != nil {
		t.Fatal(err)
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 3 || stats.Completed != 1 || stats.Pending != 2 {
		t.Errorf("stats = %+v", stats)
	}
}
