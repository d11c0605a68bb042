package textutil

import (
	"strings"
	"testing"
)

func TestSanitizeTitleToken(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain", "The Moon Landing", "The_Moon_Landing"},
		{"punctuation dropped", "Constantinople: The Fall!", "Constantinople_The_Fall"},
		{"diacritics folded", "Bataille d'Azincourt — résumé", "Bataille_dAzincourt__resume"},
		{"empty", "   ", "untitled"},
		{"symbols only", "!!??//", "untitled"},
		{"keeps dashes and underscores", "World_War-II", "World_War-II"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTitleToken(tt.title); got != tt.want {
				t.Errorf("SanitizeTitleToken(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSanitizeTitleTokenLength(t *testing.T) {
	long := strings.Repeat("a", 80) + " tail"
	got := SanitizeTitleToken(long)
	if len(got) > 50 {
		t.Fatalf("token length = %d, want <= 50", len(got))
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 500); got != "short" {
		t.Errorf("Truncate(short) = %q", got)
	}
	long := strings.Repeat("x", 600)
	got := Truncate(long, 500)
	if len(got) != 503 || !strings.HasSuffix(got, "...") {
		t.Errorf("Truncate did not bound output: len=%d", len(got))
	}
	if got := Truncate("abc", 0); got != "abc" {
		t.Errorf("Truncate with zero limit = %q", got)
	}
}

func TestTruncateKeepsEarlierInvalidBytes(t *testing.T) {
	raw := "frame=\xff\xfe broken pipe " + strings.Repeat("e", 600)
	got := Truncate(raw, 500)
	if len(got) != 503 {
		t.Fatalf("len = %d, want 503", len(got))
	}
	if !strings.HasPrefix(got, "frame=\xff\xfe broken pipe ") {
		t.Errorf("prefix mangled: %q", got[:24])
	}
}

func TestTruncateMultibyteBoundary(t *testing.T) {
	value := strings.Repeat("é", 10)
	got := Truncate(value, 3)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
	trimmed := strings.TrimSuffix(got, "...")
	for _, r := range trimmed {
		if r == '�' {
			t.Fatalf("truncation split a rune: %q", got)
		}
	}
}
