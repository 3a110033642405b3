package logutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRedactKey(t *testing.T) {
	if got := RedactKey("short"); got != "********" {
		t.Errorf("Expected short key fully masked, got %q", got)
	}
	if got := RedactKey("AIzaSyExample1234"); got != "AIza...1234" {
		t.Errorf("Expected AIza...1234, got %q", got)
	}
}

func TestSanitizeForLogging(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"plain", "plain"},
		{"line1\nline2", "line1\\nline2"},
		{"a\tb", "a\\tb"},
		{"bell\x07", "bell?"},
	}
	for _, tt := range tests {
		if got := SanitizeForLogging(tt.in); got != tt.expected {
			t.Errorf("SanitizeForLogging(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
	}

	long := make([]byte, 150)
	for i := range long {
		long[i] = 'x'
	}
	if got := SanitizeForLogging(string(long)); len(got) != 103 {
		t.Errorf("Expected truncated output of 103 chars, got %d", len(got))
	}
}

func TestSanitizeForLoggingKeepsRunes(t *testing.T) {
	text := "x" + strings.Repeat("é", 150)
	got := SanitizeForLogging(text)
	if !utf8.ValidString(got) || strings.ContainsRune(got, utf8.RuneError) {
		t.Fatalf("Expected valid UTF-8 without replacement runes, got %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 103 {
		t.Errorf("Expected 100 runes plus ellipsis, got %d", n)
	}
}

func TestRotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	if err := os.WriteFile(path, []byte("current"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(archiveName(path, 1), []byte("older"), 0600); err != nil {
		t.Fatal(err)
	}

	rotate(path)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected base log to be moved away, stat err=%v", err)
	}
	got, err := os.ReadFile(archiveName(path, 1))
	if err != nil || string(got) != "current" {
		t.Errorf("Expected .1 to hold current log, got %q (%v)", got, err)
	}
	got, err = os.ReadFile(archiveName(path, 2))
	if err != nil || string(got) != "older" {
		t.Errorf("Expected .2 to hold older log, got %q (%v)", got, err)
	}
}
