package notification

import (
	"strings"
	"testing"
	"unicode/utf8"

	"fyne.io/fyne/v2/test"
)

func TestSend(t *testing.T) {
	Send(nil, "title", "content")

	a := test.NewApp()
	defer a.Quit()
	Send(a, "Gemini client not initialized", "Check your API key.")
}

func TestTruncate(t *testing.T) {
	if got := truncate("short"); got != "short" {
		t.Errorf("Expected short text unchanged, got %q", got)
	}

	long := strings.Repeat("é", 300)
	got := truncate(long)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected ellipsis, got %q", got)
	}
	if n := utf8.RuneCountInString(got); n != maxContent+3 {
		t.Errorf("Expected %d runes, got %d", maxContent+3, n)
	}
	if !utf8.ValidString(got) {
		t.Error("Expected valid UTF-8 after truncation")
	}
}
