package hotkey

import (
	"testing"
)

func TestKeyNameToRawcodesWindows(t *testing.T) {
	tests := []struct {
		keyName  string
		expected []uint16
	}{
		// Modifier keys
		{"ctrl", []uint16{162, 163}},
		{"alt", []uint16{164, 165}},
		{"shift", []uint16{160, 161}},
		{"cmd", []uint16{91, 92}},

		// Letter keys
		{"q", []uint16{81}},
		{"g", []uint16{71}},

		// Number keys
		{"0", []uint16{48}},
		{"9", []uint16{57}},

		// Function keys
		{"f1", []uint16{112}},
		{"f12", []uint16{123}},
		{"f24", []uint16{135}},

		// Special keys and aliases
		{"space", []uint16{32}},
		{"return", []uint16{13}},
		{"escape", []uint16{27}},
		{"pgdn", []uint16{34}},

		// Unknown key
		{"unknown", nil},
		{"f25", nil},
	}

	for _, tt := range tests {
		t.Run(tt.keyName, func(t *testing.T) {
			assertRawcodes(t, keyNameToRawcodes("windows", tt.keyName), tt.expected)
		})
	}
}

func TestKeyNameToRawcodesLinux(t *testing.T) {
	tests := []struct {
		keyName  string
		expected []uint16
	}{
		{"ctrl", []uint16{0xffe3, 0xffe4}},
		{"alt", []uint16{0xffe9, 0xffea}},
		{"g", []uint16{'g', 'G'}},
		{"5", []uint16{'5'}},
		{"f1", []uint16{0xffbe}},
		{"esc", []uint16{0xff1b}},
	}

	for _, tt := range tests {
		t.Run(tt.keyName, func(t *testing.T) {
			assertRawcodes(t, keyNameToRawcodes("linux", tt.keyName), tt.expected)
		})
	}
}

func TestKeyNameToRawcodesUnsupportedOS(t *testing.T) {
	if got := keyNameToRawcodes("darwin", "ctrl"); got != nil {
		t.Errorf("Expected nil on unmapped platform, got %v", got)
	}
}

func TestParseHotkey(t *testing.T) {
	got := parseHotkey("Ctrl + Alt+Super+G")
	expected := []string{"ctrl", "alt", "cmd", "g"}
	if len(got) != len(expected) {
		t.Fatalf("parseHotkey returned %v, expected %v", got, expected)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Errorf("parseHotkey()[%d] = %q, expected %q", i, got[i], expected[i])
		}
	}
}

func TestComboFiresOnceAllKeysDown(t *testing.T) {
	c, err := newCombo("windows", "Ctrl+Alt+G")
	if err != nil {
		t.Fatalf("newCombo: %v", err)
	}

	if c.press(162) {
		t.Fatal("Expected ctrl alone not to fire")
	}
	if c.press(165) {
		t.Fatal("Expected ctrl+alt not to fire")
	}
	if !c.press(71) {
		t.Fatal("Expected ctrl+alt+g to fire")
	}
	// The combination reset after firing; repeating g alone must not fire.
	if c.press(71) {
		t.Fatal("Expected repeat without modifiers not to fire")
	}
}

func TestComboReleaseClearsKey(t *testing.T) {
	c, err := newCombo("windows", "Ctrl+G")
	if err != nil {
		t.Fatalf("newCombo: %v", err)
	}

	c.press(163)
	c.release(163)
	if c.press(71) {
		t.Fatal("Expected released ctrl not to count")
	}
}

func TestNewComboRejectsBadConfig(t *testing.T) {
	if _, err := newCombo("windows", ""); err == nil {
		t.Error("Expected error for empty hotkey")
	}
	if _, err := newCombo("windows", "Ctrl+Nope"); err == nil {
		t.Error("Expected error for unknown key")
	}
}

func assertRawcodes(t *testing.T, result, expected []uint16) {
	t.Helper()
	if len(result) != len(expected) {
		t.Fatalf("returned %v, expected %v", result, expected)
	}
	for i := range result {
		if result[i] != expected[i] {
			t.Errorf("rawcode[%d] = %d, expected %d", i, result[i], expected[i])
		}
	}
}
