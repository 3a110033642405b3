package hotkey

import (
	"fmt"
	"log"
	"runtime"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

// Listen registers a global hotkey such as "Ctrl+Alt+G" and calls callback
// from the hook goroutine every time the full combination goes down.
func Listen(hotkeyConfig string, callback func()) error {
	c, err := newCombo(runtime.GOOS, hotkeyConfig)
	if err != nil {
		return err
	}
	log.Printf("Hotkey listener configured for: %s", hotkeyConfig)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey goroutine: %v", r)
			}
		}()

		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("ERROR: gohook.Start() returned nil channel")
			return
		}
		for ev := range evChan {
			switch ev.Kind {
			case gohook.KeyDown:
				if c.press(ev.Rawcode) {
					log.Printf("Hotkey activated: %s", hotkeyConfig)
					if callback != nil {
						callback()
					}
				}
			case gohook.KeyUp:
				c.release(ev.Rawcode)
			}
		}
		log.Printf("Hotkey event channel closed")
	}()
	return nil
}

// Stop ends the global hook started by Listen.
func Stop() {
	gohook.End()
}

// combo tracks which keys of one hotkey combination are currently down.
type combo struct {
	mu   sync.Mutex
	keys []comboKey
}

type comboKey struct {
	name     string
	rawcodes []uint16
	pressed  bool
}

func newCombo(goos, hotkeyConfig string) (*combo, error) {
	names := parseHotkey(hotkeyConfig)
	if len(names) == 0 {
		return nil, fmt.Errorf("empty hotkey %q", hotkeyConfig)
	}
	c := &combo{}
	for _, name := range names {
		codes := keyNameToRawcodes(goos, name)
		if len(codes) == 0 {
			return nil, fmt.Errorf("cannot map key %q of hotkey %q on %s", name, hotkeyConfig, goos)
		}
		c.keys = append(c.keys, comboKey{name: name, rawcodes: codes})
	}
	return c, nil
}

// press marks raw as down and reports whether the whole combination is now
// down. A completed combination resets so holding it fires once.
func (c *combo) press(raw uint16) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.keys {
		if c.keys[i].matches(raw) {
			c.keys[i].pressed = true
		}
	}
	for _, k := range c.keys {
		if !k.pressed {
			return false
		}
	}
	for i := range c.keys {
		c.keys[i].pressed = false
	}
	return true
}

func (c *combo) release(raw uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.keys {
		if c.keys[i].matches(raw) {
			c.keys[i].pressed = false
		}
	}
}

func (k comboKey) matches(raw uint16) bool {
	for _, code := range k.rawcodes {
		if code == raw {
			return true
		}
	}
	return false
}

// parseHotkey converts a hotkey string like "Ctrl+Alt+q" to normalized key names
func parseHotkey(hotkeyConfig string) []string {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(hotkeyConfig), "+") {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case "control":
			keys = append(keys, "ctrl")
		case "win", "cmd", "super", "meta":
			keys = append(keys, "cmd")
		default:
			keys = append(keys, part)
		}
	}
	return keys
}

// keyNameToRawcodes maps a key name to the rawcodes gohook reports: Windows
// virtual-key codes, or X11 keysyms on Linux. Modifiers map to both the left
// and right variants.
func keyNameToRawcodes(goos, keyName string) []uint16 {
	keyName = strings.ToLower(strings.TrimSpace(keyName))
	switch goos {
	case "windows":
		return windowsRawcodes(keyName)
	case "linux":
		return x11Rawcodes(keyName)
	default:
		log.Printf("WARNING: global hotkeys are not mapped for %s", goos)
		return nil
	}
}

func windowsRawcodes(keyName string) []uint16 {
	if r, ok := singleRune(keyName); ok {
		switch {
		case r >= 'a' && r <= 'z':
			return []uint16{uint16('A' + (r - 'a'))} // VK_A..VK_Z
		case r >= '0' && r <= '9':
			return []uint16{uint16(r)} // VK_0..VK_9
		}
	}
	if n, ok := functionKey(keyName); ok {
		return []uint16{uint16(111 + n)} // VK_F1 = 112
	}
	switch keyName {
	case "ctrl":
		return []uint16{162, 163} // VK_LCONTROL, VK_RCONTROL
	case "alt":
		return []uint16{164, 165} // VK_LMENU, VK_RMENU
	case "shift":
		return []uint16{160, 161} // VK_LSHIFT, VK_RSHIFT
	case "cmd":
		return []uint16{91, 92} // VK_LWIN, VK_RWIN
	}
	return specialKey(keyName, map[string]uint16{
		"space": 32, "enter": 13, "esc": 27, "tab": 9, "backspace": 8,
		"delete": 46, "insert": 45, "home": 36, "end": 35, "pageup": 33,
		"pagedown": 34, "left": 37, "up": 38, "right": 39, "down": 40,
	})
}

func x11Rawcodes(keyName string) []uint16 {
	if r, ok := singleRune(keyName); ok {
		switch {
		case r >= 'a' && r <= 'z':
			// Shift turns the keysym upper case.
			return []uint16{uint16(r), uint16(r - 'a' + 'A')}
		case r >= '0' && r <= '9':
			return []uint16{uint16(r)}
		}
	}
	if n, ok := functionKey(keyName); ok {
		return []uint16{uint16(0xffbd + n)} // XK_F1 = 0xffbe
	}
	switch keyName {
	case "ctrl":
		return []uint16{0xffe3, 0xffe4}
	case "alt":
		return []uint16{0xffe9, 0xffea}
	case "shift":
		return []uint16{0xffe1, 0xffe2}
	case "cmd":
		return []uint16{0xffeb, 0xffec}
	}
	return specialKey(keyName, map[string]uint16{
		"space": 0x20, "enter": 0xff0d, "esc": 0xff1b, "tab": 0xff09, "backspace": 0xff08,
		"delete": 0xffff, "insert": 0xff63, "home": 0xff50, "end": 0xff57, "pageup": 0xff55,
		"pagedown": 0xff56, "left": 0xff51, "up": 0xff52, "right": 0xff53, "down": 0xff54,
	})
}

var keyAliases = map[string]string{
	"return": "enter",
	"escape": "esc",
	"del":    "delete",
	"ins":    "insert",
	"pgup":   "pageup",
	"pgdn":   "pagedown",
}

func specialKey(keyName string, table map[string]uint16) []uint16 {
	if alias, ok := keyAliases[keyName]; ok {
		keyName = alias
	}
	if code, ok := table[keyName]; ok {
		return []uint16{code}
	}
	log.Printf("WARNING: Unknown key name '%s', cannot map to rawcode", keyName)
	return nil
}

func singleRune(s string) (rune, bool) {
	r := []rune(s)
	if len(r) != 1 {
		return 0, false
	}
	return r[0], true
}

// functionKey parses "f1".."f24".
func functionKey(s string) (int, bool) {
	if len(s) < 2 || s[0] != 'f' {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(s[1:], "%d", &n); err != nil || n < 1 || n > 24 {
		return 0, false
	}
	if fmt.Sprintf("f%d", n) != s {
		return 0, false
	}
	return n, true
}
