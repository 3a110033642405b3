// Package window applies platform window-manager requests that the GUI
// toolkit does not expose: topmost, opacity, exclusion from screen capture,
// and absolute positioning. Every request is best effort.
package window

import "errors"

// ErrUnsupported is returned on platforms without an implementation.
var ErrUnsupported = errors.New("not supported on this platform")

// Handle is the native window handle: an HWND on Windows, an X11 window id on
// Linux.
type Handle uintptr

type Options struct {
	Topmost bool
	// Opacity in (0,1]; values outside that range leave the window opaque.
	Opacity float64
	// Stealth asks the compositor to exclude the window from captures.
	Stealth bool
}

// Apply issues every request in opts and returns the first error. Requests
// after a failure are still attempted.
func Apply(h Handle, opts Options) error {
	if h == 0 {
		return errors.New("no native window handle")
	}
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	if opts.Topmost {
		keep(setTopmost(h))
	}
	if opts.Opacity > 0 && opts.Opacity < 1 {
		keep(setOpacity(h, opts.Opacity))
	}
	if opts.Stealth {
		keep(setStealth(h))
	}
	return first
}

// Move places the window's top-left corner at (x, y) in screen pixels.
func Move(h Handle, x, y int) error {
	if h == 0 {
		return errors.New("no native window handle")
	}
	return move(h, x, y)
}

func alphaByte(opacity float64) byte {
	switch {
	case opacity <= 0:
		return 0
	case opacity >= 1:
		return 255
	default:
		return byte(opacity*255 + 0.5)
	}
}
