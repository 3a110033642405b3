//go:build windows

package window

import (
	"fmt"

	"golang.org/x/sys/windows"
)

const (
	wdaExcludeFromCapture = 0x00000011
	gwlExStyle            = -20
	wsExLayered           = 0x00080000
	wsExToolWindow        = 0x00000080
	lwaAlpha              = 0x00000002

	swpNoSize     = 0x0001
	swpNoMove     = 0x0002
	swpNoZOrder   = 0x0004
	swpNoActivate = 0x0010
)

// HWND_TOPMOST is (HWND)-1.
var hwndTopmost = ^uintptr(0)

// nIndex is a signed int; a variable keeps the conversion sign-extending.
var exStyleIndex int32 = gwlExStyle

var (
	user32                         = windows.NewLazySystemDLL("user32.dll")
	procSetWindowDisplayAffinity   = user32.NewProc("SetWindowDisplayAffinity")
	procSetWindowPos               = user32.NewProc("SetWindowPos")
	procGetWindowLongPtrW          = user32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW          = user32.NewProc("SetWindowLongPtrW")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
)

func setTopmost(h Handle) error {
	return setWindowPos(h, hwndTopmost, 0, 0, swpNoMove|swpNoSize|swpNoActivate)
}

func move(h Handle, x, y int) error {
	return setWindowPos(h, 0, x, y, swpNoSize|swpNoZOrder|swpNoActivate)
}

func setWindowPos(h Handle, after uintptr, x, y int, flags uintptr) error {
	if err := procSetWindowPos.Find(); err != nil {
		return err
	}
	r, _, err := procSetWindowPos.Call(uintptr(h), after, uintptr(x), uintptr(y), 0, 0, flags)
	if r == 0 {
		return fmt.Errorf("SetWindowPos: %w", err)
	}
	return nil
}

// setOpacity adds WS_EX_LAYERED (and WS_EX_TOOLWINDOW, keeping the overlay
// off the taskbar) and applies a constant alpha.
func setOpacity(h Handle, opacity float64) error {
	if err := procSetLayeredWindowAttributes.Find(); err != nil {
		return err
	}
	style, _, _ := procGetWindowLongPtrW.Call(uintptr(h), uintptr(exStyleIndex))
	procSetWindowLongPtrW.Call(uintptr(h), uintptr(exStyleIndex), style|wsExLayered|wsExToolWindow)

	r, _, err := procSetLayeredWindowAttributes.Call(uintptr(h), 0, uintptr(alphaByte(opacity)), lwaAlpha)
	if r == 0 {
		return fmt.Errorf("SetLayeredWindowAttributes: %w", err)
	}
	return nil
}

// setStealth requires Windows 10 2004 or later for WDA_EXCLUDEFROMCAPTURE.
func setStealth(h Handle) error {
	if err := procSetWindowDisplayAffinity.Find(); err != nil {
		return err
	}
	r, _, err := procSetWindowDisplayAffinity.Call(uintptr(h), wdaExcludeFromCapture)
	if r == 0 {
		return fmt.Errorf("SetWindowDisplayAffinity: %w", err)
	}
	return nil
}
