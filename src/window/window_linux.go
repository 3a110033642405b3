//go:build linux

package window

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

const (
	netWMStateAdd = 1
	// Source indication 1: request comes from a normal application.
	netWMSourceApplication = 1
)

var (
	connOnce sync.Once
	conn     *xgb.Conn
	connErr  error
)

// x11 returns a shared connection to the X server. Wayland sessions without
// XWayland fail here and every request degrades to an error.
func x11() (*xgb.Conn, error) {
	connOnce.Do(func() {
		conn, connErr = xgb.NewConn()
		if connErr != nil {
			connErr = fmt.Errorf("connect to X server: %w", connErr)
		}
	})
	return conn, connErr
}

func atom(c *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("intern %s: %w", name, err)
	}
	return reply.Atom, nil
}

func setTopmost(h Handle) error {
	return netWMState(h, "_NET_WM_STATE_ABOVE")
}

// netWMState asks the window manager to add a _NET_WM_STATE atom (EWMH).
func netWMState(h Handle, state string) error {
	c, err := x11()
	if err != nil {
		return err
	}
	wmState, err := atom(c, "_NET_WM_STATE")
	if err != nil {
		return err
	}
	value, err := atom(c, state)
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: xproto.Window(h),
		Type:   wmState,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{netWMStateAdd, uint32(value), 0, netWMSourceApplication, 0}),
	}
	root := xproto.Setup(c).DefaultScreen(c).Root
	mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify)
	if err := xproto.SendEventChecked(c, false, root, mask, string(ev.Bytes())).Check(); err != nil {
		return fmt.Errorf("send %s: %w", state, err)
	}
	return nil
}

// setOpacity sets _NET_WM_WINDOW_OPACITY, honoured by compositing managers.
func setOpacity(h Handle, opacity float64) error {
	c, err := x11()
	if err != nil {
		return err
	}
	prop, err := atom(c, "_NET_WM_WINDOW_OPACITY")
	if err != nil {
		return err
	}
	value := uint32(float64(^uint32(0)) * opacity)
	data := []byte{byte(value), byte(value >> 8), byte(value >> 16), byte(value >> 24)}
	err = xproto.ChangePropertyChecked(c, xproto.PropModeReplace, xproto.Window(h), prop,
		xproto.AtomCardinal, 32, 1, data).Check()
	if err != nil {
		return fmt.Errorf("set window opacity: %w", err)
	}
	return nil
}

// setStealth has no X11 equivalent of display affinity.
func setStealth(Handle) error {
	return fmt.Errorf("stealth mode: %w", ErrUnsupported)
}

func move(h Handle, x, y int) error {
	c, err := x11()
	if err != nil {
		return err
	}
	err = xproto.ConfigureWindowChecked(c, xproto.Window(h),
		xproto.ConfigWindowX|xproto.ConfigWindowY, []uint32{uint32(int32(x)), uint32(int32(y))}).Check()
	if err != nil {
		return fmt.Errorf("move window: %w", err)
	}
	return nil
}
