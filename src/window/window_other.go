//go:build !windows && !linux

package window

func setTopmost(Handle) error { return ErrUnsupported }

func setOpacity(Handle, float64) error { return ErrUnsupported }

func setStealth(Handle) error { return ErrUnsupported }

func move(Handle, int, int) error { return ErrUnsupported }
