package screenshot

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"time"

	"ghost-overlay/src/messages"

	"github.com/kbinani/screenshot"
)

// Grabber produces a raw screen image.
type Grabber func() (*image.RGBA, error)

// Visibility is the part of the overlay window the adapter needs: the window
// must be out of the way while the screen is grabbed.
type Visibility interface {
	Hide()
	Show()
}

// Adapter captures the screen on behalf of the overlay.
type Adapter struct {
	window    Visibility
	grab      Grabber
	hideDelay time.Duration
}

// NewAdapter returns an Adapter that grabs the primary display. hideDelay gives
// the compositor time to drop the hidden window before the grab.
func NewAdapter(window Visibility, hideDelay time.Duration) *Adapter {
	return &Adapter{window: window, grab: CapturePrimary, hideDelay: hideDelay}
}

// WithGrabber swaps the capture primitive.
func (a *Adapter) WithGrabber(g Grabber) *Adapter {
	a.grab = g
	return a
}

// Capture hides the window, grabs the screen, and encodes it as PNG. The
// window is shown again on every path before Capture returns.
func (a *Adapter) Capture(ctx context.Context) (messages.Capture, error) {
	img, err := a.grabHidden(ctx)
	if err != nil {
		return messages.Capture{}, messages.NewError(messages.KindCaptureFailure, "%v", err)
	}

	data, err := encodePNG(img)
	if err != nil {
		return messages.Capture{}, messages.NewError(messages.KindCaptureFailure, "%v", err)
	}
	log.Printf("Captured %dx%d screen (%d bytes)", img.Bounds().Dx(), img.Bounds().Dy(), len(data))
	return messages.Capture{Data: data, MimeType: messages.MimePNG}, nil
}

func (a *Adapter) grabHidden(ctx context.Context) (img *image.RGBA, err error) {
	if a.window != nil {
		a.window.Hide()
		defer a.window.Show()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("capture panicked: %v", r)
		}
	}()

	if a.hideDelay > 0 {
		select {
		case <-time.After(a.hideDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if a.grab == nil {
		return nil, fmt.Errorf("no capture primitive configured")
	}
	img, err = a.grab()
	if err == nil && img == nil {
		err = fmt.Errorf("capture returned no image")
	}
	return img, err
}

// CapturePrimary captures the primary display (display 0).
func CapturePrimary() (*image.RGBA, error) {
	bounds, err := GetDisplayBounds()
	if err != nil {
		return nil, err
	}
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen: %w", err)
	}
	return img, nil
}

// GetDisplayBounds returns the bounds of the primary display
func GetDisplayBounds() (image.Rectangle, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays found")
	}
	return screenshot.GetDisplayBounds(0), nil
}

// ClampToDisplay keeps a window of size w×h at (x, y) fully inside bounds.
func ClampToDisplay(bounds image.Rectangle, x, y, w, h int) (int, int) {
	if bounds.Empty() {
		return x, y
	}
	if x+w > bounds.Max.X {
		x = bounds.Max.X - w
	}
	if y+h > bounds.Max.Y {
		y = bounds.Max.Y - h
	}
	if x < bounds.Min.X {
		x = bounds.Min.X
	}
	if y < bounds.Min.Y {
		y = bounds.Min.Y
	}
	return x, y
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return buf.Bytes(), nil
}
