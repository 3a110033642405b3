package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"ghost-overlay/src/overlay"
)

// dragSurface wraps the window chrome and forwards pointer events to an
// overlay.Drag in screen coordinates.
type dragSurface struct {
	widget.BaseWidget
	content fyne.CanvasObject

	drag *overlay.Drag
	// origin returns the window's top-left corner in screen pixels.
	origin  func() overlay.Point
	scale   func() float32
	primary bool
}

var (
	_ desktop.Mouseable = (*dragSurface)(nil)
	_ fyne.Draggable    = (*dragSurface)(nil)
)

func newDragSurface(content fyne.CanvasObject) *dragSurface {
	s := &dragSurface{content: content}
	s.ExtendBaseWidget(s)
	return s
}

func (s *dragSurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.content)
}

func (s *dragSurface) MouseDown(ev *desktop.MouseEvent) {
	b := toButton(ev.Button)
	s.primary = b == overlay.ButtonPrimary
	if s.drag != nil {
		s.drag.PointerDown(s.global(ev.Position), b)
	}
}

func (s *dragSurface) MouseUp(*desktop.MouseEvent) {
	s.primary = false
	if s.drag != nil {
		s.drag.PointerUp()
	}
}

func (s *dragSurface) Dragged(ev *fyne.DragEvent) {
	if s.drag != nil {
		s.drag.PointerMove(s.global(ev.Position), s.primary)
	}
}

func (s *dragSurface) DragEnd() {
	s.primary = false
	if s.drag != nil {
		s.drag.PointerUp()
	}
}

// global converts a canvas position to screen pixels. Positions are taken
// against the window origin the overlay last moved to, so moving the window
// mid-drag does not feed back into the delta.
func (s *dragSurface) global(p fyne.Position) overlay.Point {
	scale := float32(1)
	if s.scale != nil {
		scale = s.scale()
	}
	var o overlay.Point
	if s.origin != nil {
		o = s.origin()
	}
	return overlay.Point{X: o.X + int(p.X*scale), Y: o.Y + int(p.Y*scale)}
}

func toButton(b desktop.MouseButton) overlay.Button {
	switch b {
	case desktop.MouseButtonSecondary:
		return overlay.ButtonSecondary
	case desktop.MouseButtonTertiary:
		return overlay.ButtonTertiary
	default:
		return overlay.ButtonPrimary
	}
}
