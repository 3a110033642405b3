package overlay

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonTertiary
)

// Mover repositions the native window. A non-nil error means the window did
// not move.
type Mover interface {
	MoveTo(x, y int) error
}

// Drag turns pointer press/move events into window moves. It is Idle until a
// primary press and Dragging afterwards; a move without the primary button
// held is ignored, so release needs no handler of its own.
type Drag struct {
	state    *State
	mover    Mover
	anchor   Point
	dragging bool
}

func newDrag(state *State, mover Mover) *Drag {
	return &Drag{state: state, mover: mover}
}

// PointerDown records the drag anchor on a primary press.
func (d *Drag) PointerDown(p Point, b Button) {
	if b != ButtonPrimary {
		return
	}
	d.anchor = p
	d.dragging = true
}

// PointerMove moves the window by the pointer delta while the primary button
// is held.
func (d *Drag) PointerMove(p Point, primaryHeld bool) {
	if !primaryHeld {
		d.dragging = false
		return
	}
	if !d.dragging {
		return
	}
	delta := p.Sub(d.anchor)
	d.anchor = p
	if delta == (Point{}) {
		return
	}
	next := d.state.Position.Add(delta)
	if d.mover != nil {
		if err := d.mover.MoveTo(next.X, next.Y); err != nil {
			// Position tracks the real window.
			return
		}
	}
	d.state.Position = next
}

// PointerUp ends the drag.
func (d *Drag) PointerUp() { d.dragging = false }

// Dragging reports whether a primary press is being tracked.
func (d *Drag) Dragging() bool { return d.dragging }
