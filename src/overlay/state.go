package overlay

// Point is a position in global screen pixels.
type Point struct {
	X int
	Y int
}

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// State is the overlay's only mutable state. It lives as long as the window
// and is touched only from the UI goroutine.
type State struct {
	Position    Point
	Busy        bool
	LastMessage string
}
