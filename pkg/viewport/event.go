package viewport

// Button identifies a pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// Event is an input delivered to a Session. Surfaces translate their native
// events into these.
type Event interface {
	isEvent()
}

// PointerDown starts a drag. Shift selects panning for the left button.
type PointerDown struct {
	X, Y   int
	Button Button
	Shift  bool
}

// PointerMove reports the pointer position; it only matters while dragging.
type PointerMove struct {
	X, Y int
}

// PointerUp ends a drag.
type PointerUp struct {
	X, Y   int
	Button Button
}

// Wheel zooms; positive deltas zoom in.
type Wheel struct {
	X, Y  int
	Delta float64
}

// KeyDown reports a key press by name ("w", "left", "shift", "space").
type KeyDown struct {
	Key string
}

// KeyUp reports a key release.
type KeyUp struct {
	Key string
}

// SliderChange sets a named parameter to a new value.
type SliderChange struct {
	Name  string
	Value float64
}

// Toggle flips a named boolean parameter.
type Toggle struct {
	Name string
}

// Resize reports a new viewport size in pixels.
type Resize struct {
	Width, Height int
}

// Reload reports that the scene source changed on disk.
type Reload struct {
	Path string
}

func (PointerDown) isEvent()  {}
func (PointerMove) isEvent()  {}
func (PointerUp) isEvent()    {}
func (Wheel) isEvent()        {}
func (KeyDown) isEvent()      {}
func (KeyUp) isEvent()        {}
func (SliderChange) isEvent() {}
func (Toggle) isEvent()       {}
func (Resize) isEvent()       {}
func (Reload) isEvent()       {}
