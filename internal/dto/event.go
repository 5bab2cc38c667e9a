package dto

// EventKind identifies what kind of input an Event carries.
type EventKind int

const (
	EventNone EventKind = iota
	EventClick
	EventKey
	EventClose // the window was closed by the user
)

// Event is a single input event delivered by the display.
type Event struct {
	Kind EventKind
	X    int
	Y    int
	Key  int
}

// Click builds a pointer-down event at image coordinates (x, y).
func Click(x, y int) Event {
	return Event{Kind: EventClick, X: x, Y: y}
}

// Key builds a key-press event for the given key code.
func Key(code int) Event {
	return Event{Kind: EventKey, Key: code}
}

// Close builds a window-closed event.
func Close() Event {
	return Event{Kind: EventClose}
}
