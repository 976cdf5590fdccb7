// Package input defines the pointer and keyboard events the board consumes.
package input

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Kind identifies the type of an input event.
type Kind string

const (
	PointerDown Kind = "pointer_down"
	PointerMove Kind = "pointer_move"
	PointerUp   Kind = "pointer_up"
	KeyDown     Kind = "key_down"
	Wheel       Kind = "wheel"
)

// Key names the keyboard keys the tools react to.
type Key string

const (
	KeyEscape    Key = "Escape"
	KeyDelete    Key = "Delete"
	KeyBackspace Key = "Backspace"
	KeyEnter     Key = "Enter"
)

// Modifiers holds the modifier keys held while the event fired.
type Modifiers struct {
	Shift bool `json:"shift,omitempty"`
	Ctrl  bool `json:"ctrl,omitempty"`
	Alt   bool `json:"alt,omitempty"`
}

// Has reports whether the named modifier ("shift", "ctrl", "alt") is held.
// An empty name never matches.
func (m Modifiers) Has(name string) bool {
	switch strings.ToLower(name) {
	case "shift":
		return m.Shift
	case "ctrl", "control":
		return m.Ctrl
	case "alt", "option":
		return m.Alt
	}
	return false
}

// Event is one pointer or keyboard event. Screen is in viewport pixels; World
// is filled in by the controller before the event reaches a tool.
type Event struct {
	Kind      Kind      `json:"kind"`
	Screen    r2.Vec    `json:"screen"`
	World     r2.Vec    `json:"-"`
	Key       Key       `json:"key,omitempty"`
	Modifiers Modifiers `json:"modifiers"`
	// Wheel is the scroll delta for Wheel events.
	Wheel r2.Vec `json:"wheel,omitempty"`
}

// IsPointer reports whether the event carries a pointer position.
func (e Event) IsPointer() bool {
	return e.Kind == PointerDown || e.Kind == PointerMove || e.Kind == PointerUp || e.Kind == Wheel
}

// Down returns a pointer-down event at screen position (x, y).
func Down(x, y float64) Event { return Event{Kind: PointerDown, Screen: r2.Vec{X: x, Y: y}} }

// Move returns a pointer-move event at screen position (x, y).
func Move(x, y float64) Event { return Event{Kind: PointerMove, Screen: r2.Vec{X: x, Y: y}} }

// Up returns a pointer-up event at screen position (x, y).
func Up(x, y float64) Event { return Event{Kind: PointerUp, Screen: r2.Vec{X: x, Y: y}} }

// Press returns a key-down event.
func Press(k Key) Event { return Event{Kind: KeyDown, Key: k} }

// With returns a copy of e carrying the given modifiers.
func (e Event) With(m Modifiers) Event {
	e.Modifiers = m
	return e
}
