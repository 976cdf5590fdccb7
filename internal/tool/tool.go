// Package tool turns world-space input events into shape intents. Each tool
// is a finite-state machine driven by an explicit transition table.
package tool

import (
	"fmt"

	"LocalBoard/internal/apperr"
	"LocalBoard/internal/input"
	"LocalBoard/internal/shape"
)

// Name identifies a tool.
type Name string

const (
	NameSelect    Name = "select"
	NameRectangle Name = "rectangle"
	NameEllipse   Name = "ellipse"
	NameLine      Name = "line"
	NameFreedraw  Name = "freedraw"
	NameText      Name = "text"
)

// Names lists the available tools in toolbar order.
func Names() []Name {
	return []Name{NameSelect, NameRectangle, NameEllipse, NameLine, NameFreedraw, NameText}
}

// State is the state of a tool session.
type State string

const (
	StateIdle      State = "idle"
	StateSelecting State = "selecting"
	StateDragging  State = "dragging"
	StateResizing  State = "resizing"
	StateDrawing   State = "drawing"
	// StateCancelled is transient: a cancelled operation reports it and the
	// tool lands in StateIdle.
	StateCancelled State = "cancelled"
)

// Trigger is an event classified by a tool.
type Trigger string

const (
	TriggerDown       Trigger = "down"
	TriggerDownEmpty  Trigger = "down-empty"
	TriggerDownShape  Trigger = "down-shape"
	TriggerDownHandle Trigger = "down-handle"
	TriggerMove       Trigger = "move"
	TriggerUp         Trigger = "up"
	TriggerEscape     Trigger = "escape"
	TriggerDelete     Trigger = "delete"
	TriggerEnter      Trigger = "enter"
	TriggerNone       Trigger = ""
)

// Env is what a tool may read while handling an event. Distances in
// Settings are already in world units.
type Env struct {
	Shapes   shape.Reader
	Selected []string
	Settings Settings
}

// Step reports what one event did to a tool.
type Step struct {
	Trigger   Trigger
	From      State
	To        State
	Cancelled bool
	// Ignored is set when the (state, trigger) pair has no transition.
	Ignored bool
	Intents []Intent
}

// Tool is one interaction mode. Exactly one tool is active at a time.
type Tool interface {
	Name() Name
	State() State
	// Handle classifies ev and runs the matching transition.
	Handle(ev input.Event, env Env) Step
	// Cancel aborts any operation in progress and returns the intents that
	// undo its visible effects. Idle tools return nil.
	Cancel() []Intent
	// Preview returns uncommitted state for rendering.
	Preview() Preview
}

// New returns a fresh tool in the idle state.
func New(name Name) (Tool, error) {
	switch name {
	case NameSelect:
		return NewSelect(), nil
	case NameRectangle:
		return newBox(NameRectangle, shape.KindRectangle), nil
	case NameEllipse:
		return newBox(NameEllipse, shape.KindEllipse), nil
	case NameLine:
		return newLine(), nil
	case NameFreedraw:
		return newFreedraw(), nil
	case NameText:
		return newText(), nil
	}
	return nil, fmt.Errorf("tool %q: %w", name, apperr.ErrInvalidConfig)
}

// classifyCommon maps the events every tool treats alike. Pointer-down is
// left to the tool.
func classifyCommon(ev input.Event) Trigger {
	switch ev.Kind {
	case input.PointerMove:
		return TriggerMove
	case input.PointerUp:
		return TriggerUp
	case input.KeyDown:
		switch ev.Key {
		case input.KeyEscape:
			return TriggerEscape
		case input.KeyDelete, input.KeyBackspace:
			return TriggerDelete
		case input.KeyEnter:
			return TriggerEnter
		}
	}
	return TriggerNone
}
