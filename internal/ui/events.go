package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"gonum.org/v1/gonum/spatial/r2"

	"LocalBoard/internal/input"
)

func modifiers(m fyne.KeyModifier) input.Modifiers {
	return input.Modifiers{
		Shift: m&fyne.KeyModifierShift != 0,
		Ctrl:  m&(fyne.KeyModifierControl|fyne.KeyModifierSuper) != 0,
		Alt:   m&fyne.KeyModifierAlt != 0,
	}
}

func vec(p fyne.Position) r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}

func pointerEvent(kind input.Kind, pos fyne.Position, m fyne.KeyModifier) input.Event {
	return input.Event{Kind: kind, Screen: vec(pos), Modifiers: modifiers(m)}
}

// wheelEvent flips fyne's scroll direction: fyne reports wheel-up as a
// positive DY, the board expects a negative Y.
func wheelEvent(ev *fyne.ScrollEvent, m fyne.KeyModifier) input.Event {
	return input.Event{
		Kind:      input.Wheel,
		Screen:    vec(ev.Position),
		Wheel:     r2.Vec{X: -float64(ev.Scrolled.DX), Y: -float64(ev.Scrolled.DY)},
		Modifiers: modifiers(m),
	}
}

func keyEvent(name fyne.KeyName, m fyne.KeyModifier) (input.Event, bool) {
	var k input.Key
	switch name {
	case fyne.KeyEscape:
		k = input.KeyEscape
	case fyne.KeyDelete:
		k = input.KeyDelete
	case fyne.KeyBackspace:
		k = input.KeyBackspace
	case fyne.KeyReturn, fyne.KeyEnter:
		k = input.KeyEnter
	default:
		return input.Event{}, false
	}
	return input.Event{Kind: input.KeyDown, Key: k, Modifiers: modifiers(m)}, true
}

// trackModifier updates the held modifier set from a desktop key event.
func trackModifier(held fyne.KeyModifier, name fyne.KeyName, down bool) fyne.KeyModifier {
	var bit fyne.KeyModifier
	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		bit = fyne.KeyModifierShift
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		bit = fyne.KeyModifierControl
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		bit = fyne.KeyModifierAlt
	case desktop.KeySuperLeft, desktop.KeySuperRight:
		bit = fyne.KeyModifierSuper
	default:
		return held
	}
	if down {
		return held | bit
	}
	return held &^ bit
}
