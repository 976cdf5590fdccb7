package tool

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"LocalBoard/internal/align"
	"LocalBoard/internal/geom"
	"LocalBoard/internal/input"
	"LocalBoard/internal/shape"
)

// Handle is a resize grip on a corner of the selected shape's bounds.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTopRight
	HandleBottomRight
	HandleBottomLeft
)

// HandleAt returns the corner handle of b under p, if any, and the opposite
// corner that stays fixed while it is dragged.
func HandleAt(b geom.Rect, p r2.Vec, size float64) (Handle, r2.Vec) {
	corners := b.Corners()
	half := size / 2
	for i, c := range corners {
		if math.Abs(p.X-c.X) <= half && math.Abs(p.Y-c.Y) <= half {
			return Handle(i + 1), corners[(i+2)%4]
		}
	}
	return HandleNone, r2.Vec{}
}

// Selector is the select tool: rubber-band selection, dragging selected
// shapes, corner resize, and deletion.
type Selector struct {
	m machine

	// prior is the selection before the operation, restored on Escape.
	prior  []string
	origin r2.Vec
	band   *geom.Rect

	// originals are the shapes as they were when a drag or resize began.
	originals []shape.Shape
	anchor    r2.Vec

	// set by classify for the transition that follows.
	hit    string
	handle Handle
}

// NewSelect returns an idle select tool.
func NewSelect() *Selector {
	t := &Selector{}
	t.m = newMachine(map[key]Transition{
		{StateIdle, TriggerDownEmpty}:   {StateSelecting, t.beginBand},
		{StateSelecting, TriggerMove}:   {StateSelecting, t.updateBand},
		{StateSelecting, TriggerUp}:     {StateIdle, t.commitBand},
		{StateSelecting, TriggerEscape}: {StateCancelled, t.cancelBand},

		{StateIdle, TriggerDownShape}:  {StateDragging, t.beginDrag},
		{StateDragging, TriggerMove}:   {StateDragging, t.drag},
		{StateDragging, TriggerUp}:     {StateIdle, t.endDrag},
		{StateDragging, TriggerEscape}: {StateCancelled, t.restore},

		{StateIdle, TriggerDownHandle}: {StateResizing, t.beginResize},
		{StateResizing, TriggerMove}:   {StateResizing, t.resize},
		{StateResizing, TriggerUp}:     {StateIdle, t.endResize},
		{StateResizing, TriggerEscape}: {StateCancelled, t.restore},

		{StateIdle, TriggerDelete}: {StateIdle, t.deleteSelected},
		{StateIdle, TriggerEscape}: {StateIdle, t.clearSelection},
	})
	return t
}

func (t *Selector) Name() Name { return NameSelect }

func (t *Selector) State() State { return t.m.state }

func (t *Selector) Cancel() []Intent { return t.m.cancel() }

func (t *Selector) Preview() Preview {
	if t.band == nil {
		return Preview{}
	}
	b := *t.band
	return Preview{RubberBand: &b}
}

func (t *Selector) Handle(ev input.Event, env Env) Step {
	return t.m.fire(t.classify(ev, env), ev, env)
}

// classify splits pointer-down into handle, shape, or empty canvas.
func (t *Selector) classify(ev input.Event, env Env) Trigger {
	if ev.Kind != input.PointerDown {
		return classifyCommon(ev)
	}
	if t.m.state != StateIdle {
		return TriggerDownEmpty
	}
	t.hit, t.handle = "", HandleNone
	if env.Shapes == nil {
		return TriggerDownEmpty
	}
	if len(env.Selected) == 1 {
		if s, err := env.Shapes.Get(env.Selected[0]); err == nil {
			if b, err := s.Bounds(); err == nil {
				if h, anchor := HandleAt(b, ev.World, env.Settings.HandleSize); h != HandleNone {
					t.hit, t.handle, t.anchor = s.ID, h, anchor
					return TriggerDownHandle
				}
			}
		}
	}
	if s, ok := env.Shapes.HitTest(ev.World, env.Settings.HitTolerance); ok {
		t.hit = s.ID
		return TriggerDownShape
	}
	return TriggerDownEmpty
}

func (t *Selector) beginBand(ev input.Event, env Env) []Intent {
	t.prior = slices.Clone(env.Selected)
	t.origin = ev.World
	band := geom.Rect{X: ev.World.X, Y: ev.World.Y}
	t.band = &band
	if ev.Modifiers.Shift {
		return nil
	}
	return []Intent{Select()}
}

func (t *Selector) updateBand(ev input.Event, env Env) []Intent {
	band := geom.RectFromPoints(t.origin, ev.World)
	t.band = &band

	var ids []string
	if ev.Modifiers.Shift {
		ids = slices.Clone(t.prior)
	}
	if env.Shapes != nil {
		for _, s := range env.Shapes.Query(band) {
			if !slices.Contains(ids, s.ID) {
				ids = append(ids, s.ID)
			}
		}
	}
	return []Intent{Select(ids...)}
}

func (t *Selector) commitBand(ev input.Event, env Env) []Intent {
	intents := t.updateBand(ev, env)
	t.band = nil
	t.prior = nil
	return append(intents, Commit())
}

func (t *Selector) cancelBand(input.Event, Env) []Intent {
	prior := t.prior
	t.band = nil
	t.prior = nil
	return []Intent{Select(prior...)}
}

func (t *Selector) beginDrag(ev input.Event, env Env) []Intent {
	t.prior = slices.Clone(env.Selected)
	sel := slices.Clone(env.Selected)
	switch {
	case slices.Contains(sel, t.hit):
	case ev.Modifiers.Shift:
		sel = append(sel, t.hit)
	default:
		sel = []string{t.hit}
	}
	t.origin = ev.World
	t.originals = t.originals[:0]
	for _, id := range sel {
		if s, err := env.Shapes.Get(id); err == nil {
			t.originals = append(t.originals, s)
		}
	}
	return []Intent{Select(sel...)}
}

func (t *Selector) drag(ev input.Event, _ Env) []Intent {
	if len(t.originals) == 0 {
		return nil
	}
	return []Intent{Move(slices.Clone(t.originals), r2.Sub(ev.World, t.origin))}
}

func (t *Selector) endDrag(ev input.Event, env Env) []Intent {
	intents := append(t.drag(ev, env), Commit())
	t.originals, t.prior = nil, nil
	return intents
}

// restore puts the shapes and the selection back as they were when the
// drag or resize began.
func (t *Selector) restore(input.Event, Env) []Intent {
	originals, prior := t.originals, t.prior
	t.originals, t.prior = nil, nil
	var intents []Intent
	if len(originals) > 0 {
		intents = append(intents, Restore(originals...))
	}
	return append(intents, Select(prior...))
}

func (t *Selector) beginResize(_ input.Event, env Env) []Intent {
	t.prior = slices.Clone(env.Selected)
	t.originals = t.originals[:0]
	if s, err := env.Shapes.Get(t.hit); err == nil {
		t.originals = append(t.originals, s)
	}
	return nil
}

// resize spans the fixed anchor and the pointer. The dragged edges follow
// the pointer even when it crosses the anchor.
func (t *Selector) resize(ev input.Event, _ Env) []Intent {
	if len(t.originals) == 0 {
		return nil
	}
	p := ev.World
	edges := align.EdgeRight
	if p.X < t.anchor.X {
		edges = align.EdgeLeft
	}
	if p.Y < t.anchor.Y {
		edges |= align.EdgeTop
	} else {
		edges |= align.EdgeBottom
	}
	return []Intent{Resize(t.originals[0], geom.RectFromPoints(t.anchor, p), edges)}
}

func (t *Selector) endResize(ev input.Event, env Env) []Intent {
	intents := append(t.resize(ev, env), Commit())
	t.originals, t.prior = nil, nil
	return intents
}

func (t *Selector) deleteSelected(_ input.Event, env Env) []Intent {
	if len(env.Selected) == 0 {
		return nil
	}
	return []Intent{Delete(slices.Clone(env.Selected)...)}
}

func (t *Selector) clearSelection(_ input.Event, env Env) []Intent {
	if len(env.Selected) == 0 {
		return nil
	}
	return []Intent{Select()}
}
