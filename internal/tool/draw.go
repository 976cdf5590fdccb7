package tool

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/input"
	"LocalBoard/internal/shape"
)

// drawing is shared by the tools that build one draft shape per operation.
type drawing struct {
	name   Name
	m      machine
	origin r2.Vec
	draft  *shape.Shape
}

func (d *drawing) Name() Name { return d.name }

func (d *drawing) State() State { return d.m.state }

func (d *drawing) Cancel() []Intent { return d.m.cancel() }

func (d *drawing) Preview() Preview {
	if d.draft == nil {
		return Preview{}
	}
	c := d.draft.Clone()
	return Preview{Draft: &c}
}

func (d *drawing) Handle(ev input.Event, env Env) Step {
	t := classifyCommon(ev)
	if ev.Kind == input.PointerDown {
		t = TriggerDown
	}
	return d.m.fire(t, ev, env)
}

func (d *drawing) discard(input.Event, Env) []Intent {
	d.draft = nil
	return nil
}

// table builds the common drawing table. update refreshes the draft from the
// pointer; finish returns the committed shape or false to discard it.
func (d *drawing) table(begin, update Effect, finish func(Env) (shape.Shape, bool)) map[key]Transition {
	commit := func(ev input.Event, env Env) []Intent {
		if ev.IsPointer() && update != nil {
			update(ev, env)
		}
		defer func() { d.draft = nil }()
		if d.draft == nil {
			return nil
		}
		s, ok := finish(env)
		if !ok {
			return nil
		}
		return []Intent{Create(s)}
	}
	t := map[key]Transition{
		{StateIdle, TriggerDown}:      {StateDrawing, begin},
		{StateDrawing, TriggerUp}:     {StateIdle, commit},
		{StateDrawing, TriggerEnter}:  {StateIdle, commit},
		{StateDrawing, TriggerEscape}: {StateCancelled, d.discard},
	}
	if update != nil {
		t[key{StateDrawing, TriggerMove}] = Transition{StateDrawing, update}
	}
	return t
}

// box draws rectangles and ellipses from a drag.
type box struct {
	drawing
	kind shape.Kind
}

func newBox(name Name, kind shape.Kind) *box {
	b := &box{drawing: drawing{name: name}, kind: kind}
	b.m = newMachine(b.table(b.begin, b.update, b.finish))
	return b
}

func (b *box) begin(ev input.Event, env Env) []Intent {
	b.origin = ev.World
	s := env.Settings.base(b.kind)
	s.X, s.Y = ev.World.X, ev.World.Y
	b.draft = &s
	return nil
}

func (b *box) update(ev input.Event, _ Env) []Intent {
	if b.draft == nil {
		return nil
	}
	r := geom.RectFromPoints(b.origin, ev.World)
	b.draft.X, b.draft.Y, b.draft.Width, b.draft.Height = r.X, r.Y, r.Width, r.Height
	return nil
}

func (b *box) finish(env Env) (shape.Shape, bool) {
	s := *b.draft
	return s, s.Width*s.Height >= env.Settings.MinArea
}

// line draws a straight segment.
type line struct{ drawing }

func newLine() *line {
	l := &line{drawing: drawing{name: NameLine}}
	l.m = newMachine(l.table(l.begin, l.update, l.finish))
	return l
}

func (l *line) begin(ev input.Event, env Env) []Intent {
	s := env.Settings.base(shape.KindLine)
	s.X, s.Y = ev.World.X, ev.World.Y
	s.X2, s.Y2 = ev.World.X, ev.World.Y
	l.draft = &s
	return nil
}

func (l *line) update(ev input.Event, _ Env) []Intent {
	if l.draft != nil {
		l.draft.X2, l.draft.Y2 = ev.World.X, ev.World.Y
	}
	return nil
}

func (l *line) finish(env Env) (shape.Shape, bool) {
	s := *l.draft
	return s, math.Hypot(s.X2-s.X, s.Y2-s.Y) >= env.Settings.MinLength
}

// freedraw records a pointer path. The draft keeps absolute points until
// the path is committed.
type freedraw struct{ drawing }

func newFreedraw() *freedraw {
	f := &freedraw{drawing: drawing{name: NameFreedraw}}
	f.m = newMachine(f.table(f.begin, f.update, f.finish))
	return f
}

func (f *freedraw) begin(ev input.Event, env Env) []Intent {
	s := env.Settings.base(shape.KindFreedraw)
	s.Points = []r2.Vec{ev.World}
	f.draft = &s
	return nil
}

func (f *freedraw) update(ev input.Event, _ Env) []Intent {
	if f.draft == nil || ev.Kind != input.PointerMove {
		return nil
	}
	f.draft.Points = append(f.draft.Points, ev.World)
	return nil
}

// finish rebases the path on the top-left of its bounding box.
func (f *freedraw) finish(Env) (shape.Shape, bool) {
	s := f.draft.Clone()
	if len(s.Points) < 2 {
		return s, false
	}
	b := geom.BoundingBox(s.Points)
	origin := r2.Vec{X: b.X, Y: b.Y}
	for i, p := range s.Points {
		s.Points[i] = r2.Sub(p, origin)
	}
	s.X, s.Y = origin.X, origin.Y
	return s, true
}

// text places a text shape with the default content where the pointer went
// down.
type text struct{ drawing }

func newText() *text {
	t := &text{drawing: drawing{name: NameText}}
	t.m = newMachine(t.table(t.begin, nil, t.finish))
	return t
}

func (t *text) begin(ev input.Event, env Env) []Intent {
	s := env.Settings.base(shape.KindText)
	s.X, s.Y = ev.World.X, ev.World.Y
	s.Text = env.Settings.Text
	s.FontSize = env.Settings.FontSize
	s.FontFamily = env.Settings.FontFamily
	t.draft = &s
	return nil
}

func (t *text) finish(Env) (shape.Shape, bool) {
	s := *t.draft
	return s, s.Text != "" && s.FontSize > 0
}
