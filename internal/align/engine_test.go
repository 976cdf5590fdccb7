package align

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"LocalBoard/internal/apperr"
	"LocalBoard/internal/geom"
	"LocalBoard/internal/input"
	"LocalBoard/internal/shape"
)

func box(id string, x, y, w, h float64) shape.Shape {
	return shape.Shape{ID: id, Kind: shape.KindRectangle, X: x, Y: y, Width: w, Height: h, Opacity: 1}
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func opts(threshold float64) Options {
	o := DefaultOptions()
	o.SnapThreshold = threshold
	return o
}

func TestSnapLeftEdges(t *testing.T) {
	e := newEngine(t)
	others := []shape.Shape{box("other", 100, 0, 50, 50)}
	req := Request{
		MovingIDs: []string{"moving"},
		Bounds:    geom.Rect{X: 103, Y: 300, Width: 50, Height: 50},
		Options:   opts(5),
	}

	res := e.Snap(req, others)
	if !res.DidSnap || !res.SnappedX || res.SnappedY {
		t.Fatalf("snap flags = %+v", res)
	}
	if res.Position.X != 100 {
		t.Errorf("x = %v, want exactly 100", res.Position.X)
	}
	if res.Position.Y != 300 {
		t.Errorf("y = %v, want 300", res.Position.Y)
	}
	if len(res.Guides) != 1 {
		t.Fatalf("guides = %+v", res.Guides)
	}
	g := res.Guides[0]
	if g.Type != Vertical || g.Position != 100 {
		t.Errorf("guide = %+v", g)
	}
	if len(g.AlignedShapes) != 2 || g.AlignedShapes[0] != "moving" || g.AlignedShapes[1] != "other" {
		t.Errorf("aligned = %v", g.AlignedShapes)
	}
	if g.Start > 0 || g.End < 350 {
		t.Errorf("guide span %v..%v does not cover both shapes", g.Start, g.End)
	}
}

func TestNoSnapBeyondThreshold(t *testing.T) {
	e := newEngine(t)
	others := []shape.Shape{box("other", 100, 0, 50, 50)}
	req := Request{Bounds: geom.Rect{X: 103, Y: 300, Width: 50, Height: 50}, Options: opts(2)}

	res := e.Snap(req, others)
	if res.DidSnap || len(res.Guides) != 0 {
		t.Fatalf("unexpected snap: %+v", res)
	}
	if res.Position != (r2.Vec{X: 103, Y: 300}) {
		t.Errorf("position changed: %v", res.Position)
	}
}

func TestShortCircuit(t *testing.T) {
	others := []shape.Shape{box("other", 100, 0, 50, 50)}
	base := Request{Bounds: geom.Rect{X: 101, Y: 1, Width: 50, Height: 50}, Options: opts(5)}

	disabledCfg := DefaultConfig()
	disabledCfg.Enabled = false
	off, _ := NewEngine(disabledCfg)

	snapOff := base
	snapOff.Options.SnapEnabled = false

	withDisableKey := base
	withDisableKey.Modifiers = input.Modifiers{Alt: true}

	tests := []struct {
		name string
		e    *Engine
		req  Request
	}{
		{"config disabled", off, base},
		{"snapEnabled false", newEngine(t), snapOff},
		{"disable modifier", newEngine(t), withDisableKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.e.Snap(tt.req, others)
			if res.DidSnap || len(res.Guides) != 0 || res.Bounds != tt.req.Bounds {
				t.Errorf("expected passthrough, got %+v", res)
			}
		})
	}
}

func TestStrongSnap(t *testing.T) {
	e := newEngine(t)
	others := []shape.Shape{box("other", 100, 0, 50, 50)}
	o := opts(2)
	o.StrongSnapThreshold = 8
	req := Request{Bounds: geom.Rect{X: 106, Y: 300, Width: 50, Height: 50}, Options: o}

	if res := e.Snap(req, others); res.DidSnap {
		t.Fatalf("normal threshold should not snap: %+v", res)
	}
	req.Options.IsStrongSnap = true
	if res := e.Snap(req, others); !res.DidSnap || res.Position.X != 100 {
		t.Fatalf("isStrongSnap: %+v", res)
	}
	req.Options.IsStrongSnap = false
	req.Modifiers = input.Modifiers{Ctrl: true}
	if res := e.Snap(req, others); !res.DidSnap || res.Position.X != 100 {
		t.Fatalf("strong modifier: %+v", res)
	}
}

func TestIndependentAxes(t *testing.T) {
	e := newEngine(t)
	others := []shape.Shape{
		box("col", 200, 500, 40, 40),
		box("row", 500, 100, 40, 40),
	}
	req := Request{Bounds: geom.Rect{X: 202, Y: 97, Width: 40, Height: 40}, Options: opts(5)}
	res := e.Snap(req, others)
	if !res.SnappedX || !res.SnappedY {
		t.Fatalf("flags = %+v", res)
	}
	if res.Position != (r2.Vec{X: 200, Y: 100}) {
		t.Errorf("position = %v", res.Position)
	}
	if len(res.Guides) != 2 || res.Guides[0].Type != Vertical || res.Guides[1].Type != Horizontal {
		t.Errorf("guides = %+v", res.Guides)
	}
}

func TestClosestWinsThenFirstEncountered(t *testing.T) {
	e := newEngine(t)
	// Moving left edge at 100: "far" is 4 away, "near" is 1 away.
	others := []shape.Shape{
		box("far", 96, 500, 100, 10),
		box("near", 99, 800, 100, 10),
	}
	req := Request{Bounds: geom.Rect{X: 100, Y: 0, Width: 30, Height: 30}, Options: opts(5)}
	if res := e.Snap(req, others); res.Position.X != 99 {
		t.Errorf("closest: x = %v, want 99", res.Position.X)
	}

	// Equal distances: the shape enumerated first wins.
	tied := []shape.Shape{
		box("first", 97, 500, 100, 10),
		box("second", 103, 800, 100, 10),
	}
	if res := e.Snap(req, tied); res.Position.X != 97 {
		t.Errorf("tie: x = %v, want 97", res.Position.X)
	}
}

func TestInvalidCandidatesSkipped(t *testing.T) {
	e := newEngine(t)
	point := box("point", 100, 0, 0, 0)
	flat := box("flat", 100, 0, 0, 50)
	rule := shape.Shape{ID: "rule", Kind: shape.KindLine, X: 0, Y: 302, X2: 500, Y2: 302, Opacity: 1}
	nan := box("nan", math.NaN(), 0, 10, 10)
	bad := shape.Shape{ID: "bad", Kind: "blob"}
	good := box("good", 50, 0, 10, 10)

	ix := e.Index([]shape.Shape{point, flat, rule, nan, bad, good}, Request{})
	if got := ix.Skipped(); len(got) != 5 {
		t.Errorf("skipped = %v", got)
	}
	req := Request{Bounds: geom.Rect{X: 101, Y: 300, Width: 10, Height: 10}, Options: opts(5)}
	if res := e.SnapIndexed(req, ix); res.DidSnap {
		t.Errorf("snapped to a skipped candidate: %+v", res)
	}
	req.Bounds.X = 52
	if res := e.SnapIndexed(req, ix); res.Position.X != 50 {
		t.Errorf("valid candidate ignored: %+v", res)
	}
}

func TestExcludedShapesIgnored(t *testing.T) {
	e := newEngine(t)
	others := []shape.Shape{box("self", 100, 0, 50, 50), box("sel", 100, 100, 50, 50)}
	o := opts(5)
	o.ExcludeShapeIDs = []string{"sel"}
	req := Request{MovingIDs: []string{"self"}, Bounds: geom.Rect{X: 103, Y: 300, Width: 50, Height: 50}, Options: o}
	if res := e.Snap(req, others); res.DidSnap {
		t.Errorf("excluded shapes produced a snap: %+v", res)
	}
}

func TestSnapResizeMovesOnlyDraggedEdge(t *testing.T) {
	e := newEngine(t)
	others := []shape.Shape{box("other", 0, 0, 200, 150)}
	req := Request{
		Bounds:  geom.Rect{X: 50, Y: 20, Width: 147, Height: 64},
		Edges:   EdgeRight | EdgeBottom,
		Options: opts(5),
	}
	res := e.Snap(req, others)
	if !res.SnappedX {
		t.Fatalf("right edge did not snap: %+v", res)
	}
	want := geom.Rect{X: 50, Y: 20, Width: 150, Height: 64}
	if res.Bounds != want {
		t.Errorf("bounds = %+v, want %+v", res.Bounds, want)
	}
	if res.SnappedY {
		t.Errorf("bottom edge at 84 should stay put")
	}
}

func TestIndexMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var shapes []shape.Shape
	for i := 0; i < 60; i++ {
		shapes = append(shapes, box(fmt.Sprintf("s%d", i), float64(rng.Intn(1000)), float64(rng.Intn(1000)), float64(1+rng.Intn(80)), float64(1+rng.Intn(80))))
	}
	ix := NewIndex(shapes, nil, nil)
	for i := 0; i < 200; i++ {
		c := float64(rng.Intn(1100))
		const thr = 6
		got := len(ix.within(AxisX, c, thr))
		want := 0
		for _, sh := range shapes {
			b, _ := sh.Bounds()
			for _, p := range Points(b, sh.ID) {
				if p.Type.Axis() == AxisX && math.Abs(p.Coord()-c) <= thr {
					want++
				}
			}
		}
		if got != want {
			t.Fatalf("coord %v: index found %d, brute force %d", c, got, want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	cfg.SnapThreshold = -1
	if err := cfg.Validate(); !errors.Is(err, apperr.ErrInvalidConfig) {
		t.Errorf("negative threshold err = %v", err)
	}
	cfg = DefaultConfig()
	cfg.DisableModifier = "meta"
	if _, err := NewEngine(cfg); !errors.Is(err, apperr.ErrInvalidConfig) {
		t.Errorf("bad modifier err = %v", err)
	}
}
