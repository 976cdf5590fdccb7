package geom

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"

	"LocalBoard/internal/apperr"
)

const tol = 1e-9

func vecEqual(a, b r2.Vec) bool {
	return scalar.EqualWithinAbsOrRel(a.X, b.X, tol, tol) &&
		scalar.EqualWithinAbsOrRel(a.Y, b.Y, tol, tol)
}

func TestScreenWorldRoundTrip(t *testing.T) {
	cameras := []Camera{
		{X: 0, Y: 0, Zoom: 1},
		{X: 120.5, Y: -40, Zoom: 2},
		{X: -1e4, Y: 3e3, Zoom: 0.1},
		{X: 7, Y: 7, Zoom: 10},
		{X: 0.333, Y: 0.777, Zoom: 1.25},
	}
	points := []r2.Vec{
		{X: 0, Y: 0},
		{X: 100, Y: 200},
		{X: -55.5, Y: 12.25},
		{X: 1e6, Y: -1e6},
	}
	for _, c := range cameras {
		for _, p := range points {
			if got := ScreenToWorld(WorldToScreen(p, c), c); !vecEqual(got, p) {
				t.Errorf("camera %+v: screenToWorld(worldToScreen(%v)) = %v", c, p, got)
			}
			if got := WorldToScreen(ScreenToWorld(p, c), c); !vecEqual(got, p) {
				t.Errorf("camera %+v: worldToScreen(screenToWorld(%v)) = %v", c, p, got)
			}
		}
	}
}

func TestScreenToWorldFormula(t *testing.T) {
	c := Camera{X: 10, Y: 20, Zoom: 2}
	got := ScreenToWorld(r2.Vec{X: 100, Y: 50}, c)
	want := r2.Vec{X: 60, Y: 45}
	if !vecEqual(got, want) {
		t.Fatalf("ScreenToWorld = %v, want %v", got, want)
	}
}

func TestNewCameraRejectsBadZoom(t *testing.T) {
	for _, zoom := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewCamera(0, 0, zoom); !errors.Is(err, apperr.ErrInvalidConfig) {
			t.Errorf("zoom %v: err = %v, want ErrInvalidConfig", zoom, err)
		}
	}
	if _, err := NewCamera(1, 2, 0.5); err != nil {
		t.Fatalf("valid camera rejected: %v", err)
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	c := Camera{X: 30, Y: -10, Zoom: 1.5}
	anchor := r2.Vec{X: 400, Y: 300}
	before := ScreenToWorld(anchor, c)

	next, err := c.ZoomAt(anchor, 3)
	if err != nil {
		t.Fatal(err)
	}
	if next.Zoom != 3 {
		t.Fatalf("zoom = %v, want 3", next.Zoom)
	}
	if after := ScreenToWorld(anchor, next); !vecEqual(before, after) {
		t.Errorf("anchor moved from %v to %v", before, after)
	}

	if _, err := c.ZoomAt(anchor, 0); !errors.Is(err, apperr.ErrInvalidConfig) {
		t.Errorf("zoom 0 err = %v", err)
	}
}

func TestPan(t *testing.T) {
	c := Camera{Zoom: 2}.Pan(20, -10)
	if c.X != -10 || c.Y != 5 {
		t.Fatalf("pan = %+v", c)
	}
}

func TestClampZoom(t *testing.T) {
	if got := ClampZoom(50, 0.1, 10); got != 10 {
		t.Errorf("clamp high = %v", got)
	}
	if got := ClampZoom(0.01, 0.1, 10); got != 0.1 {
		t.Errorf("clamp low = %v", got)
	}
}
