package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"LocalBoard/internal/apperr"
)

// Camera maps world space to screen space. X and Y are the world position of
// the viewport origin and Zoom is the scale factor.
type Camera struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// NewCamera returns a camera after checking that zoom is a finite positive number.
func NewCamera(x, y, zoom float64) (Camera, error) {
	c := Camera{X: x, Y: y, Zoom: zoom}
	if err := c.Validate(); err != nil {
		return Camera{}, err
	}
	return c, nil
}

// Validate rejects zoom <= 0 and non-finite components.
func (c Camera) Validate() error {
	if !Finite(r2.Vec{X: c.X, Y: c.Y}) || math.IsNaN(c.Zoom) || math.IsInf(c.Zoom, 0) {
		return fmt.Errorf("camera (%g, %g, %g): %w", c.X, c.Y, c.Zoom, apperr.ErrInvalidConfig)
	}
	if c.Zoom <= 0 {
		return fmt.Errorf("camera zoom %g must be > 0: %w", c.Zoom, apperr.ErrInvalidConfig)
	}
	return nil
}

// Offset returns the camera position as a vector.
func (c Camera) Offset() r2.Vec {
	return r2.Vec{X: c.X, Y: c.Y}
}

// ScreenToWorld converts a screen point to world space: screen / zoom + offset.
func ScreenToWorld(p r2.Vec, c Camera) r2.Vec {
	return r2.Add(r2.Scale(1/c.Zoom, p), c.Offset())
}

// WorldToScreen converts a world point to screen space: (world - offset) * zoom.
func WorldToScreen(p r2.Vec, c Camera) r2.Vec {
	return r2.Scale(c.Zoom, r2.Sub(p, c.Offset()))
}

// ScreenDistanceToWorld converts a pixel distance to world units.
func ScreenDistanceToWorld(d float64, c Camera) float64 {
	return d / c.Zoom
}

// Pan moves the camera by a screen-space delta, so dragging the canvas right
// by dx pixels shows content further to the left.
func (c Camera) Pan(dx, dy float64) Camera {
	c.X -= dx / c.Zoom
	c.Y -= dy / c.Zoom
	return c
}

// ZoomAt changes the zoom while keeping the world point under the screen
// anchor in place.
func (c Camera) ZoomAt(anchor r2.Vec, zoom float64) (Camera, error) {
	next := Camera{X: c.X, Y: c.Y, Zoom: zoom}
	if err := next.Validate(); err != nil {
		return c, err
	}
	world := ScreenToWorld(anchor, c)
	next.X = world.X - anchor.X/zoom
	next.Y = world.Y - anchor.Y/zoom
	return next, nil
}

// ClampZoom limits zoom to [lo, hi].
func ClampZoom(zoom, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, zoom))
}
