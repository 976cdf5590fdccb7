// Package geom provides the camera transform and the rectangle type used by
// the shape, alignment and tool packages.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Rect is an axis-aligned rectangle in world coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromPoints returns the normalized rectangle spanned by two corners.
func RectFromPoints(a, b r2.Vec) Rect {
	return Rect{X: a.X, Y: a.Y, Width: b.X - a.X, Height: b.Y - a.Y}.Normalize()
}

// Normalize flips negative widths and heights so the rectangle keeps the same
// area with X, Y at its top-left corner.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Left returns the minimum x.
func (r Rect) Left() float64 { return r.X }

// Right returns the maximum x.
func (r Rect) Right() float64 { return r.X + r.Width }

// Top returns the minimum y.
func (r Rect) Top() float64 { return r.Y }

// Bottom returns the maximum y.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the center point of the rectangle.
func (r Rect) Center() r2.Vec {
	return r2.Vec{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Area returns width times height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// Valid reports whether every component is finite and the size is non-negative.
func (r Rect) Valid() bool {
	for _, v := range [...]float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.Width >= 0 && r.Height >= 0
}

// Degenerate reports whether the rectangle has zero area.
func (r Rect) Degenerate() bool {
	return r.Width == 0 || r.Height == 0
}

// Contains reports whether p lies inside or on the border of r.
func (r Rect) Contains(p r2.Vec) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Intersects reports whether the rectangles overlap. Touching borders count,
// so zero-height boxes (horizontal lines) can still be selected.
func (r Rect) Intersects(o Rect) bool {
	return !(r.X+r.Width < o.X || o.X+o.Width < r.X ||
		r.Y+r.Height < o.Y || o.Y+o.Height < r.Y)
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rect) Union(o Rect) Rect {
	x := math.Min(r.X, o.X)
	y := math.Min(r.Y, o.Y)
	x2 := math.Max(r.Right(), o.Right())
	y2 := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// Inflate grows the rectangle by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Translate returns the rectangle moved by v.
func (r Rect) Translate(v r2.Vec) Rect {
	r.X += v.X
	r.Y += v.Y
	return r
}

// Corners returns the four corners clockwise from the top-left.
func (r Rect) Corners() [4]r2.Vec {
	return [4]r2.Vec{
		{X: r.X, Y: r.Y},
		{X: r.Right(), Y: r.Y},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.X, Y: r.Bottom()},
	}
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
func BoundingBox(points []r2.Vec) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Finite reports whether both components of v are finite.
func Finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
