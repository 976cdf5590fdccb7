// Package align computes snapped positions and alignment guides for shapes
// being dragged or resized.
package align

import (
	"LocalBoard/internal/geom"
)

// PointType names the edge or center an alignment point stands for.
type PointType string

const (
	Left             PointType = "left"
	Right            PointType = "right"
	CenterVertical   PointType = "center-vertical"
	Top              PointType = "top"
	Bottom           PointType = "bottom"
	CenterHorizontal PointType = "center-horizontal"
)

// Axis is the coordinate a point type is compared on.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Axis returns AxisX for left, right and center-vertical, AxisY otherwise.
func (t PointType) Axis() Axis {
	switch t {
	case Left, Right, CenterVertical:
		return AxisX
	}
	return AxisY
}

// pointOrder is the enumeration order used for tie-breaking.
var pointOrder = [...]PointType{Left, Right, CenterVertical, Top, Bottom, CenterHorizontal}

// Point is one candidate alignment point of a shape.
type Point struct {
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Type    PointType `json:"type"`
	ShapeID string    `json:"shape_id"`
}

// Coord returns the coordinate compared during alignment.
func (p Point) Coord() float64 {
	if p.Type.Axis() == AxisX {
		return p.X
	}
	return p.Y
}

// Points returns the six alignment points of b in enumeration order.
func Points(b geom.Rect, shapeID string) []Point {
	c := b.Center()
	out := make([]Point, 0, len(pointOrder))
	for _, t := range pointOrder {
		p := Point{Type: t, ShapeID: shapeID}
		switch t {
		case Left:
			p.X, p.Y = b.Left(), c.Y
		case Right:
			p.X, p.Y = b.Right(), c.Y
		case CenterVertical:
			p.X, p.Y = c.X, c.Y
		case Top:
			p.X, p.Y = c.X, b.Top()
		case Bottom:
			p.X, p.Y = c.X, b.Bottom()
		case CenterHorizontal:
			p.X, p.Y = c.X, c.Y
		}
		out = append(out, p)
	}
	return out
}

// EdgeSet selects which moving points take part in a snap. The zero value
// means every point and a translating move.
type EdgeSet uint8

const (
	EdgeLeft EdgeSet = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

func (e EdgeSet) has(t PointType) bool {
	switch t {
	case Left:
		return e&EdgeLeft != 0
	case Right:
		return e&EdgeRight != 0
	case Top:
		return e&EdgeTop != 0
	case Bottom:
		return e&EdgeBottom != 0
	}
	return false
}
