// Package shape holds the whiteboard shape model: the tagged shape record,
// the ordered store that owns the document, and the selection set.
package shape

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"LocalBoard/internal/apperr"
	"LocalBoard/internal/geom"
)

// Kind is the shape variant. It is fixed once a shape is created.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindEllipse   Kind = "ellipse"
	KindLine      Kind = "line"
	KindFreedraw  Kind = "freedraw"
	KindText      Kind = "text"
)

// Kinds returns every shape kind. Tests use it to check that each kind switch
// handles all variants.
func Kinds() []Kind {
	return []Kind{KindRectangle, KindEllipse, KindLine, KindFreedraw, KindText}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindRectangle, KindEllipse, KindLine, KindFreedraw, KindText:
		return true
	}
	return false
}

// Style is the stroke and fill of a shape. Colors are CSS-style strings.
type Style struct {
	Stroke      string  `json:"stroke,omitempty" yaml:"stroke"`
	Fill        string  `json:"fill,omitempty" yaml:"fill"`
	StrokeWidth float64 `json:"stroke_width" yaml:"stroke_width"`
}

// Shape is one drawable element. Common fields apply to every kind; the
// remaining fields are read according to Kind:
//
//   - rectangle, ellipse: Width, Height
//   - line: X2, Y2 (absolute end point)
//   - freedraw: Points, relative to X, Y
//   - text: Text, FontSize, FontFamily (extent is measured)
//
// Rotation is in radians, clockwise about the center of Bounds.
type Shape struct {
	ID       string  `json:"id"`
	Kind     Kind    `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Opacity  float64 `json:"opacity"`
	Style    Style   `json:"style"`

	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	X2 float64 `json:"x2,omitempty"`
	Y2 float64 `json:"y2,omitempty"`

	Points []r2.Vec `json:"points,omitempty"`

	Text       string  `json:"text,omitempty"`
	FontSize   float64 `json:"font_size,omitempty"`
	FontFamily string  `json:"font_family,omitempty"`
}

// Clone returns a deep copy of s.
func (s Shape) Clone() Shape {
	if s.Points != nil {
		pts := make([]r2.Vec, len(s.Points))
		copy(pts, s.Points)
		s.Points = pts
	}
	return s
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func invalid(s Shape, format string, args ...any) error {
	return fmt.Errorf("shape %s (%s): %s: %w", s.ID, s.Kind, fmt.Sprintf(format, args...), apperr.ErrInvalidGeometry)
}

// Validate checks the common and kind-specific invariants.
func (s Shape) Validate() error {
	if s.ID == "" {
		return invalid(s, "empty id")
	}
	if !s.Kind.Valid() {
		return invalid(s, "unknown kind")
	}
	if !finite(s.X, s.Y, s.Rotation) {
		return invalid(s, "non-finite position or rotation")
	}
	if !finite(s.Opacity) || s.Opacity < 0 || s.Opacity > 1 {
		return invalid(s, "opacity %g outside [0,1]", s.Opacity)
	}
	if !finite(s.Style.StrokeWidth) || s.Style.StrokeWidth < 0 {
		return invalid(s, "stroke width %g", s.Style.StrokeWidth)
	}

	switch s.Kind {
	case KindRectangle, KindEllipse:
		if !finite(s.Width, s.Height) || s.Width < 0 || s.Height < 0 {
			return invalid(s, "size %gx%g", s.Width, s.Height)
		}
	case KindLine:
		if !finite(s.X2, s.Y2) {
			return invalid(s, "non-finite end point")
		}
	case KindFreedraw:
		if len(s.Points) < 2 {
			return invalid(s, "%d points, need at least 2", len(s.Points))
		}
		for _, p := range s.Points {
			if !geom.Finite(p) {
				return invalid(s, "non-finite point")
			}
		}
	case KindText:
		if s.Text == "" {
			return invalid(s, "empty text")
		}
		if !finite(s.FontSize) || s.FontSize <= 0 {
			return invalid(s, "font size %g", s.FontSize)
		}
	}
	return nil
}

// Bounds returns the unrotated axis-aligned bounds. Alignment works on these
// edges, which is an approximation for rotated shapes.
func (s Shape) Bounds() (geom.Rect, error) {
	switch s.Kind {
	case KindRectangle, KindEllipse:
		return geom.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}, nil
	case KindLine:
		return geom.RectFromPoints(r2.Vec{X: s.X, Y: s.Y}, r2.Vec{X: s.X2, Y: s.Y2}), nil
	case KindFreedraw:
		if len(s.Points) == 0 {
			return geom.Rect{}, invalid(s, "no points")
		}
		return geom.BoundingBox(s.Points).Translate(r2.Vec{X: s.X, Y: s.Y}), nil
	case KindText:
		w, h := textExtent(s.Text, s.FontSize)
		return geom.Rect{X: s.X, Y: s.Y, Width: w, Height: h}, nil
	default:
		return geom.Rect{}, invalid(s, "no bounds for kind")
	}
}

// RotatedBounds returns the axis-aligned box around the rotated shape.
func (s Shape) RotatedBounds() (geom.Rect, error) {
	b, err := s.Bounds()
	if err != nil || s.Rotation == 0 {
		return b, err
	}
	c := b.Center()
	corners := b.Corners()
	pts := make([]r2.Vec, 0, len(corners))
	for _, p := range corners {
		pts = append(pts, r2.Rotate(p, s.Rotation, c))
	}
	return geom.BoundingBox(pts), nil
}

// Translate returns a copy of s moved by (dx, dy).
func (s Shape) Translate(dx, dy float64) Shape {
	s = s.Clone()
	s.X += dx
	s.Y += dy
	if s.Kind == KindLine {
		s.X2 += dx
		s.Y2 += dy
	}
	return s
}

// Resize returns a copy of s scaled so that its bounds become b.
func (s Shape) Resize(b geom.Rect) (Shape, error) {
	old, err := s.Bounds()
	if err != nil {
		return s, err
	}
	b = b.Normalize()
	if !b.Valid() {
		return s, invalid(s, "resize to invalid bounds")
	}
	fit := func(p r2.Vec) r2.Vec {
		out := r2.Vec{X: b.X, Y: b.Y}
		if old.Width > 0 {
			out.X += (p.X - old.X) * b.Width / old.Width
		}
		if old.Height > 0 {
			out.Y += (p.Y - old.Y) * b.Height / old.Height
		}
		return out
	}

	s = s.Clone()
	switch s.Kind {
	case KindRectangle, KindEllipse:
		s.X, s.Y, s.Width, s.Height = b.X, b.Y, b.Width, b.Height
	case KindLine:
		a := fit(r2.Vec{X: s.X, Y: s.Y})
		e := fit(r2.Vec{X: s.X2, Y: s.Y2})
		s.X, s.Y, s.X2, s.Y2 = a.X, a.Y, e.X, e.Y
	case KindFreedraw:
		for i, p := range s.Points {
			abs := fit(r2.Vec{X: s.X + p.X, Y: s.Y + p.Y})
			s.Points[i] = r2.Vec{X: abs.X - b.X, Y: abs.Y - b.Y}
		}
		s.X, s.Y = b.X, b.Y
	case KindText:
		// Text keeps its aspect ratio: the font scales by the tighter axis
		// and the measured extent fits inside b, anchored at its top-left.
		if scale, ok := fitScale(old, b); ok {
			s.FontSize *= scale
		}
		s.X, s.Y = b.X, b.Y
	default:
		return s, invalid(s, "cannot resize kind")
	}
	return s, nil
}

// fitScale returns the largest factor that scales old to fit inside b.
func fitScale(old, b geom.Rect) (float64, bool) {
	var scale float64
	ok := false
	if old.Width > 0 && b.Width > 0 {
		scale, ok = b.Width/old.Width, true
	}
	if old.Height > 0 && b.Height > 0 {
		if h := b.Height / old.Height; !ok || h < scale {
			scale, ok = h, true
		}
	}
	return scale, ok
}

// MoveTo returns a copy of s translated so that the top-left of its bounds
// is p. Coordinates that define that corner are set to p exactly.
func (s Shape) MoveTo(p r2.Vec) (Shape, error) {
	b, err := s.Bounds()
	if err != nil {
		return s, err
	}
	out := s.Translate(p.X-b.X, p.Y-b.Y)
	if s.X == b.X {
		out.X = p.X
	}
	if s.Y == b.Y {
		out.Y = p.Y
	}
	if s.Kind == KindLine {
		if s.X2 == b.X {
			out.X2 = p.X
		}
		if s.Y2 == b.Y {
			out.Y2 = p.Y
		}
	}
	return out, nil
}
