package shape

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"LocalBoard/internal/geom"
)

// Query returns the shapes whose rotated bounds intersect r, in z-order.
func (s *Store) Query(r geom.Rect) []Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Shape
	for _, id := range s.order {
		sh := s.shapes[id]
		b, err := sh.RotatedBounds()
		if err != nil {
			continue
		}
		if b.Intersects(r) {
			out = append(out, sh.Clone())
		}
	}
	return out
}

// HitTest returns the topmost shape under p, within tolerance world units.
func (s *Store) HitTest(p r2.Vec, tolerance float64) (Shape, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.order) - 1; i >= 0; i-- {
		sh := s.shapes[s.order[i]]
		if sh.Contains(p, tolerance) {
			return sh.Clone(), true
		}
	}
	return Shape{}, false
}

// Contains reports whether p is on the shape, within tolerance. The point is
// rotated into the shape's unrotated frame first.
func (s Shape) Contains(p r2.Vec, tolerance float64) bool {
	b, err := s.Bounds()
	if err != nil {
		return false
	}
	if s.Rotation != 0 {
		p = r2.Rotate(p, -s.Rotation, b.Center())
	}
	reach := tolerance + s.Style.StrokeWidth/2

	switch s.Kind {
	case KindRectangle, KindText:
		return b.Inflate(reach).Contains(p)
	case KindEllipse:
		c := b.Center()
		rx, ry := b.Width/2+reach, b.Height/2+reach
		if rx <= 0 || ry <= 0 {
			return false
		}
		dx, dy := (p.X-c.X)/rx, (p.Y-c.Y)/ry
		return dx*dx+dy*dy <= 1
	case KindLine:
		return segmentDistance(p, r2.Vec{X: s.X, Y: s.Y}, r2.Vec{X: s.X2, Y: s.Y2}) <= reach
	case KindFreedraw:
		if !b.Inflate(reach).Contains(p) {
			return false
		}
		origin := r2.Vec{X: s.X, Y: s.Y}
		for i := 1; i < len(s.Points); i++ {
			a := r2.Add(origin, s.Points[i-1])
			e := r2.Add(origin, s.Points[i])
			if segmentDistance(p, a, e) <= reach {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// segmentDistance returns the distance from p to the segment a-b.
func segmentDistance(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	l2 := r2.Dot(ab, ab)
	if l2 == 0 {
		return r2.Norm(r2.Sub(p, a))
	}
	t := math.Max(0, math.Min(1, r2.Dot(r2.Sub(p, a), ab)/l2))
	proj := r2.Add(a, r2.Scale(t, ab))
	return r2.Norm(r2.Sub(p, proj))
}
