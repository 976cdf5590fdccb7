package shape

import "gonum.org/v1/gonum/spatial/r2"

// Patch is a partial update. Nil fields are left unchanged. ID and Kind are
// not part of a patch because neither may change after creation.
type Patch struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	Opacity  *float64 `json:"opacity,omitempty"`
	Style    *Style   `json:"style,omitempty"`

	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`

	X2 *float64 `json:"x2,omitempty"`
	Y2 *float64 `json:"y2,omitempty"`

	Points []r2.Vec `json:"points,omitempty"`

	Text       *string  `json:"text,omitempty"`
	FontSize   *float64 `json:"font_size,omitempty"`
	FontFamily *string  `json:"font_family,omitempty"`
}

// Float returns a pointer to v, for building patches.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v, for building patches.
func String(v string) *string { return &v }

// applyTo returns a copy of s with the patch applied. Fields that do not
// belong to the shape's kind are rejected.
func (p Patch) applyTo(s Shape) (Shape, error) {
	s = s.Clone()
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&s.X, p.X)
	set(&s.Y, p.Y)
	set(&s.Rotation, p.Rotation)
	set(&s.Opacity, p.Opacity)
	if p.Style != nil {
		s.Style = *p.Style
	}

	sized := p.Width != nil || p.Height != nil
	ended := p.X2 != nil || p.Y2 != nil
	texted := p.Text != nil || p.FontSize != nil || p.FontFamily != nil

	switch s.Kind {
	case KindRectangle, KindEllipse:
		if ended || texted || p.Points != nil {
			return s, invalid(s, "patch sets fields of another kind")
		}
		set(&s.Width, p.Width)
		set(&s.Height, p.Height)
	case KindLine:
		if sized || texted || p.Points != nil {
			return s, invalid(s, "patch sets fields of another kind")
		}
		set(&s.X2, p.X2)
		set(&s.Y2, p.Y2)
	case KindFreedraw:
		if sized || ended || texted {
			return s, invalid(s, "patch sets fields of another kind")
		}
		if p.Points != nil {
			s.Points = append([]r2.Vec(nil), p.Points...)
		}
	case KindText:
		if sized || ended || p.Points != nil {
			return s, invalid(s, "patch sets fields of another kind")
		}
		set(&s.FontSize, p.FontSize)
		if p.Text != nil {
			s.Text = *p.Text
		}
		if p.FontFamily != nil {
			s.FontFamily = *p.FontFamily
		}
	default:
		return s, invalid(s, "cannot patch kind")
	}
	return s, nil
}
