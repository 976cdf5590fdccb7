package shape

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"

	"LocalBoard/internal/apperr"
	"LocalBoard/internal/geom"
)

func sample(k Kind) Shape {
	s := Shape{ID: "s-" + string(k), Kind: k, X: 10, Y: 20, Opacity: 1, Style: Style{Stroke: "black", StrokeWidth: 2}}
	switch k {
	case KindRectangle, KindEllipse:
		s.Width, s.Height = 30, 40
	case KindLine:
		s.X2, s.Y2 = 40, 5
	case KindFreedraw:
		s.Points = []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 5}, {X: 20, Y: 30}}
	case KindText:
		s.Text, s.FontSize = "Hello", 26
	}
	return s
}

func rectNear(a, b geom.Rect) bool {
	const tol = 1e-9
	return scalar.EqualWithinAbs(a.X, b.X, tol) && scalar.EqualWithinAbs(a.Y, b.Y, tol) &&
		scalar.EqualWithinAbs(a.Width, b.Width, tol) && scalar.EqualWithinAbs(a.Height, b.Height, tol)
}

// Every kind must be handled by Validate, Bounds, Resize and Contains.
func TestEveryKindHandled(t *testing.T) {
	for _, k := range Kinds() {
		t.Run(string(k), func(t *testing.T) {
			s := sample(k)
			if err := s.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			b, err := s.Bounds()
			if err != nil {
				t.Fatalf("Bounds: %v", err)
			}
			if _, err := s.Resize(b.Inflate(5)); err != nil {
				t.Fatalf("Resize: %v", err)
			}
			if _, err := (Patch{X: Float(1)}).applyTo(s); err != nil {
				t.Fatalf("Patch: %v", err)
			}
			if !s.Contains(b.Center(), 50) {
				t.Fatalf("Contains(center) = false")
			}
		})
	}
}

func TestUnknownKindRejected(t *testing.T) {
	s := Shape{ID: "x", Kind: "hexagon", Opacity: 1}
	if err := s.Validate(); !errors.Is(err, apperr.ErrInvalidGeometry) {
		t.Errorf("Validate err = %v", err)
	}
	if _, err := s.Bounds(); !errors.Is(err, apperr.ErrInvalidGeometry) {
		t.Errorf("Bounds err = %v", err)
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		kind Kind
		want geom.Rect
	}{
		{KindRectangle, geom.Rect{X: 10, Y: 20, Width: 30, Height: 40}},
		{KindLine, geom.Rect{X: 10, Y: 5, Width: 30, Height: 15}},
		{KindFreedraw, geom.Rect{X: 10, Y: 20, Width: 20, Height: 30}},
	}
	for _, tt := range tests {
		got, err := sample(tt.kind).Bounds()
		if err != nil {
			t.Fatal(err)
		}
		if !rectNear(got, tt.want) {
			t.Errorf("%s bounds = %+v, want %+v", tt.kind, got, tt.want)
		}
	}
}

func TestTextBoundsScaleWithFontSize(t *testing.T) {
	small := sample(KindText)
	small.FontSize = 13
	big := sample(KindText)
	big.FontSize = 26

	bs, _ := small.Bounds()
	bb, _ := big.Bounds()
	if bs.Width <= 0 || bs.Height <= 0 {
		t.Fatalf("text bounds empty: %+v", bs)
	}
	if !scalar.EqualWithinAbs(bb.Width, 2*bs.Width, 1e-9) {
		t.Errorf("width %v, want %v", bb.Width, 2*bs.Width)
	}

	multi := sample(KindText)
	multi.Text = "Hello\nworld"
	bm, _ := multi.Bounds()
	if !scalar.EqualWithinAbs(bm.Height, 2*bb.Height, 1e-9) {
		t.Errorf("two lines height %v, want %v", bm.Height, 2*bb.Height)
	}
}

func TestResizeTextFitsBox(t *testing.T) {
	txt := sample(KindText)
	txt.FontSize = 13
	old, _ := txt.Bounds()

	// Width allows 3x, height only 2x: the font doubles.
	box := geom.Rect{X: 5, Y: 5, Width: 3 * old.Width, Height: 2 * old.Height}
	resized, err := txt.Resize(box)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(resized.FontSize, 26, 1e-9) {
		t.Errorf("font size = %v, want 26", resized.FontSize)
	}
	got, _ := resized.Bounds()
	if got.X != 5 || got.Y != 5 || got.Width > box.Width+1e-9 || !scalar.EqualWithinAbs(got.Height, box.Height, 1e-9) {
		t.Errorf("bounds = %+v, box %+v", got, box)
	}

	// Narrowing only the width shrinks the font too.
	narrow := geom.Rect{X: 10, Y: 20, Width: old.Width / 2, Height: old.Height}
	resized, _ = txt.Resize(narrow)
	if got, _ := resized.Bounds(); !scalar.EqualWithinAbs(got.Width, narrow.Width, 1e-9) {
		t.Errorf("narrowed width = %v, want %v", got.Width, narrow.Width)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Shape)
	}{
		{"opacity above one", func(s *Shape) { s.Opacity = 1.5 }},
		{"negative width", func(s *Shape) { s.Width = -1 }},
		{"nan x", func(s *Shape) { s.X = math.NaN() }},
		{"empty id", func(s *Shape) { s.ID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sample(KindRectangle)
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, apperr.ErrInvalidGeometry) {
				t.Errorf("err = %v, want ErrInvalidGeometry", err)
			}
		})
	}

	fd := sample(KindFreedraw)
	fd.Points = fd.Points[:1]
	if err := fd.Validate(); !errors.Is(err, apperr.ErrInvalidGeometry) {
		t.Errorf("single point freedraw err = %v", err)
	}
}

func TestRotatedBounds(t *testing.T) {
	s := Shape{ID: "r", Kind: KindRectangle, Width: 20, Height: 10, Opacity: 1, Rotation: math.Pi / 2}
	got, err := s.RotatedBounds()
	if err != nil {
		t.Fatal(err)
	}
	want := geom.Rect{X: 5, Y: -5, Width: 10, Height: 20}
	if !rectNear(got, want) {
		t.Errorf("RotatedBounds = %+v, want %+v", got, want)
	}
	// Bounds stays unrotated.
	if b, _ := s.Bounds(); b != (geom.Rect{Width: 20, Height: 10}) {
		t.Errorf("Bounds = %+v", b)
	}
}

func TestTranslateMovesLineEnd(t *testing.T) {
	l := sample(KindLine).Translate(5, -5)
	if l.X != 15 || l.Y != 15 || l.X2 != 45 || l.Y2 != 0 {
		t.Errorf("translated line = %+v", l)
	}
}

func TestResizeFreedraw(t *testing.T) {
	s := sample(KindFreedraw)
	b, _ := s.Bounds()
	target := geom.Rect{X: b.X, Y: b.Y, Width: b.Width * 2, Height: b.Height}
	got, err := s.Resize(target)
	if err != nil {
		t.Fatal(err)
	}
	gb, _ := got.Bounds()
	if !rectNear(gb, target) {
		t.Errorf("resized bounds = %+v, want %+v", gb, target)
	}
	if s.Points[2].X != 20 {
		t.Error("Resize mutated the original points")
	}
}

func TestContainsLineUsesSegmentDistance(t *testing.T) {
	l := Shape{ID: "l", Kind: KindLine, X: 0, Y: 0, X2: 100, Y2: 100, Opacity: 1}
	if !l.Contains(r2.Vec{X: 50, Y: 51}, 2) {
		t.Error("point next to the line should hit")
	}
	if l.Contains(r2.Vec{X: 90, Y: 10}, 2) {
		t.Error("point inside bbox but far from the line should miss")
	}
}
