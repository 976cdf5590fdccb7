package ui

import (
	"image/color"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"gonum.org/v1/gonum/spatial/r2"

	"LocalBoard/internal/align"
	"LocalBoard/internal/geom"
	"LocalBoard/internal/shape"
)

var (
	guideColor = color.NRGBA{R: 255, G: 0, B: 170, A: 255}
	bandColor  = color.NRGBA{R: 60, G: 120, B: 255, A: 60}
	selColor   = color.NRGBA{R: 60, G: 120, B: 255, A: 255}
)

// parseColor reads "#rrggbb" or "#rrggbbaa". Anything else is nil, which
// callers treat as "not painted".
func parseColor(s string) color.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 8 {
		return nil
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil
	}
	if len(s) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

func orTransparent(c color.Color) color.Color {
	if c == nil {
		return color.Transparent
	}
	return c
}

type boardRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

func newBoardRenderer(b *BoardWidget) *boardRenderer {
	r := &boardRenderer{board: b, background: canvas.NewRectangle(color.White)}
	r.Refresh()
	return r
}

func (r *boardRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *boardRenderer) Layout(size fyne.Size) { r.background.Resize(size) }

func (r *boardRenderer) MinSize() fyne.Size { return fyne.NewSize(300, 300) }

func (r *boardRenderer) Destroy() {}

// Refresh rebuilds the scene from the latest frame. Rotation is not drawn.
func (r *boardRenderer) Refresh() {
	f := r.board.currentFrame()
	cam := f.Camera
	if cam.Zoom <= 0 {
		cam.Zoom = 1
	}
	objs := []fyne.CanvasObject{r.background}
	for _, s := range f.Shapes {
		objs = append(objs, shapeObjects(s, cam)...)
	}
	if f.Draft != nil {
		objs = append(objs, shapeObjects(*f.Draft, cam)...)
	}
	for _, id := range f.Selection {
		for _, s := range f.Shapes {
			if s.ID == id {
				if b, err := s.Bounds(); err == nil {
					objs = append(objs, outline(b, cam, selColor))
				}
			}
		}
	}
	if f.RubberBand != nil {
		band := outline(*f.RubberBand, cam, selColor)
		band.FillColor = bandColor
		objs = append(objs, band)
	}
	for _, g := range f.Guides {
		objs = append(objs, guideLine(g, cam))
	}
	r.objects = objs
	canvas.Refresh(r.board)
}

func screen(p r2.Vec, cam geom.Camera) fyne.Position {
	s := geom.WorldToScreen(p, cam)
	return fyne.NewPos(float32(s.X), float32(s.Y))
}

func outline(b geom.Rect, cam geom.Camera, c color.Color) *canvas.Rectangle {
	rect := canvas.NewRectangle(color.Transparent)
	rect.StrokeColor = c
	rect.StrokeWidth = 1
	rect.Move(screen(r2.Vec{X: b.X, Y: b.Y}, cam))
	rect.Resize(fyne.NewSize(float32(b.Width*cam.Zoom), float32(b.Height*cam.Zoom)))
	return rect
}

func guideLine(g align.Guide, cam geom.Camera) *canvas.Line {
	l := canvas.NewLine(guideColor)
	l.StrokeWidth = 1
	if g.Type == align.Vertical {
		l.Position1 = screen(r2.Vec{X: g.Position, Y: g.Start}, cam)
		l.Position2 = screen(r2.Vec{X: g.Position, Y: g.End}, cam)
	} else {
		l.Position1 = screen(r2.Vec{X: g.Start, Y: g.Position}, cam)
		l.Position2 = screen(r2.Vec{X: g.End, Y: g.Position}, cam)
	}
	return l
}

func shapeObjects(s shape.Shape, cam geom.Camera) []fyne.CanvasObject {
	stroke := parseColor(s.Style.Stroke)
	if stroke == nil {
		stroke = color.Black
	}
	width := float32(s.Style.StrokeWidth * cam.Zoom)
	origin := screen(r2.Vec{X: s.X, Y: s.Y}, cam)
	size := fyne.NewSize(float32(s.Width*cam.Zoom), float32(s.Height*cam.Zoom))

	switch s.Kind {
	case shape.KindRectangle:
		rect := canvas.NewRectangle(orTransparent(parseColor(s.Style.Fill)))
		rect.StrokeColor, rect.StrokeWidth = stroke, width
		rect.Move(origin)
		rect.Resize(size)
		return []fyne.CanvasObject{rect}
	case shape.KindEllipse:
		c := canvas.NewCircle(orTransparent(parseColor(s.Style.Fill)))
		c.StrokeColor, c.StrokeWidth = stroke, width
		c.Move(origin)
		c.Resize(size)
		return []fyne.CanvasObject{c}
	case shape.KindLine:
		l := canvas.NewLine(stroke)
		l.StrokeWidth = width
		l.Position1 = origin
		l.Position2 = screen(r2.Vec{X: s.X2, Y: s.Y2}, cam)
		return []fyne.CanvasObject{l}
	case shape.KindFreedraw:
		var out []fyne.CanvasObject
		for i := 1; i < len(s.Points); i++ {
			l := canvas.NewLine(stroke)
			l.StrokeWidth = width
			l.Position1 = screen(r2.Add(s.Points[i-1], r2.Vec{X: s.X, Y: s.Y}), cam)
			l.Position2 = screen(r2.Add(s.Points[i], r2.Vec{X: s.X, Y: s.Y}), cam)
			out = append(out, l)
		}
		return out
	case shape.KindText:
		t := canvas.NewText(s.Text, stroke)
		t.TextSize = float32(s.FontSize * cam.Zoom)
		t.Move(origin)
		return []fyne.CanvasObject{t}
	}
	return nil
}

var _ fyne.WidgetRenderer = (*boardRenderer)(nil)
