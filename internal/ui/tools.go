package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"LocalBoard/internal/board"
	"LocalBoard/internal/tool"
)

var palette = []color.NRGBA{
	{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff},
	{R: 0xe0, G: 0x31, B: 0x31, A: 0xff},
	{R: 0x2f, G: 0x9e, B: 0x44, A: 0xff},
	{R: 0x19, G: 0x71, B: 0xc2, A: 0xff},
	{R: 0xf0, G: 0x8c, B: 0x00, A: 0xff},
}

// colorHex formats c as "#rrggbb", the form parseColor reads back.
func colorHex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// updateSettings applies fn to the current tool settings on the loop.
func updateSettings(loop *board.Loop, fn func(*tool.Settings)) error {
	var err error
	if doErr := loop.Do(func(c *board.Controller) {
		s := c.ToolSettings()
		fn(&s)
		err = c.SetToolSettings(s)
	}); doErr != nil {
		return doErr
	}
	return err
}

// NewToolbar builds the tool picker, the stroke palette and the stroke
// width slider for b.
func NewToolbar(b *BoardWidget) fyne.CanvasObject {
	tools := container.NewHBox()
	for _, name := range tool.Names() {
		tools.Add(widget.NewButton(string(name), func() { b.SetTool(name) }))
	}

	report := func(err error) {
		if err != nil {
			b.SetStatus(err.Error())
		}
	}

	colors := container.NewHBox()
	for _, c := range palette {
		colors.Add(newColorSwatch(c, func(c color.Color) {
			report(updateSettings(b.loop, func(s *tool.Settings) { s.Style.Stroke = colorHex(c) }))
		}))
	}

	stroke := widget.NewSlider(1, 50)
	stroke.SetValue(tool.DefaultSettings().Style.StrokeWidth)
	stroke.OnChangeEnded = func(v float64) {
		report(updateSettings(b.loop, func(s *tool.Settings) { s.Style.StrokeWidth = v }))
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), stroke)

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		tools,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colors,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		layout.NewSpacer(),
	)
}
