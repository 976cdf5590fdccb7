package ui

import (
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"LocalBoard/internal/board"
	"LocalBoard/internal/input"
	"LocalBoard/internal/tool"
)

// BoardWidget hosts the board in a fyne window. It forwards pointer, wheel
// and key events to the board loop and draws the frames the loop publishes.
type BoardWidget struct {
	widget.BaseWidget
	loop   *board.Loop
	logger *slog.Logger
	status *widget.Label

	mu      sync.RWMutex
	frame   board.Frame
	held    fyne.KeyModifier
	pressed bool
}

var (
	_ fyne.Widget       = (*BoardWidget)(nil)
	_ fyne.Draggable    = (*BoardWidget)(nil)
	_ fyne.Scrollable   = (*BoardWidget)(nil)
	_ desktop.Mouseable = (*BoardWidget)(nil)
	_ desktop.Hoverable = (*BoardWidget)(nil)
	_ desktop.Keyable   = (*BoardWidget)(nil)
)

// NewBoardWidget returns a widget driving loop.
func NewBoardWidget(loop *board.Loop, logger *slog.Logger) *BoardWidget {
	b := &BoardWidget{
		loop:   loop,
		logger: logger,
		status: widget.NewLabel("Ready"),
	}
	b.ExtendBaseWidget(b)
	return b
}

// Status returns the status line shown under the board.
func (b *BoardWidget) Status() *widget.Label { return b.status }

// SetFrame stores f and schedules a redraw. It may be called from any
// goroutine.
func (b *BoardWidget) SetFrame(f board.Frame) {
	fyne.Do(func() {
		b.mu.Lock()
		b.frame = f
		b.mu.Unlock()
		b.Refresh()
	})
}

// SetStatus shows text in the status line.
func (b *BoardWidget) SetStatus(text string) {
	fyne.Do(func() { b.status.SetText(text) })
}

// SetTool switches the active tool.
func (b *BoardWidget) SetTool(name tool.Name) {
	if err := b.loop.SetTool(name); err != nil {
		b.SetStatus(err.Error())
		return
	}
	b.SetStatus("Tool: " + string(name))
}

func (b *BoardWidget) currentFrame() board.Frame {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.frame
}

func (b *BoardWidget) dispatch(ev input.Event) {
	if _, err := b.loop.Dispatch(ev); err != nil {
		b.logger.Debug("ui: event rejected", slog.String("kind", string(ev.Kind)), slog.String("error", err.Error()))
		b.SetStatus(err.Error())
	}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	if c := fyne.CurrentApp().Driver().CanvasForObject(b); c != nil {
		c.Focus(b)
	}
	b.pressed = true
	b.dispatch(pointerEvent(input.PointerDown, e.Position, e.Modifier))
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || !b.pressed {
		return
	}
	b.pressed = false
	b.dispatch(pointerEvent(input.PointerUp, e.Position, e.Modifier))
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if b.pressed {
		b.dispatch(pointerEvent(input.PointerMove, e.Position, b.held))
	}
}

func (b *BoardWidget) DragEnd() {}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	if b.pressed {
		b.dispatch(pointerEvent(input.PointerMove, e.Position, e.Modifier))
	}
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

func (b *BoardWidget) MouseOut() {}

func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	b.dispatch(wheelEvent(e, b.held))
}

func (b *BoardWidget) FocusGained() {}

func (b *BoardWidget) FocusLost() { b.held = 0 }

func (b *BoardWidget) TypedRune(rune) {}

func (b *BoardWidget) TypedKey(e *fyne.KeyEvent) {
	if ev, ok := keyEvent(e.Name, b.held); ok {
		b.dispatch(ev)
	}
}

func (b *BoardWidget) KeyDown(e *fyne.KeyEvent) {
	b.held = trackModifier(b.held, e.Name, true)
}

func (b *BoardWidget) KeyUp(e *fyne.KeyEvent) {
	b.held = trackModifier(b.held, e.Name, false)
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return newBoardRenderer(b)
}
