package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"LocalBoard/internal/board"
)

// RunApp opens the board window and blocks until it is closed. shareURL,
// when set, is shown so other peers can join.
func RunApp(loop *board.Loop, shareURL string, logger *slog.Logger) error {
	myApp := app.New()
	myWindow := myApp.NewWindow("Local Whiteboard")
	myWindow.Resize(fyne.NewSize(1024, 768))

	boardWidget := NewBoardWidget(loop, logger)
	if err := loop.Do(func(c *board.Controller) {
		c.OnFrame(boardWidget.SetFrame)
	}); err != nil {
		return err
	}
	if f, err := loop.Frame(); err == nil {
		boardWidget.SetFrame(f)
	}

	footer := container.NewHBox(boardWidget.Status())
	if shareURL != "" {
		footer.Add(widget.NewSeparator())
		footer.Add(widget.NewLabel("Join: " + shareURL))
	}

	content := container.NewBorder(NewToolbar(boardWidget), footer, nil, nil, boardWidget)
	myWindow.SetContent(content)
	myWindow.Canvas().Focus(boardWidget)
	myWindow.ShowAndRun()
	return nil
}
