package board

import (
	"sync/atomic"

	"LocalBoard/internal/apperr"
	"LocalBoard/internal/input"
	"LocalBoard/internal/tool"
)

// Loop runs a Controller on a single goroutine. Callers submit work through
// channels and wait for it, so events are applied strictly in receipt order
// and the controller needs no locks.
type Loop struct {
	ctrl *Controller

	jobs    chan func(*Controller)
	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewLoop starts the loop goroutine for c. Close stops it.
func NewLoop(c *Controller) *Loop {
	l := &Loop{
		ctrl:    c,
		jobs:    make(chan func(*Controller)),
		stopCh:  make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.stopped)
	for {
		select {
		case <-l.stopCh:
			return
		case job := <-l.jobs:
			job(l.ctrl)
		}
	}
}

// Close stops the loop and waits for the running job to finish.
func (l *Loop) Close() {
	if l.closed.CompareAndSwap(false, true) {
		close(l.stopCh)
	}
	<-l.stopped
}

// Do runs fn on the loop goroutine and waits for it.
func (l *Loop) Do(fn func(*Controller)) error {
	if l.closed.Load() {
		return apperr.ErrClosed
	}
	done := make(chan struct{})
	job := func(c *Controller) {
		defer close(done)
		fn(c)
	}
	select {
	case l.jobs <- job:
	case <-l.stopped:
		return apperr.ErrClosed
	}
	<-done
	return nil
}

// Dispatch forwards ev to the controller.
func (l *Loop) Dispatch(ev input.Event) (tool.Step, error) {
	var (
		step tool.Step
		err  error
	)
	if doErr := l.Do(func(c *Controller) { step, err = c.Dispatch(ev) }); doErr != nil {
		return tool.Step{}, doErr
	}
	return step, err
}

// SetTool switches the active tool.
func (l *Loop) SetTool(name tool.Name) error {
	var err error
	if doErr := l.Do(func(c *Controller) { err = c.SetTool(name) }); doErr != nil {
		return doErr
	}
	return err
}

// Frame returns a snapshot taken on the loop goroutine.
func (l *Loop) Frame() (Frame, error) {
	var f Frame
	err := l.Do(func(c *Controller) { f = c.Frame() })
	return f, err
}
