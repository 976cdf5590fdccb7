package board

import (
	"errors"
	"sync"
	"testing"

	"LocalBoard/internal/apperr"
	"LocalBoard/internal/input"
	"LocalBoard/internal/tool"
)

func TestLoopSerialisesEvents(t *testing.T) {
	c := newController(t)
	l := NewLoop(c)
	defer l.Close()

	if err := l.SetTool(tool.NameRectangle); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			x := float64(i * 100)
			// Each batch runs atomically on the loop goroutine.
			err := l.Do(func(c *Controller) {
				for _, ev := range []input.Event{input.Down(x, 0), input.Move(x+20, 20), input.Up(x+20, 20)} {
					if _, err := c.Dispatch(ev); err != nil {
						t.Error(err)
					}
				}
			})
			if err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	f, err := l.Frame()
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Shapes) != 8 {
		t.Errorf("shapes = %d, want 8", len(f.Shapes))
	}
}

func TestLoopClosed(t *testing.T) {
	l := NewLoop(newController(t))
	l.Close()
	l.Close()

	if _, err := l.Dispatch(input.Down(0, 0)); !errors.Is(err, apperr.ErrClosed) {
		t.Errorf("dispatch err = %v", err)
	}
	if err := l.SetTool(tool.NameLine); !errors.Is(err, apperr.ErrClosed) {
		t.Errorf("set tool err = %v", err)
	}
	if _, err := l.Frame(); !errors.Is(err, apperr.ErrClosed) {
		t.Errorf("frame err = %v", err)
	}
}

func TestLoopDispatchReturnsControllerError(t *testing.T) {
	l := NewLoop(newController(t))
	defer l.Close()
	if err := l.SetTool("lasso"); !errors.Is(err, apperr.ErrInvalidConfig) {
		t.Errorf("err = %v", err)
	}
	step, err := l.Dispatch(input.Down(1, 1))
	if err != nil || step.To != tool.StateSelecting {
		t.Errorf("step = %+v, err = %v", step, err)
	}
}
