// Package board wires input events through the active tool, the alignment
// engine and the shape store, and publishes a frame per applied event.
package board

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"LocalBoard/internal/align"
	"LocalBoard/internal/apperr"
	"LocalBoard/internal/geom"
	"LocalBoard/internal/input"
	"LocalBoard/internal/shape"
	"LocalBoard/internal/tool"
)

// Controller owns the camera, the selection and the active tool. It is not
// safe for concurrent use; see Loop.
type Controller struct {
	store  *shape.Store
	engine *align.Engine

	selection shape.Selection
	camera    geom.Camera
	limits    CameraConfig
	settings  tool.Settings
	options   align.Options

	active tool.Tool
	index  *align.Index
	guides []align.Guide

	listeners []FrameListener
	logger    *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithToolSettings replaces the default tool settings.
func WithToolSettings(s tool.Settings) Option {
	return func(c *Controller) { c.settings = s }
}

// WithCameraConfig replaces the default zoom limits.
func WithCameraConfig(cfg CameraConfig) Option {
	return func(c *Controller) { c.limits = cfg }
}

// NewController returns a controller with the select tool active and the
// camera at the origin with zoom 1.
func NewController(store *shape.Store, engine *align.Engine, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		engine:   engine,
		camera:   geom.Camera{Zoom: 1},
		limits:   DefaultCameraConfig(),
		settings: tool.DefaultSettings(),
		options:  align.Options{SnapEnabled: true},
		active:   tool.NewSelect(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.selection.Track(store)
	return c
}

// Store returns the document store.
func (c *Controller) Store() *shape.Store { return c.store }

// Camera returns the current camera.
func (c *Controller) Camera() geom.Camera { return c.camera }

// Tool returns the active tool.
func (c *Controller) Tool() tool.Tool { return c.active }

// OnFrame registers a frame listener.
func (c *Controller) OnFrame(fn FrameListener) {
	c.listeners = append(c.listeners, fn)
}

// Dispatch processes one input event. Wheel events pan, or zoom with ctrl
// held, and only while the tool is idle; everything else goes to the active
// tool. All store changes caused by the event are applied as one batch.
func (c *Controller) Dispatch(ev input.Event) (tool.Step, error) {
	if ev.IsPointer() && (!geom.Finite(ev.Screen) || !geom.Finite(ev.Wheel)) {
		return tool.Step{}, fmt.Errorf("event %s at (%g, %g): %w", ev.Kind, ev.Screen.X, ev.Screen.Y, apperr.ErrInvalidGeometry)
	}
	ev.World = geom.ScreenToWorld(ev.Screen, c.camera)

	if ev.Kind == input.Wheel {
		return c.wheel(ev)
	}

	from := c.active.State()
	step := c.active.Handle(ev, c.env())
	if step.Ignored {
		return step, nil
	}
	c.logger.Debug("board: transition",
		slog.String("tool", string(c.active.Name())),
		slog.String("trigger", string(step.Trigger)),
		slog.String("from", string(from)),
		slog.String("to", string(step.To)),
	)

	snap := from == tool.StateDragging || from == tool.StateResizing
	ops, err := c.ops(step.Intents, snap, ev.Modifiers)
	if err == nil {
		err = c.store.Apply(ops...)
	}
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.abort()
		} else {
			c.logger.Warn("board: event not applied", slog.String("error", err.Error()))
		}
		c.publish()
		return step, err
	}

	c.selectFrom(step.Intents)
	if step.To != tool.StateDragging && step.To != tool.StateResizing {
		c.endSession()
	}
	c.publish()
	return step, nil
}

func (c *Controller) env() tool.Env {
	return tool.Env{
		Shapes:   c.store,
		Selected: c.selection.IDs(),
		Settings: c.settings.Scaled(c.camera.Zoom),
	}
}

func (c *Controller) wheel(ev input.Event) (tool.Step, error) {
	step := tool.Step{From: c.active.State(), To: c.active.State()}
	if c.active.State() != tool.StateIdle {
		step.Ignored = true
		return step, nil
	}
	var err error
	if ev.Modifiers.Ctrl {
		factor := c.limits.ZoomStep
		if ev.Wheel.Y > 0 {
			factor = 1 / factor
		}
		err = c.ZoomAt(ev.Screen, c.camera.Zoom*factor)
	} else {
		err = c.Pan(-ev.Wheel.X, -ev.Wheel.Y)
	}
	return step, err
}

// ops converts intents into store ops. Move and resize go through the
// alignment engine when snap is set.
func (c *Controller) ops(intents []tool.Intent, snap bool, mods input.Modifiers) ([]shape.Op, error) {
	var ops []shape.Op
	for _, in := range intents {
		switch in.Kind {
		case tool.IntentCreate:
			ops = append(ops, shape.Insert(in.Shape))
		case tool.IntentDelete:
			for _, id := range in.IDs {
				ops = append(ops, shape.Delete(id))
			}
		case tool.IntentRestore:
			for _, s := range in.Originals {
				ops = append(ops, shape.Replace(s))
			}
		case tool.IntentMove:
			moved, err := c.move(in, snap, mods)
			if err != nil {
				return nil, err
			}
			ops = append(ops, moved...)
		case tool.IntentResize:
			resized, err := c.resize(in, snap, mods)
			if err != nil {
				return nil, err
			}
			ops = append(ops, resized...)
		}
	}
	return ops, nil
}

func (c *Controller) move(in tool.Intent, snap bool, mods input.Modifiers) ([]shape.Op, error) {
	bounds := make([]geom.Rect, len(in.Originals))
	var union geom.Rect
	for i, s := range in.Originals {
		b, err := s.Bounds()
		if err != nil {
			return nil, err
		}
		bounds[i] = b
		if i == 0 {
			union = b
		} else {
			union = union.Union(b)
		}
	}

	target := r2.Add(r2.Vec{X: union.X, Y: union.Y}, in.Delta)
	if snap {
		res := c.snap(align.Request{
			MovingIDs: in.TargetIDs(),
			Bounds:    union.Translate(in.Delta),
			Modifiers: mods,
		})
		target = res.Position
	}

	ops := make([]shape.Op, 0, len(in.Originals))
	for i, s := range in.Originals {
		offset := r2.Sub(r2.Vec{X: bounds[i].X, Y: bounds[i].Y}, r2.Vec{X: union.X, Y: union.Y})
		moved, err := s.MoveTo(r2.Add(target, offset))
		if err != nil {
			return nil, err
		}
		ops = append(ops, shape.Replace(moved))
	}
	return ops, nil
}

// resize snaps the dragged edges and scales the shape to the result. A frame
// that would shrink the shape below the minimum size yields no op, so the
// last applied bounds stay in place.
func (c *Controller) resize(in tool.Intent, snap bool, mods input.Modifiers) ([]shape.Op, error) {
	if len(in.Originals) != 1 {
		return nil, fmt.Errorf("resize of %d shapes: %w", len(in.Originals), apperr.ErrInvalidGeometry)
	}
	b := in.Bounds
	if snap {
		b = c.snap(align.Request{
			MovingIDs: in.TargetIDs(),
			Bounds:    b,
			Edges:     in.Edges,
			Modifiers: mods,
		}).Bounds
	}
	resized, err := in.Originals[0].Resize(b)
	if err != nil {
		return nil, err
	}
	if c.tooSmall(resized) {
		c.logger.Debug("board: resize below minimum size", slog.String("id", resized.ID))
		return nil, nil
	}
	return []shape.Op{shape.Replace(resized)}, nil
}

// tooSmall reports whether s is below the size the draw tools would commit.
// Boxes are measured by area, lines and strokes by their bounds' diagonal.
func (c *Controller) tooSmall(s shape.Shape) bool {
	b, err := s.Bounds()
	if err != nil {
		return true
	}
	switch s.Kind {
	case shape.KindLine, shape.KindFreedraw:
		d := math.Hypot(b.Width, b.Height)
		return d == 0 || d < c.settings.MinLength
	default:
		return b.Area() == 0 || b.Area() < c.settings.MinArea
	}
}

// snap runs the engine against the per-session index, building it on the
// first frame of a drag. Thresholds are converted from screen pixels.
func (c *Controller) snap(req align.Request) align.Result {
	cfg := c.engine.Config()
	opts := c.options
	if opts.SnapThreshold <= 0 {
		opts.SnapThreshold = cfg.SnapThreshold
	}
	if opts.StrongSnapThreshold <= 0 {
		opts.StrongSnapThreshold = cfg.StrongSnapThreshold
	}
	opts.SnapThreshold = geom.ScreenDistanceToWorld(opts.SnapThreshold, c.camera)
	opts.StrongSnapThreshold = geom.ScreenDistanceToWorld(opts.StrongSnapThreshold, c.camera)
	req.Options = opts

	if c.index == nil {
		c.index = c.engine.Index(c.store.All(), req)
	}
	res := c.engine.SnapIndexed(req, c.index)
	c.guides = nil
	if cfg.ShowGuides {
		c.guides = res.Guides
	}
	return res
}

func (c *Controller) selectFrom(intents []tool.Intent) {
	for _, in := range intents {
		if in.Kind != tool.IntentSelect {
			continue
		}
		ids := make([]string, 0, len(in.IDs))
		for _, id := range in.IDs {
			if c.store.Has(id) {
				ids = append(ids, id)
			}
		}
		c.selection.Set(ids...)
	}
}

func (c *Controller) endSession() {
	c.index = nil
	c.guides = nil
}

// abort cancels the active tool and applies its undo intents one op at a
// time, skipping any that no longer apply.
func (c *Controller) abort() {
	intents := c.active.Cancel()
	ops, _ := c.ops(intents, false, input.Modifiers{})
	for _, op := range ops {
		if err := c.store.Apply(op); err != nil {
			c.logger.Debug("board: abort op skipped", slog.String("error", err.Error()))
		}
	}
	c.selectFrom(intents)
	c.endSession()
	c.logger.Info("board: operation aborted", slog.String("tool", string(c.active.Name())))
}

// SetTool cancels the active tool and activates name. Drafts are discarded
// and drags are restored; nothing in progress is committed.
func (c *Controller) SetTool(name tool.Name) error {
	next, err := tool.New(name)
	if err != nil {
		return err
	}
	if c.active.State() != tool.StateIdle {
		c.abort()
	}
	c.active = next
	c.publish()
	return nil
}

// Pan moves the camera by a screen-space delta.
func (c *Controller) Pan(dx, dy float64) error {
	if err := c.idle("pan"); err != nil {
		return err
	}
	next := c.camera.Pan(dx, dy)
	if err := next.Validate(); err != nil {
		return err
	}
	c.camera = next
	c.publish()
	return nil
}

// ZoomAt zooms around a screen anchor, clamping to the configured limits.
func (c *Controller) ZoomAt(anchor r2.Vec, zoom float64) error {
	if err := c.idle("zoom"); err != nil {
		return err
	}
	if math.IsNaN(zoom) || zoom <= 0 {
		return fmt.Errorf("zoom %g: %w", zoom, apperr.ErrInvalidConfig)
	}
	next, err := c.camera.ZoomAt(anchor, geom.ClampZoom(zoom, c.limits.MinZoom, c.limits.MaxZoom))
	if err != nil {
		return err
	}
	c.camera = next
	c.publish()
	return nil
}

// SetCamera replaces the camera after validating it.
func (c *Controller) SetCamera(cam geom.Camera) error {
	if err := c.idle("set camera"); err != nil {
		return err
	}
	if err := cam.Validate(); err != nil {
		return err
	}
	cam.Zoom = geom.ClampZoom(cam.Zoom, c.limits.MinZoom, c.limits.MaxZoom)
	c.camera = cam
	c.publish()
	return nil
}

func (c *Controller) idle(op string) error {
	if s := c.active.State(); s != tool.StateIdle {
		return fmt.Errorf("%s while %s: %w", op, s, apperr.ErrBusy)
	}
	return nil
}

// SetAlignmentConfig swaps the alignment configuration.
func (c *Controller) SetAlignmentConfig(cfg align.Config) error {
	return c.engine.SetConfig(cfg)
}

// SetAlignmentOptions replaces the per-request alignment options.
func (c *Controller) SetAlignmentOptions(o align.Options) error {
	if err := o.Validate(); err != nil {
		return err
	}
	c.options = o
	return nil
}

// ToolSettings returns the settings used for new events.
func (c *Controller) ToolSettings() tool.Settings { return c.settings }

// SetToolSettings replaces the tool settings used for new events.
func (c *Controller) SetToolSettings(s tool.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.settings = s
	return nil
}

// SetCameraConfig replaces the zoom limits and clamps the current zoom.
func (c *Controller) SetCameraConfig(cfg CameraConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.limits = cfg
	c.camera.Zoom = geom.ClampZoom(c.camera.Zoom, cfg.MinZoom, cfg.MaxZoom)
	return nil
}

// Frame returns a snapshot of the current state.
func (c *Controller) Frame() Frame {
	p := c.active.Preview()
	return Frame{
		Revision:   c.store.Revision(),
		Camera:     c.camera,
		Tool:       c.active.Name(),
		State:      c.active.State(),
		Shapes:     c.store.All(),
		Selection:  c.selection.IDs(),
		Draft:      p.Draft,
		RubberBand: p.RubberBand,
		Guides:     cloneGuides(c.guides),
	}
}

func (c *Controller) publish() {
	if len(c.listeners) == 0 {
		return
	}
	f := c.Frame()
	for _, fn := range c.listeners {
		fn(f)
	}
}
