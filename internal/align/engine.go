package align

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/input"
	"LocalBoard/internal/shape"
)

// GuideExtension is how far a guide runs past the shapes it connects.
const GuideExtension = 8

// GuideType is the orientation of a guide line.
type GuideType string

const (
	Vertical   GuideType = "vertical"
	Horizontal GuideType = "horizontal"
)

// Guide is a transient line shown while a snap is active. Position is the x
// of a vertical guide or the y of a horizontal one; Start and End span the
// other axis.
type Guide struct {
	ID            string    `json:"id"`
	Type          GuideType `json:"type"`
	Position      float64   `json:"position"`
	Start         float64   `json:"start"`
	End           float64   `json:"end"`
	AlignedShapes []string  `json:"aligned_shapes"`
}

// Request describes one snap computation.
type Request struct {
	// MovingIDs are the shapes being moved; they are listed in guides and
	// are never candidates.
	MovingIDs []string
	// Bounds are the moving bounds before snapping, already offset by the
	// pointer delta.
	Bounds geom.Rect
	// Edges restricts snapping to the dragged edges of a resize. Zero means
	// a move using all six points.
	Edges     EdgeSet
	Options   Options
	Modifiers input.Modifiers
}

// Result is the outcome of a snap. Position is the top-left of Bounds.
type Result struct {
	Position r2.Vec    `json:"position"`
	Bounds   geom.Rect `json:"bounds"`
	Guides   []Guide   `json:"guides"`
	DidSnap  bool      `json:"did_snap"`
	SnappedX bool      `json:"snapped_x"`
	SnappedY bool      `json:"snapped_y"`
}

func unchanged(b geom.Rect) Result {
	return Result{Position: r2.Vec{X: b.X, Y: b.Y}, Bounds: b}
}

// Engine snaps moving bounds to the points of other shapes.
type Engine struct {
	mu     sync.RWMutex
	cfg    Config
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine validates cfg and returns an engine using it.
func NewEngine(cfg Config, opts ...EngineOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the active configuration.
func (e *Engine) Config() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// SetConfig swaps the configuration after validating it.
func (e *Engine) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.cfg = cfg
	e.mu.Unlock()
	return nil
}

// Index builds a candidate index over shapes, excluding the moving ids and
// the ids in opts.
func (e *Engine) Index(shapes []shape.Shape, req Request) *Index {
	exclude := append(append([]string(nil), req.MovingIDs...), req.Options.ExcludeShapeIDs...)
	return NewIndex(shapes, exclude, e.logger)
}

// Snap builds an index over shapes and snaps against it. Use SnapIndexed to
// reuse one index across the frames of a drag.
func (e *Engine) Snap(req Request, shapes []shape.Shape) Result {
	if e.bypass(req) {
		return unchanged(req.Bounds)
	}
	return e.SnapIndexed(req, e.Index(shapes, req))
}

func (e *Engine) bypass(req Request) bool {
	cfg := e.Config()
	return !cfg.Enabled || !req.Options.SnapEnabled || req.Modifiers.Has(cfg.DisableModifier)
}

func (e *Engine) threshold(req Request) float64 {
	cfg := e.Config()
	if req.Options.IsStrongSnap || req.Modifiers.Has(cfg.StrongSnapModifier) {
		if req.Options.StrongSnapThreshold > 0 {
			return req.Options.StrongSnapThreshold
		}
		return cfg.StrongSnapThreshold
	}
	if req.Options.SnapThreshold > 0 {
		return req.Options.SnapThreshold
	}
	return cfg.SnapThreshold
}

// match is the best pairing found on one axis.
type match struct {
	ok     bool
	delta  float64
	shift  float64
	moving PointType
	cand   candidate
	mi     int
}

func (m match) beats(o match) bool {
	if !o.ok {
		return true
	}
	if m.delta != o.delta {
		return m.delta < o.delta
	}
	if m.cand.order != o.cand.order {
		return m.cand.order < o.cand.order
	}
	return m.mi < o.mi
}

// SnapIndexed snaps req.Bounds against ix. Axes are resolved independently.
func (e *Engine) SnapIndexed(req Request, ix *Index) Result {
	b := req.Bounds
	if e.bypass(req) || ix == nil || !b.Valid() {
		return unchanged(b)
	}
	t := e.threshold(req)
	if t < 0 || math.IsNaN(t) {
		return unchanged(b)
	}

	var bestX, bestY match
	for mi, mp := range Points(b, "") {
		if req.Edges != 0 && !req.Edges.has(mp.Type) {
			continue
		}
		axis := mp.Type.Axis()
		c := mp.Coord()
		for _, cand := range ix.within(axis, c, t) {
			d := math.Abs(c - cand.coord)
			if d > t {
				continue
			}
			m := match{ok: true, delta: d, shift: cand.coord - c, moving: mp.Type, cand: cand, mi: mi}
			if axis == AxisX {
				if m.beats(bestX) {
					bestX = m
				}
			} else if m.beats(bestY) {
				bestY = m
			}
		}
	}

	snapped := b
	if bestX.ok {
		snapped = applyShift(snapped, bestX, req.Edges)
	}
	if bestY.ok {
		snapped = applyShift(snapped, bestY, req.Edges)
	}
	snapped = snapped.Normalize()

	res := Result{
		Position: r2.Vec{X: snapped.X, Y: snapped.Y},
		Bounds:   snapped,
		SnappedX: bestX.ok,
		SnappedY: bestY.ok,
		DidSnap:  bestX.ok || bestY.ok,
	}
	if bestX.ok {
		res.Guides = append(res.Guides, guideFor(Vertical, bestX.cand.coord, snapped, req.MovingIDs, ix))
	}
	if bestY.ok {
		res.Guides = append(res.Guides, guideFor(Horizontal, bestY.cand.coord, snapped, req.MovingIDs, ix))
	}
	return res
}

// applyShift moves the whole box for a move, or only the dragged edge for a
// resize. Coordinates are set to the target exactly rather than accumulated.
func applyShift(b geom.Rect, m match, edges EdgeSet) geom.Rect {
	target := m.cand.coord
	if edges == 0 {
		switch m.moving {
		case Left:
			b.X = target
		case Right:
			b.X = target - b.Width
		case CenterVertical:
			b.X += m.shift
		case Top:
			b.Y = target
		case Bottom:
			b.Y = target - b.Height
		case CenterHorizontal:
			b.Y += m.shift
		}
		return b
	}
	switch m.moving {
	case Left:
		right := b.Right()
		b.X = target
		b.Width = right - target
	case Right:
		b.Width = target - b.X
	case Top:
		bottom := b.Bottom()
		b.Y = target
		b.Height = bottom - target
	case Bottom:
		b.Height = target - b.Y
	}
	return b
}

func guideFor(typ GuideType, pos float64, moving geom.Rect, movingIDs []string, ix *Index) Guide {
	axis := AxisX
	start, end := moving.Top(), moving.Bottom()
	if typ == Horizontal {
		axis = AxisY
		start, end = moving.Left(), moving.Right()
	}

	aligned := append([]string(nil), movingIDs...)
	seen := make(map[string]bool, len(aligned))
	for _, id := range aligned {
		seen[id] = true
	}
	for _, c := range ix.within(axis, pos, 0) {
		if typ == Vertical {
			start = math.Min(start, c.bounds.Top())
			end = math.Max(end, c.bounds.Bottom())
		} else {
			start = math.Min(start, c.bounds.Left())
			end = math.Max(end, c.bounds.Right())
		}
		if !seen[c.point.ShapeID] {
			seen[c.point.ShapeID] = true
			aligned = append(aligned, c.point.ShapeID)
		}
	}
	return Guide{
		ID:            fmt.Sprintf("guide-%s-%g", typ, pos),
		Type:          typ,
		Position:      pos,
		Start:         start - GuideExtension,
		End:           end + GuideExtension,
		AlignedShapes: aligned,
	}
}
