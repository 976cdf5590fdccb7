package align

import (
	"io"
	"log/slog"
	"slices"
	"sort"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/shape"
)

// candidate is an alignment point of a non-moving shape.
type candidate struct {
	coord  float64
	order  int
	point  Point
	bounds geom.Rect
}

// Index holds the alignment points of the non-moving shapes, sorted per axis
// so each frame looks up candidates with a binary search. Other shapes do not
// move during a drag, so one index serves the whole drag.
type Index struct {
	x, y    []candidate
	skipped []string
}

// NewIndex collects the points of every shape not in exclude. Shapes whose
// bounds cannot be computed, are non-finite, or collapse to a point are
// skipped; they never fail the whole index.
func NewIndex(shapes []shape.Shape, exclude []string, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ix := &Index{}
	for i, sh := range shapes {
		if slices.Contains(exclude, sh.ID) {
			continue
		}
		b, err := sh.Bounds()
		if err != nil || !b.Valid() || b.Degenerate() {
			logger.Debug("align: candidate skipped", slog.String("shape_id", sh.ID))
			ix.skipped = append(ix.skipped, sh.ID)
			continue
		}
		for j, p := range Points(b, sh.ID) {
			c := candidate{coord: p.Coord(), order: i*len(pointOrder) + j, point: p, bounds: b}
			if p.Type.Axis() == AxisX {
				ix.x = append(ix.x, c)
			} else {
				ix.y = append(ix.y, c)
			}
		}
	}
	byCoord := func(list []candidate) func(a, b int) bool {
		return func(a, b int) bool {
			if list[a].coord != list[b].coord {
				return list[a].coord < list[b].coord
			}
			return list[a].order < list[b].order
		}
	}
	sort.Slice(ix.x, byCoord(ix.x))
	sort.Slice(ix.y, byCoord(ix.y))
	return ix
}

// Skipped returns the ids of shapes left out because of invalid geometry.
func (ix *Index) Skipped() []string {
	return slices.Clone(ix.skipped)
}

// Len returns the number of indexed points.
func (ix *Index) Len() int {
	return len(ix.x) + len(ix.y)
}

// within returns the candidates on axis whose coordinate is in [c-t, c+t].
func (ix *Index) within(axis Axis, c, t float64) []candidate {
	list := ix.x
	if axis == AxisY {
		list = ix.y
	}
	lo := sort.Search(len(list), func(i int) bool { return list[i].coord >= c-t })
	hi := lo
	for hi < len(list) && list[hi].coord <= c+t {
		hi++
	}
	return list[lo:hi]
}
