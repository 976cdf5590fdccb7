package shape

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"LocalBoard/internal/apperr"
	"LocalBoard/internal/geom"
)

// OpType names a store mutation.
type OpType string

const (
	OpInsert  OpType = "insert"
	OpReplace OpType = "replace"
	OpDelete  OpType = "delete"
)

// Op is one mutation inside an atomic batch. Insert and Replace carry Shape;
// Delete carries Target.
type Op struct {
	Type   OpType
	Shape  Shape
	Target string
}

// Insert returns an insert op.
func Insert(s Shape) Op { return Op{Type: OpInsert, Shape: s} }

// Replace returns a replace op. The shape's ID must already exist.
func Replace(s Shape) Op { return Op{Type: OpReplace, Shape: s} }

// Delete returns a delete op.
func Delete(id string) Op { return Op{Type: OpDelete, Target: id} }

// Change describes one applied op, delivered to listeners after the batch.
type Change struct {
	Op       OpType
	ID       string
	Revision uint64
}

// ChangeListener is called after every applied batch, once per op, outside
// the store lock.
type ChangeListener func(Change)

// Reader is the read-only view of a store handed to tools and renderers.
type Reader interface {
	Get(id string) (Shape, error)
	All() []Shape
	Query(r geom.Rect) []Shape
	HitTest(p r2.Vec, tolerance float64) (Shape, bool)
	Len() int
	Revision() uint64
}

// Store is the document: shapes keyed by id, with insertion order as z-order
// (later is on top).
type Store struct {
	mu        sync.RWMutex
	shapes    map[string]Shape
	order     []string
	clock     Clock
	listeners []ChangeListener
	newID     func() string
	logger    *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator replaces uuid.NewString for shapes inserted without an id.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		shapes: make(map[string]Shape),
		newID:  uuid.NewString,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers a listener for applied changes.
func (s *Store) OnChange(l ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Add inserts a shape and returns it with its assigned id.
func (s *Store) Add(sh Shape) (Shape, error) {
	sh = sh.Clone()
	if sh.ID == "" {
		sh.ID = s.newID()
	}
	if err := s.Apply(Insert(sh)); err != nil {
		return Shape{}, err
	}
	return sh.Clone(), nil
}

// Update applies a partial update to the shape with the given id.
func (s *Store) Update(id string, p Patch) (Shape, error) {
	s.mu.Lock()
	cur, ok := s.shapes[id]
	if !ok {
		s.mu.Unlock()
		return Shape{}, fmt.Errorf("update shape %s: %w", id, apperr.ErrNotFound)
	}
	next, err := p.applyTo(cur)
	if err != nil {
		s.mu.Unlock()
		return Shape{}, err
	}
	changes, err := s.applyLocked([]Op{Replace(next)})
	s.mu.Unlock()
	if err != nil {
		return Shape{}, err
	}
	s.notify(changes)
	return next.Clone(), nil
}

// Remove deletes the shape with the given id.
func (s *Store) Remove(id string) error {
	return s.Apply(Delete(id))
}

// Get returns a copy of the shape with the given id.
func (s *Store) Get(id string) (Shape, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, ok := s.shapes[id]
	if !ok {
		return Shape{}, fmt.Errorf("shape %s: %w", id, apperr.ErrNotFound)
	}
	return sh.Clone(), nil
}

// Has reports whether id exists.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.shapes[id]
	return ok
}

// All returns copies of every shape in z-order.
func (s *Store) All() []Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Shape, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.shapes[id].Clone())
	}
	return out
}

// Len returns the number of shapes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Revision returns the number of batches applied so far.
func (s *Store) Revision() uint64 {
	return s.clock.Current()
}

// Apply runs a batch of ops atomically: every op is checked against the
// state left by the ops before it, and nothing is written unless all pass.
func (s *Store) Apply(ops ...Op) error {
	if len(ops) == 0 {
		return nil
	}
	s.mu.Lock()
	changes, err := s.applyLocked(ops)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(changes)
	return nil
}

func (s *Store) applyLocked(ops []Op) ([]Change, error) {
	// staged overlays s.shapes while checking; a nil entry marks a delete.
	staged := make(map[string]*Shape, len(ops))
	lookup := func(id string) (Shape, bool) {
		if v, ok := staged[id]; ok {
			if v == nil {
				return Shape{}, false
			}
			return *v, true
		}
		sh, ok := s.shapes[id]
		return sh, ok
	}

	prepared := make([]Op, 0, len(ops))
	for _, op := range ops {
		switch op.Type {
		case OpInsert:
			sh := op.Shape.Clone()
			if sh.ID == "" {
				sh.ID = s.newID()
			}
			if _, ok := lookup(sh.ID); ok {
				return nil, fmt.Errorf("insert shape %s: %w", sh.ID, apperr.ErrAlreadyExists)
			}
			if err := sh.Validate(); err != nil {
				return nil, err
			}
			staged[sh.ID] = &sh
			prepared = append(prepared, Op{Type: OpInsert, Shape: sh})
		case OpReplace:
			sh := op.Shape.Clone()
			cur, ok := lookup(sh.ID)
			if !ok {
				return nil, fmt.Errorf("replace shape %s: %w", sh.ID, apperr.ErrNotFound)
			}
			if cur.Kind != sh.Kind {
				return nil, invalid(sh, "kind cannot change from %s", cur.Kind)
			}
			if err := sh.Validate(); err != nil {
				return nil, err
			}
			staged[sh.ID] = &sh
			prepared = append(prepared, Op{Type: OpReplace, Shape: sh})
		case OpDelete:
			if _, ok := lookup(op.Target); !ok {
				return nil, fmt.Errorf("delete shape %s: %w", op.Target, apperr.ErrNotFound)
			}
			staged[op.Target] = nil
			prepared = append(prepared, op)
		default:
			return nil, fmt.Errorf("store: unknown op %q: %w", op.Type, apperr.ErrInvalidGeometry)
		}
	}

	rev := s.clock.Tick()
	changes := make([]Change, 0, len(prepared))
	for _, op := range prepared {
		switch op.Type {
		case OpInsert:
			s.shapes[op.Shape.ID] = op.Shape
			s.order = append(s.order, op.Shape.ID)
			changes = append(changes, Change{Op: OpInsert, ID: op.Shape.ID, Revision: rev})
		case OpReplace:
			s.shapes[op.Shape.ID] = op.Shape
			changes = append(changes, Change{Op: OpReplace, ID: op.Shape.ID, Revision: rev})
		case OpDelete:
			delete(s.shapes, op.Target)
			s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == op.Target })
			changes = append(changes, Change{Op: OpDelete, ID: op.Target, Revision: rev})
		}
	}
	s.logger.Debug("store: batch applied", slog.Int("ops", len(changes)), slog.Uint64("revision", rev))
	return changes, nil
}

func (s *Store) notify(changes []Change) {
	s.mu.RLock()
	listeners := slices.Clone(s.listeners)
	s.mu.RUnlock()

	for _, c := range changes {
		for _, l := range listeners {
			l(c)
		}
	}
}
