package tool

import (
	"gonum.org/v1/gonum/spatial/r2"

	"LocalBoard/internal/align"
	"LocalBoard/internal/geom"
	"LocalBoard/internal/shape"
)

// IntentKind names a requested change.
type IntentKind string

const (
	IntentCreate  IntentKind = "create"
	IntentRestore IntentKind = "restore"
	IntentDelete  IntentKind = "delete"
	IntentSelect  IntentKind = "select"
	IntentMove    IntentKind = "move"
	IntentResize  IntentKind = "resize"
	IntentCommit  IntentKind = "commit"
)

// Intent is a change a tool asks the controller to apply. Move and resize
// carry the shapes as they were when the operation began, so applying the
// same intent twice gives the same result.
type Intent struct {
	Kind IntentKind

	// Shape is the new shape of a create.
	Shape shape.Shape
	// IDs are the targets of select and delete.
	IDs []string
	// Originals are the pre-operation shapes of move, resize and restore.
	Originals []shape.Shape

	// Delta is the total move since the drag began.
	Delta r2.Vec
	// Bounds and Edges describe a resize: the requested bounds and which
	// edges follow the pointer.
	Bounds geom.Rect
	Edges  align.EdgeSet
}

// Create asks for s to be inserted.
func Create(s shape.Shape) Intent { return Intent{Kind: IntentCreate, Shape: s} }

// Restore asks for shapes to be put back exactly as given.
func Restore(originals ...shape.Shape) Intent {
	return Intent{Kind: IntentRestore, Originals: originals}
}

// Delete asks for shapes to be removed.
func Delete(ids ...string) Intent { return Intent{Kind: IntentDelete, IDs: ids} }

// Select replaces the selection. No ids clears it.
func Select(ids ...string) Intent { return Intent{Kind: IntentSelect, IDs: ids} }

// Move asks for originals to be translated by delta.
func Move(originals []shape.Shape, delta r2.Vec) Intent {
	return Intent{Kind: IntentMove, Originals: originals, Delta: delta}
}

// Resize asks for original to be fitted to b.
func Resize(original shape.Shape, b geom.Rect, edges align.EdgeSet) Intent {
	return Intent{Kind: IntentResize, Originals: []shape.Shape{original}, Bounds: b, Edges: edges}
}

// Commit marks the end of an operation.
func Commit() Intent { return Intent{Kind: IntentCommit} }

// TargetIDs returns the ids of the shapes an intent touches.
func (i Intent) TargetIDs() []string {
	if len(i.IDs) > 0 {
		return i.IDs
	}
	ids := make([]string, 0, len(i.Originals))
	for _, s := range i.Originals {
		ids = append(ids, s.ID)
	}
	return ids
}

// Preview is the uncommitted state of a tool.
type Preview struct {
	Draft      *shape.Shape `json:"draft,omitempty"`
	RubberBand *geom.Rect   `json:"rubber_band,omitempty"`
}
