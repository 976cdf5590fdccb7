package board

import (
	"LocalBoard/internal/align"
	"LocalBoard/internal/geom"
	"LocalBoard/internal/shape"
	"LocalBoard/internal/tool"
)

// Frame is a read-only snapshot for renderers. Every field is a copy.
type Frame struct {
	Revision   uint64        `json:"revision"`
	Camera     geom.Camera   `json:"camera"`
	Tool       tool.Name     `json:"tool"`
	State      tool.State    `json:"state"`
	Shapes     []shape.Shape `json:"shapes"`
	Selection  []string      `json:"selection"`
	Draft      *shape.Shape  `json:"draft,omitempty"`
	RubberBand *geom.Rect    `json:"rubber_band,omitempty"`
	Guides     []align.Guide `json:"guides"`
}

// FrameListener receives a frame after every applied event.
type FrameListener func(Frame)

func cloneGuides(gs []align.Guide) []align.Guide {
	out := make([]align.Guide, len(gs))
	for i, g := range gs {
		g.AlignedShapes = append([]string(nil), g.AlignedShapes...)
		out[i] = g
	}
	return out
}
