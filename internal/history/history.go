// Package history keeps the linear undo/redo stack for an editor session.
// Entries are full-state snapshots, not diffs: undo and redo restore the
// whole element list wholesale, which keeps restore trivially correct at
// the cost of memory bounded by the retained depth.
package history

import (
	"time"

	"github.com/entradix/seatmap-editor/internal/model"
)

// DefaultMaxDepth matches the editor's retained history of 50 snapshots.
const DefaultMaxDepth = 50

// Entry is one recorded snapshot with its human-readable action label.
type Entry struct {
	Elements []model.Element
	Label    string
	At       time.Time
}

// History is a bounded linear snapshot stack with a cursor. Recording
// while the cursor is in the past discards the abandoned redo branch.
type History struct {
	entries []Entry
	index   int // position of the current state; -1 when empty
	max     int
}

// New returns an empty history with the given retained depth. A depth
// below 1 falls back to DefaultMaxDepth.
func New(maxDepth int) *History {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}
	return &History{index: -1, max: maxDepth}
}

// Record deep-copies the element list and pushes it with its label. Any
// redo targets beyond the cursor are discarded first; the oldest entry is
// dropped once the depth cap is exceeded.
func (h *History) Record(elements []model.Element, label string) {
	h.entries = append(h.entries[:h.index+1], Entry{
		Elements: model.CloneAll(elements),
		Label:    label,
		At:       time.Now(),
	})
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
	h.index = len(h.entries) - 1
}

// Undo steps the cursor back and returns a deep copy of that snapshot's
// elements. Returns false when there is nothing earlier to restore.
func (h *History) Undo() ([]model.Element, string, bool) {
	if h.index < 1 {
		return nil, "", false
	}
	h.index--
	e := h.entries[h.index]
	return model.CloneAll(e.Elements), e.Label, true
}

// Redo steps the cursor forward after an undo.
func (h *History) Redo() ([]model.Element, string, bool) {
	if h.index >= len(h.entries)-1 {
		return nil, "", false
	}
	h.index++
	e := h.entries[h.index]
	return model.CloneAll(e.Elements), e.Label, true
}

// CanUndo reports whether an earlier snapshot exists.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether an abandoned-future snapshot exists.
func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

// Len returns the number of retained snapshots.
func (h *History) Len() int { return len(h.entries) }

// CurrentLabel returns the action label of the snapshot at the cursor.
func (h *History) CurrentLabel() string {
	if h.index < 0 {
		return ""
	}
	return h.entries[h.index].Label
}
