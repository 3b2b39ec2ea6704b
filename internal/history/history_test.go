package history

import (
	"fmt"
	"testing"

	"github.com/entradix/seatmap-editor/internal/model"
)

func snapshot(ids ...string) []model.Element {
	out := make([]model.Element, len(ids))
	for i, id := range ids {
		out[i] = &model.Table{Common: model.Common{ID: id}, Shape: model.TableCircle, Radius: 60}
	}
	return out
}

func firstID(els []model.Element) string {
	if len(els) == 0 {
		return ""
	}
	return els[0].ElementID()
}

func TestUndoRedoWalk(t *testing.T) {
	h := New(0)
	h.Record(snapshot("a"), "uno")
	h.Record(snapshot("b"), "dos")
	h.Record(snapshot("c"), "tres")

	if !h.CanUndo() {
		t.Fatal("expected undo to be available")
	}
	els, label, ok := h.Undo()
	if !ok || firstID(els) != "b" || label != "dos" {
		t.Fatalf("undo returned (%s, %q, %v)", firstID(els), label, ok)
	}
	els, label, ok = h.Undo()
	if !ok || firstID(els) != "a" || label != "uno" {
		t.Fatalf("second undo returned (%s, %q, %v)", firstID(els), label, ok)
	}
	if _, _, ok := h.Undo(); ok {
		t.Fatal("undo past the first snapshot must fail")
	}

	els, label, ok = h.Redo()
	if !ok || firstID(els) != "b" || label != "dos" {
		t.Fatalf("redo returned (%s, %q, %v)", firstID(els), label, ok)
	}
	els, _, ok = h.Redo()
	if !ok || firstID(els) != "c" {
		t.Fatalf("second redo returned %s", firstID(els))
	}
	if _, _, ok := h.Redo(); ok {
		t.Fatal("redo at the newest snapshot must fail")
	}
}

func TestRecordDiscardsRedoBranch(t *testing.T) {
	h := New(0)
	h.Record(snapshot("a"), "uno")
	h.Record(snapshot("b"), "dos")
	h.Record(snapshot("c"), "tres")
	if _, _, ok := h.Undo(); !ok {
		t.Fatal("undo failed")
	}
	if _, _, ok := h.Undo(); !ok {
		t.Fatal("undo failed")
	}

	h.Record(snapshot("d"), "rama nueva")
	if h.CanRedo() {
		t.Fatal("recording must discard the redo branch")
	}
	if h.Len() != 2 {
		t.Fatalf("history holds %d entries, want 2", h.Len())
	}
	els, _, ok := h.Undo()
	if !ok || firstID(els) != "a" {
		t.Fatalf("undo after branch returned %s", firstID(els))
	}
}

func TestDepthCapDropsOldest(t *testing.T) {
	h := New(3)
	for i := 0; i < 5; i++ {
		h.Record(snapshot(fmt.Sprintf("s%d", i)), fmt.Sprintf("paso %d", i))
	}
	if h.Len() != 3 {
		t.Fatalf("history holds %d entries, want 3", h.Len())
	}
	// Walk to the oldest retained snapshot: s2.
	var last []model.Element
	for {
		els, _, ok := h.Undo()
		if !ok {
			break
		}
		last = els
	}
	if firstID(last) != "s2" {
		t.Fatalf("oldest reachable snapshot is %s", firstID(last))
	}
}

func TestRecordedSnapshotsAreIsolated(t *testing.T) {
	h := New(0)
	live := snapshot("a")
	h.Record(live, "uno")
	h.Record(snapshot("a", "b"), "dos")

	// Mutating the live scene must not corrupt the recorded entry.
	live[0].SetPos(model.Vec2{X: 777, Y: 777})
	els, _, ok := h.Undo()
	if !ok {
		t.Fatal("undo failed")
	}
	if els[0].Pos().X == 777 {
		t.Fatal("history entry shares state with the recorded slice")
	}
	// Mutating the restored copy must not corrupt a later restore.
	els[0].SetPos(model.Vec2{X: 555, Y: 555})
	h.Redo()
	els2, _, ok := h.Undo()
	if !ok {
		t.Fatal("second undo failed")
	}
	if els2[0].Pos().X == 555 {
		t.Fatal("restored copies share state between restores")
	}
}

func TestCurrentLabel(t *testing.T) {
	h := New(0)
	if h.CurrentLabel() != "" {
		t.Fatal("empty history must have empty label")
	}
	h.Record(snapshot("a"), "Abrir mapa")
	if h.CurrentLabel() != "Abrir mapa" {
		t.Fatalf("label = %q", h.CurrentLabel())
	}
}
