package scene

import (
	"testing"

	"github.com/entradix/seatmap-editor/internal/model"
)

func addTable(t *testing.T, s *Store, id string) *model.Table {
	t.Helper()
	tbl := &model.Table{
		Common: model.Common{ID: id, Position: model.Vec2{X: 100, Y: 100}},
		Shape:  model.TableCircle,
		Radius: 60,
	}
	if _, err := s.Add(tbl); err != nil {
		t.Fatal(err)
	}
	return tbl
}

func addChair(t *testing.T, s *Store, id, table string, x, y float64) *model.Chair {
	t.Helper()
	ch := &model.Chair{
		Common:        model.Common{ID: id, Position: model.Vec2{X: x, Y: y}},
		ParentTableID: table,
		Size:          20,
	}
	if _, err := s.Add(ch); err != nil {
		t.Fatal(err)
	}
	return ch
}

func TestAddRejectsDuplicateID(t *testing.T) {
	s := New()
	addTable(t, s, "t1")
	dup := &model.Table{Common: model.Common{ID: "t1"}, Shape: model.TableRect}
	if _, err := s.Add(dup); err == nil {
		t.Fatal("expected duplicate id to be rejected")
	}
	if s.Len() != 1 {
		t.Fatalf("store holds %d elements, want 1", s.Len())
	}
}

func TestAddAssignsMissingID(t *testing.T) {
	s := New()
	id, err := s.Add(&model.Text{Content: "VIP"})
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("expected a generated id")
	}
	if _, ok := s.Get(id); !ok {
		t.Fatal("generated id does not resolve")
	}
}

func TestElementsPreserveInsertionOrder(t *testing.T) {
	s := New()
	addTable(t, s, "t1")
	addChair(t, s, "c1", "t1", 0, 0)
	if _, err := s.Add(&model.Text{Common: model.Common{ID: "x1"}, Content: "Barra"}); err != nil {
		t.Fatal(err)
	}
	want := []string{"t1", "c1", "x1"}
	for i, el := range s.Elements() {
		if el.ElementID() != want[i] {
			t.Fatalf("position %d holds %s, want %s", i, el.ElementID(), want[i])
		}
	}
}

func TestDeleteCascadesTableToChairsAndConnections(t *testing.T) {
	s := New()
	addTable(t, s, "t1")
	addChair(t, s, "c1", "t1", 0, 0)
	addChair(t, s, "c2", "t1", 10, 0)
	loose := addChair(t, s, "c3", "", 500, 500)
	if _, err := s.Add(&model.Connection{Common: model.Common{ID: "cn1"}, StartChairID: "c1", EndChairID: "c3"}); err != nil {
		t.Fatal(err)
	}

	n := s.Delete("t1")
	if n != 4 { // table + two chairs + connection touching c1
		t.Fatalf("delete removed %d elements, want 4", n)
	}
	for _, id := range []string{"t1", "c1", "c2", "cn1"} {
		if _, alive := s.Get(id); alive {
			t.Errorf("%s survived cascade delete", id)
		}
	}
	if _, alive := s.Get(loose.ID); !alive {
		t.Error("unrelated chair was deleted")
	}
}

func TestDeleteUnknownIDIsNoop(t *testing.T) {
	s := New()
	addTable(t, s, "t1")
	if n := s.Delete("ghost"); n != 0 {
		t.Fatalf("deleting unknown id removed %d elements", n)
	}
	if s.Len() != 1 {
		t.Fatal("store mutated by no-op delete")
	}
}

func TestUpdatePropertyUnknownIDReturnsFalse(t *testing.T) {
	s := New()
	if s.UpdateProperty("ghost", "rotation", 90.0) {
		t.Fatal("update of unknown id must report false")
	}
}

func TestUpdatePropertyReparentsChair(t *testing.T) {
	s := New()
	addTable(t, s, "t1")
	addTable(t, s, "t2")
	addChair(t, s, "c1", "t1", 0, 0)

	if !s.UpdateProperty("c1", "parentTableId", "t2") {
		t.Fatal("reparent update failed")
	}
	if got := len(s.Chairs("t1")); got != 0 {
		t.Errorf("t1 still owns %d chairs", got)
	}
	chairs := s.Chairs("t2")
	if len(chairs) != 1 || chairs[0].ID != "c1" {
		t.Errorf("t2 chairs = %v", chairs)
	}
	// Deleting the new parent must now cascade to the chair.
	s.Delete("t2")
	if _, alive := s.Get("c1"); alive {
		t.Error("chair survived deletion of its new parent")
	}
}

func TestReplaceChairsIsAtomic(t *testing.T) {
	s := New()
	addTable(t, s, "t1")
	addChair(t, s, "old1", "t1", 0, 0)
	addChair(t, s, "old2", "t1", 10, 0)
	if _, err := s.Add(&model.Connection{Common: model.Common{ID: "cn1"}, StartChairID: "old1", EndChairID: "old2"}); err != nil {
		t.Fatal(err)
	}

	fresh := []*model.Chair{
		{Common: model.Common{ID: "new1"}, SeatNumber: 1},
		{Common: model.Common{ID: "new2"}, SeatNumber: 2},
		{Common: model.Common{ID: "new3"}, SeatNumber: 3},
	}
	if err := s.ReplaceChairs("t1", fresh); err != nil {
		t.Fatal(err)
	}
	chairs := s.Chairs("t1")
	if len(chairs) != 3 {
		t.Fatalf("t1 owns %d chairs, want 3", len(chairs))
	}
	if _, alive := s.Get("old1"); alive {
		t.Error("old chair survived replacement")
	}
	if _, alive := s.Get("cn1"); alive {
		t.Error("connection between replaced chairs survived")
	}
	for _, ch := range chairs {
		if ch.ParentTableID != "t1" {
			t.Errorf("chair %s parent %q", ch.ID, ch.ParentTableID)
		}
	}
}

func TestReplaceChairsUnknownTable(t *testing.T) {
	s := New()
	if err := s.ReplaceChairs("ghost", nil); err == nil {
		t.Fatal("expected error for unknown table")
	}
}

func TestReplaceAllRebuildsIndexes(t *testing.T) {
	s := New()
	addTable(t, s, "stale")
	s.ReplaceAll([]model.Element{
		&model.Table{Common: model.Common{ID: "t1"}, Shape: model.TableCircle, Radius: 40},
		&model.Chair{Common: model.Common{ID: "c1"}, ParentTableID: "t1"},
	})
	if _, alive := s.Get("stale"); alive {
		t.Error("pre-existing element survived ReplaceAll")
	}
	if len(s.Chairs("t1")) != 1 {
		t.Error("chair index not rebuilt")
	}
}

func TestConnectedIsOrderIndependent(t *testing.T) {
	s := New()
	addChair(t, s, "a", "", 0, 0)
	addChair(t, s, "b", "", 10, 0)
	if _, err := s.Add(&model.Connection{Common: model.Common{ID: "cn"}, StartChairID: "a", EndChairID: "b"}); err != nil {
		t.Fatal(err)
	}
	if !s.Connected("a", "b") || !s.Connected("b", "a") {
		t.Fatal("Connected must ignore endpoint order")
	}
	if s.Connected("a", "ghost") {
		t.Fatal("unrelated pair reported connected")
	}
}

func TestDeduplicateChairs(t *testing.T) {
	s := New()
	addTable(t, s, "t1")
	addChair(t, s, "c1", "t1", 100, 50)
	addChair(t, s, "c2", "t1", 100.3, 49.8) // rounds onto c1
	addChair(t, s, "c3", "t1", 130, 50)
	removed := s.DeduplicateChairs()
	if removed != 1 {
		t.Fatalf("removed %d duplicates, want 1", removed)
	}
	if _, alive := s.Get("c1"); !alive {
		t.Error("first-seen chair must be kept")
	}
	if _, alive := s.Get("c2"); alive {
		t.Error("duplicate chair must be removed")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := New()
	tbl := addTable(t, s, "t1")
	snap := s.Snapshot()
	snap[0].SetPos(model.Vec2{X: 999, Y: 999})
	if tbl.Position.X == 999 {
		t.Fatal("snapshot shares state with the live scene")
	}
}
