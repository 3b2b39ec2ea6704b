package zone

import (
	"testing"

	"github.com/entradix/seatmap-editor/internal/model"
	"github.com/entradix/seatmap-editor/internal/scene"
)

func seed(t *testing.T) *scene.Store {
	t.Helper()
	s := scene.New()
	add := func(el model.Element) {
		if _, err := s.Add(el); err != nil {
			t.Fatal(err)
		}
	}
	add(&model.Table{Common: model.Common{ID: "t1"}, Shape: model.TableCircle, Radius: 40, FillColor: model.DefaultTableFill})
	ch1 := &model.Chair{Common: model.Common{ID: "c1"}, ParentTableID: "t1"}
	ch1.ApplyState(model.SeatAvailable)
	add(ch1)
	ch2 := &model.Chair{Common: model.Common{ID: "c2"}, ParentTableID: "t1"}
	ch2.ApplyState(model.SeatOccupied)
	add(ch2)
	add(&model.Shape{Common: model.Common{ID: "s1"}, Kind: model.ShapeRect, Fill: model.DefaultShapeFill})
	return s
}

var vip = model.Zone{ID: "z1", Name: "VIP", Color: "#ffd700"}

func TestAssignCascadesTableToChairs(t *testing.T) {
	s := seed(t)
	touched := Assign(s, &vip, []string{"t1"})
	if len(touched) != 3 {
		t.Fatalf("touched %v, want table plus two chairs", touched)
	}
	for _, id := range []string{"t1", "c1", "c2"} {
		el, _ := s.Get(id)
		if el.Zone() != "z1" {
			t.Errorf("%s zone = %q", id, el.Zone())
		}
	}
	tbl, _ := s.Get("t1")
	if tbl.(*model.Table).FillColor != "#ffd700" {
		t.Error("table did not take the zone color")
	}
	c1, _ := s.Get("c1")
	if c1.(*model.Chair).FillColor != "#ffd700" {
		t.Error("chair did not take the zone color")
	}
}

func TestAssignDirectChairOnly(t *testing.T) {
	s := seed(t)
	touched := Assign(s, &vip, []string{"c1"})
	if len(touched) != 1 {
		t.Fatalf("touched %v, want only c1", touched)
	}
	c2, _ := s.Get("c2")
	if c2.Zone() != "" {
		t.Error("sibling chair must stay untagged")
	}
}

func TestClearRestoresDefaults(t *testing.T) {
	s := seed(t)
	Assign(s, &vip, []string{"t1", "s1"})
	touched := Assign(s, nil, []string{"t1", "s1"})
	if len(touched) != 4 {
		t.Fatalf("clear touched %v", touched)
	}

	tbl, _ := s.Get("t1")
	if tbl.Zone() != "" || tbl.(*model.Table).FillColor != model.DefaultTableFill {
		t.Error("table not reset to defaults")
	}
	sh, _ := s.Get("s1")
	if sh.(*model.Shape).Fill != model.DefaultShapeFill {
		t.Error("shape not reset to defaults")
	}
	// Chairs fall back to their seat-state palette, not a flat default.
	c1, _ := s.Get("c1")
	if c1.(*model.Chair).FillColor != model.SeatPalette[model.SeatAvailable].Fill {
		t.Error("available chair not restored to palette color")
	}
	c2, _ := s.Get("c2")
	if c2.(*model.Chair).FillColor != model.SeatPalette[model.SeatOccupied].Fill {
		t.Error("occupied chair not restored to palette color")
	}
}

func TestAssignSkipsUnknownAndDeduplicates(t *testing.T) {
	s := seed(t)
	// c1 appears both explicitly and through the table cascade.
	touched := Assign(s, &vip, []string{"ghost", "c1", "t1"})
	if len(touched) != 3 {
		t.Fatalf("touched %v, want 3 unique ids", touched)
	}
}

func TestFind(t *testing.T) {
	zones := []model.Zone{vip, {ID: "z2", Name: "General", Color: "#cccccc"}}
	z, ok := Find(zones, "z2")
	if !ok || z.Name != "General" {
		t.Fatalf("Find returned (%v, %v)", z, ok)
	}
	if _, ok := Find(zones, "nope"); ok {
		t.Fatal("unknown id must not be found")
	}
}
