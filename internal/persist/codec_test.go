package persist

import (
	"testing"

	"github.com/entradix/seatmap-editor/internal/model"
)

func TestBuildContentDeepCopies(t *testing.T) {
	tbl := &model.Table{Common: model.Common{ID: "t1", Position: model.Vec2{X: 100, Y: 100}}, Shape: model.TableCircle, Radius: 60}
	ch := &model.Chair{Common: model.Common{ID: "c1"}, ParentTableID: "t1"}
	zones := []model.Zone{{ID: "z1", Name: "VIP", Color: "#ffd700"}}

	content := BuildContent([]model.Element{tbl, ch}, zones, model.DefaultConfig())
	if len(content.Elementos) != 2 || len(content.Zonas) != 1 {
		t.Fatalf("content holds %d elements, %d zones", len(content.Elementos), len(content.Zonas))
	}

	// Mutating the live scene after the build must not bleed into the
	// serialized content.
	tbl.Position = model.Vec2{X: 999, Y: 999}
	zones[0].Color = "#000000"
	if content.Elementos[0].Pos().X == 999 {
		t.Fatal("content shares element state with the live scene")
	}
	if content.Zonas[0].Color == "#000000" {
		t.Fatal("content shares zone state with the caller's slice")
	}
}

func TestContentRoundTripPreservesOrder(t *testing.T) {
	els := []model.Element{
		&model.Table{Common: model.Common{ID: "t1"}, Shape: model.TableRect, Width: 120, Height: 80},
		&model.Chair{Common: model.Common{ID: "c1"}, ParentTableID: "t1", SeatNumber: 1},
		&model.Text{Common: model.Common{ID: "x1"}, Content: "Entrada"},
	}
	cfg := model.MapConfig{GridSize: 25, Dimensions: model.Dimensions{Width: 1000, Height: 700}}
	doc := &model.MapDocument{ID: "m1", SalaID: "sala-1", Contenido: BuildContent(els, nil, cfg)}

	gotEls, gotZones, gotCfg := DecodeContent(doc)
	if len(gotEls) != 3 {
		t.Fatalf("decoded %d elements, want 3", len(gotEls))
	}
	for i, want := range []string{"t1", "c1", "x1"} {
		if gotEls[i].ElementID() != want {
			t.Fatalf("position %d holds %s, want %s", i, gotEls[i].ElementID(), want)
		}
	}
	if len(gotZones) != 0 {
		t.Fatalf("decoded %d zones, want 0", len(gotZones))
	}
	if gotCfg != cfg {
		t.Fatalf("config = %+v, want %+v", gotCfg, cfg)
	}
}

func TestDecodeContentNilDocument(t *testing.T) {
	els, zones, cfg := DecodeContent(nil)
	if len(els) != 0 || len(zones) != 0 {
		t.Fatal("nil document must decode to a blank scene")
	}
	if cfg != model.DefaultConfig() {
		t.Fatalf("config = %+v", cfg)
	}
}

func TestDecodeContentFillsBadConfig(t *testing.T) {
	doc := &model.MapDocument{
		ID:     "m1",
		SalaID: "sala-1",
		Contenido: model.MapContent{
			Configuracion: model.MapConfig{GridSize: -5},
		},
	}
	_, _, cfg := DecodeContent(doc)
	def := model.DefaultConfig()
	if cfg.GridSize != def.GridSize {
		t.Fatalf("grid size = %v", cfg.GridSize)
	}
	if cfg.Dimensions != def.Dimensions {
		t.Fatalf("dimensions = %+v", cfg.Dimensions)
	}
}
