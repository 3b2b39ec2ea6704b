package model

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func sampleElements() ElementList {
	ch := &Chair{
		Common:        Common{ID: "c1", Position: Vec2{X: 130, Y: 75}},
		ParentTableID: "t1",
		Shape:         ChairCircle,
		Size:          20,
		SeatNumber:    1,
	}
	ch.ApplyState(SeatReserved)
	return ElementList{
		&Table{
			Common:      Common{ID: "t1", Position: Vec2{X: 100, Y: 100}, Rotation: 15, ZoneID: "z1", Name: "Mesa 1"},
			Shape:       TableCircle,
			Radius:      60,
			FillColor:   "#ffd700",
			StrokeColor: DefaultTableStroke,
		},
		ch,
		&Text{Common: Common{ID: "x1", Position: Vec2{X: 10, Y: 20}}, Content: "Escenario", FontSize: 24, FillColor: DefaultTextFill},
		&Shape{Common: Common{ID: "s1"}, Kind: ShapeEllipse, Width: 300, Height: 120, Fill: DefaultShapeFill, Stroke: DefaultShapeStroke, StrokeWidth: 2},
		&Connection{Common: Common{ID: "cn1"}, StartChairID: "c1", EndChairID: "c2", Style: ConnectionDashed},
	}
}

func TestElementListRoundTrip(t *testing.T) {
	in := sampleElements()
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out ElementList
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != len(in) {
		t.Fatalf("round trip lost elements: %d -> %d", len(in), len(out))
	}
	for i := range in {
		if !reflect.DeepEqual(in[i], out[i]) {
			t.Errorf("element %d changed across round trip:\n in: %#v\nout: %#v", i, in[i], out[i])
		}
	}
}

func TestMarshalCarriesDiscriminator(t *testing.T) {
	data, err := json.Marshal(sampleElements())
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"type":"table"`, `"type":"chair"`, `"type":"text"`, `"type":"shape"`, `"type":"connection"`} {
		if !strings.Contains(s, want) {
			t.Errorf("serialized list missing %s", want)
		}
	}
}

func TestUnmarshalSkipsUnknownTypes(t *testing.T) {
	payload := `[
		{"id":"t1","type":"table","shape":"rect","position":{"x":0,"y":0},"width":120,"height":80},
		{"id":"w1","type":"wall","position":{"x":5,"y":5}},
		{"id":"c1","type":"chair","position":{"x":10,"y":10},"state":"available"}
	]`
	var out ElementList
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("decoded %d elements, want 2", len(out))
	}
	if out[0].ElementType() != TypeTable || out[1].ElementType() != TypeChair {
		t.Fatalf("decoded types %s, %s", out[0].ElementType(), out[1].ElementType())
	}
}

func TestUnmarshalMalformedYieldsEmpty(t *testing.T) {
	for _, payload := range []string{`null`, `{"not":"an array"}`, `"texto"`, `42`} {
		var out ElementList
		if err := json.Unmarshal([]byte(payload), &out); err != nil {
			t.Fatalf("payload %s returned error %v", payload, err)
		}
		if len(out) != 0 {
			t.Fatalf("payload %s decoded to %d elements", payload, len(out))
		}
	}
}

func TestSingleElementRoundTrip(t *testing.T) {
	ch := &Chair{Common: Common{ID: "c9", Position: Vec2{X: 1, Y: 2}}, Shape: ChairRect, Size: 18, SeatNumber: 9}
	ch.ApplyState(SeatBlocked)
	data, err := MarshalElement(ch)
	if err != nil {
		t.Fatal(err)
	}
	el, err := UnmarshalElement(data)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := el.(*Chair)
	if !ok {
		t.Fatalf("decoded %T", el)
	}
	if !reflect.DeepEqual(ch, got) {
		t.Fatalf("chair changed across round trip:\n in: %#v\nout: %#v", ch, got)
	}
	if _, err := UnmarshalElement([]byte(`{"id":"x","type":"hologram"}`)); err == nil {
		t.Fatal("unknown type must error for single-element decode")
	}
}

func TestApplyStatePalette(t *testing.T) {
	ch := &Chair{Common: Common{ID: "c1"}}
	ch.ApplyState(SeatOccupied)
	if ch.FillColor != "#ff6b6b" || ch.StrokeColor != "#d63031" || ch.Opacity != 0.8 {
		t.Fatalf("occupied style = %s/%s/%.1f", ch.FillColor, ch.StrokeColor, ch.Opacity)
	}
	ch.ApplyState(SeatState("desconocido"))
	if ch.State != "desconocido" {
		t.Fatal("unknown state must still be recorded")
	}
	if ch.FillColor != "#ff6b6b" {
		t.Fatal("unknown state must leave colors untouched")
	}
}

func TestSetPropertyAcceptsJSONShapes(t *testing.T) {
	tbl := &Table{Common: Common{ID: "t1"}, Shape: TableRect}
	// Values as they arrive from a decoded JSON payload.
	if !SetProperty(tbl, "position", map[string]any{"x": 40.0, "y": 60.0}) {
		t.Fatal("position from JSON map rejected")
	}
	if tbl.Position != (Vec2{X: 40, Y: 60}) {
		t.Fatalf("position = %v", tbl.Position)
	}
	if !SetProperty(tbl, "width", 150.0) {
		t.Fatal("float width rejected")
	}
	if !SetProperty(tbl, "width", 160) {
		t.Fatal("int width rejected")
	}
	if SetProperty(tbl, "width", "ancho") {
		t.Fatal("string width accepted")
	}
	if SetProperty(tbl, "noSuchKey", 1) {
		t.Fatal("unknown key accepted")
	}
	if tbl.Width != 160 {
		t.Fatalf("width = %v", tbl.Width)
	}
}
