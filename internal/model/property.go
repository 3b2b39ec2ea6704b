package model

// SetProperty applies a named property update to an element. It is the
// single entry point for generic property edits, used both by local editor
// operations and by remote element_updated events, so every writable
// property must be reachable from here. Unknown keys and type mismatches
// return false and leave the element untouched, matching the
// last-write-wins tolerance for unknown element ids.
func SetProperty(el Element, key string, value any) bool {
	switch key {
	case "position":
		p, ok := toVec2(value)
		if !ok {
			return false
		}
		el.SetPos(p)
		return true
	case "rotation":
		f, ok := toFloat(value)
		if !ok {
			return false
		}
		el.SetRot(f)
		return true
	case "zoneId":
		s, ok := value.(string)
		if !ok {
			return false
		}
		el.SetZoneID(s)
		return true
	case "name":
		s, ok := value.(string)
		if !ok {
			return false
		}
		switch t := el.(type) {
		case *Table:
			t.Name = s
		case *Chair:
			t.Name = s
		case *Text:
			t.Name = s
		case *Shape:
			t.Name = s
		case *Connection:
			t.Name = s
		}
		return true
	}

	switch t := el.(type) {
	case *Table:
		return setTableProperty(t, key, value)
	case *Chair:
		return setChairProperty(t, key, value)
	case *Text:
		return setTextProperty(t, key, value)
	case *Shape:
		return setShapeProperty(t, key, value)
	case *Connection:
		return setConnectionProperty(t, key, value)
	}
	return false
}

func setTableProperty(t *Table, key string, value any) bool {
	switch key {
	case "shape":
		if s, ok := value.(string); ok {
			t.Shape = TableShape(s)
			return true
		}
	case "width":
		if f, ok := toFloat(value); ok {
			t.Width = f
			return true
		}
	case "height":
		if f, ok := toFloat(value); ok {
			t.Height = f
			return true
		}
	case "radius":
		if f, ok := toFloat(value); ok {
			t.Radius = f
			return true
		}
	case "fillColor":
		if s, ok := value.(string); ok {
			t.FillColor = s
			return true
		}
	case "strokeColor":
		if s, ok := value.(string); ok {
			t.StrokeColor = s
			return true
		}
	}
	return false
}

func setChairProperty(ch *Chair, key string, value any) bool {
	switch key {
	case "shape":
		if s, ok := value.(string); ok {
			ch.Shape = ChairShape(s)
			return true
		}
	case "size":
		if f, ok := toFloat(value); ok {
			ch.Size = f
			return true
		}
	case "seatNumber":
		if f, ok := toFloat(value); ok {
			ch.SeatNumber = int(f)
			return true
		}
	case "state":
		if s, ok := value.(string); ok {
			ch.ApplyState(SeatState(s))
			return true
		}
	case "rowLabel":
		if s, ok := value.(string); ok {
			ch.RowLabel = s
			return true
		}
	case "fillColor":
		if s, ok := value.(string); ok {
			ch.FillColor = s
			return true
		}
	case "strokeColor":
		if s, ok := value.(string); ok {
			ch.StrokeColor = s
			return true
		}
	case "opacity":
		if f, ok := toFloat(value); ok {
			ch.Opacity = f
			return true
		}
	}
	return false
}

func setTextProperty(t *Text, key string, value any) bool {
	switch key {
	case "content":
		if s, ok := value.(string); ok {
			t.Content = s
			return true
		}
	case "fontSize":
		if f, ok := toFloat(value); ok {
			t.FontSize = f
			return true
		}
	case "fillColor":
		if s, ok := value.(string); ok {
			t.FillColor = s
			return true
		}
	}
	return false
}

func setShapeProperty(s *Shape, key string, value any) bool {
	switch key {
	case "kind":
		if v, ok := value.(string); ok {
			s.Kind = ShapeKind(v)
			return true
		}
	case "width":
		if f, ok := toFloat(value); ok {
			s.Width = f
			return true
		}
	case "height":
		if f, ok := toFloat(value); ok {
			s.Height = f
			return true
		}
	case "fill":
		if v, ok := value.(string); ok {
			s.Fill = v
			return true
		}
	case "stroke":
		if v, ok := value.(string); ok {
			s.Stroke = v
			return true
		}
	case "strokeWidth":
		if f, ok := toFloat(value); ok {
			s.StrokeWidth = f
			return true
		}
	}
	return false
}

func setConnectionProperty(cn *Connection, key string, value any) bool {
	switch key {
	case "style":
		if s, ok := value.(string); ok {
			cn.Style = ConnectionStyle(s)
			return true
		}
	}
	return false
}

// ResetDisplayColor restores an element's fill to its type-appropriate
// default. Used when a zone assignment is cleared so the zone tint does not
// linger.
func ResetDisplayColor(el Element) {
	switch t := el.(type) {
	case *Table:
		t.FillColor = DefaultTableFill
		t.StrokeColor = DefaultTableStroke
	case *Chair:
		t.ApplyState(t.State)
	case *Shape:
		t.Fill = DefaultShapeFill
		t.Stroke = DefaultShapeStroke
	case *Text:
		t.FillColor = DefaultTextFill
	}
}

// Default display colors for elements outside any zone.
const (
	DefaultTableFill   = "#e8eaf0"
	DefaultTableStroke = "#a8aebc"
	DefaultShapeFill   = "rgba(52, 152, 219, 0.15)"
	DefaultShapeStroke = "#3498db"
	DefaultTextFill    = "#111827"
)

// toFloat accepts the numeric types that reach us from Go callers and from
// decoded JSON payloads.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// toVec2 accepts a Vec2 value or the map shape produced by decoding a JSON
// position object.
func toVec2(v any) (Vec2, bool) {
	switch p := v.(type) {
	case Vec2:
		return p, true
	case *Vec2:
		return *p, true
	case map[string]any:
		x, okX := toFloat(p["x"])
		y, okY := toFloat(p["y"])
		if okX && okY {
			return Vec2{X: x, Y: y}, true
		}
	}
	return Vec2{}, false
}
