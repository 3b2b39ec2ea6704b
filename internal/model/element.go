// Package model defines the typed scene elements that make up a seating
// map, the zone tag, and the serialized map document contract. Elements
// form a closed union discriminated by type; consumers switch exhaustively
// on the concrete type rather than probing optional fields.
package model

// Vec2 is a 2D point or offset on the canvas.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ElementType discriminates the element union.
type ElementType string

const (
	TypeTable      ElementType = "table"
	TypeChair      ElementType = "chair"
	TypeText       ElementType = "text"
	TypeShape      ElementType = "shape"
	TypeConnection ElementType = "connection"
)

// TableShape enumerates supported table geometries.
type TableShape string

const (
	TableRect    TableShape = "rect"
	TableCircle  TableShape = "circle"
	TableHexagon TableShape = "hexagon"
	TableStar    TableShape = "star"
)

// ChairShape enumerates how a chair is drawn.
type ChairShape string

const (
	ChairCircle ChairShape = "circle"
	ChairRect   ChairShape = "rect"
)

// SeatState is the booking state of a chair.
type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatSelected  SeatState = "selected"
	SeatOccupied  SeatState = "occupied"
	SeatBlocked   SeatState = "blocked"
	SeatReserved  SeatState = "reserved"
)

// ConnectionStyle selects the stroke pattern of a connection edge.
type ConnectionStyle string

const (
	ConnectionSolid  ConnectionStyle = "solid"
	ConnectionDashed ConnectionStyle = "dashed"
)

// SeatStyle holds the display attributes associated with a seat state.
type SeatStyle struct {
	Fill    string
	Stroke  string
	Opacity float64
}

// SeatPalette maps each seat state to its display style. The values match
// the palette the storefront renders with, so state changes in the editor
// are visually consistent with the public map.
var SeatPalette = map[SeatState]SeatStyle{
	SeatAvailable: {Fill: "#00d6a4", Stroke: "#a8aebc", Opacity: 1},
	SeatSelected:  {Fill: "#008e6d", Stroke: "#696f7d", Opacity: 1},
	SeatOccupied:  {Fill: "#ff6b6b", Stroke: "#d63031", Opacity: 0.8},
	SeatBlocked:   {Fill: "#6c5ce7", Stroke: "#5f3dc4", Opacity: 0.7},
	SeatReserved:  {Fill: "#fdcb6e", Stroke: "#e17055", Opacity: 0.9},
}

// Element is the interface shared by every member of the union. Mutations
// beyond the common fields go through the concrete types or SetProperty.
type Element interface {
	ElementID() string
	ElementType() ElementType
	Pos() Vec2
	SetPos(p Vec2)
	Rot() float64
	SetRot(deg float64)
	Zone() string
	SetZoneID(id string)
	ElementName() string
	Clone() Element
}

// Common carries the fields every element shares. Position is the top-left
// corner for rect tables and shapes, and the center for circle, hexagon and
// star tables and for chairs.
type Common struct {
	ID       string  `json:"id"`
	Position Vec2    `json:"position"`
	Rotation float64 `json:"rotation,omitempty"`
	ZoneID   string  `json:"zoneId,omitempty"`
	Name     string  `json:"name,omitempty"`
}

func (c *Common) ElementID() string { return c.ID }
func (c *Common) Pos() Vec2 { return c.Position }
func (c *Common) SetPos(p Vec2) { c.Position = p }
func (c *Common) Rot() float64 { return c.Rotation }
func (c *Common) SetRot(deg float64) { c.Rotation = deg }
func (c *Common) Zone() string { return c.ZoneID }
func (c *Common) SetZoneID(id string) { c.ZoneID = id }
func (c *Common) ElementName() string { return c.Name }

// Table is a seating anchor that owns zero or more chairs arranged around
// it. Rect tables use Width/Height; the round shapes use Radius.
type Table struct {
	Common
	Shape       TableShape `json:"shape"`
	Width       float64    `json:"width,omitempty"`
	Height      float64    `json:"height,omitempty"`
	Radius      float64    `json:"radius,omitempty"`
	FillColor   string     `json:"fillColor,omitempty"`
	StrokeColor string     `json:"strokeColor,omitempty"`
}

func (t *Table) ElementType() ElementType { return TypeTable }

func (t *Table) Clone() Element { c := *t; return &c }

// Center returns the geometric center of the table regardless of shape.
func (t *Table) Center() Vec2 {
	if t.Shape == TableRect {
		return Vec2{X: t.Position.X + t.Width/2, Y: t.Position.Y + t.Height/2}
	}
	return t.Position
}

// OuterRadius is the distance from the center to the table's edge, used by
// the layout engine to keep chairs clear of the table body.
func (t *Table) OuterRadius() float64 {
	if t.Shape == TableRect {
		if t.Width > t.Height {
			return t.Width / 2
		}
		return t.Height / 2
	}
	return t.Radius
}

// Chair is an individual seat, optionally owned by a table through
// ParentTableID. SeatNumber is a contiguous 1..N sequence within the
// owning table.
type Chair struct {
	Common
	ParentTableID string     `json:"parentTableId,omitempty"`
	Shape         ChairShape `json:"shape"`
	Size          float64    `json:"size,omitempty"`
	SeatNumber    int        `json:"seatNumber"`
	State         SeatState  `json:"state"`
	RowLabel      string     `json:"rowLabel,omitempty"`
	FillColor     string     `json:"fillColor,omitempty"`
	StrokeColor   string     `json:"strokeColor,omitempty"`
	Opacity       float64    `json:"opacity,omitempty"`
}

func (ch *Chair) ElementType() ElementType { return TypeChair }

func (ch *Chair) Clone() Element { c := *ch; return &c }

// ApplyState sets the seat state together with its palette colors.
func (ch *Chair) ApplyState(s SeatState) {
	ch.State = s
	if style, ok := SeatPalette[s]; ok {
		ch.FillColor = style.Fill
		ch.StrokeColor = style.Stroke
		ch.Opacity = style.Opacity
	}
}

// Text is a free-floating label on the canvas.
type Text struct {
	Common
	Content   string  `json:"content"`
	FontSize  float64 `json:"fontSize,omitempty"`
	FillColor string  `json:"fillColor,omitempty"`
}

func (t *Text) ElementType() ElementType { return TypeText }

func (t *Text) Clone() Element { c := *t; return &c }

// ShapeKind selects the decorative shape geometry.
type ShapeKind string

const (
	ShapeRect    ShapeKind = "rect"
	ShapeEllipse ShapeKind = "ellipse"
)

// Shape is a decorative rectangle or ellipse, used for stages, bars and
// highlighted areas. It has no seating semantics.
type Shape struct {
	Common
	Kind        ShapeKind `json:"kind"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Fill        string    `json:"fill,omitempty"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
}

func (s *Shape) ElementType() ElementType { return TypeShape }

func (s *Shape) Clone() Element { c := *s; return &c }

// Connection is a purely visual edge between two chairs. It is valid only
// while both endpoints exist; the scene store prunes stale connections on
// every chair deletion.
type Connection struct {
	Common
	StartChairID string          `json:"startChairId"`
	EndChairID   string          `json:"endChairId"`
	Style        ConnectionStyle `json:"style,omitempty"`
}

func (cn *Connection) ElementType() ElementType { return TypeConnection }

func (cn *Connection) Clone() Element { c := *cn; return &c }

// Links reports whether the connection touches the given chair id.
func (cn *Connection) Links(chairID string) bool {
	return cn.StartChairID == chairID || cn.EndChairID == chairID
}

// SamePair reports whether the connection joins the same two chairs,
// regardless of endpoint order.
func (cn *Connection) SamePair(a, b string) bool {
	return (cn.StartChairID == a && cn.EndChairID == b) ||
		(cn.StartChairID == b && cn.EndChairID == a)
}

// Zone is a named, colored grouping tag assignable to elements. Zones are
// not positioned scene elements; they live in the document next to the
// element list.
type Zone struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CloneAll deep-copies a slice of elements, preserving order.
func CloneAll(els []Element) []Element {
	if els == nil {
		return nil
	}
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = el.Clone()
	}
	return out
}
