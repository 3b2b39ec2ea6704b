package model

import (
	"encoding/json"
	"fmt"
)

// ElementList serializes the element union with its "type" discriminator.
// Decoding is lenient the same way the rest of the product treats stored
// maps: a payload that is not an array, or entries whose type is unknown,
// degrade to an empty/shorter list instead of failing the whole load.
type ElementList []Element

// elementEnvelope is the flat on-disk shape covering every member of the
// union. omitempty keeps each serialized element down to its own fields.
type elementEnvelope struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	Position Vec2        `json:"position"`
	Rotation float64     `json:"rotation,omitempty"`
	ZoneID   string      `json:"zoneId,omitempty"`
	Name     string      `json:"name,omitempty"`

	// table / shape geometry
	Shape       string  `json:"shape,omitempty"`
	Kind        string  `json:"kind,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	Radius      float64 `json:"radius,omitempty"`
	FillColor   string  `json:"fillColor,omitempty"`
	StrokeColor string  `json:"strokeColor,omitempty"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`

	// chair
	ParentTableID string  `json:"parentTableId,omitempty"`
	Size          float64 `json:"size,omitempty"`
	SeatNumber    int     `json:"seatNumber,omitempty"`
	State         string  `json:"state,omitempty"`
	RowLabel      string  `json:"rowLabel,omitempty"`
	Opacity       float64 `json:"opacity,omitempty"`

	// text
	Content  string  `json:"content,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`

	// connection
	StartChairID string `json:"startChairId,omitempty"`
	EndChairID   string `json:"endChairId,omitempty"`
	Style        string `json:"style,omitempty"`
}

func envelopeOf(el Element) elementEnvelope {
	env := elementEnvelope{
		ID:       el.ElementID(),
		Type:     el.ElementType(),
		Position: el.Pos(),
		Rotation: el.Rot(),
		ZoneID:   el.Zone(),
		Name:     el.ElementName(),
	}
	switch t := el.(type) {
	case *Table:
		env.Shape = string(t.Shape)
		env.Width = t.Width
		env.Height = t.Height
		env.Radius = t.Radius
		env.FillColor = t.FillColor
		env.StrokeColor = t.StrokeColor
	case *Chair:
		env.ParentTableID = t.ParentTableID
		env.Shape = string(t.Shape)
		env.Size = t.Size
		env.SeatNumber = t.SeatNumber
		env.State = string(t.State)
		env.RowLabel = t.RowLabel
		env.FillColor = t.FillColor
		env.StrokeColor = t.StrokeColor
		env.Opacity = t.Opacity
	case *Text:
		env.Content = t.Content
		env.FontSize = t.FontSize
		env.FillColor = t.FillColor
	case *Shape:
		env.Kind = string(t.Kind)
		env.Width = t.Width
		env.Height = t.Height
		env.Fill = t.Fill
		env.Stroke = t.Stroke
		env.StrokeWidth = t.StrokeWidth
	case *Connection:
		env.StartChairID = t.StartChairID
		env.EndChairID = t.EndChairID
		env.Style = string(t.Style)
	}
	return env
}

func (env elementEnvelope) element() (Element, error) {
	common := Common{
		ID:       env.ID,
		Position: env.Position,
		Rotation: env.Rotation,
		ZoneID:   env.ZoneID,
		Name:     env.Name,
	}
	switch env.Type {
	case TypeTable:
		return &Table{
			Common:      common,
			Shape:       TableShape(env.Shape),
			Width:       env.Width,
			Height:      env.Height,
			Radius:      env.Radius,
			FillColor:   env.FillColor,
			StrokeColor: env.StrokeColor,
		}, nil
	case TypeChair:
		return &Chair{
			Common:        common,
			ParentTableID: env.ParentTableID,
			Shape:         ChairShape(env.Shape),
			Size:          env.Size,
			SeatNumber:    env.SeatNumber,
			State:         SeatState(env.State),
			RowLabel:      env.RowLabel,
			FillColor:     env.FillColor,
			StrokeColor:   env.StrokeColor,
			Opacity:       env.Opacity,
		}, nil
	case TypeText:
		return &Text{
			Common:    common,
			Content:   env.Content,
			FontSize:  env.FontSize,
			FillColor: env.FillColor,
		}, nil
	case TypeShape:
		return &Shape{
			Common:      common,
			Kind:        ShapeKind(env.Kind),
			Width:       env.Width,
			Height:      env.Height,
			Fill:        env.Fill,
			Stroke:      env.Stroke,
			StrokeWidth: env.StrokeWidth,
		}, nil
	case TypeConnection:
		return &Connection{
			Common:       common,
			StartChairID: env.StartChairID,
			EndChairID:   env.EndChairID,
			Style:        ConnectionStyle(env.Style),
		}, nil
	}
	return nil, fmt.Errorf("unknown element type %q", env.Type)
}

// MarshalJSON writes the list as a flat JSON array of discriminated objects.
func (l ElementList) MarshalJSON() ([]byte, error) {
	envs := make([]elementEnvelope, len(l))
	for i, el := range l {
		envs[i] = envelopeOf(el)
	}
	return json.Marshal(envs)
}

// UnmarshalJSON restores the union. A null or non-array payload yields an
// empty list; entries with an unrecognized type are skipped so one legacy
// element cannot poison the whole document.
func (l *ElementList) UnmarshalJSON(data []byte) error {
	var envs []elementEnvelope
	if err := json.Unmarshal(data, &envs); err != nil {
		*l = nil
		return nil
	}
	out := make(ElementList, 0, len(envs))
	for _, env := range envs {
		el, err := env.element()
		if err != nil {
			continue
		}
		out = append(out, el)
	}
	*l = out
	return nil
}

// MarshalElement serializes a single element with its discriminator, as
// used by element_created broadcasts.
func MarshalElement(el Element) ([]byte, error) {
	return json.Marshal(envelopeOf(el))
}

// UnmarshalElement restores a single discriminated element.
func UnmarshalElement(data []byte) (Element, error) {
	var env elementEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return env.element()
}
