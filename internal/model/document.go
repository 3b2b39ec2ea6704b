package model

// This file defines the serialized map document exchanged with the map
// persistence service. Top-level field names follow the storage contract
// used by the rest of the product (nombre, descripcion, sala_id, contenido)
// and must not be renamed.

// Map lifecycle states.
const (
	EstadoBorrador = "borrador"
	EstadoActive   = "active"
)

// MapDocument is the full serialized seating map for one room (sala).
type MapDocument struct {
	ID          string     `json:"id"`
	Nombre      string     `json:"nombre"`
	Descripcion string     `json:"descripcion,omitempty"`
	SalaID      string     `json:"sala_id"`
	Estado      string     `json:"estado"`
	Contenido   MapContent `json:"contenido"`
}

// MapContent holds the scene itself: the ordered element list, the zone
// catalog snapshot and the canvas configuration.
type MapContent struct {
	Elementos     ElementList `json:"elementos"`
	Zonas         []Zone      `json:"zonas"`
	Configuracion MapConfig   `json:"configuracion"`
}

// MapConfig carries canvas settings. Background is stored and round-tripped
// untouched; the editor does not interpret the image itself.
type MapConfig struct {
	GridSize   float64     `json:"gridSize"`
	ShowGrid   bool        `json:"showGrid"`
	SnapToGrid bool        `json:"snapToGrid"`
	Background *Background `json:"background"`
	Dimensions Dimensions  `json:"dimensions"`
}

// Background describes an optional underlay image for tracing a venue
// floor plan.
type Background struct {
	Image     string  `json:"image"`
	Scale     float64 `json:"scale"`
	Opacity   float64 `json:"opacity"`
	Position  Vec2    `json:"position"`
	ShowInWeb bool    `json:"showInWeb"`
}

// Dimensions is the logical canvas size in pixels.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultConfig returns the canvas configuration for a brand-new map.
func DefaultConfig() MapConfig {
	return MapConfig{
		GridSize:   20,
		ShowGrid:   true,
		SnapToGrid: true,
		Dimensions: Dimensions{Width: 1200, Height: 800},
	}
}

// NewDocument builds an empty draft document for a room.
func NewDocument(id, salaID, nombre string) *MapDocument {
	return &MapDocument{
		ID:     id,
		Nombre: nombre,
		SalaID: salaID,
		Estado: EstadoBorrador,
		Contenido: MapContent{
			Configuracion: DefaultConfig(),
		},
	}
}
