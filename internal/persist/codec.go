// Package persist adapts the in-memory scene to the serialized map
// document contract and owns autosave debouncing.
package persist

import (
	"context"

	"github.com/entradix/seatmap-editor/internal/model"
)

// Repository is the external map persistence collaborator. Load returns
// (nil, nil) when no map exists for the room, meaning "start blank".
type Repository interface {
	Load(ctx context.Context, roomID string) (*model.MapDocument, error)
	Save(ctx context.Context, doc *model.MapDocument) error
}

// BuildContent serializes the live scene into document content. The
// element list keeps insertion order, so a round trip reproduces the same
// ordered list.
func BuildContent(elements []model.Element, zones []model.Zone, cfg model.MapConfig) model.MapContent {
	return model.MapContent{
		Elementos:     model.ElementList(model.CloneAll(elements)),
		Zonas:         append([]model.Zone(nil), zones...),
		Configuracion: cfg,
	}
}

// DecodeContent restores scene state from a stored document. A nil
// document or malformed/legacy content (the element codec already skips
// entries it cannot read) yields an empty scene with default settings
// rather than an error.
func DecodeContent(doc *model.MapDocument) ([]model.Element, []model.Zone, model.MapConfig) {
	if doc == nil {
		return nil, nil, model.DefaultConfig()
	}
	c := doc.Contenido
	cfg := c.Configuracion
	def := model.DefaultConfig()
	if cfg.GridSize <= 0 {
		cfg.GridSize = def.GridSize
	}
	if cfg.Dimensions.Width <= 0 || cfg.Dimensions.Height <= 0 {
		cfg.Dimensions = def.Dimensions
	}
	return []model.Element(c.Elementos), c.Zonas, cfg
}
