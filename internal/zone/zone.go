// Package zone implements zone assignment with its cascade invariant: a
// chair owned by a table always carries its table's zone after any
// assignment, and clearing a zone restores type-appropriate colors instead
// of leaving a stale tint.
package zone

import (
	"context"

	"github.com/entradix/seatmap-editor/internal/model"
	"github.com/entradix/seatmap-editor/internal/scene"
)

// Catalog is the external zone catalog collaborator. Implementations fetch
// the zones valid for a room; callers degrade to an empty list on failure.
type Catalog interface {
	FetchZonesForRoom(ctx context.Context, roomID string) ([]model.Zone, error)
}

// Assign tags the target elements with the zone and its display color. A
// table target cascades the same assignment to every chair it owns, even
// though those chairs were not in the explicit target set. A nil zone
// clears the assignment and resets colors to defaults. Returns the ids of
// every element actually touched, cascade included.
func Assign(s *scene.Store, z *model.Zone, elementIDs []string) []string {
	touched := make([]string, 0, len(elementIDs))
	seen := make(map[string]struct{}, len(elementIDs))
	apply := func(el model.Element) {
		id := el.ElementID()
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		if z == nil {
			el.SetZoneID("")
			model.ResetDisplayColor(el)
		} else {
			el.SetZoneID(z.ID)
			setZoneColor(el, z.Color)
		}
		touched = append(touched, id)
	}

	for _, id := range elementIDs {
		el, ok := s.Get(id)
		if !ok {
			continue
		}
		apply(el)
		if el.ElementType() == model.TypeTable {
			for _, ch := range s.Chairs(id) {
				apply(ch)
			}
		}
	}
	return touched
}

// setZoneColor paints the zone's display color onto whichever fill the
// element type exposes. Connections have no fill and keep only the tag.
func setZoneColor(el model.Element, color string) {
	switch t := el.(type) {
	case *model.Table:
		t.FillColor = color
	case *model.Chair:
		t.FillColor = color
	case *model.Shape:
		t.Fill = color
	case *model.Text:
		t.FillColor = color
	}
}

// Find returns the zone with the given id from a catalog snapshot.
func Find(zones []model.Zone, id string) (*model.Zone, bool) {
	for i := range zones {
		if zones[i].ID == id {
			return &zones[i], true
		}
	}
	return nil, false
}
