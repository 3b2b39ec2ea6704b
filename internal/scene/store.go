// Package scene holds the authoritative in-memory element collection for
// one open map. All mutations are synchronous; the editor applies local
// input and inbound collaboration events on the same goroutine, guarded by
// the owning editor session.
package scene

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/entradix/seatmap-editor/internal/model"
)

// Store is an arena of elements keyed by id, with insertion order preserved
// (insertion order is also z-order for rendering) and an incrementally
// maintained table -> chairs index so cascades never rescan the full scene.
type Store struct {
	order         []string
	byID          map[string]model.Element
	chairsByTable map[string][]string
}

// New returns an empty store.
func New() *Store {
	return &Store{
		byID:          make(map[string]model.Element),
		chairsByTable: make(map[string][]string),
	}
}

// NewID mints an opaque globally unique element id.
func NewID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}

// Add appends an element to the scene and returns its id. An element
// without an id is assigned one. Adding an id that already exists is
// rejected so replicated element_created events stay idempotent.
func (s *Store) Add(el model.Element) (string, error) {
	id := el.ElementID()
	if id == "" {
		id = NewID(string(el.ElementType()))
		switch t := el.(type) {
		case *model.Table:
			t.ID = id
		case *model.Chair:
			t.ID = id
		case *model.Text:
			t.ID = id
		case *model.Shape:
			t.ID = id
		case *model.Connection:
			t.ID = id
		}
	}
	if _, exists := s.byID[id]; exists {
		return id, fmt.Errorf("element %s already present", id)
	}
	s.byID[id] = el
	s.order = append(s.order, id)
	if ch, ok := el.(*model.Chair); ok && ch.ParentTableID != "" {
		s.chairsByTable[ch.ParentTableID] = append(s.chairsByTable[ch.ParentTableID], id)
	}
	return id, nil
}

// Get looks up an element by id.
func (s *Store) Get(id string) (model.Element, bool) {
	el, ok := s.byID[id]
	return el, ok
}

// Len returns the number of elements in the scene.
func (s *Store) Len() int { return len(s.order) }

// Elements returns the live elements in insertion order. Callers must not
// hold the slice across mutations; use Snapshot for a stable copy.
func (s *Store) Elements() []model.Element {
	out := make([]model.Element, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Snapshot deep-copies the element list in insertion order. Snapshots feed
// the history manager and the persistence adapter.
func (s *Store) Snapshot() []model.Element {
	return model.CloneAll(s.Elements())
}

// UpdateProperty applies a named property update. Unknown ids are a no-op
// returning false, per last-write-wins semantics for concurrent edits.
func (s *Store) UpdateProperty(id, key string, value any) bool {
	el, ok := s.byID[id]
	if !ok {
		return false
	}
	// Reparenting a chair must keep the table index coherent.
	if ch, isChair := el.(*model.Chair); isChair && key == "parentTableId" {
		if v, isStr := value.(string); isStr {
			s.reparentChair(ch, v)
			return true
		}
		return false
	}
	return model.SetProperty(el, key, value)
}

// UpdateSize sets the width/height (or radius for round tables) of an
// element. Elements without a size are left untouched.
func (s *Store) UpdateSize(id string, w, h float64) bool {
	el, ok := s.byID[id]
	if !ok {
		return false
	}
	switch t := el.(type) {
	case *model.Table:
		if t.Shape == model.TableRect {
			t.Width, t.Height = w, h
		} else {
			t.Radius = math.Max(w, h) / 2
		}
		return true
	case *model.Shape:
		t.Width, t.Height = w, h
		return true
	case *model.Chair:
		t.Size = math.Max(w, h)
		return true
	}
	return false
}

// Delete removes the given elements with full cascade semantics: deleting
// a table also deletes its chairs, and any connection referencing a deleted
// chair is pruned. Unknown ids are skipped. The number of elements actually
// removed is returned.
func (s *Store) Delete(ids ...string) int {
	doomed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		el, ok := s.byID[id]
		if !ok {
			continue
		}
		doomed[id] = struct{}{}
		if el.ElementType() == model.TypeTable {
			for _, chairID := range s.chairsByTable[id] {
				doomed[chairID] = struct{}{}
			}
		}
	}
	if len(doomed) == 0 {
		return 0
	}

	// Prune connections whose endpoints are going away, plus any stale
	// connection already dangling from an earlier partial state.
	for id, el := range s.byID {
		cn, ok := el.(*model.Connection)
		if !ok {
			continue
		}
		if _, dead := doomed[id]; dead {
			continue
		}
		_, startDoomed := doomed[cn.StartChairID]
		_, endDoomed := doomed[cn.EndChairID]
		_, startAlive := s.byID[cn.StartChairID]
		_, endAlive := s.byID[cn.EndChairID]
		if startDoomed || endDoomed || !startAlive || !endAlive {
			doomed[id] = struct{}{}
		}
	}

	for id := range doomed {
		s.remove(id)
	}
	return len(doomed)
}

// ReplaceChairs atomically swaps the chair set of a table: all existing
// chairs under tableID are removed and the new ones appended in a single
// state transition, so observers never see a mix of old and new numbering.
func (s *Store) ReplaceChairs(tableID string, chairs []*model.Chair) error {
	if _, ok := s.byID[tableID]; !ok {
		return fmt.Errorf("table %s not found", tableID)
	}
	old := append([]string(nil), s.chairsByTable[tableID]...)
	for _, id := range old {
		s.remove(id)
	}
	// Connections referencing removed chairs are now stale.
	s.pruneDanglingConnections()
	for _, ch := range chairs {
		ch.ParentTableID = tableID
		if _, err := s.Add(ch); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceAll swaps the whole scene for the given element list, rebuilding
// the indexes. Used by document load and by history restore.
func (s *Store) ReplaceAll(els []model.Element) {
	s.order = s.order[:0]
	s.byID = make(map[string]model.Element, len(els))
	s.chairsByTable = make(map[string][]string)
	for _, el := range els {
		if el == nil {
			continue
		}
		if _, dup := s.byID[el.ElementID()]; dup {
			continue
		}
		s.byID[el.ElementID()] = el
		s.order = append(s.order, el.ElementID())
		if ch, ok := el.(*model.Chair); ok && ch.ParentTableID != "" {
			s.chairsByTable[ch.ParentTableID] = append(s.chairsByTable[ch.ParentTableID], ch.ID)
		}
	}
}

// Chairs returns the chairs owned by a table, in insertion order.
func (s *Store) Chairs(tableID string) []*model.Chair {
	ids := s.chairsByTable[tableID]
	out := make([]*model.Chair, 0, len(ids))
	for _, id := range ids {
		if ch, ok := s.byID[id].(*model.Chair); ok {
			out = append(out, ch)
		}
	}
	return out
}

// Connections returns every connection touching the given chair.
func (s *Store) Connections(chairID string) []*model.Connection {
	var out []*model.Connection
	for _, id := range s.order {
		if cn, ok := s.byID[id].(*model.Connection); ok && cn.Links(chairID) {
			out = append(out, cn)
		}
	}
	return out
}

// Connected reports whether the two chairs already share a connection,
// comparing the endpoint pair order-independently.
func (s *Store) Connected(a, b string) bool {
	for _, id := range s.order {
		if cn, ok := s.byID[id].(*model.Connection); ok && cn.SamePair(a, b) {
			return true
		}
	}
	return false
}

// DeduplicateChairs removes chairs that occupy the same rounded position
// under the same table, keeping the first seen. Repeated regenerate
// operations on legacy documents could leave such duplicates behind.
func (s *Store) DeduplicateChairs() int {
	type key struct {
		table string
		x, y  int
	}
	seen := make(map[key]struct{})
	var doomed []string
	for _, id := range s.order {
		ch, ok := s.byID[id].(*model.Chair)
		if !ok || ch.ParentTableID == "" {
			continue
		}
		k := key{
			table: ch.ParentTableID,
			x:     int(math.Round(ch.Position.X)),
			y:     int(math.Round(ch.Position.Y)),
		}
		if _, dup := seen[k]; dup {
			doomed = append(doomed, id)
			continue
		}
		seen[k] = struct{}{}
	}
	if len(doomed) == 0 {
		return 0
	}
	return s.Delete(doomed...)
}

// remove deletes one element and maintains the order slice and table index.
// It performs no cascade; callers own that.
func (s *Store) remove(id string) {
	el, ok := s.byID[id]
	if !ok {
		return
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if ch, isChair := el.(*model.Chair); isChair && ch.ParentTableID != "" {
		ids := s.chairsByTable[ch.ParentTableID]
		for i, cid := range ids {
			if cid == id {
				s.chairsByTable[ch.ParentTableID] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
		if len(s.chairsByTable[ch.ParentTableID]) == 0 {
			delete(s.chairsByTable, ch.ParentTableID)
		}
	}
	if el.ElementType() == model.TypeTable {
		delete(s.chairsByTable, id)
	}
}

// reparentChair moves a chair between table buckets.
func (s *Store) reparentChair(ch *model.Chair, newTable string) {
	if ch.ParentTableID == newTable {
		return
	}
	if ch.ParentTableID != "" {
		ids := s.chairsByTable[ch.ParentTableID]
		for i, cid := range ids {
			if cid == ch.ID {
				s.chairsByTable[ch.ParentTableID] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
	}
	ch.ParentTableID = newTable
	if newTable != "" {
		s.chairsByTable[newTable] = append(s.chairsByTable[newTable], ch.ID)
	}
}

// pruneDanglingConnections drops connections whose endpoints no longer
// resolve to live chairs.
func (s *Store) pruneDanglingConnections() {
	var doomed []string
	for _, id := range s.order {
		cn, ok := s.byID[id].(*model.Connection)
		if !ok {
			continue
		}
		if _, start := s.byID[cn.StartChairID]; !start {
			doomed = append(doomed, id)
			continue
		}
		if _, end := s.byID[cn.EndChairID]; !end {
			doomed = append(doomed, id)
		}
	}
	for _, id := range doomed {
		s.remove(id)
	}
}
