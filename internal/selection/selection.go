// Package selection implements click and marquee selection over the scene
// store, including the derived table+chairs group selection that makes
// moving, rotating or deleting a table carry its chairs along.
package selection

import (
	"math"

	"github.com/entradix/seatmap-editor/internal/model"
	"github.com/entradix/seatmap-editor/internal/scene"
)

// Selection is the selection state machine for one editor session. It
// keeps an ordered id list so operations on the selection are stable.
type Selection struct {
	store   *scene.Store
	ids     []string
	members map[string]struct{}

	marqueeActive bool
	anchor        model.Vec2
	corner        model.Vec2
}

// New returns an empty selection bound to a store.
func New(store *scene.Store) *Selection {
	return &Selection{store: store, members: make(map[string]struct{})}
}

// IDs returns the explicitly selected element ids in selection order.
func (s *Selection) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Contains reports explicit membership (not derived group members).
func (s *Selection) Contains(id string) bool {
	_, ok := s.members[id]
	return ok
}

// Clear empties the selection, as a plain click on empty canvas does.
func (s *Selection) Clear() {
	s.ids = s.ids[:0]
	s.members = make(map[string]struct{})
}

// Click handles clicking an element. A plain click replaces the selection
// with just that element; an additive (ctrl/cmd) click toggles its
// membership. Clicking an unknown id clears, same as empty canvas.
func (s *Selection) Click(id string, additive bool) {
	if _, ok := s.store.Get(id); !ok {
		s.Clear()
		return
	}
	if !additive {
		s.Clear()
		s.add(id)
		return
	}
	if s.Contains(id) {
		s.remove(id)
		return
	}
	s.add(id)
}

// BeginMarquee starts a rectangle drag anchored at the mouse-down point on
// empty canvas.
func (s *Selection) BeginMarquee(p model.Vec2) {
	s.marqueeActive = true
	s.anchor = p
	s.corner = p
}

// UpdateMarquee moves the rectangle's opposite corner while dragging.
func (s *Selection) UpdateMarquee(p model.Vec2) {
	if s.marqueeActive {
		s.corner = p
	}
}

// EndMarquee completes the drag and replaces the selection with every
// element whose position lies within the rectangle, bounds inclusive. A
// zero-area drag selects nothing.
func (s *Selection) EndMarquee() []string {
	if !s.marqueeActive {
		return nil
	}
	s.marqueeActive = false
	minX := math.Min(s.anchor.X, s.corner.X)
	maxX := math.Max(s.anchor.X, s.corner.X)
	minY := math.Min(s.anchor.Y, s.corner.Y)
	maxY := math.Max(s.anchor.Y, s.corner.Y)
	s.Clear()
	if minX == maxX || minY == maxY {
		return nil
	}
	for _, el := range s.store.Elements() {
		if el.ElementType() == model.TypeConnection {
			continue
		}
		p := el.Pos()
		if p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY {
			s.add(el.ElementID())
		}
	}
	return s.IDs()
}

// MarqueeActive reports whether a rectangle drag is in progress.
func (s *Selection) MarqueeActive() bool { return s.marqueeActive }

// HitTest returns the topmost element whose bounds contain the point.
// Insertion order is z-order, so the scan runs back to front.
func (s *Selection) HitTest(p model.Vec2) (model.Element, bool) {
	els := s.store.Elements()
	for i := len(els) - 1; i >= 0; i-- {
		if hit(els[i], p) {
			return els[i], true
		}
	}
	return nil, false
}

// Resolve expands the explicit selection with the chairs of every selected
// table. The expansion is derived on each call and never stored, so chair
// membership follows the live table index.
func (s *Selection) Resolve() []string {
	out := make([]string, 0, len(s.ids))
	seen := make(map[string]struct{}, len(s.ids))
	push := func(id string) {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, id := range s.ids {
		push(id)
		if el, ok := s.store.Get(id); ok && el.ElementType() == model.TypeTable {
			for _, ch := range s.store.Chairs(id) {
				push(ch.ID)
			}
		}
	}
	return out
}

// MoveBy translates the selection (group members included) by a delta.
func (s *Selection) MoveBy(dx, dy float64) {
	for _, id := range s.Resolve() {
		el, ok := s.store.Get(id)
		if !ok || el.ElementType() == model.TypeConnection {
			continue
		}
		p := el.Pos()
		el.SetPos(model.Vec2{X: p.X + dx, Y: p.Y + dy})
	}
}

// RotateTable sets a table's rotation and swings its chairs around the
// table center by the delta angle, preserving each chair's offset. The
// cascade uses the rotation delta, not the absolute angle, so repeated
// rotations compose correctly.
func (s *Selection) RotateTable(tableID string, newRotation float64) bool {
	el, ok := s.store.Get(tableID)
	if !ok {
		return false
	}
	t, ok := el.(*model.Table)
	if !ok {
		return false
	}
	delta := (newRotation - t.Rotation) * math.Pi / 180
	center := t.Center()
	sin, cos := math.Sin(delta), math.Cos(delta)
	for _, ch := range s.store.Chairs(tableID) {
		ox := ch.Position.X - center.X
		oy := ch.Position.Y - center.Y
		ch.Position = model.Vec2{
			X: center.X + ox*cos - oy*sin,
			Y: center.Y + ox*sin + oy*cos,
		}
	}
	t.Rotation = newRotation
	return true
}

// DeleteSelected removes the resolved selection from the store (the store
// handles chair and connection cascades) and clears the selection. It
// returns how many elements were removed.
func (s *Selection) DeleteSelected() int {
	targets := s.Resolve()
	if len(targets) == 0 {
		return 0
	}
	n := s.store.Delete(targets...)
	s.Clear()
	return n
}

func (s *Selection) add(id string) {
	if _, dup := s.members[id]; dup {
		return
	}
	s.members[id] = struct{}{}
	s.ids = append(s.ids, id)
}

func (s *Selection) remove(id string) {
	if _, ok := s.members[id]; !ok {
		return
	}
	delete(s.members, id)
	for i, sid := range s.ids {
		if sid == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
}

// hit tests a point against an element's bounds.
func hit(el model.Element, p model.Vec2) bool {
	switch t := el.(type) {
	case *model.Table:
		if t.Shape == model.TableRect {
			return inBox(p, t.Position, t.Width, t.Height)
		}
		return math.Hypot(p.X-t.Position.X, p.Y-t.Position.Y) <= t.Radius
	case *model.Chair:
		return math.Hypot(p.X-t.Position.X, p.Y-t.Position.Y) <= t.Size/2
	case *model.Shape:
		return inBox(p, t.Position, t.Width, t.Height)
	case *model.Text:
		// Approximate text bounds from the font metrics; good enough for
		// click targets.
		w := t.FontSize * 0.6 * float64(len(t.Content))
		return inBox(p, t.Position, w, t.FontSize)
	}
	return false
}

func inBox(p, pos model.Vec2, w, h float64) bool {
	return p.X >= pos.X && p.X <= pos.X+w && p.Y >= pos.Y && p.Y <= pos.Y+h
}
