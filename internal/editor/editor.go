// Package editor orchestrates one open seating map: the scene store,
// selection, history, zone propagation, autosave and the optional
// collaboration session. Handlers talk to this type only.
package editor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/entradix/seatmap-editor/internal/collab"
	"github.com/entradix/seatmap-editor/internal/history"
	"github.com/entradix/seatmap-editor/internal/layout"
	"github.com/entradix/seatmap-editor/internal/model"
	"github.com/entradix/seatmap-editor/internal/persist"
	"github.com/entradix/seatmap-editor/internal/scene"
	"github.com/entradix/seatmap-editor/internal/selection"
	"github.com/entradix/seatmap-editor/internal/zone"
)

// Options configures an editor session.
type Options struct {
	Layout        layout.Config
	HistoryDepth  int
	AutosaveDelay time.Duration
	ActorID       string
	ActorName     string
	// Channel enables collaboration when non-nil. The editor works fully
	// offline without it.
	Channel collab.Channel
	// OnSaved runs after every successful save (autosave included) with
	// the document that was written. Used to fan out save notifications.
	OnSaved func(doc *model.MapDocument)
}

// Editor is one open map. All exported methods are safe for concurrent
// use; inbound collaboration events serialize on the same mutex.
type Editor struct {
	mu sync.Mutex

	roomID string
	doc    *model.MapDocument
	cfg    model.MapConfig
	zones  []model.Zone

	store  *scene.Store
	sel    *selection.Selection
	hist   *history.History
	layout layout.Config

	repo     persist.Repository
	autosave *persist.Autosave
	session  *collab.Session
	onSaved  func(doc *model.MapDocument)

	clipboard []model.Element
	warnings  []string
}

// Open loads (or starts blank) the map for a room, fetches its zone
// catalog and wires autosave and, when a channel is provided, the
// collaboration session. Catalog and load failures degrade to warnings;
// only a nil repository with no way to operate is fatal here.
func Open(ctx context.Context, roomID string, repo persist.Repository, catalog zone.Catalog, opts Options) (*Editor, error) {
	if roomID == "" {
		return nil, fmt.Errorf("room id is required")
	}
	if opts.Layout == (layout.Config{}) {
		opts.Layout = layout.DefaultConfig()
	}

	e := &Editor{
		roomID:  roomID,
		store:   scene.New(),
		hist:    history.New(opts.HistoryDepth),
		layout:  opts.Layout,
		repo:    repo,
		onSaved: opts.OnSaved,
	}
	e.sel = selection.New(e.store)

	var doc *model.MapDocument
	if repo != nil {
		loaded, err := repo.Load(ctx, roomID)
		if err != nil {
			e.warn("no se pudo cargar el mapa: %v", err)
		} else {
			doc = loaded
		}
	}
	if doc == nil {
		doc = model.NewDocument(uuid.NewString(), roomID, "Nuevo mapa")
	}
	elements, zones, cfg := persist.DecodeContent(doc)
	e.doc = doc
	e.cfg = cfg
	e.zones = zones
	e.store.ReplaceAll(elements)
	e.store.DeduplicateChairs()

	if catalog != nil {
		fetched, err := catalog.FetchZonesForRoom(ctx, roomID)
		if err != nil {
			e.warn("no se pudieron cargar las zonas de la sala: %v", err)
		} else {
			e.zones = fetched
		}
	}

	e.hist.Record(e.store.Elements(), "Abrir mapa")
	e.autosave = persist.NewAutosave(opts.AutosaveDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Save(ctx); err != nil {
			log.Printf("autosave: %v", err)
		}
	})

	if opts.Channel != nil {
		session := collab.NewSession(opts.Channel, e.store, opts.ActorID, opts.ActorName)
		session.SetGuard(&e.mu)
		if err := session.Join(ctx, roomID); err != nil {
			e.warn("colaboración no disponible: %v", err)
		} else {
			e.session = session
		}
	}
	return e, nil
}

// Close leaves the collaboration channel and cancels any pending autosave
// so nothing writes after the map view is gone.
func (e *Editor) Close() {
	e.autosave.Close()
	if e.session != nil {
		e.session.Leave()
	}
}

// RoomID returns the room this editor is bound to.
func (e *Editor) RoomID() string { return e.roomID }

// Warnings returns non-blocking notices accumulated so far (zone fetch
// failures, save failures, degraded collaboration).
func (e *Editor) Warnings() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.warnings...)
}

// Elements returns a deep copy of the scene in z-order.
func (e *Editor) Elements() []model.Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Snapshot()
}

// Zones returns the current zone catalog snapshot.
func (e *Editor) Zones() []model.Zone {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.Zone(nil), e.zones...)
}

// Config returns the canvas configuration.
func (e *Editor) Config() model.MapConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Session exposes the collaboration session, nil when offline.
func (e *Editor) Session() *collab.Session { return e.session }

// Dirty reports whether edits await an autosave.
func (e *Editor) Dirty() bool { return e.autosave.Dirty() }

// AddTable creates a table of the given shape at a position, filling in
// the default geometry for zero values (rect 120x80, round shapes radius
// 60), and records the mutation.
func (e *Editor) AddTable(ctx context.Context, shape model.TableShape, pos model.Vec2) (string, error) {
	t := &model.Table{
		Common:      model.Common{ID: scene.NewID("table"), Position: pos},
		Shape:       shape,
		FillColor:   model.DefaultTableFill,
		StrokeColor: model.DefaultTableStroke,
	}
	switch shape {
	case model.TableRect:
		t.Width, t.Height = 120, 80
	case model.TableCircle, model.TableHexagon, model.TableStar:
		t.Radius = 60
	default:
		return "", fmt.Errorf("unsupported table shape %q", shape)
	}

	e.mu.Lock()
	if _, err := e.store.Add(t); err != nil {
		e.mu.Unlock()
		return "", err
	}
	e.hist.Record(e.store.Elements(), fmt.Sprintf("Agregar mesa %s", shape))
	e.mu.Unlock()

	e.autosave.Mark()
	if e.session != nil {
		e.session.PublishElementCreated(ctx, t)
	}
	return t.ID, nil
}

// AddText creates a text label.
func (e *Editor) AddText(ctx context.Context, content string, pos model.Vec2) (string, error) {
	t := &model.Text{
		Common:    model.Common{ID: scene.NewID("text"), Position: pos},
		Content:   content,
		FontSize:  16,
		FillColor: model.DefaultTextFill,
	}
	e.mu.Lock()
	if _, err := e.store.Add(t); err != nil {
		e.mu.Unlock()
		return "", err
	}
	e.hist.Record(e.store.Elements(), "Agregar texto")
	e.mu.Unlock()

	e.autosave.Mark()
	if e.session != nil {
		e.session.PublishElementCreated(ctx, t)
	}
	return t.ID, nil
}

// AddShape creates a decorative shape.
func (e *Editor) AddShape(ctx context.Context, kind model.ShapeKind, pos model.Vec2, w, h float64) (string, error) {
	s := &model.Shape{
		Common: model.Common{ID: scene.NewID("shape"), Position: pos},
		Kind:   kind,
		Width:  w,
		Height: h,
		Fill:   model.DefaultShapeFill,
		Stroke: model.DefaultShapeStroke,
	}
	e.mu.Lock()
	if _, err := e.store.Add(s); err != nil {
		e.mu.Unlock()
		return "", err
	}
	e.hist.Record(e.store.Elements(), "Agregar área")
	e.mu.Unlock()

	e.autosave.Mark()
	if e.session != nil {
		e.session.PublishElementCreated(ctx, s)
	}
	return s.ID, nil
}

// GenerateChairs replaces a table's chairs with a freshly numbered set.
// The swap is atomic in the store; collaborators receive deletes for the
// old chairs followed by creates for the new ones.
func (e *Editor) GenerateChairs(ctx context.Context, tableID string, sp layout.ChairSpec) ([]*model.Chair, error) {
	e.mu.Lock()
	oldChairs := e.store.Chairs(tableID)
	oldIDs := make([]string, len(oldChairs))
	for i, ch := range oldChairs {
		oldIDs[i] = ch.ID
	}
	chairs, err := layout.Regenerate(e.store, tableID, sp, e.layout)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	e.hist.Record(e.store.Elements(), fmt.Sprintf("Generar %d sillas", len(chairs)))
	e.mu.Unlock()

	e.autosave.Mark()
	if e.session != nil {
		for _, id := range oldIDs {
			e.session.PublishElementDeleted(ctx, id, model.TypeChair)
		}
		for _, ch := range chairs {
			e.session.PublishElementCreated(ctx, ch)
		}
	}
	return chairs, nil
}

// UpdateProperty applies a single property write without recording
// history; live gestures call this per frame and RecordGesture once at
// gesture end. Unknown ids are a silent no-op.
func (e *Editor) UpdateProperty(ctx context.Context, id, key string, value any) bool {
	e.mu.Lock()
	ok := e.store.UpdateProperty(id, key, value)
	e.mu.Unlock()
	if !ok {
		return false
	}
	e.autosave.Mark()
	if e.session != nil {
		e.session.PublishElementUpdated(ctx, id, key, value)
	}
	return true
}

// Resize updates an element's size. The broadcast carries the property
// each element type actually stores (radius for round tables, size for
// chairs, width/height otherwise) so remote reducers land on the same
// dimensions as the local write.
func (e *Editor) Resize(ctx context.Context, id string, w, h float64) bool {
	type write struct {
		key   string
		value float64
	}
	e.mu.Lock()
	if !e.store.UpdateSize(id, w, h) {
		e.mu.Unlock()
		return false
	}
	el, _ := e.store.Get(id)
	var writes []write
	switch t := el.(type) {
	case *model.Table:
		if t.Shape == model.TableRect {
			writes = append(writes, write{"width", t.Width}, write{"height", t.Height})
		} else {
			writes = append(writes, write{"radius", t.Radius})
		}
	case *model.Chair:
		writes = append(writes, write{"size", t.Size})
	case *model.Shape:
		writes = append(writes, write{"width", t.Width}, write{"height", t.Height})
	}
	e.mu.Unlock()

	e.autosave.Mark()
	if e.session != nil {
		for _, wr := range writes {
			e.session.PublishElementUpdated(ctx, id, wr.key, wr.value)
		}
	}
	return true
}

// RotateElement rotates an element; tables swing their chairs along by
// the delta angle.
func (e *Editor) RotateElement(ctx context.Context, id string, degrees float64) bool {
	e.mu.Lock()
	el, ok := e.store.Get(id)
	if !ok {
		e.mu.Unlock()
		return false
	}
	var movedChairs []*model.Chair
	if el.ElementType() == model.TypeTable {
		e.sel.RotateTable(id, degrees)
		movedChairs = e.store.Chairs(id)
	} else {
		el.SetRot(degrees)
	}
	e.mu.Unlock()

	e.autosave.Mark()
	if e.session != nil {
		e.session.PublishElementUpdated(ctx, id, "rotation", degrees)
		for _, ch := range movedChairs {
			e.session.PublishElementUpdated(ctx, ch.ID, "position", ch.Position)
		}
	}
	return true
}

// MoveSelection translates the selection (table groups included).
func (e *Editor) MoveSelection(ctx context.Context, dx, dy float64) {
	e.mu.Lock()
	e.sel.MoveBy(dx, dy)
	moved := e.sel.Resolve()
	positions := make(map[string]model.Vec2, len(moved))
	for _, id := range moved {
		if el, ok := e.store.Get(id); ok {
			positions[id] = el.Pos()
		}
	}
	e.mu.Unlock()

	e.autosave.Mark()
	if e.session != nil {
		for id, pos := range positions {
			e.session.PublishElementUpdated(ctx, id, "position", pos)
		}
	}
}

// RecordGesture snapshots the scene once at the end of a live gesture
// (drag, resize, rotation) so history holds one entry per gesture instead
// of one per frame.
func (e *Editor) RecordGesture(label string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hist.Record(e.store.Elements(), label)
}

// Delete removes elements with full cascade and records the mutation.
func (e *Editor) Delete(ctx context.Context, ids ...string) int {
	e.mu.Lock()
	types := make(map[string]model.ElementType, len(ids))
	for _, id := range ids {
		if el, ok := e.store.Get(id); ok {
			types[id] = el.ElementType()
		}
	}
	n := e.store.Delete(ids...)
	if n == 0 {
		e.mu.Unlock()
		return 0
	}
	e.hist.Record(e.store.Elements(), "Eliminar elementos")
	e.mu.Unlock()

	e.autosave.Mark()
	if e.session != nil {
		for id, t := range types {
			e.session.PublishElementDeleted(ctx, id, t)
		}
	}
	return n
}

// DeleteSelection removes the resolved selection, as the global delete
// key does, and clears it.
func (e *Editor) DeleteSelection(ctx context.Context) int {
	e.mu.Lock()
	targets := e.sel.Resolve()
	e.sel.Clear()
	e.mu.Unlock()
	if len(targets) == 0 {
		return 0
	}
	return e.Delete(ctx, targets...)
}

// Duplicate clones the given elements with fresh ids at a (+50,+50)
// offset. Duplicating a table carries its chairs into a new parent group;
// connections are cloned only when both endpoints are part of the copy.
func (e *Editor) Duplicate(ctx context.Context, ids []string) ([]string, error) {
	e.mu.Lock()

	// Expand tables to their chairs, preserving order, dropping dups.
	expanded := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	push := func(id string) {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			expanded = append(expanded, id)
		}
	}
	for _, id := range ids {
		el, ok := e.store.Get(id)
		if !ok {
			continue
		}
		push(id)
		if el.ElementType() == model.TypeTable {
			for _, ch := range e.store.Chairs(id) {
				push(ch.ID)
			}
		}
	}
	if len(expanded) == 0 {
		e.mu.Unlock()
		return nil, nil
	}

	newIDs := make(map[string]string, len(expanded))
	for _, id := range expanded {
		el, _ := e.store.Get(id)
		newIDs[id] = scene.NewID(string(el.ElementType()))
	}

	var created []model.Element
	for _, id := range expanded {
		el, _ := e.store.Get(id)
		clone := el.Clone()
		p := clone.Pos()
		clone.SetPos(model.Vec2{X: p.X + 50, Y: p.Y + 50})
		switch c := clone.(type) {
		case *model.Table:
			c.ID = newIDs[id]
		case *model.Chair:
			c.ID = newIDs[id]
			if mapped, ok := newIDs[c.ParentTableID]; ok {
				c.ParentTableID = mapped
			} else {
				c.ParentTableID = ""
			}
		case *model.Text:
			c.ID = newIDs[id]
		case *model.Shape:
			c.ID = newIDs[id]
		case *model.Connection:
			start, okS := newIDs[c.StartChairID]
			end, okE := newIDs[c.EndChairID]
			if !okS || !okE {
				continue
			}
			c.ID = newIDs[id]
			c.StartChairID = start
			c.EndChairID = end
		}
		if _, err := e.store.Add(clone); err != nil {
			e.mu.Unlock()
			return nil, err
		}
		created = append(created, clone)
	}
	e.hist.Record(e.store.Elements(), fmt.Sprintf("Duplicar %d elemento(s)", len(created)))
	e.mu.Unlock()

	e.autosave.Mark()
	if e.session != nil {
		for _, el := range created {
			e.session.PublishElementCreated(ctx, el)
		}
	}
	out := make([]string, len(created))
	for i, el := range created {
		out[i] = el.ElementID()
	}
	return out, nil
}

// Copy stores deep copies of the given elements on the clipboard.
func (e *Editor) Copy(ids []string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clipboard = e.clipboard[:0]
	for _, id := range ids {
		if el, ok := e.store.Get(id); ok {
			e.clipboard = append(e.clipboard, el.Clone())
		}
	}
	return len(e.clipboard)
}

// Paste duplicates the clipboard contents into the scene.
func (e *Editor) Paste(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	ids := make([]string, len(e.clipboard))
	for i, el := range e.clipboard {
		ids[i] = el.ElementID()
	}
	e.mu.Unlock()
	return e.Duplicate(ctx, ids)
}

// AssignZone tags elements with a zone from the room catalog ("" clears),
// cascading from tables to their chairs, and records the mutation.
func (e *Editor) AssignZone(ctx context.Context, zoneID string, ids []string) ([]string, error) {
	e.mu.Lock()
	var z *model.Zone
	if zoneID != "" {
		found, ok := zone.Find(e.zones, zoneID)
		if !ok {
			e.mu.Unlock()
			return nil, fmt.Errorf("zone %s not in room catalog", zoneID)
		}
		z = found
	}
	touched := zone.Assign(e.store, z, ids)
	if len(touched) == 0 {
		e.mu.Unlock()
		return nil, nil
	}
	label := "Quitar zona"
	if z != nil {
		label = fmt.Sprintf("Asignar zona %s", z.Name)
	}
	e.hist.Record(e.store.Elements(), label)
	e.mu.Unlock()

	e.autosave.Mark()
	if e.session != nil {
		e.session.PublishZoneAssigned(ctx, ids, z)
	}
	return touched, nil
}

// SetSeatState applies a seat state (with its palette colors) to the
// chairs among the given ids.
func (e *Editor) SetSeatState(ctx context.Context, state model.SeatState, ids []string) int {
	e.mu.Lock()
	var changed []string
	for _, id := range ids {
		if ch, ok := e.chairByID(id); ok {
			ch.ApplyState(state)
			changed = append(changed, id)
		}
	}
	if len(changed) > 0 {
		e.hist.Record(e.store.Elements(), "Actualizar estado de sillas")
	}
	e.mu.Unlock()

	if len(changed) == 0 {
		return 0
	}
	e.autosave.Mark()
	if e.session != nil {
		for _, id := range changed {
			e.session.PublishElementUpdated(ctx, id, "state", string(state))
		}
	}
	return len(changed)
}

// SetTableSeatState applies a seat state to every chair of a table.
func (e *Editor) SetTableSeatState(ctx context.Context, tableID string, state model.SeatState) int {
	e.mu.Lock()
	chairs := e.store.Chairs(tableID)
	ids := make([]string, len(chairs))
	for i, ch := range chairs {
		ids[i] = ch.ID
	}
	e.mu.Unlock()
	return e.SetSeatState(ctx, state, ids)
}

// Connect creates a manual connection between two chairs.
func (e *Editor) Connect(ctx context.Context, aID, bID string, style model.ConnectionStyle) (string, error) {
	e.mu.Lock()
	a, okA := e.chairByID(aID)
	b, okB := e.chairByID(bID)
	if !okA || !okB {
		e.mu.Unlock()
		return "", fmt.Errorf("both endpoints must be chairs")
	}
	if e.store.Connected(a.ID, b.ID) {
		e.mu.Unlock()
		return "", fmt.Errorf("chairs already connected")
	}
	cn := &model.Connection{
		Common:       model.Common{ID: scene.NewID("connection")},
		StartChairID: a.ID,
		EndChairID:   b.ID,
		Style:        style,
	}
	if _, err := e.store.Add(cn); err != nil {
		e.mu.Unlock()
		return "", err
	}
	e.hist.Record(e.store.Elements(), "Crear conexión manual")
	e.mu.Unlock()

	e.autosave.Mark()
	if e.session != nil {
		e.session.PublishElementCreated(ctx, cn)
	}
	return cn.ID, nil
}

// AutoConnect links a chair to every unconnected chair within the
// configured threshold.
func (e *Editor) AutoConnect(ctx context.Context, chairID string) ([]*model.Connection, error) {
	e.mu.Lock()
	created, err := layout.AutoConnect(e.store, chairID, model.ConnectionSolid, e.layout)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	if len(created) > 0 {
		e.hist.Record(e.store.Elements(), fmt.Sprintf("Conectar %d sillas", len(created)))
	}
	e.mu.Unlock()

	if len(created) == 0 {
		return nil, nil
	}
	e.autosave.Mark()
	if e.session != nil {
		for _, cn := range created {
			e.session.PublishElementCreated(ctx, cn)
		}
	}
	return created, nil
}

// RemoveConnections deletes every connection touching the given chairs.
func (e *Editor) RemoveConnections(ctx context.Context, chairIDs []string) int {
	e.mu.Lock()
	var doomed []string
	for _, id := range chairIDs {
		for _, cn := range e.store.Connections(id) {
			doomed = append(doomed, cn.ID)
		}
	}
	e.mu.Unlock()
	if len(doomed) == 0 {
		return 0
	}
	return e.Delete(ctx, doomed...)
}

// ScaleSelection multiplies the selection's dimensions by a factor.
func (e *Editor) ScaleSelection(ctx context.Context, factor float64) int {
	type write struct {
		id, key string
		value   float64
	}
	e.mu.Lock()
	var writes []write
	changed := 0
	for _, id := range e.sel.Resolve() {
		el, ok := e.store.Get(id)
		if !ok {
			continue
		}
		switch t := el.(type) {
		case *model.Table:
			t.Width *= factor
			t.Height *= factor
			t.Radius *= factor
			writes = append(writes,
				write{id, "width", t.Width},
				write{id, "height", t.Height},
				write{id, "radius", t.Radius})
		case *model.Chair:
			t.Size *= factor
			writes = append(writes, write{id, "size", t.Size})
		case *model.Shape:
			t.Width *= factor
			t.Height *= factor
			writes = append(writes,
				write{id, "width", t.Width},
				write{id, "height", t.Height})
		default:
			continue
		}
		changed++
	}
	if changed > 0 {
		e.hist.Record(e.store.Elements(), fmt.Sprintf("Escalar %d elemento(s)", changed))
	}
	e.mu.Unlock()

	if changed == 0 {
		return 0
	}
	e.autosave.Mark()
	if e.session != nil {
		for _, w := range writes {
			e.session.PublishElementUpdated(ctx, w.id, w.key, w.value)
		}
	}
	return changed
}

// SnapAll aligns every positioned element to the grid and records the
// mutation when anything moved. Snapped positions flow into autosave and
// to collaborators like any other structural edit.
func (e *Editor) SnapAll(ctx context.Context) int {
	e.mu.Lock()
	before := make(map[string]model.Vec2, e.store.Len())
	for _, el := range e.store.Elements() {
		before[el.ElementID()] = el.Pos()
	}
	moved := layout.SnapToGrid(e.store, e.cfg.GridSize)
	if moved == 0 {
		e.mu.Unlock()
		return 0
	}
	positions := make(map[string]model.Vec2, moved)
	for _, el := range e.store.Elements() {
		if el.Pos() != before[el.ElementID()] {
			positions[el.ElementID()] = el.Pos()
		}
	}
	e.hist.Record(e.store.Elements(), fmt.Sprintf("Ajustar a cuadrícula de %dpx", int(e.cfg.GridSize)))
	e.mu.Unlock()

	e.autosave.Mark()
	if e.session != nil {
		for id, pos := range positions {
			e.session.PublishElementUpdated(ctx, id, "position", pos)
		}
	}
	return moved
}

// Undo restores the previous snapshot wholesale. Undo is local; it is not
// replayed to collaborators.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	elements, _, ok := e.hist.Undo()
	if !ok {
		return false
	}
	e.store.ReplaceAll(elements)
	e.sel.Clear()
	e.autosave.Mark()
	return true
}

// Redo re-applies the next snapshot after an undo.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	elements, _, ok := e.hist.Redo()
	if !ok {
		return false
	}
	e.store.ReplaceAll(elements)
	e.sel.Clear()
	e.autosave.Mark()
	return true
}

// CanUndo reports whether an earlier snapshot exists.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.CanUndo()
}

// CanRedo reports whether an undone snapshot can be re-applied.
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.CanRedo()
}

// Select handles a click on an element (plain or additive).
func (e *Editor) Select(id string, additive bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.Click(id, additive)
}

// ClearSelection empties the selection (plain click on empty canvas).
func (e *Editor) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.Clear()
}

// Marquee runs a full rectangle-drag selection and returns the result.
func (e *Editor) Marquee(from, to model.Vec2) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.BeginMarquee(from)
	e.sel.UpdateMarquee(to)
	return e.sel.EndMarquee()
}

// SelectedIDs returns the explicit selection.
func (e *Editor) SelectedIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.IDs()
}

// ResolvedSelection returns the selection with table groups expanded.
func (e *Editor) ResolvedSelection() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.Resolve()
}

// Document assembles the current serialized map document.
func (e *Editor) Document() *model.MapDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buildDocument()
}

// Save persists the current scene. The local store is never rolled back
// on failure; the user keeps their edits and can retry.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	doc := e.buildDocument()
	e.mu.Unlock()
	if e.repo == nil {
		return fmt.Errorf("no persistence configured")
	}
	if err := e.repo.Save(ctx, doc); err != nil {
		e.mu.Lock()
		e.warn("no se pudo guardar el mapa: %v", err)
		e.mu.Unlock()
		return fmt.Errorf("save map %s: %w", e.roomID, err)
	}
	if e.onSaved != nil {
		e.onSaved(doc)
	}
	return nil
}

// SetEstado switches the map between draft and active.
func (e *Editor) SetEstado(estado string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc.Estado = estado
}

func (e *Editor) buildDocument() *model.MapDocument {
	doc := *e.doc
	doc.Contenido = persist.BuildContent(e.store.Elements(), e.zones, e.cfg)
	return &doc
}

func (e *Editor) chairByID(id string) (*model.Chair, bool) {
	el, ok := e.store.Get(id)
	if !ok {
		return nil, false
	}
	ch, ok := el.(*model.Chair)
	return ch, ok
}

// warn appends a non-blocking notice. Caller holds the lock except during
// Open, which is single-threaded.
func (e *Editor) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("editor[%s]: %s", e.roomID, msg)
	e.warnings = append(e.warnings, msg)
}
