package editor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/entradix/seatmap-editor/internal/collab"
	"github.com/entradix/seatmap-editor/internal/layout"
	"github.com/entradix/seatmap-editor/internal/model"
	"github.com/entradix/seatmap-editor/internal/persist"
	"github.com/entradix/seatmap-editor/internal/zone"
)

// fakeRepo is an in-memory persistence collaborator. A nil stored document
// means "no map yet, start blank".
type fakeRepo struct {
	stored  *model.MapDocument
	loadErr error
	saveErr error
	saves   int
}

func (r *fakeRepo) Load(ctx context.Context, roomID string) (*model.MapDocument, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return r.stored, nil
}

func (r *fakeRepo) Save(ctx context.Context, doc *model.MapDocument) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.stored = doc
	return nil
}

var _ persist.Repository = (*fakeRepo)(nil)

type fakeCatalog struct {
	zones []model.Zone
	err   error
}

func (c *fakeCatalog) FetchZonesForRoom(ctx context.Context, roomID string) ([]model.Zone, error) {
	return c.zones, c.err
}

func open(t *testing.T, repo *fakeRepo, catalog *fakeCatalog) *Editor {
	t.Helper()
	var cat zone.Catalog
	if catalog != nil {
		cat = catalog
	}
	// A long autosave delay keeps the debouncer out of the way; explicit
	// Save calls drive persistence in these tests.
	e, err := Open(context.Background(), "sala-1", repo, cat, Options{AutosaveDelay: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestOpenBlankRoom(t *testing.T) {
	e := open(t, &fakeRepo{}, nil)
	if len(e.Elements()) != 0 {
		t.Fatalf("blank room opened with %d elements", len(e.Elements()))
	}
	if cfg := e.Config(); cfg.GridSize != 20 {
		t.Fatalf("grid size = %v", cfg.GridSize)
	}
	doc := e.Document()
	if doc.SalaID != "sala-1" || doc.Estado != model.EstadoBorrador {
		t.Fatalf("new document = %s/%s", doc.SalaID, doc.Estado)
	}
}

func TestOpenDegradesOnLoadFailure(t *testing.T) {
	e := open(t, &fakeRepo{loadErr: errors.New("db down")}, &fakeCatalog{err: errors.New("db down")})
	warns := e.Warnings()
	if len(warns) != 2 {
		t.Fatalf("warnings = %v", warns)
	}
	// Editing still works on the blank scene.
	if _, err := e.AddTable(context.Background(), model.TableCircle, model.Vec2{X: 100, Y: 100}); err != nil {
		t.Fatal(err)
	}
}

func TestDuplicateTableCarriesChairGroup(t *testing.T) {
	e := open(t, &fakeRepo{}, nil)
	ctx := context.Background()
	tableID, err := e.AddTable(ctx, model.TableCircle, model.Vec2{X: 200, Y: 200})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.GenerateChairs(ctx, tableID, layout.ChairSpec{Count: 8}); err != nil {
		t.Fatal(err)
	}

	created, err := e.Duplicate(ctx, []string{tableID})
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 9 { // table plus its eight chairs
		t.Fatalf("duplicate created %d elements, want 9", len(created))
	}
	// 18 elements total, two independent parent groups, no id collisions.
	els := e.Elements()
	if len(els) != 18 {
		t.Fatalf("scene holds %d elements, want 18", len(els))
	}
	var newTable string
	for _, id := range created {
		if strings.HasPrefix(id, "table_") {
			newTable = id
		}
	}
	if newTable == "" || newTable == tableID {
		t.Fatalf("duplicate table id = %q", newTable)
	}
	parents := map[string]int{}
	for _, el := range els {
		if ch, ok := el.(*model.Chair); ok {
			parents[ch.ParentTableID]++
		}
	}
	if parents[tableID] != 8 || parents[newTable] != 8 {
		t.Fatalf("chair groups = %v", parents)
	}
	// The copy sits at a +50 offset.
	for _, el := range els {
		if el.ElementID() == newTable {
			if el.Pos() != (model.Vec2{X: 250, Y: 250}) {
				t.Fatalf("duplicate table at %v", el.Pos())
			}
		}
	}
}

func TestUndoRedoRestoresScene(t *testing.T) {
	e := open(t, &fakeRepo{}, nil)
	ctx := context.Background()
	if _, err := e.AddTable(ctx, model.TableRect, model.Vec2{X: 100, Y: 100}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.AddText(ctx, "Entrada", model.Vec2{X: 10, Y: 10}); err != nil {
		t.Fatal(err)
	}
	if !e.CanUndo() {
		t.Fatal("undo must be available after edits")
	}

	if !e.Undo() {
		t.Fatal("undo failed")
	}
	if len(e.Elements()) != 1 {
		t.Fatalf("after undo scene holds %d elements", len(e.Elements()))
	}
	if !e.Redo() {
		t.Fatal("redo failed")
	}
	if len(e.Elements()) != 2 {
		t.Fatalf("after redo scene holds %d elements", len(e.Elements()))
	}
	if e.CanRedo() {
		t.Fatal("redo past the newest snapshot must be unavailable")
	}
}

func TestSaveRoundTripsThroughRepository(t *testing.T) {
	repo := &fakeRepo{}
	e := open(t, repo, nil)
	ctx := context.Background()
	var notified *model.MapDocument
	// The saved hook is set by the HTTP layer in production; reach in the
	// same way here.
	e.onSaved = func(doc *model.MapDocument) { notified = doc }

	if _, err := e.AddTable(ctx, model.TableCircle, model.Vec2{X: 300, Y: 300}); err != nil {
		t.Fatal(err)
	}
	if err := e.Save(ctx); err != nil {
		t.Fatal(err)
	}
	if repo.saves != 1 || repo.stored == nil {
		t.Fatalf("repo saw %d saves", repo.saves)
	}
	if len(repo.stored.Contenido.Elementos) != 1 {
		t.Fatalf("stored %d elements", len(repo.stored.Contenido.Elementos))
	}
	if notified == nil || notified.SalaID != "sala-1" {
		t.Fatal("saved hook did not fire with the written document")
	}

	// A second editor opening the same room sees the saved scene.
	e2 := open(t, repo, nil)
	if len(e2.Elements()) != 1 {
		t.Fatalf("reopened scene holds %d elements", len(e2.Elements()))
	}
}

func TestSaveFailureKeepsEditsAndWarns(t *testing.T) {
	repo := &fakeRepo{saveErr: errors.New("deadlock")}
	e := open(t, repo, nil)
	ctx := context.Background()
	if _, err := e.AddTable(ctx, model.TableRect, model.Vec2{X: 50, Y: 50}); err != nil {
		t.Fatal(err)
	}
	if err := e.Save(ctx); err == nil {
		t.Fatal("expected save to fail")
	}
	if len(e.Elements()) != 1 {
		t.Fatal("failed save must not roll back the scene")
	}
	if len(e.Warnings()) == 0 {
		t.Fatal("failed save must leave a warning")
	}
}

func TestGenerateChairsReplacesExistingSet(t *testing.T) {
	e := open(t, &fakeRepo{}, nil)
	ctx := context.Background()
	tableID, err := e.AddTable(ctx, model.TableCircle, model.Vec2{X: 400, Y: 300})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.GenerateChairs(ctx, tableID, layout.ChairSpec{Count: 4}); err != nil {
		t.Fatal(err)
	}
	chairs, err := e.GenerateChairs(ctx, tableID, layout.ChairSpec{Count: 6})
	if err != nil {
		t.Fatal(err)
	}
	if len(chairs) != 6 {
		t.Fatalf("regenerate produced %d chairs", len(chairs))
	}
	if got := len(e.Elements()); got != 7 { // table + 6 chairs, old 4 gone
		t.Fatalf("scene holds %d elements, want 7", got)
	}
}

func TestAssignZoneValidatesAgainstCatalog(t *testing.T) {
	catalog := &fakeCatalog{zones: []model.Zone{{ID: "z1", Name: "VIP", Color: "#ffd700"}}}
	e := open(t, &fakeRepo{}, catalog)
	ctx := context.Background()
	tableID, err := e.AddTable(ctx, model.TableCircle, model.Vec2{X: 100, Y: 100})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.AssignZone(ctx, "ghost", []string{tableID}); err == nil {
		t.Fatal("zone outside the room catalog must be rejected")
	}
	touched, err := e.AssignZone(ctx, "z1", []string{tableID})
	if err != nil {
		t.Fatal(err)
	}
	if len(touched) != 1 {
		t.Fatalf("touched %v", touched)
	}
	// Clearing with "" needs no catalog lookup.
	if _, err := e.AssignZone(ctx, "", []string{tableID}); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteSelectionCascades(t *testing.T) {
	e := open(t, &fakeRepo{}, nil)
	ctx := context.Background()
	tableID, err := e.AddTable(ctx, model.TableCircle, model.Vec2{X: 200, Y: 200})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.GenerateChairs(ctx, tableID, layout.ChairSpec{Count: 5}); err != nil {
		t.Fatal(err)
	}
	e.Select(tableID, false)
	if n := e.DeleteSelection(ctx); n != 6 {
		t.Fatalf("deleted %d elements, want 6", n)
	}
	if len(e.Elements()) != 0 {
		t.Fatal("scene not empty after deleting the only group")
	}
	if len(e.SelectedIDs()) != 0 {
		t.Fatal("selection must clear after delete")
	}
}

func TestCopyPaste(t *testing.T) {
	e := open(t, &fakeRepo{}, nil)
	ctx := context.Background()
	id, err := e.AddText(ctx, "Barra", model.Vec2{X: 20, Y: 30})
	if err != nil {
		t.Fatal(err)
	}
	if n := e.Copy([]string{id}); n != 1 {
		t.Fatalf("copied %d elements", n)
	}
	pasted, err := e.Paste(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pasted) != 1 || pasted[0] == id {
		t.Fatalf("paste produced %v", pasted)
	}
	if len(e.Elements()) != 2 {
		t.Fatalf("scene holds %d elements", len(e.Elements()))
	}
}

func TestSetEstadoFlowsIntoDocument(t *testing.T) {
	e := open(t, &fakeRepo{}, nil)
	e.SetEstado(model.EstadoActive)
	if e.Document().Estado != model.EstadoActive {
		t.Fatal("estado change not reflected in the document")
	}
}

// openCollab opens an editor wired to a Redis channel, the way the HTTP
// layer does for each authenticated user.
func openCollab(t *testing.T, addr, actor string) *Editor {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })
	e, err := Open(context.Background(), "sala-1", &fakeRepo{}, nil, Options{
		AutosaveDelay: time.Hour,
		ActorID:       actor,
		ActorName:     actor,
		Channel:       collab.NewRedisChannel(rdb),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)
	return e
}

func waitUntil(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func elementByID(e *Editor, id string) (model.Element, bool) {
	for _, el := range e.Elements() {
		if el.ElementID() == id {
			return el, true
		}
	}
	return nil, false
}

func TestResizeConvergesAcrossReplicas(t *testing.T) {
	mr := miniredis.RunT(t)
	a := openCollab(t, mr.Addr(), "ana")
	b := openCollab(t, mr.Addr(), "beto")
	ctx := context.Background()

	tableID, err := a.AddTable(ctx, model.TableCircle, model.Vec2{X: 200, Y: 200})
	if err != nil {
		t.Fatal(err)
	}
	waitUntil(t, "table on replica b", func() bool {
		_, ok := elementByID(b, tableID)
		return ok
	})

	// A round table stores a radius; resizing to a 200x200 box must land
	// both replicas on radius 100, not leave the remote one at 60.
	if !a.Resize(ctx, tableID, 200, 200) {
		t.Fatal("resize failed")
	}
	local, _ := elementByID(a, tableID)
	if local.(*model.Table).Radius != 100 {
		t.Fatalf("local radius = %v", local.(*model.Table).Radius)
	}
	waitUntil(t, "radius on replica b", func() bool {
		el, ok := elementByID(b, tableID)
		return ok && el.(*model.Table).Radius == 100
	})

	chairs, err := a.GenerateChairs(ctx, tableID, layout.ChairSpec{Count: 1})
	if err != nil {
		t.Fatal(err)
	}
	chairID := chairs[0].ID
	waitUntil(t, "chair on replica b", func() bool {
		_, ok := elementByID(b, chairID)
		return ok
	})
	if !a.Resize(ctx, chairID, 30, 30) {
		t.Fatal("chair resize failed")
	}
	waitUntil(t, "chair size on replica b", func() bool {
		el, ok := elementByID(b, chairID)
		return ok && el.(*model.Chair).Size == 30
	})
}

func TestSnapAllMarksDirtyAndReplicates(t *testing.T) {
	mr := miniredis.RunT(t)
	a := openCollab(t, mr.Addr(), "ana")
	b := openCollab(t, mr.Addr(), "beto")
	ctx := context.Background()

	tableID, err := a.AddTable(ctx, model.TableCircle, model.Vec2{X: 33, Y: 47})
	if err != nil {
		t.Fatal(err)
	}
	waitUntil(t, "table on replica b", func() bool {
		_, ok := elementByID(b, tableID)
		return ok
	})

	a.autosave.Flush()
	if a.Dirty() {
		t.Fatal("flush left unsaved changes")
	}

	if moved := a.SnapAll(ctx); moved != 1 {
		t.Fatalf("snap moved %d elements, want 1", moved)
	}
	if !a.Dirty() {
		t.Fatal("snap moved elements but did not mark unsaved changes")
	}
	local, _ := elementByID(a, tableID)
	if local.Pos() != (model.Vec2{X: 40, Y: 40}) {
		t.Fatalf("table snapped to %v", local.Pos())
	}
	waitUntil(t, "snapped position on replica b", func() bool {
		el, ok := elementByID(b, tableID)
		return ok && el.Pos() == (model.Vec2{X: 40, Y: 40})
	})
}
