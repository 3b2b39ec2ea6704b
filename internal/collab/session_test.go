package collab

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/entradix/seatmap-editor/internal/model"
	"github.com/entradix/seatmap-editor/internal/scene"
)

// participant is one replica: its own store, channel and session, the way
// each connected editor holds them in production.
type participant struct {
	store   *scene.Store
	session *Session
}

func join(t *testing.T, addr, key, actorID, actorName string) *participant {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })
	store := scene.New()
	s := NewSession(NewRedisChannel(rdb), store, actorID, actorName)
	if err := s.Join(context.Background(), key); err != nil {
		t.Fatalf("join %s: %v", actorID, err)
	}
	t.Cleanup(s.Leave)
	return &participant{store: store, session: s}
}

func waitFor(t *testing.T, what string, cond func() bool) {
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

func TestElementCreatedReplicates(t *testing.T) {
	mr := miniredis.RunT(t)
	a := join(t, mr.Addr(), "sala-1", "ana", "Ana")
	b := join(t, mr.Addr(), "sala-1", "beto", "Beto")

	tbl := &model.Table{Common: model.Common{ID: "t1", Position: model.Vec2{X: 100, Y: 100}}, Shape: model.TableCircle, Radius: 60}
	if _, err := a.store.Add(tbl); err != nil {
		t.Fatal(err)
	}
	a.session.PublishElementCreated(context.Background(), tbl)

	waitFor(t, "t1 on replica b", func() bool {
		_, ok := b.store.Get("t1")
		return ok
	})
	got, _ := b.store.Get("t1")
	if got.Pos() != (model.Vec2{X: 100, Y: 100}) {
		t.Fatalf("replicated table at %v", got.Pos())
	}
	// The sender's own broadcast loops back through pub/sub but must not
	// re-apply: the store still holds exactly one element.
	time.Sleep(50 * time.Millisecond)
	if a.store.Len() != 1 {
		t.Fatalf("sender store holds %d elements after self-echo", a.store.Len())
	}
}

func TestElementUpdatedAndDeletedReplicate(t *testing.T) {
	mr := miniredis.RunT(t)
	a := join(t, mr.Addr(), "sala-1", "ana", "Ana")
	b := join(t, mr.Addr(), "sala-1", "beto", "Beto")
	for _, p := range []*participant{a, b} {
		if _, err := p.store.Add(&model.Table{Common: model.Common{ID: "t1"}, Shape: model.TableRect, Width: 120, Height: 80}); err != nil {
			t.Fatal(err)
		}
	}

	a.store.UpdateProperty("t1", "rotation", 45.0)
	a.session.PublishElementUpdated(context.Background(), "t1", "rotation", 45.0)
	waitFor(t, "rotation on replica b", func() bool {
		el, ok := b.store.Get("t1")
		return ok && el.(*model.Table).Rotation == 45
	})

	b.store.Delete("t1")
	b.session.PublishElementDeleted(context.Background(), "t1", model.TypeTable)
	waitFor(t, "delete on replica a", func() bool {
		_, ok := a.store.Get("t1")
		return !ok
	})
}

func TestZoneAssignedReplicatesWithCascade(t *testing.T) {
	mr := miniredis.RunT(t)
	a := join(t, mr.Addr(), "sala-1", "ana", "Ana")
	b := join(t, mr.Addr(), "sala-1", "beto", "Beto")
	for _, p := range []*participant{a, b} {
		if _, err := p.store.Add(&model.Table{Common: model.Common{ID: "t1"}, Shape: model.TableCircle, Radius: 40, FillColor: model.DefaultTableFill}); err != nil {
			t.Fatal(err)
		}
		ch := &model.Chair{Common: model.Common{ID: "c1"}, ParentTableID: "t1"}
		ch.ApplyState(model.SeatAvailable)
		if _, err := p.store.Add(ch); err != nil {
			t.Fatal(err)
		}
	}

	vip := &model.Zone{ID: "z1", Name: "VIP", Color: "#ffd700"}
	a.session.PublishZoneAssigned(context.Background(), []string{"t1"}, vip)
	waitFor(t, "zone cascade on replica b", func() bool {
		ch, ok := b.store.Get("c1")
		return ok && ch.Zone() == "z1"
	})
	ch, _ := b.store.Get("c1")
	if ch.(*model.Chair).FillColor != "#ffd700" {
		t.Fatal("cascaded chair did not take the zone color")
	}
}

func TestCursorAndChatReplicate(t *testing.T) {
	mr := miniredis.RunT(t)
	a := join(t, mr.Addr(), "sala-1", "ana", "Ana")
	b := join(t, mr.Addr(), "sala-1", "beto", "Beto")

	a.session.PublishCursor(context.Background(), 320, 240)
	waitFor(t, "cursor on replica b", func() bool {
		for _, c := range b.session.Cursors() {
			if c.ActorID == "ana" && c.X == 320 && c.Y == 240 {
				return true
			}
		}
		return false
	})
	// The sender never tracks its own cursor.
	if len(a.session.Cursors()) != 0 {
		t.Fatalf("sender sees %d cursors", len(a.session.Cursors()))
	}

	a.session.PublishChat(context.Background(), "listo para publicar?")
	waitFor(t, "chat on replica b", func() bool {
		log := b.session.Chat()
		return len(log) == 1 && log[0].ActorID == "ana" && log[0].Text == "listo para publicar?"
	})
	// The sender keeps its own message locally too.
	if log := a.session.Chat(); len(log) != 1 {
		t.Fatalf("sender chat log holds %d entries", len(log))
	}
}

func TestPresenceTracksJoinsAndLeaves(t *testing.T) {
	mr := miniredis.RunT(t)
	a := join(t, mr.Addr(), "sala-1", "ana", "Ana")
	b := join(t, mr.Addr(), "sala-1", "beto", "Beto")

	waitFor(t, "both participants visible", func() bool {
		return len(a.session.Participants()) == 2
	})
	b.session.Leave()
	waitFor(t, "departure visible", func() bool {
		ps := a.session.Participants()
		return len(ps) == 1 && ps[0].ActorID == "ana"
	})
}

// inject feeds a crafted envelope straight into the dispatcher, bypassing
// the transport, to pin down deterministic conflict ordering.
func inject(t *testing.T, s *Session, event string, env Envelope) {
	t.Helper()
	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatal(err)
	}
	s.dispatch(event, raw)
}

func updateEnvelope(t *testing.T, actorID string, ts int64, elementID, property string, value any) Envelope {
	t.Helper()
	payload, err := json.Marshal(ElementUpdatedPayload{ElementID: elementID, Property: property, Value: value})
	if err != nil {
		t.Fatal(err)
	}
	return Envelope{Event: EventElementUpdated, ActorID: actorID, Timestamp: ts, Payload: payload}
}

func TestConcurrentUpdatesLastWriterWins(t *testing.T) {
	store := scene.New()
	if _, err := store.Add(&model.Table{Common: model.Common{ID: "t1"}, Shape: model.TableRect, Width: 120, Height: 80}); err != nil {
		t.Fatal(err)
	}
	s := NewSession(NewRedisChannel(nil), store, "carla", "Carla")

	inject(t, s, EventElementUpdated, updateEnvelope(t, "ana", 2000, "t1", "width", 200.0))
	// A slower write with an older timestamp arrives afterwards and must
	// not roll the newer value back.
	inject(t, s, EventElementUpdated, updateEnvelope(t, "beto", 1000, "t1", "width", 150.0))
	el, _ := store.Get("t1")
	if el.(*model.Table).Width != 200 {
		t.Fatalf("width = %v after stale write", el.(*model.Table).Width)
	}

	// On a timestamp tie the lexicographically larger actor id wins, so
	// every replica breaks the tie the same way.
	inject(t, s, EventElementUpdated, updateEnvelope(t, "zoe", 2000, "t1", "width", 300.0))
	el, _ = store.Get("t1")
	if el.(*model.Table).Width != 300 {
		t.Fatalf("width = %v after tiebreak", el.(*model.Table).Width)
	}
	inject(t, s, EventElementUpdated, updateEnvelope(t, "aaron", 2000, "t1", "width", 111.0))
	el, _ = store.Get("t1")
	if el.(*model.Table).Width != 300 {
		t.Fatalf("width = %v, tiebreak loser applied", el.(*model.Table).Width)
	}
}

func TestDispatchDropsOwnEnvelopes(t *testing.T) {
	store := scene.New()
	if _, err := store.Add(&model.Table{Common: model.Common{ID: "t1"}, Shape: model.TableRect, Width: 120}); err != nil {
		t.Fatal(err)
	}
	s := NewSession(NewRedisChannel(nil), store, "ana", "Ana")
	inject(t, s, EventElementUpdated, updateEnvelope(t, "ana", 9999, "t1", "width", 777.0))
	el, _ := store.Get("t1")
	if el.(*model.Table).Width == 777 {
		t.Fatal("self-echo envelope was applied")
	}
}
