package collab

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/entradix/seatmap-editor/internal/model"
	"github.com/entradix/seatmap-editor/internal/scene"
	"github.com/entradix/seatmap-editor/internal/zone"
)

// DefaultChatCap bounds the transient chat log. Chat is never persisted.
const DefaultChatCap = 100

// Cursor is another participant's live cursor overlay.
type Cursor struct {
	ActorID   string  `json:"actorId"`
	ActorName string  `json:"actorName"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	UpdatedAt int64   `json:"updatedAt"`
}

// ChatEntry is one message in the transient chat log.
type ChatEntry struct {
	ActorID   string `json:"actorId"`
	ActorName string `json:"actorName"`
	Text      string `json:"text"`
	At        int64  `json:"at"`
}

// writeStamp orders concurrent writes to one (element, property) pair:
// timestamp first, then actor id lexicographically on ties. The same stamp
// table is consulted for local and remote applies, so replicas that have
// seen the same event set converge regardless of arrival order.
type writeStamp struct {
	ts    int64
	actor string
}

func (w writeStamp) beats(other writeStamp) bool {
	if w.ts != other.ts {
		return w.ts > other.ts
	}
	return w.actor > other.actor
}

// Session binds a scene store to a realtime channel for one participant.
// Inbound events flow through a single dispatcher into pure reducers;
// local mutations are applied optimistically by the editor and then
// announced through the Publish methods.
type Session struct {
	actorID   string
	actorName string
	channel   Channel
	store     *scene.Store
	now       func() time.Time

	// guard, when set, is acquired around inbound reducers so remote
	// applies serialize with the owning editor's own mutations.
	guard sync.Locker

	mu        sync.Mutex
	cursors   map[string]Cursor
	chat      []ChatEntry
	chatCap   int
	lastWrite map[string]writeStamp
	presence  []Presence
}

// NewSession creates a collaboration session for the given identity. The
// channel stays untouched until Join.
func NewSession(channel Channel, store *scene.Store, actorID, actorName string) *Session {
	return &Session{
		actorID:   actorID,
		actorName: actorName,
		channel:   channel,
		store:     store,
		now:       time.Now,
		cursors:   make(map[string]Cursor),
		chatCap:   DefaultChatCap,
		lastWrite: make(map[string]writeStamp),
	}
}

// ActorID returns the local identity.
func (s *Session) ActorID() string { return s.actorID }

// SetGuard installs the lock the owning editor holds during its own
// mutations. Must be called before Join.
func (s *Session) SetGuard(l sync.Locker) { s.guard = l }

// Join connects the channel, registers the inbound dispatcher for every
// catalog event and announces presence.
func (s *Session) Join(ctx context.Context, channelKey string) error {
	for _, event := range Events {
		ev := event
		s.channel.OnBroadcast(ev, func(payload []byte) {
			s.dispatch(ev, payload)
		})
	}
	s.channel.OnPresenceChange(func(participants []Presence) {
		s.mu.Lock()
		s.presence = participants
		// Drop cursors of participants that left.
		alive := make(map[string]struct{}, len(participants))
		for _, p := range participants {
			alive[p.ActorID] = struct{}{}
		}
		for id := range s.cursors {
			if _, ok := alive[id]; !ok {
				delete(s.cursors, id)
			}
		}
		s.mu.Unlock()
	})
	if err := s.channel.Connect(ctx, channelKey); err != nil {
		return err
	}
	return s.channel.TrackPresence(ctx, Presence{
		ActorID:   s.actorID,
		ActorName: s.actorName,
		JoinedAt:  s.now().UnixMilli(),
	})
}

// Leave disconnects from the channel. Local scene state is untouched.
func (s *Session) Leave() {
	if err := s.channel.Disconnect(); err != nil {
		log.Printf("collab: disconnect: %v", err)
	}
}

// dispatch is the single inbound entry point. Envelopes from the local
// actor are dropped here so a sender never double-applies its own change.
func (s *Session) dispatch(event string, payload []byte) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		log.Printf("collab: malformed %s envelope: %v", event, err)
		return
	}
	if env.ActorID == s.actorID {
		return
	}
	if s.guard != nil {
		s.guard.Lock()
		defer s.guard.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch event {
	case EventElementCreated:
		s.applyElementCreated(env)
	case EventElementUpdated:
		s.applyElementUpdated(env)
	case EventElementDeleted:
		s.applyElementDeleted(env)
	case EventZoneAssigned:
		s.applyZoneAssigned(env)
	case EventCursorMoved:
		s.applyCursorMoved(env)
	case EventChatMessage:
		s.applyChatMessage(env)
	}
}

func (s *Session) applyElementCreated(env Envelope) {
	var p ElementCreatedPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return
	}
	el, err := model.UnmarshalElement(p.Element)
	if err != nil {
		log.Printf("collab: element_created with bad element: %v", err)
		return
	}
	if _, exists := s.store.Get(el.ElementID()); exists {
		return
	}
	if _, err := s.store.Add(el); err != nil {
		log.Printf("collab: element_created apply: %v", err)
	}
}

func (s *Session) applyElementUpdated(env Envelope) {
	var p ElementUpdatedPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return
	}
	stamp := writeStamp{ts: env.Timestamp, actor: env.ActorID}
	key := p.ElementID + "\x00" + p.Property
	if prev, seen := s.lastWrite[key]; seen && !stamp.beats(prev) {
		return
	}
	s.lastWrite[key] = stamp
	s.store.UpdateProperty(p.ElementID, p.Property, p.Value)
}

func (s *Session) applyElementDeleted(env Envelope) {
	var p ElementDeletedPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return
	}
	s.store.Delete(p.ElementID)
}

func (s *Session) applyZoneAssigned(env Envelope) {
	var p ZoneAssignedPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return
	}
	zone.Assign(s.store, p.Zone, p.ElementIDs)
}

func (s *Session) applyCursorMoved(env Envelope) {
	var p CursorMovedPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return
	}
	s.cursors[env.ActorID] = Cursor{
		ActorID:   env.ActorID,
		ActorName: env.ActorName,
		X:         p.X,
		Y:         p.Y,
		UpdatedAt: env.Timestamp,
	}
}

func (s *Session) applyChatMessage(env Envelope) {
	var p ChatMessagePayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return
	}
	s.appendChat(ChatEntry{
		ActorID:   env.ActorID,
		ActorName: env.ActorName,
		Text:      p.Text,
		At:        env.Timestamp,
	})
}

func (s *Session) appendChat(e ChatEntry) {
	s.chat = append(s.chat, e)
	if len(s.chat) > s.chatCap {
		s.chat = s.chat[len(s.chat)-s.chatCap:]
	}
}

// publish wraps a payload in the actor envelope and broadcasts it. Failed
// broadcasts are logged and swallowed; collaboration degrades while local
// editing continues.
func (s *Session) publish(ctx context.Context, event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("collab: marshal %s payload: %v", event, err)
		return
	}
	env, err := json.Marshal(Envelope{
		Event:     event,
		ActorID:   s.actorID,
		ActorName: s.actorName,
		Timestamp: s.now().UnixMilli(),
		Payload:   raw,
	})
	if err != nil {
		return
	}
	if err := s.channel.Broadcast(ctx, event, env); err != nil {
		log.Printf("collab: broadcast %s: %v", event, err)
	}
}

// PublishElementCreated announces a locally added element.
func (s *Session) PublishElementCreated(ctx context.Context, el model.Element) {
	raw, err := model.MarshalElement(el)
	if err != nil {
		log.Printf("collab: marshal element: %v", err)
		return
	}
	s.publish(ctx, EventElementCreated, ElementCreatedPayload{Element: raw})
}

// PublishElementUpdated announces a local property write and records its
// stamp so a slower remote write to the same property cannot roll it back.
func (s *Session) PublishElementUpdated(ctx context.Context, elementID, property string, value any) {
	s.mu.Lock()
	s.lastWrite[elementID+"\x00"+property] = writeStamp{ts: s.now().UnixMilli(), actor: s.actorID}
	s.mu.Unlock()
	s.publish(ctx, EventElementUpdated, ElementUpdatedPayload{
		ElementID: elementID,
		Property:  property,
		Value:     value,
	})
}

// PublishElementDeleted announces a local delete.
func (s *Session) PublishElementDeleted(ctx context.Context, elementID string, elType model.ElementType) {
	s.publish(ctx, EventElementDeleted, ElementDeletedPayload{ElementID: elementID, Type: elType})
}

// PublishZoneAssigned announces a local zone assignment.
func (s *Session) PublishZoneAssigned(ctx context.Context, elementIDs []string, z *model.Zone) {
	s.publish(ctx, EventZoneAssigned, ZoneAssignedPayload{ElementIDs: elementIDs, Zone: z})
}

// PublishCursor announces the local cursor position.
func (s *Session) PublishCursor(ctx context.Context, x, y float64) {
	s.publish(ctx, EventCursorMoved, CursorMovedPayload{X: x, Y: y})
}

// PublishChat appends the message to the local log and broadcasts it.
func (s *Session) PublishChat(ctx context.Context, text string) {
	s.mu.Lock()
	s.appendChat(ChatEntry{
		ActorID:   s.actorID,
		ActorName: s.actorName,
		Text:      text,
		At:        s.now().UnixMilli(),
	})
	s.mu.Unlock()
	s.publish(ctx, EventChatMessage, ChatMessagePayload{Text: text})
}

// Cursors returns the live remote cursor overlays.
func (s *Session) Cursors() []Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Cursor, 0, len(s.cursors))
	for _, c := range s.cursors {
		out = append(out, c)
	}
	return out
}

// Chat returns a copy of the transient chat log.
func (s *Session) Chat() []ChatEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatEntry(nil), s.chat...)
}

// Participants returns the last observed presence set.
func (s *Session) Participants() []Presence {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Presence(nil), s.presence...)
}
