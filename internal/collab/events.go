// Package collab implements optional real-time multi-user editing: a
// Channel abstraction over an opaque pub/sub transport, a Redis-backed
// implementation, and a Session that applies inbound events to the scene
// store through the same reducers used for local optimistic applies.
package collab

import (
	"encoding/json"

	"github.com/entradix/seatmap-editor/internal/model"
)

// Event names in the collaboration catalog.
const (
	EventElementCreated = "element_created"
	EventElementUpdated = "element_updated"
	EventElementDeleted = "element_deleted"
	EventZoneAssigned   = "zone_assigned"
	EventCursorMoved    = "cursor_moved"
	EventChatMessage    = "chat_message"
)

// Events lists every catalog event a session subscribes to.
var Events = []string{
	EventElementCreated,
	EventElementUpdated,
	EventElementDeleted,
	EventZoneAssigned,
	EventCursorMoved,
	EventChatMessage,
}

// Envelope wraps every broadcast payload with the sender's identity and a
// millisecond timestamp. Receivers drop envelopes whose ActorID matches
// their own identity (self-echo suppression).
type Envelope struct {
	Event     string          `json:"event"`
	ActorID   string          `json:"actorId"`
	ActorName string          `json:"actorName"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// ElementCreatedPayload carries the full serialized element.
type ElementCreatedPayload struct {
	Element json.RawMessage `json:"element"`
}

// ElementUpdatedPayload carries a single property write.
type ElementUpdatedPayload struct {
	ElementID string `json:"elementId"`
	Property  string `json:"property"`
	Value     any    `json:"value"`
}

// ElementDeletedPayload identifies a removed element.
type ElementDeletedPayload struct {
	ElementID string            `json:"elementId"`
	Type      model.ElementType `json:"type"`
}

// ZoneAssignedPayload replays a zone assignment, cascade included on the
// receiving side. A nil Zone clears the assignment.
type ZoneAssignedPayload struct {
	ElementIDs []string    `json:"elementIds"`
	Zone       *model.Zone `json:"zone"`
}

// CursorMovedPayload updates the sender's cursor overlay. Never written to
// the scene store.
type CursorMovedPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ChatMessagePayload appends to the transient chat log.
type ChatMessagePayload struct {
	Text string `json:"text"`
}
