package collab

import "context"

// Presence identifies one live participant on a channel.
type Presence struct {
	ActorID   string `json:"actorId"`
	ActorName string `json:"actorName"`
	JoinedAt  int64  `json:"joinedAt"`
}

// Channel is the opaque pub/sub transport the editor collaborates over.
// Connecting is optional; the editor functions fully with no channel at
// all. Implementations must tolerate broadcast failures by degrading to a
// disconnected state without affecting local editing.
type Channel interface {
	// Connect joins the named channel and starts delivering broadcasts to
	// registered handlers.
	Connect(ctx context.Context, channelKey string) error
	// TrackPresence announces the local identity to other participants.
	TrackPresence(ctx context.Context, identity Presence) error
	// Broadcast publishes an event to every other participant. Delivery is
	// fire-and-forget, at-most-once, with no ordering guarantee.
	Broadcast(ctx context.Context, event string, payload []byte) error
	// OnBroadcast registers a handler for a named event. Handlers may be
	// invoked from a transport goroutine.
	OnBroadcast(event string, handler func(payload []byte))
	// OnPresenceChange registers a handler for participant join/leave.
	OnPresenceChange(handler func(participants []Presence))
	// Disconnect leaves the channel and stops delivery.
	Disconnect() error
}
