package collab

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// presenceTTL bounds how long a crashed participant lingers in the
// presence set before its key expires.
const presenceTTL = 60 * time.Second

// RedisChannel implements Channel over Redis Pub/Sub. Broadcasts go to one
// pub/sub topic per map; presence lives in volatile keys with a TTL plus a
// notification topic that triggers rescans on the subscribers.
type RedisChannel struct {
	rdb *redis.Client

	mu               sync.Mutex
	key              string
	sub              *redis.PubSub
	handlers         map[string][]func([]byte)
	presenceHandlers []func([]Presence)
	identity         *Presence
	connected        bool
}

// NewRedisChannel wraps a Redis client as a realtime channel. The client
// may be shared with other subsystems.
func NewRedisChannel(rdb *redis.Client) *RedisChannel {
	return &RedisChannel{
		rdb:      rdb,
		handlers: make(map[string][]func([]byte)),
	}
}

func (c *RedisChannel) eventsTopic() string   { return "seatmap:" + c.key + ":events" }
func (c *RedisChannel) presenceTopic() string { return "seatmap:" + c.key + ":presence" }
func (c *RedisChannel) presenceKey(actorID string) string {
	return "seatmap:" + c.key + ":presence:" + actorID
}

// wireMessage is the on-the-wire shape published to the events topic.
type wireMessage struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Connect subscribes to the map's topics and starts the delivery loop.
func (c *RedisChannel) Connect(ctx context.Context, channelKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		return fmt.Errorf("channel already connected to %s", c.key)
	}
	c.key = channelKey
	c.sub = c.rdb.Subscribe(ctx, c.eventsTopic(), c.presenceTopic())
	// Force the subscription to be established before we return, so a
	// broadcast issued right after Connect is not lost locally.
	if _, err := c.sub.Receive(ctx); err != nil {
		_ = c.sub.Close()
		c.sub = nil
		return fmt.Errorf("subscribe %s: %w", c.eventsTopic(), err)
	}
	c.connected = true
	go c.deliver(c.sub.Channel())
	return nil
}

// deliver dispatches inbound pub/sub messages to registered handlers until
// the subscription closes.
func (c *RedisChannel) deliver(msgs <-chan *redis.Message) {
	for msg := range msgs {
		switch msg.Channel {
		case c.eventsTopic():
			var wire wireMessage
			if err := json.Unmarshal([]byte(msg.Payload), &wire); err != nil {
				log.Printf("collab: dropping malformed broadcast: %v", err)
				continue
			}
			c.mu.Lock()
			hs := append([]func([]byte){}, c.handlers[wire.Event]...)
			c.mu.Unlock()
			for _, h := range hs {
				h(wire.Payload)
			}
		case c.presenceTopic():
			participants := c.scanPresence()
			c.mu.Lock()
			hs := append([]func([]Presence){}, c.presenceHandlers...)
			c.mu.Unlock()
			for _, h := range hs {
				h(participants)
			}
		}
	}
}

// TrackPresence writes the local identity under a TTL key and notifies the
// presence topic so every participant rescans.
func (c *RedisChannel) TrackPresence(ctx context.Context, identity Presence) error {
	c.mu.Lock()
	c.identity = &identity
	c.mu.Unlock()
	data, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, c.presenceKey(identity.ActorID), data, presenceTTL).Err(); err != nil {
		return fmt.Errorf("track presence: %w", err)
	}
	return c.rdb.Publish(ctx, c.presenceTopic(), "join").Err()
}

// Broadcast publishes an event to the map topic. Errors are returned for
// logging but callers treat delivery as fire-and-forget.
func (c *RedisChannel) Broadcast(ctx context.Context, event string, payload []byte) error {
	wire, err := json.Marshal(wireMessage{Event: event, Payload: payload})
	if err != nil {
		return err
	}
	return c.rdb.Publish(ctx, c.eventsTopic(), wire).Err()
}

// OnBroadcast registers an event handler. Registration is allowed before
// or after Connect.
func (c *RedisChannel) OnBroadcast(event string, handler func(payload []byte)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], handler)
}

// OnPresenceChange registers a presence handler.
func (c *RedisChannel) OnPresenceChange(handler func([]Presence)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presenceHandlers = append(c.presenceHandlers, handler)
}

// Disconnect removes the local presence key, notifies the topic and closes
// the subscription. Safe to call on a never-connected channel.
func (c *RedisChannel) Disconnect() error {
	c.mu.Lock()
	sub := c.sub
	identity := c.identity
	connected := c.connected
	c.sub = nil
	c.identity = nil
	c.connected = false
	c.mu.Unlock()
	if !connected {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if identity != nil {
		_ = c.rdb.Del(ctx, c.presenceKey(identity.ActorID)).Err()
		_ = c.rdb.Publish(ctx, c.presenceTopic(), "leave").Err()
	}
	if sub != nil {
		return sub.Close()
	}
	return nil
}

// scanPresence collects the live presence keys for the channel. Expired
// keys disappear on their own through the TTL.
func (c *RedisChannel) scanPresence() []Presence {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	keys, err := c.rdb.Keys(ctx, c.presenceKey("*")).Result()
	if err != nil {
		return nil
	}
	sort.Strings(keys)
	out := make([]Presence, 0, len(keys))
	for _, k := range keys {
		data, err := c.rdb.Get(ctx, k).Result()
		if err != nil {
			continue
		}
		var p Presence
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}
