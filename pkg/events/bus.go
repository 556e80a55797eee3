package events

import (
	"log/slog"
	"sort"
	"sync"

	"playhead/api"
)

// Handler receives one event delivery
type Handler func(api.Event)

// Bus distributes events to subscribed handlers by topic. Delivery is
// synchronous: Publish returns after every handler for the topic has
// run. Order between independent registrations is not guaranteed.
type Bus struct {
	mu     sync.RWMutex
	subs   map[api.Topic]map[uint64]Handler
	nextID uint64
	logger *slog.Logger
}

// NewBus creates a new event bus
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subs:   make(map[api.Topic]map[uint64]Handler),
		logger: logger,
	}
}

// Subscribe registers a handler for a topic and returns a cancel
// function that removes exactly this registration. The same handler
// may be registered multiple times as distinct registrations.
func (b *Bus) Subscribe(topic api.Topic, h Handler) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[uint64]Handler)
	}
	b.subs[topic][id] = h

	return func() { b.remove(topic, id) }
}

// SubscribeOnce registers a handler that is removed after its first
// invocation. The returned cancel function removes it early.
func (b *Bus) SubscribeOnce(topic api.Topic, h Handler) (cancel func()) {
	var once sync.Once
	var remove func()

	remove = b.Subscribe(topic, func(ev api.Event) {
		once.Do(func() {
			remove()
			h(ev)
		})
	})
	return remove
}

// Publish delivers an event to every handler currently registered for
// the topic. A handler that panics is logged and skipped; remaining
// handlers still run. Handlers may subscribe or publish re-entrantly:
// the registration set is snapshotted before any handler is invoked,
// so mutations take effect for the next Publish.
func (b *Bus) Publish(topic api.Topic, payload any) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[topic]))
	for _, h := range b.subs[topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	ev := api.Event{Topic: topic, Payload: payload}
	for _, h := range handlers {
		b.deliver(topic, h, ev)
	}
}

// deliver invokes one handler, isolating failures
func (b *Bus) deliver(topic api.Topic, h Handler, ev api.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "topic", string(topic), "panic", r)
		}
	}()
	h(ev)
}

// Clear removes all handlers for the given topics, or every handler
// on the bus when no topic is given.
func (b *Bus) Clear(topics ...api.Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(topics) == 0 {
		b.subs = make(map[api.Topic]map[uint64]Handler)
		return
	}
	for _, topic := range topics {
		delete(b.subs, topic)
	}
}

// Len returns the number of registrations for a topic
func (b *Bus) Len(topic api.Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// Topics returns the topics that currently have registrations
func (b *Bus) Topics() []api.Topic {
	b.mu.RLock()
	defer b.mu.RUnlock()

	topics := make([]api.Topic, 0, len(b.subs))
	for topic, handlers := range b.subs {
		if len(handlers) > 0 {
			topics = append(topics, topic)
		}
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i] < topics[j] })
	return topics
}

// remove deletes one registration; no-op if it is already gone
func (b *Bus) remove(topic api.Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if handlers, ok := b.subs[topic]; ok {
		delete(handlers, id)
		if len(handlers) == 0 {
			delete(b.subs, topic)
		}
	}
}
