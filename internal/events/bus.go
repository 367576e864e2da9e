package events

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Event is a named occurrence carried through the bus. Every event is a
// concrete struct with its own payload shape; handlers type-assert on the
// value they subscribed for instead of narrowing an untyped payload.
type Event interface {
	Name() string
}

// Handler receives every emitted event whose name matched the subscription.
type Handler func(Event)

// Matcher selects a family of event names, e.g. every form field change.
type Matcher func(name string) bool

// Subscription identifies a registered handler so it can be removed later.
// Go functions are not comparable, so removal goes through this token.
type Subscription struct {
	id uint64
}

// Emitter is the write side of the bus. Models hold this instead of the
// full Bus so they can notify without being able to subscribe.
type Emitter interface {
	Emit(e Event)
}

type subscriber struct {
	id    uint64
	exact string
	match Matcher
	fn    Handler
}

// Bus is a synchronous publish/subscribe dispatcher. Handlers run in
// subscription order and to completion before Emit returns; a handler that
// emits dispatches recursively. The bus is not safe for concurrent use:
// every session owns its own instance and serializes access to it.
type Bus struct {
	logger  *slog.Logger
	emitted *prometheus.CounterVec
	nextID  uint64
	subs    []subscriber
}

// New creates an empty bus. emitted counts dispatched events by name and
// may be nil.
func New(logger *slog.Logger, emitted *prometheus.CounterVec) *Bus {
	return &Bus{
		logger:  logger,
		emitted: emitted,
	}
}

// Subscribe registers fn for events with exactly the given name.
func (b *Bus) Subscribe(name string, fn Handler) Subscription {
	b.nextID++
	b.subs = append(b.subs, subscriber{id: b.nextID, exact: name, fn: fn})
	return Subscription{id: b.nextID}
}

// SubscribeMatch registers fn for every event whose name satisfies match.
func (b *Bus) SubscribeMatch(match Matcher, fn Handler) Subscription {
	b.nextID++
	b.subs = append(b.subs, subscriber{id: b.nextID, match: match, fn: fn})
	return Subscription{id: b.nextID}
}

// Unsubscribe removes a previously registered handler. Unknown tokens are
// ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	for i, s := range b.subs {
		if s.id == sub.id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Emit dispatches e to every matching handler, in subscription order.
// Emitting with no subscribers is a no-op. A panicking handler is logged
// and does not prevent sibling handlers from running.
func (b *Bus) Emit(e Event) {
	if b.emitted != nil {
		b.emitted.WithLabelValues(e.Name()).Inc()
	}

	// Snapshot so handlers can subscribe or unsubscribe mid-emission
	// without affecting this dispatch.
	matched := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.matches(e.Name()) {
			matched = append(matched, s.fn)
		}
	}

	for _, fn := range matched {
		b.dispatch(fn, e)
	}
}

func (s subscriber) matches(name string) bool {
	if s.match != nil {
		return s.match(name)
	}
	return s.exact == name
}

func (b *Bus) dispatch(fn Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"event", e.Name(),
				"panic", r,
			)
		}
	}()
	fn(e)
}
