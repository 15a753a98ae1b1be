package event

import (
	"sync"

	"go.uber.org/zap"
)

// defaultBuffer is the per-subscription channel depth. A subscriber that
// falls this far behind starts losing events rather than blocking the
// publisher.
const defaultBuffer = 64

// Subscription is one ordered event stream for a single topic. Events
// published before the subscription existed are never delivered.
type Subscription struct {
	topic string
	ch    chan Event
}

// Events returns the ordered stream. The channel closes on Unsubscribe.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Topic returns the topic this subscription observes.
func (s *Subscription) Topic() string {
	return s.topic
}

// Bus is an in-process publish/subscribe broker with per-topic scoping.
// Publish is fire-and-forget: no subscribers means the event is silently
// dropped, which is expected rather than an error.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]*Subscription
	log  *zap.Logger
}

// NewBus returns an empty bus.
func NewBus(log *zap.Logger) *Bus {
	return &Bus{
		subs: make(map[string][]*Subscription),
		log:  log,
	}
}

// Subscribe registers a new ordered stream for topic.
func (b *Bus) Subscribe(topic string) *Subscription {
	sub := &Subscription{topic: topic, ch: make(chan Event, defaultBuffer)}
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], sub)
	b.mu.Unlock()
	return sub
}

// Unsubscribe removes the subscription and closes its stream.
func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	subs := b.subs[sub.topic]
	for i, s := range subs {
		if s == sub {
			b.subs[sub.topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[sub.topic]) == 0 {
		delete(b.subs, sub.topic)
	}
	b.mu.Unlock()
	close(sub.ch)
}

// Publish delivers ev to every current subscriber of topic without ever
// blocking. A subscriber whose buffer is full loses the event with a warning;
// a topic with no subscribers drops it silently.
func (b *Bus) Publish(topic string, ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs[topic] {
		select {
		case sub.ch <- ev:
		default:
			b.log.Warn("dropping event for slow subscriber",
				zap.String("topic", topic),
				zap.String("kind", string(ev.Kind)))
		}
	}
}
