/*
bus.go - In-process notification bus

PURPOSE:
  Publish/subscribe fan-out of booking state changes to connected viewers.
  Topics are dates: a subscriber registers interest in one day and receives
  every booking/cancel/extract event for it. A fixed-interval clock tick is
  additionally broadcast to every subscriber regardless of topic, for
  client-side display synchronization only; no business logic depends on
  its delivery or timing.

DELIVERY SEMANTICS:
  Sends are non-blocking. A subscriber whose channel buffer is full, or one
  that departed between lookup and send, is skipped silently: the publisher
  never blocks and never crashes on a dead handle. Unsubscribe removes the
  handle from its topic and closes the channel.

NAMING:
  Publisher/subscriber shape follows the messaging packages in sibling
  services; the transport here is a channel because the viewers live in
  this process (the SSE handler drains each subscriber's channel).

SEE ALSO:
  - booking/engine.go: the single publisher
  - api/stream.go: the SSE consumer
*/
package bus

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/techcafe/reservation-engine/booking"
)

// TickInterval is how often the wall-clock snapshot is broadcast.
const TickInterval = 5 * time.Second

// subscriberBuffer bounds per-subscriber queueing before events are dropped.
const subscriberBuffer = 16

// =============================================================================
// MESSAGES
// =============================================================================

// Tick is the periodic wall-clock broadcast.
type Tick struct {
	Hours        int    `json:"hours"`
	Minutes      int    `json:"minutes"`
	Seconds      int    `json:"seconds"`
	TotalMinutes int    `json:"total_minutes"`
	ISOString    string `json:"iso_string"`
}

// Message is what a subscriber receives: exactly one of Event or Tick.
type Message struct {
	Event *booking.Event `json:"event,omitempty"`
	Tick  *Tick          `json:"tick,omitempty"`
}

// Subscriber is one connected viewer's handle.
type Subscriber struct {
	ID    string
	Topic string // the date subscribed to

	C chan Message
}

// =============================================================================
// BUS
// =============================================================================

// Bus fans out events to subscribers by date topic.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]map[string]*Subscriber // topic -> id -> subscriber

	// Now supplies tick timestamps. Tests pin it.
	Now func() time.Time
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{
		subs: make(map[string]map[string]*Subscriber),
		Now:  time.Now,
	}
}

// Subscribe registers interest in a date and returns the handle.
func (b *Bus) Subscribe(date string) *Subscriber {
	s := &Subscriber{
		ID:    uuid.NewString(),
		Topic: date,
		C:     make(chan Message, subscriberBuffer),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	topic := b.subs[date]
	if topic == nil {
		topic = make(map[string]*Subscriber)
		b.subs[date] = topic
	}
	topic[s.ID] = s
	return s
}

// Unsubscribe removes the handle from its topic and closes its channel.
// Safe to call once per subscriber; publishes racing with departure are
// dropped by the non-blocking send.
func (b *Bus) Unsubscribe(s *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	topic := b.subs[s.Topic]
	if topic == nil {
		return
	}
	if _, ok := topic[s.ID]; !ok {
		return
	}
	delete(topic, s.ID)
	if len(topic) == 0 {
		delete(b.subs, s.Topic)
	}
	close(s.C)
}

// Publish delivers the event to every subscriber of its date. Never blocks.
func (b *Bus) Publish(ev booking.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs[ev.Date] {
		select {
		case s.C <- Message{Event: &ev}:
		default:
			// Slow consumer: drop rather than block the publisher.
		}
	}
}

// SubscriberCount returns how many handles are registered for a date.
func (b *Bus) SubscriberCount(date string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[date])
}

// =============================================================================
// CLOCK HEARTBEAT
// =============================================================================

// Run broadcasts the wall clock to all subscribers every TickInterval
// until ctx is done. Call in its own goroutine.
func (b *Bus) Run(ctx context.Context) {
	t := time.NewTicker(TickInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			b.broadcastTick()
		}
	}
}

func (b *Bus) broadcastTick() {
	now := b.Now()
	tick := Tick{
		Hours:        now.Hour(),
		Minutes:      now.Minute(),
		Seconds:      now.Second(),
		TotalMinutes: now.Hour()*60 + now.Minute(),
		ISOString:    now.Format(time.RFC3339),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, topic := range b.subs {
		for _, s := range topic {
			select {
			case s.C <- Message{Tick: &tick}:
			default:
			}
		}
	}
}
