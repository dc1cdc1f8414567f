package bus

import (
	"testing"
	"time"

	"github.com/techcafe/reservation-engine/booking"
)

func event(date, key string) booking.Event {
	return booking.Event{Date: date, SlotKey: key, Action: booking.ReasonBooked}
}

func TestPublish_TopicIsolation(t *testing.T) {
	b := New()
	monday := b.Subscribe("2025-11-03")
	tuesday := b.Subscribe("2025-11-04")

	b.Publish(event("2025-11-03", "2025-11-03_09:00"))

	select {
	case msg := <-monday.C:
		if msg.Event == nil || msg.Event.SlotKey != "2025-11-03_09:00" {
			t.Fatalf("wrong message: %+v", msg)
		}
	default:
		t.Fatal("monday subscriber received nothing")
	}

	select {
	case msg := <-tuesday.C:
		t.Fatalf("tuesday subscriber should receive nothing, got %+v", msg)
	default:
	}
}

func TestPublish_AllTopicSubscribersReceive(t *testing.T) {
	b := New()
	s1 := b.Subscribe("2025-11-03")
	s2 := b.Subscribe("2025-11-03")

	b.Publish(event("2025-11-03", "2025-11-03_09:15"))

	for _, s := range []*Subscriber{s1, s2} {
		select {
		case <-s.C:
		default:
			t.Fatalf("subscriber %s received nothing", s.ID)
		}
	}
}

func TestUnsubscribe_RemovesHandleAndClosesChannel(t *testing.T) {
	b := New()
	s := b.Subscribe("2025-11-03")
	if got := b.SubscriberCount("2025-11-03"); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}

	b.Unsubscribe(s)
	if got := b.SubscriberCount("2025-11-03"); got != 0 {
		t.Fatalf("count after unsubscribe = %d, want 0", got)
	}

	if _, open := <-s.C; open {
		t.Fatal("channel should be closed after unsubscribe")
	}

	// Publishing to the departed handle must not panic or block.
	b.Publish(event("2025-11-03", "2025-11-03_09:30"))

	// Double unsubscribe is a no-op.
	b.Unsubscribe(s)
}

func TestPublish_SlowConsumerNeverBlocks(t *testing.T) {
	b := New()
	s := b.Subscribe("2025-11-03")

	// Overfill the buffer; the publisher must drop, not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			b.Publish(event("2025-11-03", "2025-11-03_09:00"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a slow consumer")
	}

	if n := len(s.C); n != subscriberBuffer {
		t.Fatalf("buffered = %d, want %d", n, subscriberBuffer)
	}
}

func TestBroadcastTick_ReachesEveryTopic(t *testing.T) {
	b := New()
	b.Now = func() time.Time { return time.Date(2025, time.November, 3, 14, 30, 45, 0, time.UTC) }

	monday := b.Subscribe("2025-11-03")
	tuesday := b.Subscribe("2025-11-04")

	b.broadcastTick()

	for _, s := range []*Subscriber{monday, tuesday} {
		select {
		case msg := <-s.C:
			if msg.Tick == nil {
				t.Fatalf("expected tick, got %+v", msg)
			}
			if msg.Tick.Hours != 14 || msg.Tick.Minutes != 30 || msg.Tick.TotalMinutes != 14*60+30 {
				t.Fatalf("wrong tick: %+v", msg.Tick)
			}
		default:
			t.Fatalf("subscriber %s missed the tick", s.ID)
		}
	}
}
