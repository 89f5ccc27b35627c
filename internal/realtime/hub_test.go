package realtime

import (
	"testing"
	"time"

	"github.com/revkonstriksyon/fluid-finance-api/internal/events"
)

func anEventFor(userID string) events.Event {
	return events.Event{
		Type:      events.BalanceUpdated,
		Timestamp: time.Now(),
		Data: map[string]any{
			"accountId":  "acc-001",
			"userId":     userID,
			"newBalance": 150.0,
		},
	}
}

func drain(ch <-chan events.Event) []events.Event {
	var out []events.Event
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestDispatchRoutesByUser(t *testing.T) {
	hub := NewHub()

	feedA, cancelA := hub.Subscribe("usr-A")
	defer cancelA()
	feedB, cancelB := hub.Subscribe("usr-B")
	defer cancelB()

	hub.Dispatch(anEventFor("usr-A"))
	hub.Dispatch(anEventFor("usr-A"))
	hub.Dispatch(anEventFor("usr-B"))

	gotA := drain(feedA)
	gotB := drain(feedB)

	if len(gotA) != 2 {
		t.Errorf("user A expected 2 events, got %d", len(gotA))
	}
	if len(gotB) != 1 {
		t.Errorf("user B expected 1 event, got %d", len(gotB))
	}
	for _, e := range gotA {
		if id, _ := e.UserID(); id != "usr-A" {
			t.Errorf("user A's feed must never carry another user's event, got %q", id)
		}
	}
}

func TestDispatchFansMessageEventsToBothParticipants(t *testing.T) {
	hub := NewHub()

	sender, cancelS := hub.Subscribe("usr-A")
	defer cancelS()
	receiver, cancelR := hub.Subscribe("usr-B")
	defer cancelR()
	bystander, cancelC := hub.Subscribe("usr-C")
	defer cancelC()

	hub.Dispatch(events.Event{
		Type:      events.MessageSent,
		Timestamp: time.Now(),
		Data: map[string]any{
			"messageId":      "msg-001",
			"conversationId": "cnv-001",
			"senderId":       "usr-A",
			"receiverId":     "usr-B",
		},
	})

	if got := len(drain(sender)); got != 1 {
		t.Errorf("sender expected the message event, got %d", got)
	}
	if got := len(drain(receiver)); got != 1 {
		t.Errorf("receiver expected the message event, got %d", got)
	}
	if got := len(drain(bystander)); got != 0 {
		t.Errorf("bystander must not see the message event, got %d", got)
	}
}

func TestDispatchDropsUnscopedEvents(t *testing.T) {
	hub := NewHub()

	feed, cancel := hub.Subscribe("usr-A")
	defer cancel()

	hub.Dispatch(events.Event{Type: "system.tick", Data: map[string]any{"n": 1}})

	if got := len(drain(feed)); got != 0 {
		t.Errorf("unscoped events must not be broadcast, got %d", got)
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub()

	feed, cancel := hub.Subscribe("usr-A")
	defer cancel()

	// Fill the buffer and then some; the overflowing dispatch evicts.
	for i := 0; i < clientBufferSize+1; i++ {
		hub.Dispatch(anEventFor("usr-A"))
	}

	if hub.ClientCount() != 0 {
		t.Errorf("slow client must be evicted, still have %d clients", hub.ClientCount())
	}

	got := drain(feed)
	if len(got) != clientBufferSize {
		t.Errorf("expected the buffered %d events, got %d", clientBufferSize, len(got))
	}
}

func TestCancelIsIdempotentWithEviction(t *testing.T) {
	hub := NewHub()

	_, cancel := hub.Subscribe("usr-A")
	for i := 0; i < clientBufferSize+1; i++ {
		hub.Dispatch(anEventFor("usr-A"))
	}
	// Already evicted; cancelling again must not panic.
	cancel()

	if hub.ClientCount() != 0 {
		t.Errorf("expected no clients, got %d", hub.ClientCount())
	}
}
