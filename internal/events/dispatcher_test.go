package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherDeliversToAllSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var first, second bool
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		first = true
		return errors.New("handler failure")
	})
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		second = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: 1}); err != nil {
		t.Fatalf("publish returned error: %v", err)
	}
	if !first || !second {
		t.Fatalf("expected both handlers called, got first=%v second=%v", first, second)
	}
}

func TestDispatcherIgnoresUnsubscribedTypes(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventTicketStatusChanged, func(ctx context.Context, e Event) error {
		called = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketCreated}); err != nil {
		t.Fatalf("publish returned error: %v", err)
	}
	if called {
		t.Fatal("handler for a different event type was invoked")
	}
}
