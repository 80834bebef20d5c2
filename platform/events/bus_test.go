package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mrp_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishSyncDeliversToSubscribers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	var got []string
	bus.Subscribe("status.changed", HandlerFunc(func(_ context.Context, event Event) error {
		got = append(got, event.EventName())
		return nil
	}))

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "status.changed"}); err != nil {
		t.Fatalf("PublishSync() error = %v", err)
	}
	if len(got) != 1 || got[0] != "status.changed" {
		t.Errorf("delivered = %v, want one status.changed", got)
	}
}

func TestPublishSyncJoinsHandlerErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	failure := errors.New("handler broke")
	bus.Subscribe("status.changed", HandlerFunc(func(context.Context, Event) error { return failure }))
	bus.Subscribe("status.changed", HandlerFunc(func(context.Context, Event) error { return nil }))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "status.changed"})
	if !errors.Is(err, failure) {
		t.Fatalf("PublishSync() error = %v, want wrapped handler error", err)
	}
}

func TestPublishIgnoresUnsubscribedNames(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	delivered := false
	bus.Subscribe("status.changed", HandlerFunc(func(context.Context, Event) error {
		delivered = true
		return nil
	}))

	// Different name: nothing should be delivered, and nothing should block.
	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "other.event"})
	if delivered {
		t.Error("handler received an event with a different name")
	}
}

func TestPublishSurvivesCancelledContext(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	var wg sync.WaitGroup
	wg.Add(1)
	var seenErr error
	bus.Subscribe("status.changed", HandlerFunc(func(ctx context.Context, _ Event) error {
		defer wg.Done()
		seenErr = ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, testEvent{NewBaseEvent(), "status.changed"})
	wg.Wait()

	if seenErr != nil {
		t.Errorf("handler context error = %v, want detached context", seenErr)
	}
}
