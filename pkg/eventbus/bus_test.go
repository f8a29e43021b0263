package eventbus

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestFireDeliversInRegistrationOrder(t *testing.T) {
	bus := New()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		bus.Listen("test_event", func(Event) {
			order = append(order, i)
		})
	}

	bus.Fire("test_event", nil)

	if len(order) != 5 {
		t.Fatalf("got %d deliveries, want 5", len(order))
	}
	for i, got := range order {
		if got != i {
			t.Errorf("delivery %d went to listener %d, want %d", i, got, i)
		}
	}
}

func TestFireIsSynchronous(t *testing.T) {
	bus := New()

	delivered := false
	bus.Listen("test_event", func(Event) {
		delivered = true
	})

	// No synchronization: Fire must complete delivery before returning.
	bus.Fire("test_event", nil)

	if !delivered {
		t.Error("listener was not invoked before Fire returned")
	}
}

func TestFirePassesEventData(t *testing.T) {
	bus := New()

	var got Event
	bus.Listen("test_event", func(event Event) {
		got = event
	})

	bus.Fire("test_event", map[string]any{"key": "value"})

	if got.Type != "test_event" {
		t.Errorf("got event type %q, want %q", got.Type, "test_event")
	}
	if got.Data["key"] != "value" {
		t.Errorf("got data %v, want key=value", got.Data)
	}
	if got.Time.IsZero() {
		t.Error("event time was not set")
	}
}

func TestFireOnlyMatchingType(t *testing.T) {
	bus := New()

	var calls int
	bus.Listen("wanted", func(Event) { calls++ })
	bus.Listen("other", func(Event) {
		t.Error("listener for other event type was invoked")
	})

	bus.Fire("wanted", nil)

	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}
}

func TestRemoveListener(t *testing.T) {
	bus := New()

	var calls int
	remove := bus.Listen("test_event", func(Event) { calls++ })

	bus.Fire("test_event", nil)
	remove()
	bus.Fire("test_event", nil)

	if calls != 1 {
		t.Errorf("got %d calls after removal, want 1", calls)
	}

	// Removing twice is harmless.
	remove()

	if count := bus.ListenerCount("test_event"); count != 0 {
		t.Errorf("got %d listeners, want 0", count)
	}
}

func TestRemoveDuringDelivery(t *testing.T) {
	bus := New()

	var removeSecond func()
	var secondCalls int

	bus.Listen("test_event", func(Event) {
		removeSecond()
	})
	removeSecond = bus.Listen("test_event", func(Event) {
		secondCalls++
	})

	// The delivery snapshot is taken before listeners run, so the second
	// listener still receives this event despite being removed by the first.
	bus.Fire("test_event", nil)
	if secondCalls != 1 {
		t.Errorf("got %d calls in snapshot round, want 1", secondCalls)
	}

	bus.Fire("test_event", nil)
	if secondCalls != 1 {
		t.Errorf("got %d calls after removal, want 1", secondCalls)
	}
}

func TestListenOnceFiresOnce(t *testing.T) {
	bus := New()

	var calls int
	bus.ListenOnce("test_event", func(Event) { calls++ })

	bus.Fire("test_event", nil)
	bus.Fire("test_event", nil)

	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}
	if count := bus.ListenerCount("test_event"); count != 0 {
		t.Errorf("got %d listeners after delivery, want 0", count)
	}
}

func TestListenOnceRemovedBeforeInvocation(t *testing.T) {
	bus := New()

	// Firing the same event from inside the listener must not recurse
	// into it: the registration is removed before the callback runs.
	var calls int
	bus.ListenOnce("test_event", func(Event) {
		calls++
		if calls == 1 {
			bus.Fire("test_event", nil)
		}
	})

	bus.Fire("test_event", nil)

	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}
}

func TestListenOnceEarlyRemoval(t *testing.T) {
	bus := New()

	remove := bus.ListenOnce("test_event", func(Event) {
		t.Error("removed one-shot listener was invoked")
	})
	remove()

	bus.Fire("test_event", nil)
}

func TestListenOnceConcurrentFire(t *testing.T) {
	bus := New()

	var calls atomic.Int32
	bus.ListenOnce("test_event", func(Event) {
		calls.Add(1)
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Fire("test_event", nil)
		}()
	}
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("got %d calls under concurrent fire, want 1", got)
	}
}

func TestConcurrentRegisterAndFire(t *testing.T) {
	bus := New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			remove := bus.Listen("test_event", func(Event) {})
			remove()
		}()
		go func() {
			defer wg.Done()
			bus.Fire("test_event", map[string]any{"n": 1})
		}()
	}
	wg.Wait()
}
