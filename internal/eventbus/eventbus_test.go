package eventbus

import "testing"

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Publish(DeliveryLinkedEvent{DeliveryID: "d1", OrderNumber: "ORD-000001"})
	v := <-ch
	ev, ok := v.(DeliveryLinkedEvent)
	if !ok || ev.DeliveryID != "d1" {
		t.Fatalf("unexpected event %#v", v)
	}
	bus.Unsubscribe(ch)
}

func TestBusClose(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}

func TestBusDropsWhenSubscriberFull(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	for i := 0; i < 100; i++ {
		bus.Publish(OrderTransitionedEvent{OrderNumber: "ORD-000001"})
	}
	drained := 0
	for len(ch) > 0 {
		<-ch
		drained++
	}
	if drained == 0 || drained > 16 {
		t.Fatalf("expected buffered fan-out with drops, drained %d", drained)
	}
	bus.Unsubscribe(ch)
}
