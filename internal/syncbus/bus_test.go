package syncbus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestBus_SubscribeAndPublish(t *testing.T) {
	bus := NewBus()

	ch, unsub := bus.Subscribe()
	defer unsub()

	bus.Publish(Signal{Kind: KindRange, Source: "a", Start: 1, End: 2})

	select {
	case got := <-ch:
		if got.Kind != KindRange || got.Start != 1 || got.End != 2 {
			t.Errorf("unexpected signal: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for signal")
	}
}

func TestBus_PublishExcept(t *testing.T) {
	bus := NewBus()
	ch1, unsub1 := bus.Subscribe()
	defer unsub1()
	ch2, unsub2 := bus.Subscribe()
	defer unsub2()

	bus.PublishExcept(Signal{Kind: KindTime, Source: "a"}, ch1)

	select {
	case <-ch2:
	case <-time.After(time.Second):
		t.Fatal("other subscriber did not receive the signal")
	}
	select {
	case s := <-ch1:
		t.Fatalf("excluded subscriber received %+v", s)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	ch, unsub := bus.Subscribe()
	unsub()
	unsub()

	bus.Publish(Signal{Kind: KindRange, Source: "a"})

	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after unsubscribe")
	}
	if bus.Len() != 0 {
		t.Errorf("Len() = %d, want 0", bus.Len())
	}
}

func TestBus_SlowSubscriberDrops(t *testing.T) {
	bus := NewBus()
	_, unsub := bus.Subscribe()
	defer unsub()
	dropped := testutil.ToFloat64(signalsDroppedTotal)

	for i := 0; i < subscriberBuffer+5; i++ {
		bus.Publish(Signal{Kind: KindRange, Source: "a", Start: int64(i)})
	}

	if got := testutil.ToFloat64(signalsDroppedTotal) - dropped; got != 5 {
		t.Errorf("dropped delta = %v, want 5", got)
	}
}
