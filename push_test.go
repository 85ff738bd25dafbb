package consumer

import (
	"testing"
	"time"
)

func notStopped() bool { return false }

func TestPushSlotRoundTrip(t *testing.T) {
	slot := newPushSlot()
	sent := NewFrame(nil, nil)
	sent.Properties.Set("tag", "one")

	done := make(chan struct{})
	go func() {
		slot.put(sent, notStopped)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("put on an empty slot should not block")
	}

	got, ok := slot.acquire(notStopped)
	if !ok {
		t.Fatal("acquire reported no frame after a successful put")
	}
	if got.Properties.Get("tag") != "one" {
		t.Fatalf("acquired frame tag = %v, want one", got.Properties.Get("tag"))
	}
}

func TestPushSlotPutBlocksWhileOccupied(t *testing.T) {
	slot := newPushSlot()
	slot.put(NewFrame(nil, nil), notStopped)

	second := NewFrame(nil, nil)
	second.Properties.Set("tag", "second")

	putDone := make(chan struct{})
	go func() {
		slot.put(second, notStopped)
		close(putDone)
	}()

	select {
	case <-putDone:
		t.Fatal("put should block while the slot is already occupied")
	case <-time.After(50 * time.Millisecond):
	}

	first, ok := slot.acquire(notStopped)
	if !ok || first == nil {
		t.Fatal("expected to acquire the first frame")
	}

	select {
	case <-putDone:
	case <-time.After(time.Second):
		t.Fatal("put should unblock once the slot is drained")
	}

	got, ok := slot.acquire(notStopped)
	if !ok || got.Properties.Get("tag") != "second" {
		t.Fatalf("expected to acquire the second frame, got ok=%v tag=%v", ok, got.Properties.Get("tag"))
	}
}

func TestPushSlotWakeUnblocksAcquireOnStop(t *testing.T) {
	slot := newPushSlot()
	stopped := false
	isStopped := func() bool { return stopped }

	done := make(chan struct{})
	var gotOK bool
	go func() {
		_, gotOK = slot.acquire(isStopped)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	stopped = true
	slot.wake()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("wake should unblock a pending acquire once isStopped reports true")
	}
	if gotOK {
		t.Fatal("acquire should report no frame when it unblocks due to stop")
	}
}

func TestPushSlotDropClosesParkedFrame(t *testing.T) {
	slot := newPushSlot()
	f := NewFrame(nil, nil)
	dropped := false
	f.Properties.SetOwned("k", "v", func() { dropped = true })

	slot.put(f, notStopped)
	slot.drop()

	if !dropped {
		t.Fatal("drop should close any frame left parked in the slot")
	}
}
