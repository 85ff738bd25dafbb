package nullsink

import "testing"

type countingNotifier struct{ count int }

func (n *countingNotifier) Stopped() { n.count++ }

func TestSinkStartStopLifecycle(t *testing.T) {
	n := &countingNotifier{}
	s := New(n)

	if !s.IsStopped() {
		t.Fatal("a fresh sink should report stopped")
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.IsStopped() {
		t.Fatal("IsStopped() = true after Start")
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !s.IsStopped() {
		t.Fatal("IsStopped() = false after Stop")
	}
	if n.count != 1 {
		t.Fatalf("notifier.Stopped called %d times, want 1", n.count)
	}
}

func TestSinkNilNotifierIsSafe(t *testing.T) {
	s := New(nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop with a nil notifier: %v", err)
	}
}
