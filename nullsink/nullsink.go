// Package nullsink provides a SinkAdapter that presents nothing: it has
// no presentation loop and never pulls frames itself, which makes it
// useful for tests and throughput benchmarks that only care about the
// Read-Ahead Worker and Presentation Queue.
package nullsink

import "sync"

// StoppedNotifier is the slice of *consumer.Consumer this sink needs:
// just the stopped callback, since a null sink never presents
// anything for consumer-frame-show to report.
type StoppedNotifier interface {
	Stopped()
}

// Sink immediately reports started/stopped with no presentation loop
// of its own; callers drive RealtimeFrame directly (typically from a
// test goroutine).
type Sink struct {
	notifier StoppedNotifier

	mu      sync.Mutex
	stopped bool
}

// New returns a null sink that reports stop completion to notifier.
func New(notifier StoppedNotifier) *Sink {
	return &Sink{notifier: notifier, stopped: true}
}

func (s *Sink) Start() error {
	s.mu.Lock()
	s.stopped = false
	s.mu.Unlock()
	return nil
}

func (s *Sink) Stop() error {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	if s.notifier != nil {
		s.notifier.Stopped()
	}
	return nil
}

func (s *Sink) IsStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func (s *Sink) Close() error {
	return nil
}
