package consumer

import (
	"sync"
	"time"
)

// pushWaitInterval bounds how long a push-mode wait blocks before
// re-checking liveness, matching mlt_consumer_put_frame/
// mlt_consumer_get_frame's one-second pthread_cond_timedwait loop.
const pushWaitInterval = time.Second

// pushSlot is the capacity-1 hand-off used for push-mode ingress. It is
// the Go translation of MLT's this->put field plus put_mutex/put_cond:
// at most one Frame may be in flight, the producer side blocks for
// backpressure, and the consumer side blocks for availability, both
// bounded by one-second timed waits so a stop can always be observed
// within that window.
type pushSlot struct {
	mu    sync.Mutex
	cond  *sync.Cond
	frame *Frame
}

func newPushSlot() *pushSlot {
	s := &pushSlot{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// put deposits frame into the slot. If the slot is already occupied,
// put waits (cycling in pushWaitInterval slices against isStopped)
// until it empties or the consumer stops. If, after waking, the slot
// is still occupied (a stop race), the newcomer is discarded.
//
// put never reports whether the frame was actually accepted: it only
// means the call completed, not that the frame was accepted, mirroring
// mlt_consumer_put_frame's own unconditional return value.
func (s *pushSlot) put(frame *Frame, isStopped func() bool) {
	s.mu.Lock()
	for !isStopped() && s.frame != nil {
		s.timedWaitLocked()
	}
	if s.frame == nil {
		s.frame = frame
		frame = nil
	}
	s.cond.Broadcast()
	s.mu.Unlock()

	if frame != nil {
		frame.Close()
	}
}

// acquire waits for and removes a frame from the slot, cycling in
// pushWaitInterval slices against isStopped. Returns (nil, false) if
// the consumer stopped before a frame arrived.
func (s *pushSlot) acquire(isStopped func() bool) (*Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for !isStopped() && s.frame == nil {
		s.timedWaitLocked()
	}
	frame := s.frame
	s.frame = nil
	s.cond.Broadcast()
	return frame, frame != nil
}

// wake unblocks any goroutine waiting in put or acquire immediately,
// used by Stop() to guarantee unblock without waiting out the full
// pushWaitInterval.
func (s *pushSlot) wake() {
	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
}

// drop closes and clears any frame currently parked in the slot,
// called when a consumer starts or stops.
func (s *pushSlot) drop() {
	s.mu.Lock()
	frame := s.frame
	s.frame = nil
	s.mu.Unlock()
	if frame != nil {
		frame.Close()
	}
}

// timedWaitLocked waits on the condition for at most pushWaitInterval,
// then returns so the caller can re-check its loop predicate (the
// translation of pthread_cond_timedwait's one-second ceiling). s.mu
// must be held; it is released for the duration of the wait and
// re-acquired before returning, same as sync.Cond.Wait. The wake timer
// is left running after a normal (non-timeout) wakeup; it fires into
// an uncontended Broadcast, a harmless spurious wakeup the caller's
// loop condition absorbs.
func (s *pushSlot) timedWaitLocked() {
	time.AfterFunc(pushWaitInterval, func() {
		s.mu.Lock()
		s.cond.Broadcast()
		s.mu.Unlock()
	})
	s.cond.Wait()
}
