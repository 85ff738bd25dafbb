package consumer

import "sync"

// FrameShowFunc is invoked once per rendered frame, mirroring the
// consumer-frame-show event. Multiple observers may be registered;
// they are invoked synchronously, in registration order, on the
// sink's own calling goroutine.
type FrameShowFunc func(frame *Frame)

// StoppedFunc is invoked exactly once per start→stop cycle, mirroring
// the consumer-stopped event.
type StoppedFunc func()

// eventHub is a typed replacement for MLT's varargs event transmitter.
// Rather than a generic mlt_events_fire(name, args...), each event this
// core needs gets its own registration slice and its own narrow
// dispatch helper.
type eventHub struct {
	mu        sync.Mutex
	onShow    []FrameShowFunc
	onStopped []StoppedFunc
}

func newEventHub() *eventHub {
	return &eventHub{}
}

// OnFrameShow registers a listener for consumer-frame-show.
func (h *eventHub) OnFrameShow(fn FrameShowFunc) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	h.onShow = append(h.onShow, fn)
	h.mu.Unlock()
}

// OnStopped registers a listener for consumer-stopped.
func (h *eventHub) OnStopped(fn StoppedFunc) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	h.onStopped = append(h.onStopped, fn)
	h.mu.Unlock()
}

func (h *eventHub) fireFrameShow(frame *Frame) {
	h.mu.Lock()
	listeners := append([]FrameShowFunc(nil), h.onShow...)
	h.mu.Unlock()
	for _, fn := range listeners {
		fn(frame)
	}
}

func (h *eventHub) fireStopped() {
	h.mu.Lock()
	listeners := append([]StoppedFunc(nil), h.onStopped...)
	h.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}
