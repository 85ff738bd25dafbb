package consumer

import (
	"sync"

	"code.hybscloud.com/lfq"
)

// presentationQueue is the bounded FIFO hand-off between the Read-Ahead
// Worker (sole writer) and the Sink Adapter (sole reader, via
// RealtimeFrame), capacity buffer+1.
//
// The ring itself is a single-producer single-consumer lock-free queue
// (code.hybscloud.com/lfq.SPSC), which matches the access pattern
// exactly — but blocking push-on-full / wait-on-empty-or-prefill
// semantics need a mutex+cond pair gating entry on top of it, the same
// way the jpeg frame pool in other_examples gates its own fixed-size
// ring (`pool.changed sync.Cond` guarding `pool.frames`). The logical
// occupancy counter below is authoritative for capacity — lfq.SPSC
// rounds its physical capacity up to a power of 2, so we never rely on
// its Cap() for the buffer+1 invariant.
type presentationQueue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	ring     *lfq.SPSC[*Frame]
	capacity int
	occ      int
}

// newPresentationQueue returns a queue with the given logical capacity
// (buffer+1; a buffer of 0 means effective capacity 1).
func newPresentationQueue(capacity int) *presentationQueue {
	if capacity < 1 {
		capacity = 1
	}
	ringCap := capacity
	if ringCap < 2 {
		ringCap = 2 // lfq.NewSPSC requires capacity >= 2
	}
	q := &presentationQueue{
		ring:     lfq.NewSPSC[*Frame](ringCap),
		capacity: capacity,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// pushBack enqueues frame, waiting while the queue is full and ahead
// still reports true. The push happens unconditionally once the wait
// loop exits — mirroring consumer_read_ahead_thread's
// "while (ahead && count >= buffer) wait; push; broadcast" shape,
// where the final push is not itself conditioned on ahead.
func (q *presentationQueue) pushBack(frame *Frame, ahead func() bool) {
	q.mu.Lock()
	for ahead() && q.occ >= q.capacity {
		q.cond.Wait()
	}
	if err := q.ring.Enqueue(&frame); err != nil {
		// Logical capacity already gates physical capacity; this
		// would only trip if the two drifted apart, which the
		// invariant above rules out. Surface it loudly rather than
		// silently drop a frame out of order.
		panic("consumer: presentation queue capacity invariant violated")
	}
	q.occ++
	q.cond.Broadcast()
	q.mu.Unlock()
}

// popFront waits until occupancy reaches size or ahead reports false,
// then removes and returns the oldest Frame. Returns (nil, false) if
// the queue was empty when ahead became false (worker has stopped and
// drained).
func (q *presentationQueue) popFront(size int, ahead func() bool) (*Frame, bool) {
	q.mu.Lock()
	for ahead() && q.occ < size {
		q.cond.Wait()
	}
	if q.occ == 0 {
		q.mu.Unlock()
		return nil, false
	}
	frame, err := q.ring.Dequeue()
	if err != nil {
		q.mu.Unlock()
		return nil, false
	}
	q.occ--
	q.cond.Broadcast()
	q.mu.Unlock()
	return frame, true
}

// popBack drains the whole ring, discarding every frame but the
// newest, and returns that one without waiting. Mirrors
// mlt_deque_pop_back's role in consumer_read_ahead_stop/
// mlt_consumer_purge, where the worker's single in-flight frame is the
// only one worth keeping once the rest are thrown away.
func (q *presentationQueue) popBack() (*Frame, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var last *Frame
	for q.occ > 0 {
		f, err := q.ring.Dequeue()
		if err != nil {
			break
		}
		q.occ--
		if last != nil {
			last.Close()
		}
		last = f
	}
	q.cond.Broadcast()
	return last, last != nil
}

// count returns current occupancy.
func (q *presentationQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.occ
}

// purge drains the queue, closing every held Frame, without touching
// the worker's running state. Built on popBack, which already drains
// the ring down to (and discards everything before) the newest frame
// — purge only needs to close that last survivor too.
func (q *presentationQueue) purge() {
	if last, ok := q.popBack(); ok {
		last.Close()
	}
}
