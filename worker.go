package consumer

import (
	"sync/atomic"
	"time"

	"code.hybscloud.com/atomix"
)

// elapsedClock measures the microseconds elapsed since it was last
// queried, the Go shape of consumer_read_ahead_thread's single
// `ante` timeval plus repeated `time_difference(&ante)` calls.
type elapsedClock struct {
	last time.Time
}

func newElapsedClock() *elapsedClock {
	return &elapsedClock{last: time.Now()}
}

func (c *elapsedClock) elapsedMicros() int64 {
	now := time.Now()
	d := now.Sub(c.last)
	c.last = now
	return d.Microseconds()
}

// readAheadWorker is the single long-lived task per consumer that
// bridges the Frame Source to the Presentation Queue, applying the
// Skip Controller's decisions along the way. One is constructed per
// start/stop cycle; its ahead flag is owned by the Lifecycle
// Controller, which flips it to request shutdown.
type readAheadWorker struct {
	source *frameSource
	queue  *presentationQueue
	skip   *skipController
	ahead  *atomix.Bool

	videoOff  bool
	audioOff  bool
	imageSpec ImageSpec

	fps         float64
	frequency   int
	channels    int
	audioFormat SampleFormat

	sampleCounter int64

	done chan struct{}
}

func newReadAheadWorker(source *frameSource, queue *presentationQueue, ahead *atomix.Bool, videoOff, audioOff bool, imageSpec ImageSpec, fps float64, frequency, channels int, audioFormat SampleFormat) *readAheadWorker {
	return &readAheadWorker{
		source:      source,
		queue:       queue,
		skip:        newSkipController(),
		ahead:       ahead,
		videoOff:    videoOff,
		audioOff:    audioOff,
		imageSpec:   imageSpec,
		fps:         fps,
		frequency:   frequency,
		channels:    channels,
		audioFormat: audioFormat,
		done:        make(chan struct{}),
	}
}

func (w *readAheadWorker) isAhead() bool {
	return w.ahead.Load()
}

// nextSampleCount advances the monotone audio sample counter and
// returns the sample count for the frame about to be materialised.
func (w *readAheadWorker) nextSampleCount() int {
	index := atomic.AddInt64(&w.sampleCounter, 1) - 1
	return SamplesForFrame(w.fps, w.frequency, int(index))
}

func (w *readAheadWorker) audioSpec(samples int) AudioSpec {
	return AudioSpec{
		Frequency: w.frequency,
		Channels:  w.channels,
		Samples:   samples,
		Format:    w.audioFormat,
	}
}

// run is the worker goroutine body: bootstrap, loop while ahead,
// teardown. It closes w.done when it returns so the Lifecycle
// Controller's stop path can join it.
func (w *readAheadWorker) run() {
	defer close(w.done)

	current, ok := w.source.acquire()
	if !ok || current == nil {
		return
	}

	if !w.videoOff {
		current.MaterialiseImage(w.imageSpec)
	}
	if !w.audioOff {
		current.MaterialiseAudio(w.audioSpec(w.nextSampleCount()))
	}
	current.MarkRendered()

	clock := newElapsedClock()
	skipNext := false

	for w.isAhead() {
		w.queue.pushBack(current, w.isAhead)
		w.skip.addWait(clock.elapsedMicros())

		// Retry acquisition on transient starvation without re-pushing
		// the frame just enqueued above: acquire() already reports a
		// false return as non-fatal, and the frame handed to pushBack
		// a moment ago may already be in the sink's hands by the time
		// the next iteration would otherwise push it again.
		var next *Frame
		for w.isAhead() {
			var ok bool
			next, ok = w.source.acquire()
			if ok && next != nil {
				break
			}
			next = nil
		}
		w.skip.addFrame(clock.elapsedMicros())

		if next == nil {
			// current is already in the queue; it is no longer ours to close.
			current = nil
			break
		}
		current = next
		w.skip.bumpCount()

		if current.Speed() != 1 {
			// Trick-play frames are never skipped and invalidate the
			// rolling averages built up under normal-speed playback.
			w.skip.reset()
			skipNext = false
		}

		if !skipNext {
			if !w.videoOff {
				current.MaterialiseImage(w.imageSpec)
			}
			current.MarkRendered()
			w.skip.clearSkipRun()
		} else if w.skip.recordSkip() {
			w.skip.reset()
		}

		if !w.audioOff {
			current.MaterialiseAudio(w.audioSpec(w.nextSampleCount()))
		}
		w.skip.addProcess(clock.elapsedMicros())

		skipNext = w.skip.shouldSkipNext(w.queue.count())
	}

	if current != nil {
		current.Close()
	}
}
