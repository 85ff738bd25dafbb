package consumer

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"

	"code.hybscloud.com/atomix"
	"github.com/google/uuid"
)

// Loopable is implemented by a Producer that supports an explicit
// end-of-stream looping mode. The Lifecycle Controller sets it on any
// test-card producer it attaches, mirroring the `eof=loop` property
// mlt_consumer_start sets on the producer it gets back from the
// factory. A producer that already loops forever (ColorBarsProducer)
// has no need to implement it.
type Loopable interface {
	SetLoop(loop bool)
}

// Consumer is the Lifecycle Controller: it owns the property bag, the
// Frame Source, the Presentation Queue, the Read-Ahead Worker, and the
// Sink Adapter, and sequences their start/stop/close transitions.
type Consumer struct {
	id uuid.UUID

	mu sync.Mutex // serializes Connect/Start/Stop/Close

	Props  *PropertyBag
	events *eventHub

	sink            SinkAdapter
	testCardFactory TestCardFactory

	producer Producer
	push     *pushSlot
	source   *frameSource

	queue *presentationQueue
	ahead atomix.Bool

	worker *readAheadWorker

	realTime bool

	imageFormat PixelFormat
	audioFormat SampleFormat

	testCardProducer Producer

	stoppedMu    sync.Mutex
	stoppedFired bool

	closed bool
}

// NewConsumer returns a Consumer seeded with normalisation defaults.
// A nil sink runs headless (tests, push-mode-only pipelines); a nil
// factory gets the bundled colorbars-only registry.
func NewConsumer(sink SinkAdapter, factory TestCardFactory) *Consumer {
	if sink == nil {
		sink = &nopSinkAdapter{}
	}
	if factory == nil {
		factory = NewTestCardFactory()
	}

	props := NewPropertyBag()
	applyNormalisationDefaults(props)

	return &Consumer{
		id:              uuid.New(),
		Props:           props,
		events:          newEventHub(),
		sink:            sink,
		testCardFactory: factory,
		push:            newPushSlot(),
		imageFormat:     PixelFormatYUV422,
		audioFormat:     SampleFormatS16,
	}
}

// ID returns this consumer instance's identity.
func (c *Consumer) ID() string {
	return c.id.String()
}

// OnFrameShow registers a consumer-frame-show listener.
func (c *Consumer) OnFrameShow(fn FrameShowFunc) {
	c.events.OnFrameShow(fn)
}

// OnStopped registers a consumer-stopped listener.
func (c *Consumer) OnStopped(fn StoppedFunc) {
	c.events.OnStopped(fn)
}

// FireFrameShow is called by a SinkAdapter each time it presents a
// frame, dispatching consumer-frame-show to registered listeners.
func (c *Consumer) FireFrameShow(frame *Frame) {
	c.events.fireFrameShow(frame)
}

// Connect attaches an upstream Producer, putting the Frame Source into
// connected mode. Fails if already connected.
func (c *Consumer) Connect(p Producer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.producer != nil {
		return ErrAlreadyConnected
	}
	c.producer = p
	return nil
}

// Start applies the test-card and ante-hook side effects, latches
// real_time, and starts the sink adapter. It does not start the
// Read-Ahead Worker: that happens lazily on the first RealtimeFrame
// call, mirroring mlt_consumer_rt_frame's own lazy start.
func (c *Consumer) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	c.push.drop()

	testCard := c.Props.GetString("test_card")
	if testCard == "" {
		c.testCardProducer = nil
	} else if c.testCardProducer == nil {
		producer, err := c.testCardFactory.New(testCard)
		if err == nil && producer != nil {
			if l, ok := producer.(Loopable); ok {
				l.SetLoop(true)
			}
			c.testCardProducer = producer
			c.Props.SetOwned("test_card_producer", producer, closeDrop(producer))
		}
	}

	if ante := c.Props.GetString("ante"); ante != "" {
		if err := runShellHook(ante); err != nil {
			return &HookError{Op: "ante", Command: ante, Err: err}
		}
	}

	c.realTime = c.Props.GetBool("real_time")

	c.source = &frameSource{
		producer:      c.producer,
		push:          c.push,
		consumerProps: c.Props,
		testCard:      func() Producer { return c.testCardProducer },
		isStopped:     c.IsStopped,
	}

	c.stoppedMu.Lock()
	c.stoppedFired = false
	c.stoppedMu.Unlock()

	c.Props.Set("running", 1)

	if err := c.sink.Start(); err != nil {
		return &SinkError{Op: "start", Err: err}
	}
	return nil
}

// startReadAhead constructs the Presentation Queue and Read-Ahead
// Worker and spawns the worker goroutine. Caller must hold a lock
// serializing against concurrent RealtimeFrame calls (c.mu suffices
// since RealtimeFrame takes it only for this transition).
func (c *Consumer) startReadAhead() {
	bufferCap := c.Props.GetInt("buffer") + 1
	c.queue = newPresentationQueue(bufferCap)
	c.ahead.Store(true)

	imageSpec := ImageSpec{
		Width:  c.Props.GetInt("width"),
		Height: c.Props.GetInt("height"),
		Format: c.imageFormat,
	}
	c.worker = newReadAheadWorker(
		c.source, c.queue, &c.ahead,
		c.Props.GetBool("video_off"), c.Props.GetBool("audio_off"),
		imageSpec,
		c.Props.GetFloat("fps"), c.Props.GetInt("frequency"), c.Props.GetInt("channels"),
		c.audioFormat,
	)
	go c.worker.run()
}

// RealtimeFrame returns the next frame for presentation. In real_time
// mode it lazily starts the Read-Ahead Worker on first call, applying
// prefill sizing to that first dequeue only, then serves from the
// Presentation Queue thereafter. In non-real-time mode it pulls
// directly from the Frame Source and marks the frame rendered, since
// no worker will do it.
func (c *Consumer) RealtimeFrame() *Frame {
	if c.realTime {
		size := 1

		c.mu.Lock()
		if !c.ahead.Load() {
			buffer := c.Props.GetInt("buffer")
			prefill := c.Props.GetInt("prefill")
			c.startReadAhead()
			if buffer > 1 {
				if prefill > 0 && prefill < buffer {
					size = prefill
				} else {
					size = buffer
				}
			}
		}
		c.mu.Unlock()

		frame, ok := c.queue.popFront(size, c.ahead.Load)
		if !ok {
			return nil
		}
		return frame
	}

	frame, ok := c.source.acquire()
	if !ok || frame == nil {
		return nil
	}
	frame.MarkRendered()
	return frame
}

// PutFrame is the push-mode ingress entry point. It fails (closing
// frame) when a producer is connected or put_mode is not enabled;
// otherwise it hands the frame to the push slot, blocking for
// backpressure per pushSlot.put. A nil return does not mean the frame
// was accepted — only that the call completed.
func (c *Consumer) PutFrame(frame *Frame) error {
	if frame == nil {
		return nil
	}
	if c.producer != nil {
		frame.Close()
		return ErrPushWhileConnected
	}
	if !c.Props.GetBool("put_mode") {
		frame.Close()
		return ErrPushModeDisabled
	}
	c.push.put(frame, c.IsStopped)
	return nil
}

// Purge drains the Presentation Queue without stopping the worker.
func (c *Consumer) Purge() {
	if c.queue != nil {
		c.queue.purge()
	}
}

// IsStopped delegates to the sink adapter.
func (c *Consumer) IsStopped() bool {
	return c.sink.IsStopped()
}

// Running reports the `running` property, cleared by Stopped.
func (c *Consumer) Running() bool {
	return c.Props.GetBool("running")
}

// Stopped is the callback a SinkAdapter invokes, from its own
// goroutine, when it detects it has halted. It clears the `running`
// property and fires consumer-stopped exactly once per start→stop
// cycle, regardless of how many times it (or Stop) is called.
func (c *Consumer) Stopped() {
	c.stoppedMu.Lock()
	already := c.stoppedFired
	c.stoppedFired = true
	c.stoppedMu.Unlock()
	if already {
		return
	}
	c.Props.Set("running", 0)
	c.events.fireStopped()
}

// Stop halts the sink, then (if real_time and the worker is running)
// requests the worker to exit and joins it, drains the queue, detaches
// the test-card producer, and runs the post hook. Calling Stop more
// than once is safe: the worker-teardown branch only runs while ahead
// is still true, so a second concurrent or sequential call observes it
// already false and skips straight to the test-card detach and push-slot
// cleanup, which are themselves idempotent. The post hook, if set, runs
// again on every call.
func (c *Consumer) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sinkErr := c.sink.Stop()

	if c.realTime && c.ahead.Load() {
		c.ahead.Store(false)
		c.push.wake()
		if c.worker != nil {
			<-c.worker.done
		}
		if c.queue != nil {
			c.queue.purge()
		}
	}

	c.push.wake()
	c.testCardProducer = nil
	c.Props.SetOwned("test_card_producer", nil, nil)

	if post := c.Props.GetString("post"); post != "" {
		if err := runShellHook(post); err != nil {
			logf("post hook %q failed to launch: %v", post, err)
		}
	}

	c.push.drop()

	if sinkErr != nil {
		return &SinkError{Op: "stop", Err: sinkErr}
	}
	return nil
}

// Close releases the property bag's owned entries and the sink. Safe
// to call more than once.
func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.push.drop()
	c.Props.Close()
	if err := c.sink.Close(); err != nil {
		return &SinkError{Op: "close", Err: err}
	}
	return nil
}

// closeDrop returns a drop action that closes p if it implements
// io.Closer, otherwise a no-op.
func closeDrop(p Producer) func() {
	closer, ok := p.(io.Closer)
	if !ok {
		return func() {}
	}
	return func() {
		if err := closer.Close(); err != nil {
			logf("test card producer close failed: %v", err)
		}
	}
}

// runShellHook runs command through the shell on the calling
// goroutine, inheriting the process environment and working
// directory, same as mlt_consumer's system() calls. Per the recognised
// `ante`/`post` properties, exit codes are ignored; only a failure to
// even launch the shell is surfaced.
func runShellHook(command string) error {
	cmd := exec.Command("sh", "-c", command)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return err
	}
	return nil
}
