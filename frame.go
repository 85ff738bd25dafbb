package consumer

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// PixelFormat names a materialised image's pixel layout. The default
// output format is packed 4:2:2 YUV; it reaches an ImageProducerFunc
// through ImageSpec.Format, and no code in this module converts the
// resulting *ebiten.Image between formats.
type PixelFormat int

const (
	PixelFormatYUV422 PixelFormat = iota
	PixelFormatRGBA
)

// SampleFormat names a materialised audio buffer's sample layout.
type SampleFormat int

const (
	SampleFormatS16 SampleFormat = iota
	SampleFormatF32
)

// ImageSpec describes the image a Frame should materialise.
type ImageSpec struct {
	Width, Height int
	Format        PixelFormat
}

// AudioSpec describes the audio buffer a Frame should materialise.
// Samples is the sample count for this frame specifically, computed by
// the sample calculator (see SamplesForFrame) so that per-frame sample
// counts sum to Frequency/FPS on average.
type AudioSpec struct {
	Frequency, Channels, Samples int
	Format                       SampleFormat
}

// ImageProducerFunc lazily produces a Frame's image. It is called at
// most once per Frame, the moment something needs the pixels.
type ImageProducerFunc func(spec ImageSpec) (*ebiten.Image, error)

// AudioProducerFunc lazily produces a Frame's audio buffer. It is
// called at most once per Frame.
type AudioProducerFunc func(spec AudioSpec) ([]byte, error)

// Frame is the opaque carrier handed from the Frame Source through the
// Read-Ahead Worker, the Presentation Queue, and into the Sink Adapter.
// At any instant it is owned by exactly one holder; ownership transfer
// is release-by-sender, acquire-by-receiver — the core itself never
// reads a Frame concurrently from two goroutines, but the mutex below
// still guards the lazy-materialisation fields the way
// controller_yes_audio.go guards its own leftover-frame state, since a
// caller and the worker both touch it during push-mode round trips.
type Frame struct {
	Properties *PropertyBag

	mu        sync.Mutex
	speed     int
	rendered  bool
	image     *ebiten.Image
	audio     []byte
	imageFn   ImageProducerFunc
	audioFn   AudioProducerFunc
}

// NewFrame returns a Frame with default speed 1, not yet rendered, and
// the given lazy producers (either may be nil for a source that never
// supplies that kind of payload).
func NewFrame(imageFn ImageProducerFunc, audioFn AudioProducerFunc) *Frame {
	return &Frame{
		Properties: NewPropertyBag(),
		speed:      1,
		imageFn:    imageFn,
		audioFn:    audioFn,
	}
}

// Speed returns the frame's playback speed attribute (_speed in the
// property table sense); 1 means normal playback.
func (f *Frame) Speed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.speed
}

// SetSpeed sets the playback speed attribute.
func (f *Frame) SetSpeed(speed int) {
	f.mu.Lock()
	f.speed = speed
	f.mu.Unlock()
}

// Rendered reports whether image materialisation was attempted for
// this frame (subject to video_off).
func (f *Frame) Rendered() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rendered
}

// MarkRendered sets the rendered flag.
func (f *Frame) MarkRendered() {
	f.mu.Lock()
	f.rendered = true
	f.mu.Unlock()
}

// Image returns the previously materialised image, or nil if none was
// ever produced (video_off, or MaterialiseImage not yet called).
func (f *Frame) Image() *ebiten.Image {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.image
}

// Audio returns the previously materialised audio buffer, or nil.
func (f *Frame) Audio() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.audio
}

// MaterialiseImage forces image production if it hasn't happened yet
// and an ImageProducerFunc was supplied. It does not set the rendered
// flag — callers (the Read-Ahead Worker) do that explicitly, since a
// bootstrap frame and a mid-stream frame both materialise but the
// flag's meaning is worker-scoped.
func (f *Frame) MaterialiseImage(spec ImageSpec) error {
	f.mu.Lock()
	fn := f.imageFn
	f.imageFn = nil // at most once, mirrors frame->get_audio = NULL in mlt_consumer.c
	f.mu.Unlock()

	if fn == nil {
		return nil
	}
	img, err := fn(spec)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.image = img
	f.mu.Unlock()
	return nil
}

// MaterialiseAudio forces audio production if it hasn't happened yet
// and an AudioProducerFunc was supplied.
func (f *Frame) MaterialiseAudio(spec AudioSpec) error {
	f.mu.Lock()
	fn := f.audioFn
	f.audioFn = nil
	f.mu.Unlock()

	if fn == nil {
		return nil
	}
	buf, err := fn(spec)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.audio = buf
	f.mu.Unlock()
	return nil
}

// Close releases the frame's owned property entries. Call this exactly
// once the frame is done being held (shown by a sink, dropped at
// shutdown, discarded by push contention, ...).
func (f *Frame) Close() {
	if f.Properties != nil {
		f.Properties.Close()
	}
}
