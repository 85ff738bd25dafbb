// Package ebitensink provides a reference SinkAdapter backed by an
// Ebitengine surface and audio player, for games/apps that want to
// present consumer output inside their own ebiten.Game loop.
package ebitensink

import (
	"io"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/mlt-go/consumer"
	"github.com/mlt-go/consumer/sinkutil"
)

// FrameSupplier is the slice of *consumer.Consumer this sink actually
// calls: pulling frames and reporting them shown. Depending on a
// narrow interface instead of the concrete type keeps this package
// testable without constructing a full Consumer.
type FrameSupplier interface {
	RealtimeFrame() *consumer.Frame
	FireFrameShow(frame *consumer.Frame)
	Stopped()
}

// Sink pulls frames on its own ticker goroutine at a fixed fps,
// keeping the most recent image for a host ebiten.Game's Draw to pick
// up, and pushing audio bytes through an *audio.Player pull-reader the
// same way controller_yes_audio.go feeds ebitengine's audio system.
type Sink struct {
	source FrameSupplier
	fps    float64

	mu      sync.RWMutex
	current *ebiten.Image
	stopped bool

	audioMu       sync.Mutex
	leftoverAudio []byte
	audioPlayer   *audio.Player

	stopCh chan struct{}
	doneCh chan struct{}
}

// New returns a sink that presents at fps (the consumer's own `fps`
// property is the natural value to pass).
func New(source FrameSupplier, fps float64) *Sink {
	return &Sink{
		source:  source,
		fps:     fps,
		current: ebiten.NewImage(1, 1),
		stopped: true,
	}
}

// Start begins the presentation loop and, if an audio context is
// active, attaches a pull-reader audio player.
func (s *Sink) Start() error {
	s.mu.Lock()
	s.stopped = false
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	if ctx := audio.CurrentContext(); ctx != nil {
		player, err := ctx.NewPlayer(&struct{ io.Reader }{s})
		if err != nil {
			return err
		}
		player.Play()
		s.audioMu.Lock()
		s.audioPlayer = player
		s.audioMu.Unlock()
	}

	go s.loop()
	return nil
}

func (s *Sink) loop() {
	defer close(s.doneCh)

	interval := time.Second / 30
	if s.fps > 0 {
		interval = time.Duration(float64(time.Second) / s.fps)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.presentNext()
		}
	}
}

func (s *Sink) presentNext() {
	frame := s.source.RealtimeFrame()
	if frame == nil {
		return
	}
	defer frame.Close()

	if img := frame.Image(); img != nil {
		s.mu.Lock()
		s.current = img
		s.mu.Unlock()
	}
	if pcm := frame.Audio(); len(pcm) > 0 {
		s.audioMu.Lock()
		s.leftoverAudio = append(s.leftoverAudio, pcm...)
		s.audioMu.Unlock()
	}

	s.source.FireFrameShow(frame)
}

// Read serves accumulated PCM bytes to the audio player, following
// ebitengine's own "partial reads return what's available" contract.
func (s *Sink) Read(buffer []byte) (int, error) {
	s.audioMu.Lock()
	defer s.audioMu.Unlock()
	n := copy(buffer, s.leftoverAudio)
	remaining := copy(s.leftoverAudio, s.leftoverAudio[n:])
	s.leftoverAudio = s.leftoverAudio[:remaining]
	return n, nil
}

// Stop halts the presentation loop and releases the audio player.
func (s *Sink) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	close(s.stopCh)
	s.mu.Unlock()

	<-s.doneCh

	s.audioMu.Lock()
	if s.audioPlayer != nil {
		s.audioPlayer.Pause()
		s.audioPlayer.Close()
		s.audioPlayer = nil
	}
	s.audioMu.Unlock()

	s.source.Stopped()
	return nil
}

// IsStopped reports whether the loop has halted.
func (s *Sink) IsStopped() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopped
}

// Close releases resources beyond what Stop already released; kept
// distinct per the SinkAdapter contract even though this sink owns
// nothing that outlives Stop.
func (s *Sink) Close() error {
	return nil
}

// Image returns the most recently presented frame's picture.
func (s *Sink) Image() *ebiten.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// DrawInto projects the current image into viewport using the same
// letterboxing math every Ebitengine-backed sink in this module uses.
func (s *Sink) DrawInto(viewport *ebiten.Image) {
	sinkutil.Draw(viewport, s.Image())
}
