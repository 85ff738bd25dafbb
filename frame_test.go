package consumer

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestFrameDefaultsSpeedOne(t *testing.T) {
	f := NewFrame(nil, nil)
	if f.Speed() != 1 {
		t.Fatalf("Speed() = %d, want 1", f.Speed())
	}
	if f.Rendered() {
		t.Fatal("a fresh frame should not be rendered")
	}
}

func TestFrameMaterialiseImageCallsProducerAtMostOnce(t *testing.T) {
	calls := 0
	f := NewFrame(func(spec ImageSpec) (*ebiten.Image, error) {
		calls++
		return ebiten.NewImage(4, 4), nil
	}, nil)

	if err := f.MaterialiseImage(ImageSpec{Width: 4, Height: 4}); err != nil {
		t.Fatalf("MaterialiseImage: %v", err)
	}
	if err := f.MaterialiseImage(ImageSpec{Width: 4, Height: 4}); err != nil {
		t.Fatalf("second MaterialiseImage: %v", err)
	}
	if calls != 1 {
		t.Fatalf("image producer called %d times, want 1", calls)
	}
	if f.Image() == nil {
		t.Fatal("Image() = nil after materialisation")
	}
}

func TestFrameMaterialiseAudioCallsProducerAtMostOnce(t *testing.T) {
	calls := 0
	f := NewFrame(nil, func(spec AudioSpec) ([]byte, error) {
		calls++
		return make([]byte, spec.Samples*2*spec.Channels), nil
	})

	if err := f.MaterialiseAudio(AudioSpec{Samples: 10, Channels: 2}); err != nil {
		t.Fatalf("MaterialiseAudio: %v", err)
	}
	if err := f.MaterialiseAudio(AudioSpec{Samples: 10, Channels: 2}); err != nil {
		t.Fatalf("second MaterialiseAudio: %v", err)
	}
	if calls != 1 {
		t.Fatalf("audio producer called %d times, want 1", calls)
	}
	if len(f.Audio()) != 40 {
		t.Fatalf("Audio() length = %d, want 40", len(f.Audio()))
	}
}

func TestFrameMaterialiseImagePropagatesError(t *testing.T) {
	wantErr := errors.New("decode failed")
	f := NewFrame(func(spec ImageSpec) (*ebiten.Image, error) {
		return nil, wantErr
	}, nil)

	if err := f.MaterialiseImage(ImageSpec{}); !errors.Is(err, wantErr) {
		t.Fatalf("MaterialiseImage error = %v, want %v", err, wantErr)
	}
}

func TestFrameMarkRenderedAndClose(t *testing.T) {
	f := NewFrame(nil, nil)
	f.MarkRendered()
	if !f.Rendered() {
		t.Fatal("Rendered() = false after MarkRendered")
	}

	dropped := false
	f.Properties.SetOwned("k", "v", func() { dropped = true })
	f.Close()
	if !dropped {
		t.Fatal("Close() did not run the owned entry's drop")
	}
}
