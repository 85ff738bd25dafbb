package consumer

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// colorBars is the classic seven vertical bars (white, yellow, cyan,
// green, magenta, red, blue) used as a bundled fallback producer.
var colorBars = []color.Color{
	color.RGBA{0xff, 0xff, 0xff, 0xff},
	color.RGBA{0xff, 0xff, 0x00, 0xff},
	color.RGBA{0x00, 0xff, 0xff, 0xff},
	color.RGBA{0x00, 0xff, 0x00, 0xff},
	color.RGBA{0xff, 0x00, 0xff, 0xff},
	color.RGBA{0xff, 0x00, 0x00, 0xff},
	color.RGBA{0x00, 0x00, 0xff, 0xff},
}

// ColorBarsProducer is the bundled test-card Producer a Consumer
// attaches when a `test_card` identifier is configured. The Consumer
// records it on each acquired frame as the test_card_producer
// back-reference; it does not pull frames from it itself. It loops
// forever, mirroring the `eof=loop` the
// Lifecycle Controller sets on whatever producer the factory returns,
// and yields silence alongside its bars so a consumer with audio_off
// unset never finds an unmaterialised audio buffer waiting on it.
type ColorBarsProducer struct {
	width, height int
	frameIndex    int
}

// NewColorBarsProducer returns a producer rendering bars at the given
// pixel dimensions.
func NewColorBarsProducer(width, height int) *ColorBarsProducer {
	return &ColorBarsProducer{width: width, height: height}
}

// NextFrame renders the next bars frame. The image is recomputed every
// call rather than cached and reused, since a Frame's image ownership
// is single-use once handed to a sink.
func (p *ColorBarsProducer) NextFrame() (*Frame, bool) {
	width, height := p.width, p.height
	index := p.frameIndex
	p.frameIndex++

	frame := NewFrame(func(ImageSpec) (*ebiten.Image, error) {
		img := ebiten.NewImage(width, height)
		barWidth := width / len(colorBars)
		if barWidth < 1 {
			barWidth = 1
		}
		for i, c := range colorBars {
			x0 := i * barWidth
			x1 := x0 + barWidth
			if i == len(colorBars)-1 {
				x1 = width
			}
			bar := img.SubImage(image.Rect(x0, 0, x1, height)).(*ebiten.Image)
			bar.Fill(c)
		}
		return img, nil
	}, func(spec AudioSpec) ([]byte, error) {
		return make([]byte, spec.Samples*spec.Channels*sampleFormatWidth(spec.Format)), nil
	})
	frame.Properties.Set("test_card_frame_index", index)
	return frame, true
}

// sampleFormatWidth returns the byte width of a single interleaved
// sample in the given format; the silence buffer above is that width
// times the SamplesForFrame count times the channel count.
func sampleFormatWidth(format SampleFormat) int {
	switch format {
	case SampleFormatF32:
		return 4
	default:
		return 2
	}
}
