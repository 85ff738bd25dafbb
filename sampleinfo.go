package consumer

import "math"

// SamplesForFrame returns the audio sample count a frame at the given
// zero-based index should carry, so that summing the result over a
// run of frames lands on frequency/fps on average without drifting:
// it takes the difference of two cumulative sample counts rather than
// rounding frequency/fps once and reusing that count for every frame,
// which would accumulate rounding error over a long run.
func SamplesForFrame(fps float64, frequency int, index int) int {
	if fps <= 0 {
		return 0
	}
	cumulative := func(n int) int {
		return int(math.Floor(float64(n)*float64(frequency)/fps + 0.5))
	}
	return cumulative(index+1) - cumulative(index)
}
