package consumer

import "code.hybscloud.com/atomix"

// skipThresholdMicros is the per-frame budget the worker holds rolling
// averages against. It is PAL-specific (40ms ~= one PAL field/frame
// pair's worth of slack); an NTSC deployment might reasonably want
// 33333 instead, but the reference design applies this value
// unconditionally, normalisation notwithstanding.
const skipThresholdMicros = 40000

// skipQueueCeiling is the queue occupancy above which the controller
// never requests a skip, regardless of how far behind the rolling
// averages say the worker is: a deep queue means the sink has plenty to
// draw from already, so skipping would only waste the work already
// banked.
const skipQueueCeiling = 5

// maxConsecutiveSkips bounds how many frames in a row may be skipped
// before the rolling accumulators are forcibly reset; left unchecked, a
// sustained slow patch would make the controller skip forever once the
// average crossed the threshold once.
const maxConsecutiveSkips = 5

// skipController holds the rolling accumulators consumer_read_ahead_thread
// keeps as locals: time spent waiting to enqueue, time spent acquiring
// the next frame, and time spent materialising it, averaged over count
// frames. atomix counters let the worker update them without a mutex,
// since nothing outside the worker goroutine ever touches them.
type skipController struct {
	timeWait    atomix.Int64
	timeFrame   atomix.Int64
	timeProcess atomix.Int64
	count       atomix.Int64
	skipped     atomix.Int64
}

// newSkipController returns a controller with count seeded to 1, the
// same "avoid division by zero on the very first sample" seed
// consumer_read_ahead_thread uses.
func newSkipController() *skipController {
	c := &skipController{}
	c.count.Store(1)
	return c
}

// reset zeroes every accumulator, used on trick-play, on hitting
// maxConsecutiveSkips, and implicitly whenever the worker restarts
// (a fresh skipController is constructed per worker lifetime).
func (c *skipController) reset() {
	c.timeWait.Store(0)
	c.timeFrame.Store(0)
	c.timeProcess.Store(0)
	c.count.Store(1)
	c.skipped.Store(0)
}

// addWait accumulates time spent blocked enqueueing the current frame.
func (c *skipController) addWait(micros int64) {
	c.timeWait.AddAcqRel(micros)
}

// addFrame accumulates time spent acquiring the next frame.
func (c *skipController) addFrame(micros int64) {
	c.timeFrame.AddAcqRel(micros)
}

// addProcess accumulates time spent materialising image/audio for the
// current frame.
func (c *skipController) addProcess(micros int64) {
	c.timeProcess.AddAcqRel(micros)
}

// bumpCount increments the sample count backing the rolling average.
func (c *skipController) bumpCount() {
	c.count.AddAcqRel(1)
}

// recordSkip increments the consecutive-skip counter and reports
// whether it has now exceeded maxConsecutiveSkips, in which case the
// caller must reset before continuing.
func (c *skipController) recordSkip() (exceeded bool) {
	n := c.skipped.AddAcqRel(1)
	return n > maxConsecutiveSkips
}

// clearSkipRun zeroes the consecutive-skip counter without touching
// the timing accumulators, used whenever a frame is NOT skipped.
func (c *skipController) clearSkipRun() {
	c.skipped.Store(0)
}

// shouldSkipNext decides whether the frame after the one just
// processed should be skipped: queue occupancy must be shallow enough
// that skipping wouldn't starve the sink, and the rolling average of
// wait+frame+process time per sample must exceed skipThresholdMicros.
func (c *skipController) shouldSkipNext(queueDepth int) bool {
	if queueDepth > skipQueueCeiling {
		return false
	}
	count := c.count.Load()
	if count <= 0 {
		return false
	}
	total := c.timeWait.Load() + c.timeFrame.Load() + c.timeProcess.Load()
	return (total / count) > skipThresholdMicros
}
