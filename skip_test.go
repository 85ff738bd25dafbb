package consumer

import "testing"

func TestSkipControllerShouldSkipNextRespectsThreshold(t *testing.T) {
	c := newSkipController()
	c.addWait(10000)
	c.addFrame(10000)
	c.addProcess(10000)
	// average = 30000/1 = 30000us, below the 40000us threshold
	if c.shouldSkipNext(0) {
		t.Fatal("shouldSkipNext = true below threshold")
	}

	c.addWait(20000)
	// average = 50000/1 = 50000us, above threshold
	if !c.shouldSkipNext(0) {
		t.Fatal("shouldSkipNext = false above threshold")
	}
}

func TestSkipControllerShouldSkipNextRespectsQueueCeiling(t *testing.T) {
	c := newSkipController()
	c.addWait(100000)
	c.addFrame(100000)
	c.addProcess(100000)

	if !c.shouldSkipNext(skipQueueCeiling) {
		t.Fatal("shouldSkipNext = false at the queue ceiling with a high average")
	}
	if c.shouldSkipNext(skipQueueCeiling + 1) {
		t.Fatal("shouldSkipNext = true above the queue ceiling, want false regardless of average")
	}
}

func TestSkipControllerRecordSkipExceedsAfterSixthConsecutive(t *testing.T) {
	c := newSkipController()
	for i := 1; i <= maxConsecutiveSkips; i++ {
		if c.recordSkip() {
			t.Fatalf("recordSkip exceeded early on consecutive skip #%d", i)
		}
	}
	if !c.recordSkip() {
		t.Fatalf("recordSkip did not report exceeded on the %dth consecutive skip", maxConsecutiveSkips+1)
	}
}

func TestSkipControllerResetZeroesEverything(t *testing.T) {
	c := newSkipController()
	c.addWait(100000)
	c.addFrame(100000)
	c.bumpCount()
	c.recordSkip()

	c.reset()
	if c.shouldSkipNext(0) {
		t.Fatal("shouldSkipNext = true immediately after reset")
	}
	if c.recordSkip() {
		t.Fatal("recordSkip exceeded immediately after reset")
	}
}

func TestSkipControllerClearSkipRunOnlyTouchesSkipCounter(t *testing.T) {
	c := newSkipController()
	c.addWait(100000)
	c.addFrame(100000)
	c.addProcess(100000)
	c.recordSkip()

	c.clearSkipRun()

	if !c.shouldSkipNext(0) {
		t.Fatal("clearSkipRun should not reset the timing accumulators")
	}
	if c.recordSkip() {
		t.Fatal("clearSkipRun should reset the consecutive-skip counter back to zero")
	}
}
