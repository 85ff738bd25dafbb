package consumer

import (
	"testing"
	"time"

	"code.hybscloud.com/atomix"
)

type fakeProducer struct {
	frames []*Frame
	index  int
}

func (p *fakeProducer) NextFrame() (*Frame, bool) {
	if p.index >= len(p.frames) {
		return nil, false
	}
	f := p.frames[p.index]
	p.index++
	return f, true
}

func newTestFrame(tag int) *Frame {
	f := NewFrame(nil, nil)
	f.Properties.Set("tag", tag)
	return f
}

func newTestSource(producer Producer) *frameSource {
	return &frameSource{
		producer:      producer,
		consumerProps: NewPropertyBag(),
		isStopped:     func() bool { return false },
	}
}

func TestReadAheadWorkerPushesFramesInOrder(t *testing.T) {
	producer := &fakeProducer{frames: []*Frame{
		newTestFrame(1), newTestFrame(2), newTestFrame(3),
	}}
	source := newTestSource(producer)
	queue := newPresentationQueue(4)

	var ahead atomix.Bool
	ahead.Store(true)

	worker := newReadAheadWorker(source, queue, &ahead, true, true, ImageSpec{}, 25.0, 48000, 2, SampleFormatS16)

	go worker.run()

	first, ok := queue.popFront(1, func() bool { return true })
	if !ok || first.Properties.Get("tag") != 1 {
		t.Fatalf("first frame = %v, ok=%v, want tag 1", first, ok)
	}
	second, ok := queue.popFront(1, func() bool { return true })
	if !ok || second.Properties.Get("tag") != 2 {
		t.Fatalf("second frame = %v, ok=%v, want tag 2", second, ok)
	}

	// The producer will exhaust itself shortly after; stop the worker
	// and make sure it exits rather than spinning forever on starvation.
	ahead.Store(false)

	select {
	case <-worker.done:
	case <-time.After(time.Second):
		t.Fatal("worker did not exit after ahead was cleared on starvation")
	}
}

func TestReadAheadWorkerExitsImmediatelyOnEmptySource(t *testing.T) {
	producer := &fakeProducer{}
	source := newTestSource(producer)
	queue := newPresentationQueue(4)

	var ahead atomix.Bool
	ahead.Store(true)

	worker := newReadAheadWorker(source, queue, &ahead, true, true, ImageSpec{}, 25.0, 48000, 2, SampleFormatS16)
	go worker.run()

	select {
	case <-worker.done:
	case <-time.After(time.Second):
		t.Fatal("worker should exit immediately when the bootstrap acquire fails")
	}
	if got := queue.count(); got != 0 {
		t.Fatalf("queue count = %d, want 0 when no frame was ever acquired", got)
	}
}

func TestReadAheadWorkerMaterialisesAudioSamplesMonotonically(t *testing.T) {
	var seen []int
	producer := &fakeProducer{frames: []*Frame{
		NewFrame(nil, func(spec AudioSpec) ([]byte, error) {
			seen = append(seen, spec.Samples)
			return make([]byte, spec.Samples*2), nil
		}),
		NewFrame(nil, func(spec AudioSpec) ([]byte, error) {
			seen = append(seen, spec.Samples)
			return make([]byte, spec.Samples*2), nil
		}),
	}}
	source := newTestSource(producer)
	queue := newPresentationQueue(4)

	var ahead atomix.Bool
	ahead.Store(true)

	worker := newReadAheadWorker(source, queue, &ahead, true, false, ImageSpec{}, 25.0, 48000, 2, SampleFormatS16)
	go worker.run()

	if _, ok := queue.popFront(1, func() bool { return true }); !ok {
		t.Fatal("expected a bootstrap frame")
	}
	ahead.Store(false)

	select {
	case <-worker.done:
	case <-time.After(time.Second):
		t.Fatal("worker did not exit")
	}

	if len(seen) == 0 {
		t.Fatal("expected at least one audio materialisation call")
	}
	want := SamplesForFrame(25.0, 48000, 0)
	if seen[0] != want {
		t.Fatalf("first frame samples = %d, want %d", seen[0], want)
	}
}
