package consumer

import "fmt"

// TestCardFactory constructs the test-card Producer a Consumer attaches
// at Start when a `test_card` identifier is configured, whether or not
// an upstream producer is connected. It replaces MLT's process-global mlt_factory_producer
// lookup (original_source/mlt++/src/MltFactory.cpp) with an explicit
// collaborator injected into the Consumer at construction time.
type TestCardFactory interface {
	New(id string) (Producer, error)
}

// testCardRegistry is a simple map-backed TestCardFactory. It is not
// exported: callers build one with NewTestCardFactory and may register
// additional identifiers with Register before handing it to a Consumer.
type testCardRegistry struct {
	builders map[string]func() Producer
}

// NewTestCardFactory returns a factory with the bundled "colorbars"
// identifier already registered.
func NewTestCardFactory() *testCardRegistry {
	r := &testCardRegistry{builders: make(map[string]func() Producer)}
	r.Register("colorbars", func() Producer {
		return NewColorBarsProducer(720, 576)
	})
	return r
}

// Register attaches an additional test-card identifier.
func (r *testCardRegistry) Register(id string, build func() Producer) {
	r.builders[id] = build
}

func (r *testCardRegistry) New(id string) (Producer, error) {
	build, ok := r.builders[id]
	if !ok {
		return nil, &OpError{Op: fmt.Sprintf("test_card %q", id), Err: fmt.Errorf("no builder registered")}
	}
	return build(), nil
}
