package consumer

// Producer is the upstream collaborator a Consumer can be connected
// to in connected mode. Anything that can hand back the next Frame on
// demand satisfies it, the same narrow seam
// `(*reisen.VideoStream).ReadVideoFrame` plays for the packet-pump
// loop in controller_no_audio.go's internalReadVideoFrame.
type Producer interface {
	// NextFrame returns the next Frame, or (nil, false) on transient
	// starvation or end of stream. A false return is never fatal to
	// the Read-Ahead Worker.
	NextFrame() (*Frame, bool)
}

// frameSource is the single acquire() operation fed by either a
// connected Producer or the push slot, never both. Property enrichment
// happens here, once, regardless of which mode served the frame —
// mirroring mlt_consumer_get_frame in mlt_consumer.c, which enriches
// after acquiring no matter the source.
type frameSource struct {
	producer Producer // nil in push mode
	push     *pushSlot

	// consumerProps backs the enrichment step (rescale, aspect_ratio,
	// progressive/deinterlace) and testCard backs the
	// test_card_producer backreference.
	consumerProps *PropertyBag
	testCard      func() Producer
	isStopped     func() bool
}

// connected reports whether a Producer is attached (vs. push mode).
func (s *frameSource) connected() bool {
	return s.producer != nil
}

// acquire fetches the next frame from whichever mode is active.
func (s *frameSource) acquire() (*Frame, bool) {
	var frame *Frame
	var ok bool

	if s.producer != nil {
		frame, ok = s.producer.NextFrame()
	} else {
		frame, ok = s.push.acquire(s.isStopped)
	}
	if !ok || frame == nil {
		return nil, false
	}

	s.enrich(frame)
	return frame, true
}

// put offers frame to the push slot. Fails silently (closing frame)
// when a producer is connected.
func (s *frameSource) put(frame *Frame) {
	if s.producer != nil {
		frame.Close()
		return
	}
	s.push.put(frame, s.isStopped)
}

// enrich sets the consumer-side properties every acquired frame
// carries, regardless of source mode:
//   - test_card_producer back-reference (non-owning)
//   - rescale.interp copied from the consumer's rescale property
//   - consumer_aspect_ratio
//   - consumer_deinterlace = 1 iff progressive or deinterlace is set
func (s *frameSource) enrich(frame *Frame) {
	props := frame.Properties
	if s.testCard != nil {
		if tc := s.testCard(); tc != nil {
			props.Set("test_card_producer", tc)
		}
	}
	props.Set("rescale.interp", s.consumerProps.GetString("rescale"))
	props.Set("consumer_aspect_ratio", s.consumerProps.GetFloat("aspect_ratio"))
	if s.consumerProps.GetBool("progressive") || s.consumerProps.GetBool("deinterlace") {
		props.Set("consumer_deinterlace", 1)
	}
}
