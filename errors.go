package consumer

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by package-level constructors and simple,
// non-parameterized failure modes, in the same style as player.go's
// init-time sentinel errors (ErrNoVideo, ErrNilAudioContext, ...).
var (
	ErrAlreadyConnected   = errors.New("consumer: already connected to a producer")
	ErrPushWhileConnected = errors.New("consumer: push-mode ingress rejected, a producer is connected")
	ErrPushModeDisabled   = errors.New("consumer: put_mode is not enabled")
	ErrClosed             = errors.New("consumer: use of a closed consumer")
)

// OpError is returned by operations that may wrap an underlying cause and
// need to name which step failed. Structured the way
// alxayo-rtmp-go/internal/errors shapes its protocol error family
// (Op + Err + Unwrap), so callers can use errors.As/errors.Is instead of
// string matching.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("consumer: %s", e.Op)
	}
	return fmt.Sprintf("consumer: %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// SinkError wraps a failure returned by a SinkAdapter's Start/Stop/Close.
type SinkError struct {
	Op  string
	Err error
}

func (e *SinkError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("consumer: sink %s failed", e.Op)
	}
	return fmt.Sprintf("consumer: sink %s failed: %v", e.Op, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// HookError wraps a failure starting an ante/post shell hook.
type HookError struct {
	Op      string // "ante" or "post"
	Command string
	Err     error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("consumer: %s hook %q failed: %v", e.Op, e.Command, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }
