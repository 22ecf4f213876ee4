package encoder

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAgain is returned by a backend when the call cannot make progress
	// until the opposite side of the send/receive protocol is serviced.
	ErrAgain = errors.New("resource temporarily unavailable")

	// ErrEOF is returned by a backend once it was flushed and has no more output.
	ErrEOF = errors.New("end of stream")
)

// ErrConfiguration means the requested settings are incompatible with the
// requested mode.
type ErrConfiguration struct {
	Err error
}

func (e ErrConfiguration) Error() string {
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

func (e ErrConfiguration) Unwrap() error {
	return e.Err
}

// ErrAccelerationUnavailable means a hardware context could not be
// acquired; callers are expected to fall back to software.
type ErrAccelerationUnavailable struct {
	Err error
}

func (e ErrAccelerationUnavailable) Error() string {
	return fmt.Sprintf("hardware acceleration is unavailable: %v", e.Err)
}

func (e ErrAccelerationUnavailable) Unwrap() error {
	return e.Err
}

type ErrContextAllocation struct {
	Err error
}

func (e ErrContextAllocation) Error() string {
	return fmt.Sprintf("unable to allocate the codec context: %v", e.Err)
}

func (e ErrContextAllocation) Unwrap() error {
	return e.Err
}

type ErrOpen struct {
	Err error
}

func (e ErrOpen) Error() string {
	return fmt.Sprintf("unable to open the codec: %v", e.Err)
}

func (e ErrOpen) Unwrap() error {
	return e.Err
}

type ErrConversion struct {
	Err error
}

func (e ErrConversion) Error() string {
	return fmt.Sprintf("unable to convert the frame: %v", e.Err)
}

func (e ErrConversion) Unwrap() error {
	return e.Err
}

type ErrEncode struct {
	Err error
}

func (e ErrEncode) Error() string {
	return fmt.Sprintf("unable to encode: %v", e.Err)
}

func (e ErrEncode) Unwrap() error {
	return e.Err
}

// ErrProtocolDeadlock means both submit and retrieve refused to make
// progress in the same iteration.
type ErrProtocolDeadlock struct{}

func (ErrProtocolDeadlock) Error() string {
	return "both send and receive returned EAGAIN, the encoder is broken"
}

type ErrAllocation struct {
	Err error
}

func (e ErrAllocation) Error() string {
	return fmt.Sprintf("unable to allocate a frame: %v", e.Err)
}

func (e ErrAllocation) Unwrap() error {
	return e.Err
}

// ErrFrameTimeout means the backend did not accept the frame before the
// per-frame deadline.
type ErrFrameTimeout struct {
	Deadline time.Duration
}

func (e ErrFrameTimeout) Error() string {
	return fmt.Sprintf("the frame was not accepted within %s", e.Deadline)
}

type ErrNotImplemented struct {
	Err error
}

func (e ErrNotImplemented) Error() string {
	return fmt.Sprintf("not implemented: %v", e.Err)
}

func (e ErrNotImplemented) Unwrap() error {
	return e.Err
}
