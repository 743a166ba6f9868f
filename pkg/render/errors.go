package render

import (
	stderrors "errors"

	"github.com/vango-dev/loom/internal/errors"
)

var (
	// ErrInvalidUTF8 is returned by string-producing entry points when the
	// output is not valid UTF-8. The byte output is unaffected.
	ErrInvalidUTF8 = stderrors.New("render: output is not valid UTF-8")

	// ErrInvalidChunkSize is returned when a stream is requested with a
	// chunk size that is not positive.
	ErrInvalidChunkSize = stderrors.New("render: chunk size must be positive")

	// ErrStreamClosed is returned by Channel.Next after Close.
	ErrStreamClosed = stderrors.New("render: stream closed")
)

func invalidUTF8() error {
	return errors.New("R001").Wrap(ErrInvalidUTF8)
}

func invalidChunkSize(size int) error {
	return errors.New("R020").WithDetailf("chunk size %d is not positive", size).Wrap(ErrInvalidChunkSize)
}

func invalidMode(m Mode) error {
	return errors.New("R021").WithDetailf("mode %s cannot be streamed; use batch, progressive or backpressure", m)
}

// nodeFailed wraps an error returned by a custom node. Cancellation and
// errors that already carry a code pass through unchanged.
func nodeFailed(err error) error {
	if err == nil || IsCancellation(err) || errors.Code(err) != "" {
		return err
	}
	return errors.New("R004").Wrap(err)
}
