package render

import (
	"context"
	stderrors "errors"
	"io"
	"iter"
)

// DefaultChunkSize is the chunk size used when callers have no preference.
const DefaultChunkSize = 4 << 10

// errConsumerStopped ends a progressive pass whose consumer stopped iterating.
var errConsumerStopped = stderrors.New("render: consumer stopped reading")

// IsCancellation reports whether err ended a render because the caller
// cancelled it or stopped consuming the stream.
func IsCancellation(err error) bool {
	return stderrors.Is(err, context.Canceled) ||
		stderrors.Is(err, context.DeadlineExceeded) ||
		stderrors.Is(err, errConsumerStopped)
}

// StreamOptions selects how a stream is produced.
type StreamOptions struct {
	// ChunkSize is the maximum size of each chunk. Must be positive.
	ChunkSize int

	// Mode is ModeBatch, ModeProgressive or ModeBackpressure.
	Mode Mode
}

// Stream renders n as a sequence of chunks. Every chunk is at most
// ChunkSize bytes and the chunks concatenate to exactly the bytes Render
// would produce. The consumer may stop early by breaking out of the loop;
// the render then stops at its next element boundary.
//
//	for chunk, err := range r.Stream(ctx, page, render.StreamOptions{
//	    ChunkSize: 4096,
//	    Mode:      render.ModeBackpressure,
//	}) {
//	    if err != nil {
//	        return err
//	    }
//	    w.Write(chunk)
//	}
//
// Modes:
//   - ModeBatch renders everything first and then slices the result.
//   - ModeProgressive renders on the consumer's goroutine and hands over
//     complete chunks at element boundaries. The consumer does not pace the
//     producer, so content between two boundaries is buffered whole.
//   - ModeBackpressure renders on its own goroutine and blocks on every
//     chunk until the consumer takes it, so memory stays bounded by the
//     chunk size no matter how large the document is.
func (r *Renderer) Stream(ctx context.Context, n Node, opts StreamOptions) iter.Seq2[[]byte, error] {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.ChunkSize <= 0 {
		return failed(invalidChunkSize(opts.ChunkSize))
	}

	switch opts.Mode {
	case ModeBatch:
		return r.streamBatch(ctx, n, opts.ChunkSize)
	case ModeProgressive:
		return r.streamProgressive(ctx, n, opts.ChunkSize)
	case ModeBackpressure:
		return func(yield func([]byte, error) bool) {
			for chunk, err := range r.NewChannel(ctx, n, opts.ChunkSize).All() {
				if !yield(chunk, err) {
					return
				}
			}
		}
	default:
		return failed(invalidMode(opts.Mode))
	}
}

func failed(err error) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		yield(nil, err)
	}
}

func (r *Renderer) streamBatch(ctx context.Context, n Node, size int) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		p := r.begin(ctx, ModeBatch)
		cfg := r.configFor(ctx)
		buf := NewBuffer(cfg.ReservedCapacity)
		c := newContext(ctx, cfg, buf, ModeBatch)

		err := nodeFailed(c.Render(n))
		stats := statsOf(c)
		if err != nil {
			p.finish(stats, err)
			yield(nil, err)
			return
		}

		out := buf.Bytes()
		for off := 0; off < len(out); off += size {
			end := min(off+size, len(out))
			stats.Chunks++
			p.chunk(end - off)
			if !yield(out[off:end:end], nil) {
				p.finish(stats, errConsumerStopped)
				return
			}
		}
		p.finish(stats, nil)
	}
}

func (r *Renderer) streamProgressive(ctx context.Context, n Node, size int) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		p := r.begin(ctx, ModeProgressive)
		cfg := r.configFor(ctx)

		stopped := false
		buf := NewChunkBuffer(size, false, func(chunk []byte) error {
			p.chunk(len(chunk))
			if !yield(chunk, nil) {
				stopped = true
				return errConsumerStopped
			}
			return nil
		})
		c := newContext(ctx, cfg, buf, ModeProgressive)

		err := nodeFailed(c.Render(n))
		if err == nil {
			err = buf.Close()
		}
		p.finish(statsOf(c), err)
		if err != nil && !stopped {
			yield(nil, err)
		}
	}
}

// flusher is implemented by http.ResponseWriter.
type flusher interface {
	Flush()
}

// errFlusher is implemented by bufio.Writer.
type errFlusher interface {
	Flush() error
}

// StreamTo streams n into w, flushing w after every chunk when it supports
// flushing.
func (r *Renderer) StreamTo(ctx context.Context, w io.Writer, n Node, opts StreamOptions) error {
	for chunk, err := range r.Stream(ctx, n, opts) {
		if err != nil {
			return err
		}
		if _, err := w.Write(chunk); err != nil {
			return err
		}
		switch f := w.(type) {
		case flusher:
			f.Flush()
		case errFlusher:
			if err := f.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}
