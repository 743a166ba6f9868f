package render

import (
	"context"
	"io"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/loom/internal/errors"
)

// Channel is a backpressure stream: a producer goroutine renders into an
// eager chunk buffer and sends each complete chunk on an unbuffered
// channel, so it cannot run more than one chunk ahead of the consumer.
//
// The producer starts as soon as the Channel is created. Close (or
// cancelling the context passed to NewChannel) stops it at its next send
// or element boundary. A Channel must be drained or closed, otherwise the
// producer goroutine blocks forever.
type Channel struct {
	chunks chan []byte
	done   chan struct{}
	cancel context.CancelFunc

	// err and peak are written by the producer before done is closed.
	err  error
	peak int

	closed    atomic.Bool
	closeOnce sync.Once
}

// NewChannel starts rendering n in a new goroutine. A chunk size that is
// not positive yields a Channel whose first Next returns the error.
func (r *Renderer) NewChannel(ctx context.Context, n Node, chunkSize int) *Channel {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	ch := &Channel{
		chunks: make(chan []byte),
		done:   make(chan struct{}),
		cancel: cancel,
	}

	if chunkSize <= 0 {
		ch.err = invalidChunkSize(chunkSize)
		close(ch.chunks)
		close(ch.done)
		return ch
	}

	go ch.produce(ctx, r, n, chunkSize)
	return ch
}

func (ch *Channel) produce(ctx context.Context, r *Renderer, n Node, chunkSize int) {
	defer close(ch.done)
	defer close(ch.chunks)
	defer ch.cancel()

	p := r.begin(ctx, ModeBackpressure)
	buf := NewChunkBuffer(chunkSize, true, func(chunk []byte) error {
		select {
		case ch.chunks <- chunk:
			p.chunk(len(chunk))
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	c := newContext(ctx, r.configFor(ctx), buf, ModeBackpressure)

	err := nodeFailed(c.Render(n))
	if err == nil {
		err = buf.Close()
	}
	stats := statsOf(c)
	p.finish(stats, err)

	ch.err = err
	ch.peak = stats.Peak
}

// Next returns the next chunk. It returns io.EOF once the document is
// complete, the render error if rendering failed, and ErrStreamClosed after
// Close. ctx bounds only this wait; cancelling it does not stop the
// producer.
func (ch *Channel) Next(ctx context.Context) ([]byte, error) {
	if ch.closed.Load() {
		return nil, streamClosed()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case chunk, ok := <-ch.chunks:
		if ok {
			return chunk, nil
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	<-ch.done
	if ch.closed.Load() {
		return nil, streamClosed()
	}
	if ch.err != nil {
		return nil, ch.err
	}
	return nil, io.EOF
}

// All returns an iterator over the remaining chunks. Breaking out of the
// loop closes the Channel.
func (ch *Channel) All() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for {
			chunk, err := ch.Next(context.Background())
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(chunk, nil) {
				ch.Close()
				return
			}
		}
	}
}

// Close stops the producer and waits for it to exit. It is safe to call
// more than once.
func (ch *Channel) Close() {
	ch.closeOnce.Do(func() {
		ch.closed.Store(true)
		ch.cancel()
	})
	<-ch.done
}

// Done is closed once the producer has exited.
func (ch *Channel) Done() <-chan struct{} {
	return ch.done
}

// Peak returns the largest number of bytes the producer buffered at once.
// It blocks until the producer has exited.
func (ch *Channel) Peak() int {
	<-ch.done
	return ch.peak
}

// Err returns the error that ended the producer, if any. It blocks until
// the producer has exited.
func (ch *Channel) Err() error {
	<-ch.done
	return ch.err
}

func streamClosed() error {
	return errors.New("R022").Wrap(ErrStreamClosed)
}
