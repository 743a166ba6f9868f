package render

import (
	"context"
	"strings"
	"time"

	"github.com/vango-dev/loom/internal/errors"
)

// Mode identifies how a render call delivers its output.
type Mode uint8

const (
	ModeSync         Mode = iota // complete buffer, no cancellation
	ModeAsync                    // complete buffer, cancellable
	ModeBatch                    // complete buffer sliced into chunks
	ModeProgressive              // chunks handed over at element boundaries
	ModeBackpressure             // producer goroutine paced by the consumer
)

// String returns the string representation of the Mode.
func (m Mode) String() string {
	switch m {
	case ModeSync:
		return "sync"
	case ModeAsync:
		return "async"
	case ModeBatch:
		return "batch"
	case ModeProgressive:
		return "progressive"
	case ModeBackpressure:
		return "backpressure"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name as produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sync", "":
		return ModeSync, nil
	case "async":
		return ModeAsync, nil
	case "batch":
		return ModeBatch, nil
	case "progressive":
		return ModeProgressive, nil
	case "backpressure":
		return ModeBackpressure, nil
	default:
		return 0, errors.New("R021").WithDetailf("unknown stream mode %q", s)
	}
}

// Stats summarizes a finished render call.
type Stats struct {
	Bytes    int64
	Chunks   int
	Rules    int
	Peak     int
	Duration time.Duration
}

// Hooks observes render calls. Implementations must be safe for concurrent
// use: backpressure streams call ChunkEmitted from the producer goroutine.
type Hooks interface {
	// RenderStarted is called before rendering. The returned context is
	// passed to the other hooks of the same call.
	RenderStarted(ctx context.Context, mode Mode) context.Context

	// ChunkEmitted is called once per delivered chunk.
	ChunkEmitted(ctx context.Context, mode Mode, size int)

	// RenderFinished is called once the call is done, with the error that
	// ended it, if any.
	RenderFinished(ctx context.Context, mode Mode, stats Stats, err error)
}

// NopHooks ignores every event.
type NopHooks struct{}

func (NopHooks) RenderStarted(ctx context.Context, _ Mode) context.Context { return ctx }
func (NopHooks) ChunkEmitted(context.Context, Mode, int)                    {}
func (NopHooks) RenderFinished(context.Context, Mode, Stats, error)         {}

type multiHooks []Hooks

// MultiHooks fans events out to every non-nil hook in order.
func MultiHooks(hooks ...Hooks) Hooks {
	var out multiHooks
	for _, h := range hooks {
		if h != nil {
			out = append(out, h)
		}
	}
	switch len(out) {
	case 0:
		return NopHooks{}
	case 1:
		return out[0]
	}
	return out
}

func (m multiHooks) RenderStarted(ctx context.Context, mode Mode) context.Context {
	for _, h := range m {
		ctx = h.RenderStarted(ctx, mode)
	}
	return ctx
}

func (m multiHooks) ChunkEmitted(ctx context.Context, mode Mode, size int) {
	for _, h := range m {
		h.ChunkEmitted(ctx, mode, size)
	}
}

func (m multiHooks) RenderFinished(ctx context.Context, mode Mode, stats Stats, err error) {
	for _, h := range m {
		h.RenderFinished(ctx, mode, stats, err)
	}
}
