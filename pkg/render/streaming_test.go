package render

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/vango-dev/loom/internal/errors"
)

var streamModes = []Mode{ModeBatch, ModeProgressive, ModeBackpressure}

// recordingHooks captures hook calls for assertions.
type recordingHooks struct {
	mu       sync.Mutex
	started  int
	chunks   []int
	finished []Stats
	errs     []error
}

func (h *recordingHooks) RenderStarted(ctx context.Context, _ Mode) context.Context {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started++
	return ctx
}

func (h *recordingHooks) ChunkEmitted(_ context.Context, _ Mode, size int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.chunks = append(h.chunks, size)
}

func (h *recordingHooks) RenderFinished(_ context.Context, _ Mode, stats Stats, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.finished = append(h.finished, stats)
	h.errs = append(h.errs, err)
}

func TestStreamMatchesRender(t *testing.T) {
	tree := listOf(500)
	r := NewRenderer(DefaultConfig())

	want, err := r.Render(tree)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	for _, mode := range streamModes {
		for _, size := range []int{1, 7, 64, 4096, 1 << 20} {
			var got bytes.Buffer
			for chunk, err := range r.Stream(context.Background(), tree, StreamOptions{ChunkSize: size, Mode: mode}) {
				if err != nil {
					t.Fatalf("%s/%d: unexpected error: %v", mode, size, err)
				}
				if len(chunk) == 0 || len(chunk) > size {
					t.Fatalf("%s/%d: chunk of %d bytes", mode, size, len(chunk))
				}
				got.Write(chunk)
			}
			if !bytes.Equal(got.Bytes(), want) {
				t.Errorf("%s/%d: streamed output differs from Render", mode, size)
			}
		}
	}
}

func TestStreamEmptyNodeYieldsNothing(t *testing.T) {
	r := NewRenderer(DefaultConfig())
	for _, mode := range streamModes {
		count := 0
		for _, err := range r.Stream(context.Background(), Empty{}, StreamOptions{ChunkSize: 16, Mode: mode}) {
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", mode, err)
			}
			count++
		}
		if count != 0 {
			t.Errorf("%s: got %d chunks, want 0", mode, count)
		}
	}
}

func TestStreamInvalidChunkSize(t *testing.T) {
	r := NewRenderer(DefaultConfig())
	for _, mode := range streamModes {
		for _, size := range []int{0, -1} {
			var errs []error
			for chunk, err := range r.Stream(context.Background(), Text("x"), StreamOptions{ChunkSize: size, Mode: mode}) {
				if chunk != nil {
					t.Errorf("%s/%d: unexpected chunk", mode, size)
				}
				errs = append(errs, err)
			}
			if len(errs) != 1 || !stderrors.Is(errs[0], ErrInvalidChunkSize) {
				t.Errorf("%s/%d: got %v, want a single ErrInvalidChunkSize", mode, size, errs)
			}
		}
	}
}

func TestStreamRejectsBufferedModes(t *testing.T) {
	r := NewRenderer(DefaultConfig())
	for _, err := range r.Stream(context.Background(), Text("x"), StreamOptions{ChunkSize: 8, Mode: ModeSync}) {
		if errors.Code(err) != "R021" {
			t.Errorf("expected R021, got %v", err)
		}
	}
}

func TestStreamNodeError(t *testing.T) {
	r := NewRenderer(DefaultConfig())
	tree := NewElement("div", listOf(100), failingNode{errBoom})

	for _, mode := range streamModes {
		var last error
		for _, err := range r.Stream(context.Background(), tree, StreamOptions{ChunkSize: 32, Mode: mode}) {
			if err != nil {
				last = err
			}
		}
		if !stderrors.Is(last, errBoom) {
			t.Errorf("%s: expected errBoom, got %v", mode, last)
		}
	}
}

func TestStreamCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRenderer(DefaultConfig())
	for _, mode := range streamModes {
		var last error
		for _, err := range r.Stream(ctx, listOf(100), StreamOptions{ChunkSize: 32, Mode: mode}) {
			last = err
		}
		if !stderrors.Is(last, context.Canceled) {
			t.Errorf("%s: expected context.Canceled, got %v", mode, last)
		}
	}
}

func TestProgressiveStopsWhenConsumerBreaks(t *testing.T) {
	hooks := &recordingHooks{}
	r := NewRenderer(DefaultConfig(), WithHooks(hooks))
	tree := listOf(1000)
	full, _ := NewRenderer(DefaultConfig()).Render(tree)

	received := 0
	for _, err := range r.Stream(context.Background(), tree, StreamOptions{ChunkSize: 64, Mode: ModeProgressive}) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		received++
		if received == 2 {
			break
		}
	}

	if len(hooks.finished) != 1 {
		t.Fatalf("RenderFinished called %d times, want 1", len(hooks.finished))
	}
	if !stderrors.Is(hooks.errs[0], errConsumerStopped) {
		t.Errorf("expected errConsumerStopped, got %v", hooks.errs[0])
	}
	if hooks.finished[0].Bytes >= int64(len(full)) {
		t.Errorf("render should stop early, wrote %d of %d bytes", hooks.finished[0].Bytes, len(full))
	}
}

func TestBackpressurePeakIsBounded(t *testing.T) {
	const chunkSize = 64
	tree := listOf(5000)

	r := NewRenderer(DefaultConfig())
	full, _ := r.Render(tree)

	ch := r.NewChannel(context.Background(), tree, chunkSize)
	var total int
	for chunk, err := range ch.All() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		total += len(chunk)
	}

	if total != len(full) {
		t.Errorf("received %d bytes, want %d", total, len(full))
	}
	if peak := ch.Peak(); peak >= 2*chunkSize {
		t.Errorf("peak buffer %d exceeds bound for chunk size %d (document is %d bytes)", peak, chunkSize, len(full))
	}
	if ch.Err() != nil {
		t.Errorf("unexpected producer error: %v", ch.Err())
	}
}

func TestBackpressurePeakBoundedForLargeLeaves(t *testing.T) {
	const chunkSize = 64
	big := 1 << 20

	tests := []struct {
		name string
		node Node
	}{
		{"escaped text", NewElement("div", Text(strings.Repeat("&", big)))},
		{"plain text", NewElement("pre", Text(strings.Repeat("x", big)))},
		{"raw", NewElement("script", Raw(strings.Repeat("y", big)))},
		{"raw bytes", RawBytes(bytes.Repeat([]byte("z"), big))},
		{"attribute value", NewElement("div").Attr("data-blob", strings.Repeat(`"`, big))},
	}

	r := NewRenderer(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			full, err := r.Render(tt.node)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}

			ch := r.NewChannel(context.Background(), tt.node, chunkSize)
			var got []byte
			for chunk, err := range ch.All() {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(chunk) > chunkSize {
					t.Fatalf("chunk of %d bytes exceeds %d", len(chunk), chunkSize)
				}
				got = append(got, chunk...)
			}
			if !bytes.Equal(got, full) {
				t.Errorf("streamed %d bytes differ from rendered %d bytes", len(got), len(full))
			}
			if peak := ch.Peak(); peak >= 2*chunkSize {
				t.Errorf("peak buffer %d exceeds bound for chunk size %d", peak, chunkSize)
			}
		})
	}
}

func TestChannelNextAndClose(t *testing.T) {
	r := NewRenderer(DefaultConfig())
	ch := r.NewChannel(context.Background(), listOf(1000), 16)

	chunk, err := ch.Next(context.Background())
	if err != nil || len(chunk) != 16 {
		t.Fatalf("Next = %d bytes, %v", len(chunk), err)
	}

	ch.Close()
	ch.Close()

	select {
	case <-ch.Done():
	default:
		t.Fatalf("producer still running after Close")
	}
	if _, err := ch.Next(context.Background()); !stderrors.Is(err, ErrStreamClosed) {
		t.Errorf("expected ErrStreamClosed, got %v", err)
	}
	if !stderrors.Is(ch.Err(), context.Canceled) {
		t.Errorf("expected producer to observe cancellation, got %v", ch.Err())
	}
}

func TestChannelEOF(t *testing.T) {
	ch := NewRenderer(DefaultConfig()).NewChannel(context.Background(), NewElement("p", Text("hi")), 4)

	var got []byte
	for {
		chunk, err := ch.Next(context.Background())
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, chunk...)
	}
	if string(got) != "<p>hi</p>" {
		t.Errorf("got %q", got)
	}
	if _, err := ch.Next(context.Background()); err != io.EOF {
		t.Errorf("Next after EOF = %v, want io.EOF", err)
	}
}

func TestChannelNextHonorsWaitContext(t *testing.T) {
	ch := NewRenderer(DefaultConfig()).NewChannel(context.Background(), listOf(100), 8)
	defer ch.Close()

	if _, err := ch.Next(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// The producer is blocked on a send, so either case of the select may
	// win; both are valid outcomes.
	chunk, err := ch.Next(ctx)
	if err != nil && !stderrors.Is(err, context.Canceled) {
		t.Errorf("unexpected error: %v", err)
	}
	if err == nil && len(chunk) != 8 {
		t.Errorf("chunk = %d bytes, want 8", len(chunk))
	}
}

func TestStreamHooks(t *testing.T) {
	hooks := &recordingHooks{}
	r := NewRenderer(DefaultConfig(), WithHooks(hooks))
	tree := NewElement("div", listOf(20)).Style("color", "red")
	full, _ := r.Render(tree)

	for _, mode := range streamModes {
		hooks.mu.Lock()
		hooks.chunks = nil
		hooks.finished = nil
		hooks.errs = nil
		hooks.mu.Unlock()

		n := 0
		for _, err := range r.Stream(context.Background(), tree, StreamOptions{ChunkSize: 50, Mode: mode}) {
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", mode, err)
			}
			n++
		}

		hooks.mu.Lock()
		if len(hooks.chunks) != n {
			t.Errorf("%s: ChunkEmitted %d times, want %d", mode, len(hooks.chunks), n)
		}
		if len(hooks.finished) != 1 {
			t.Fatalf("%s: RenderFinished %d times", mode, len(hooks.finished))
		}
		stats := hooks.finished[0]
		if stats.Bytes != int64(len(full)) || stats.Chunks != n || stats.Rules != 1 {
			t.Errorf("%s: stats = %+v, want bytes=%d chunks=%d rules=1", mode, stats, len(full), n)
		}
		if hooks.errs[0] != nil {
			t.Errorf("%s: unexpected error %v", mode, hooks.errs[0])
		}
		hooks.mu.Unlock()
	}
}

func TestStreamTo(t *testing.T) {
	r := NewRenderer(DefaultConfig())
	tree := Document{Body: listOf(50)}
	want, _ := r.Render(tree)

	w := httptest.NewRecorder()
	if err := r.StreamTo(context.Background(), w, tree, StreamOptions{ChunkSize: 128, Mode: ModeBatch}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Body.String() != string(want) {
		t.Errorf("streamed body differs from Render")
	}
	if !w.Flushed {
		t.Errorf("expected the response to be flushed")
	}
}

func TestChunkBuffer(t *testing.T) {
	var chunks []string
	sink := func(p []byte) error {
		chunks = append(chunks, string(p))
		return nil
	}

	lazy := NewChunkBuffer(4, false, sink)
	lazy.WriteString("abcdefghij")
	if len(chunks) != 0 {
		t.Fatalf("lazy buffer emitted before Flush: %v", chunks)
	}
	lazy.Flush()
	if len(chunks) != 2 || lazy.Len() != 2 {
		t.Fatalf("after Flush: chunks=%v len=%d", chunks, lazy.Len())
	}
	lazy.Close()
	if len(chunks) != 3 || chunks[2] != "ij" {
		t.Errorf("after Close: %v", chunks)
	}
	if lazy.Written() != 10 || lazy.Peak() != 10 || lazy.Chunks() != 3 {
		t.Errorf("written=%d peak=%d chunks=%d", lazy.Written(), lazy.Peak(), lazy.Chunks())
	}

	chunks = nil
	eager := NewChunkBuffer(4, true, sink)
	eager.WriteString("abc")
	eager.WriteString("def")
	if len(chunks) != 1 || chunks[0] != "abcd" || eager.Len() != 2 {
		t.Errorf("eager: chunks=%v len=%d", chunks, eager.Len())
	}
	if eager.Peak() != 6 {
		t.Errorf("eager peak = %d, want 6", eager.Peak())
	}

	chunks = nil
	split := NewChunkBuffer(4, true, sink)
	split.WriteString("abcdefghij")
	if len(chunks) != 2 || chunks[0] != "abcd" || chunks[1] != "efgh" || split.Len() != 2 {
		t.Errorf("eager large write: chunks=%v len=%d", chunks, split.Len())
	}
	if split.Peak() != 4 || split.Written() != 10 {
		t.Errorf("eager large write: peak=%d written=%d", split.Peak(), split.Written())
	}

	empty := NewChunkBuffer(4, false, sink)
	chunks = nil
	empty.Close()
	if len(chunks) != 0 {
		t.Errorf("closing an empty buffer emitted %v", chunks)
	}
}

func TestChunkBufferStickyError(t *testing.T) {
	calls := 0
	b := NewChunkBuffer(2, true, func([]byte) error {
		calls++
		return errBoom
	})

	b.WriteString("abcdef")
	if _, err := b.WriteString("gh"); !stderrors.Is(err, errBoom) {
		t.Errorf("expected sticky errBoom, got %v", err)
	}
	if calls != 1 {
		t.Errorf("sink called %d times after failing, want 1", calls)
	}
	if !stderrors.Is(b.Close(), errBoom) {
		t.Errorf("Close should report the sticky error")
	}
}
