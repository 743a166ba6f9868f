package render

// Buffer is the growable output of a render pass.
//
// A Buffer created with NewChunkBuffer also has a target chunk size and a
// sink. Whenever the buffered content reaches the chunk size, complete
// chunks are sliced off and handed to the sink, and only the remainder is
// kept. An eager buffer does this on every write; a lazy one only when Flush
// is called, which the renderer does at element boundaries.
//
// Errors returned by the sink are sticky: later writes are dropped and
// reported through Err.
type Buffer struct {
	buf       []byte
	chunkSize int
	sink      func([]byte) error
	eager     bool

	err     error
	peak    int
	written int64
	chunks  int
}

// NewBuffer creates a plain buffer with the given initial capacity.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{buf: make([]byte, 0, capacity)}
}

// NewChunkBuffer creates a chunking buffer. Chunks passed to sink are
// copies owned by the receiver.
func NewChunkBuffer(chunkSize int, eager bool, sink func([]byte) error) *Buffer {
	return &Buffer{
		buf:       make([]byte, 0, chunkSize+chunkSize/2),
		chunkSize: chunkSize,
		sink:      sink,
		eager:     eager,
	}
}

// Write appends p. It implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	step := b.segment(len(p))
	n := 0
	for n < len(p) && b.err == nil {
		end := min(n+step, len(p))
		b.buf = append(b.buf, p[n:end]...)
		b.grew(end - n)
		n = end
	}
	return n, b.err
}

// WriteString appends s.
func (b *Buffer) WriteString(s string) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	step := b.segment(len(s))
	n := 0
	for n < len(s) && b.err == nil {
		end := min(n+step, len(s))
		b.buf = append(b.buf, s[n:end]...)
		b.grew(end - n)
		n = end
	}
	return n, b.err
}

// segment returns how many bytes of an n-byte write are appended between
// drains. An eager chunking buffer takes at most one chunk at a time, so it
// never holds more than two chunks however large a single write is.
func (b *Buffer) segment(n int) int {
	if !b.eager || b.sink == nil || b.chunkSize <= 0 || n <= b.chunkSize {
		return max(n, 1)
	}
	return b.chunkSize
}

// WriteByte appends c.
func (b *Buffer) WriteByte(c byte) error {
	if b.err != nil {
		return b.err
	}
	b.buf = append(b.buf, c)
	b.grew(1)
	return b.err
}

// appendWith lets the renderer append directly onto the backing slice.
func (b *Buffer) appendWith(fn func([]byte) []byte) {
	if b.err != nil {
		return
	}
	before := len(b.buf)
	b.buf = fn(b.buf)
	b.grew(len(b.buf) - before)
}

// writeEscaped appends s escaped through table. Escaping can only grow the
// input by maxEscapeLen per byte, and the tables only match ASCII, so the
// input is split at arbitrary bytes to keep the same bound as Write.
func (b *Buffer) writeEscaped(s string, table *[256]string) {
	if b.err != nil {
		return
	}
	step := len(s)
	if b.eager && b.sink != nil && b.chunkSize > 0 {
		step = max(b.chunkSize/maxEscapeLen, 1)
	}
	for len(s) > 0 && b.err == nil {
		n := min(step, len(s))
		before := len(b.buf)
		b.buf = appendEscaped(b.buf, s[:n], table)
		b.grew(len(b.buf) - before)
		s = s[n:]
	}
}

func (b *Buffer) grew(n int) {
	b.written += int64(n)
	if len(b.buf) > b.peak {
		b.peak = len(b.buf)
	}
	if b.eager {
		b.drain()
	}
}

// drain hands every complete chunk to the sink.
func (b *Buffer) drain() {
	if b.sink == nil || b.chunkSize <= 0 || b.err != nil {
		return
	}
	off := 0
	for len(b.buf)-off >= b.chunkSize {
		chunk := make([]byte, b.chunkSize)
		copy(chunk, b.buf[off:off+b.chunkSize])
		off += b.chunkSize
		if err := b.emit(chunk); err != nil {
			break
		}
	}
	if off > 0 {
		n := copy(b.buf, b.buf[off:])
		b.buf = b.buf[:n]
	}
}

func (b *Buffer) emit(chunk []byte) error {
	b.chunks++
	if err := b.sink(chunk); err != nil {
		b.err = err
		return err
	}
	return nil
}

// Flush hands complete chunks to the sink, keeping any partial remainder.
func (b *Buffer) Flush() error {
	b.drain()
	return b.err
}

// Close flushes complete chunks and then the final partial chunk, if any.
func (b *Buffer) Close() error {
	b.drain()
	if b.err != nil || b.sink == nil || len(b.buf) == 0 {
		return b.err
	}
	chunk := make([]byte, len(b.buf))
	copy(chunk, b.buf)
	b.buf = b.buf[:0]
	return b.emit(chunk)
}

// Bytes returns the buffered content. For chunking buffers this is only the
// part that has not been handed to the sink yet.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Peak returns the largest number of bytes held at once.
func (b *Buffer) Peak() int {
	return b.peak
}

// Written returns the total number of bytes written.
func (b *Buffer) Written() int64 {
	return b.written
}

// Chunks returns the number of chunks handed to the sink.
func (b *Buffer) Chunks() int {
	return b.chunks
}

// Err returns the first sink error.
func (b *Buffer) Err() error {
	return b.err
}

// fail records err as the sticky error unless one is already set.
func (b *Buffer) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
