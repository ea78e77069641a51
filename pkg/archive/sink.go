package archive

// Sink is a fixed-capacity byte buffer. Appends beyond the capacity are clamped
// and the excess is discarded silently: a declared size that understates the real
// output must never grow the buffer.
type Sink struct {
	buf []byte
	pos int
}

// NewSink allocates a sink of exactly capacity bytes. A zero capacity is valid and
// accepts nothing.
func NewSink(capacity int) *Sink {
	if capacity < 0 {
		capacity = 0
	}
	return &Sink{buf: make([]byte, capacity)}
}

// Append copies min(len(p), Cap()-Len()) bytes and returns that count.
func (s *Sink) Append(p []byte) int {
	n := copy(s.buf[s.pos:], p)
	s.pos += n
	return n
}

func (s *Sink) Len() int { return s.pos }

func (s *Sink) Cap() int { return len(s.buf) }

func (s *Sink) Full() bool { return s.pos == len(s.buf) }

// Bytes returns the written prefix. The sink must not be used afterwards.
func (s *Sink) Bytes() []byte {
	return s.buf[:s.pos]
}
