package sessions

import "sync"

// Frame is one unit written to an open push stream: either a ledger-recorded
// event or a keep-alive. Keep-alive frames are never recorded and clients must
// ignore them.
type Frame struct {
	EventID   string
	Payload   []byte
	KeepAlive bool
}

// Stream is one open server-push channel belonging to exactly one session.
// The transport drains Frames until Done is closed.
type Stream struct {
	id     string
	frames chan Frame

	once sync.Once
	done chan struct{}
}

func newStream(id string) *Stream {
	return &Stream{
		id:     id,
		frames: make(chan Frame, 32),
		done:   make(chan struct{}),
	}
}

// ID returns the stream id scoping this session's ledger events.
func (s *Stream) ID() string { return s.id }

// Frames is the transport-facing read side of the stream.
func (s *Stream) Frames() <-chan Frame { return s.frames }

// Done is closed when the stream is closed by either side.
func (s *Stream) Done() <-chan struct{} { return s.done }

// Close is idempotent and safe from any goroutine.
func (s *Stream) Close() {
	s.once.Do(func() { close(s.done) })
}

// deliver hands a frame to the transport. It blocks until the transport reads
// it or the stream closes; it reports whether the frame was accepted.
func (s *Stream) deliver(f Frame) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.frames <- f:
		return true
	case <-s.done:
		return false
	}
}

// tryDeliver is the non-blocking variant used for keep-alive frames: a slow
// consumer drops the tick rather than stalling the scheduler.
func (s *Stream) tryDeliver(f Frame) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.frames <- f:
		return true
	default:
		return false
	}
}
