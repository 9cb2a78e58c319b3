package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/searchhub/websearch-mcp-go/eventlog"
)

// Session is one logical client conversation: an opaque id, the bound handler
// set, activity timestamps, and at most one concurrently open push stream.
//
// The stream id is allocated once per session and survives stream reopens so
// that a client resuming after a broken connection replays from the same
// ledger lane.
type Session struct {
	id        string
	streamID  string
	createdAt time.Time

	ledger eventlog.Ledger

	mu              sync.Mutex
	lastActiveAt    time.Time
	handlers        HandlerSet
	protocolVersion string
	push            *Stream
	hb              *heartbeat
	closed          bool
}

// ID returns the opaque session identifier.
func (s *Session) ID() string { return s.id }

// StreamID returns the session's persistent push-stream lane.
func (s *Session) StreamID() string { return s.streamID }

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// LastActiveAt returns the time of the last successfully routed exchange.
func (s *Session) LastActiveAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActiveAt
}

// Touch refreshes the activity timestamp. Called on every routed exchange.
func (s *Session) Touch() {
	s.mu.Lock()
	if !s.closed {
		s.lastActiveAt = time.Now()
	}
	s.mu.Unlock()
}

// Handlers returns the session's handler set, or nil after teardown began.
func (s *Session) Handlers() HandlerSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return s.handlers
}

// ProtocolVersion returns the negotiated protocol version, if any.
func (s *Session) ProtocolVersion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.protocolVersion
}

// SetProtocolVersion records the version negotiated during initialize.
func (s *Session) SetProtocolVersion(v string) {
	s.mu.Lock()
	s.protocolVersion = v
	s.mu.Unlock()
}

// AttachStream opens the session's push stream and starts the heartbeat. A
// second concurrent attempt fails with ErrStreamOpen; the original stream is
// unaffected.
func (s *Session) AttachStream(heartbeatInterval time.Duration) (*Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionNotFound
	}
	if s.push != nil {
		return nil, ErrStreamOpen
	}
	st := newStream(s.streamID)
	s.push = st
	s.hb = startHeartbeat(s, heartbeatInterval)
	return st, nil
}

// DetachStream closes and detaches the given stream if it is still the
// session's current one. Detaching a superseded or already-detached stream is
// a no-op, which makes transport-side "on closed" callbacks safe to fire more
// than once.
func (s *Session) DetachStream(st *Stream) {
	s.mu.Lock()
	var hb *heartbeat
	if s.push == st && st != nil {
		s.push = nil
		hb = s.hb
		s.hb = nil
	}
	s.mu.Unlock()
	if st != nil {
		st.Close()
	}
	if hb != nil {
		hb.stop()
	}
}

// Publish appends a message to the session's ledger lane and, when a push
// stream is open, delivers it live. With no open stream the event is retained
// for replay only.
func (s *Session) Publish(ctx context.Context, payload []byte) (string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrSessionNotFound
	}
	push := s.push
	s.mu.Unlock()

	eventID, err := s.ledger.Append(ctx, s.streamID, payload)
	if err != nil {
		return "", fmt.Errorf("append event: %w", err)
	}

	// A teardown that interleaved with the append has already dropped the
	// ledger lane; the append above recreated it and nothing would ever drop
	// it again. Re-check and undo.
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		_ = s.ledger.DropStream(context.WithoutCancel(ctx), s.streamID)
		return "", ErrSessionNotFound
	}

	if push != nil {
		// Best effort: a dead stream means the client resumes via replay.
		push.deliver(Frame{EventID: eventID, Payload: payload})
	}
	return eventID, nil
}

// keepAliveTick emits one keep-alive frame if a stream is currently open.
// Ticks with no open or already-closed stream are no-ops, not errors.
func (s *Session) keepAliveTick() {
	s.mu.Lock()
	push := s.push
	s.mu.Unlock()
	if push == nil {
		return
	}
	push.tryDeliver(Frame{KeepAlive: true})
}

// teardown runs the per-session close sequence: stop heartbeat, close the push
// stream, close the handler set, drop timestamps. Each step is independently
// guarded; the caller has already removed the session from the registry.
// Repeated invocation converges to a no-op.
func (s *Session) teardown() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	hb := s.hb
	s.hb = nil
	push := s.push
	s.push = nil
	handlers := s.handlers
	s.handlers = nil
	s.lastActiveAt = time.Time{}
	s.mu.Unlock()

	if hb != nil {
		hb.stop()
	}
	if push != nil {
		push.Close()
	}
	if handlers != nil {
		if err := handlers.Close(); err != nil {
			return fmt.Errorf("close handler set: %w", err)
		}
	}
	return nil
}
