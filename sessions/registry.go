package sessions

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/searchhub/websearch-mcp-go/eventlog"
)

const (
	// DefaultIdleTimeout is how long a session may sit without a routed
	// exchange before the reaper tears it down.
	DefaultIdleTimeout = 30 * time.Minute

	// DefaultReapInterval is the reaper sweep period. Deliberately coarser
	// than the heartbeat period.
	DefaultReapInterval = time.Minute
)

// Registry is the authoritative map from session id to session state. It owns
// creation and teardown; a session id present in the registry always refers to
// a live session, and removal plus resource teardown form one unit of work.
type Registry struct {
	log               *slog.Logger
	ledger            eventlog.Ledger
	idleTimeout       time.Duration
	reapInterval      time.Duration
	heartbeatInterval time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
	closed   bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the slog logger. Logs are discarded if not provided.
func WithLogger(log *slog.Logger) RegistryOption {
	return func(r *Registry) { r.log = log }
}

// WithIdleTimeout sets the inactivity threshold for the reaper.
func WithIdleTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.idleTimeout = d
		}
	}
}

// WithReapInterval sets the reaper sweep period.
func WithReapInterval(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.reapInterval = d
		}
	}
}

// WithHeartbeatInterval sets the keep-alive tick period for push streams.
func WithHeartbeatInterval(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.heartbeatInterval = d
		}
	}
}

// NewRegistry constructs a Registry backed by the given event ledger.
func NewRegistry(ledger eventlog.Ledger, opts ...RegistryOption) *Registry {
	r := &Registry{
		log:               slog.Default(),
		ledger:            ledger,
		idleTimeout:       DefaultIdleTimeout,
		reapInterval:      DefaultReapInterval,
		heartbeatInterval: DefaultHeartbeatInterval,
		sessions:          make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HeartbeatInterval returns the configured keep-alive tick period.
func (r *Registry) HeartbeatInterval() time.Duration { return r.heartbeatInterval }

// Create allocates a new session with a fresh id, binds the handler set, and
// inserts it atomically. The session is reachable by id the moment Create
// returns, so a client acting immediately on the returned identifier cannot
// race the registry's own bookkeeping.
func (r *Registry) Create(ctx context.Context, handlers HandlerSet) (*Session, error) {
	now := time.Now()
	sess := &Session{
		id:           uuid.NewString(),
		streamID:     uuid.NewString(),
		createdAt:    now,
		lastActiveAt: now,
		handlers:     handlers,
		ledger:       r.ledger,
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRegistryClosed
	}
	r.sessions[sess.id] = sess
	n := len(r.sessions)
	r.mu.Unlock()

	r.log.InfoContext(ctx, "session.create.ok",
		slog.String("session_id", sess.id),
		slog.Int("registered", n))
	return sess, nil
}

// Lookup is a pure read.
func (r *Registry) Lookup(id string) (*Session, error) {
	r.mu.RLock()
	sess, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Len reports the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Remove deletes the map entry first and only then drives the session's close
// sequence, so a transport's own on-closed notification re-entering Remove
// finds nothing and returns immediately. Removing an absent id is a no-op.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	if !ok {
		return nil
	}

	// Every step below is best-effort: a failure in one must not prevent the
	// rest from running.
	if err := sess.teardown(); err != nil {
		r.log.WarnContext(ctx, "session.teardown.partial",
			slog.String("session_id", id), slog.String("err", err.Error()))
	}
	if err := r.ledger.DropStream(ctx, sess.streamID); err != nil {
		r.log.WarnContext(ctx, "session.ledger.drop.fail",
			slog.String("session_id", id), slog.String("err", err.Error()))
	}
	r.log.InfoContext(ctx, "session.remove.ok", slog.String("session_id", id))
	return nil
}

// Sweep tears down every session idle beyond the threshold. It snapshots the
// registry before mutating it and returns the ids it removed.
func (r *Registry) Sweep(ctx context.Context, now time.Time) []string {
	r.mu.RLock()
	snapshot := make([]*Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		snapshot = append(snapshot, sess)
	}
	r.mu.RUnlock()

	var removed []string
	for _, sess := range snapshot {
		last := sess.LastActiveAt()
		if last.IsZero() || now.Sub(last) <= r.idleTimeout {
			continue
		}
		r.log.InfoContext(ctx, "session.reap",
			slog.String("session_id", sess.ID()),
			slog.Duration("idle", now.Sub(last)))
		_ = r.Remove(ctx, sess.ID())
		removed = append(removed, sess.ID())
	}
	return removed
}

// RunReaper sweeps on a fixed period until the context is canceled.
func (r *Registry) RunReaper(ctx context.Context) {
	ticker := time.NewTicker(r.reapInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Sweep(ctx, now)
		}
	}
}

// Shutdown stops accepting new sessions and synchronously tears down every
// registered session. No heartbeat timers outlive this call.
func (r *Registry) Shutdown(ctx context.Context) {
	r.mu.Lock()
	r.closed = true
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		_ = r.Remove(ctx, id)
	}
	r.log.InfoContext(ctx, "registry.shutdown.ok", slog.Int("closed", len(ids)))
}
