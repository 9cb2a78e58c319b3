package sessions

import (
	"sync"
	"time"
)

// DefaultHeartbeatInterval is roughly one third of the shortest idle-connection
// timeout commonly enforced by intermediary proxies, so at least two
// keep-alives land inside any idle window.
const DefaultHeartbeatInterval = 15 * time.Second

// heartbeat is the per-session periodic keep-alive task. It is owned by the
// session whose stream it tracks and is stopped exactly once, either on stream
// detach or during session teardown.
type heartbeat struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func startHeartbeat(s *Session, interval time.Duration) *heartbeat {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	hb := &heartbeat{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-hb.done:
				return
			case <-hb.ticker.C:
				// Liveness is checked on each tick rather than by external
				// cancellation; a tick after the stream closed is a no-op.
				s.keepAliveTick()
			}
		}
	}()
	return hb
}

func (hb *heartbeat) stop() {
	hb.once.Do(func() {
		hb.ticker.Stop()
		close(hb.done)
	})
}
