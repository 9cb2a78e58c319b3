// Package memory is the in-process Ledger used by single-node deployments and
// tests.
package memory

import (
	"context"
	"sync"

	"github.com/searchhub/websearch-mcp-go/eventlog"
)

type event struct {
	id      string
	payload []byte
}

type stream struct {
	counter uint64
	events  []event
}

// Ledger is an in-memory eventlog.Ledger. Events are retained until their
// stream is dropped.
type Ledger struct {
	mu      sync.RWMutex
	streams map[string]*stream
}

func New() *Ledger {
	return &Ledger{streams: make(map[string]*stream)}
}

func (l *Ledger) Append(ctx context.Context, streamID string, payload []byte) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.streams[streamID]
	if !ok {
		st = &stream{}
		l.streams[streamID] = st
	}
	st.counter++
	id := eventlog.FormatEventID(streamID, st.counter)
	st.events = append(st.events, event{id: id, payload: append([]byte(nil), payload...)})
	return id, nil
}

func (l *Ledger) ReplayAfter(ctx context.Context, lastEventID string, sink eventlog.SinkFunc) error {
	streamID, ok := eventlog.SplitEventID(lastEventID)
	if !ok {
		return nil
	}

	// Snapshot under the read lock so the sink runs without holding it.
	l.mu.RLock()
	st, ok := l.streams[streamID]
	if !ok {
		l.mu.RUnlock()
		return nil
	}
	var replay []event
	found := false
	for _, ev := range st.events {
		if found {
			replay = append(replay, ev)
			continue
		}
		if ev.id == lastEventID {
			found = true
		}
	}
	l.mu.RUnlock()

	if !found {
		return nil
	}
	for _, ev := range replay {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sink(ctx, ev.id, ev.payload); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) DropStream(ctx context.Context, streamID string) error {
	l.mu.Lock()
	delete(l.streams, streamID)
	l.mu.Unlock()
	return nil
}

var _ eventlog.Ledger = (*Ledger)(nil)
