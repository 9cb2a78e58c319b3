// Package eventlog defines the append-only, per-stream event ledger used to
// replay server-push messages a client missed after a reconnect.
//
// Event ids are composed as "<streamID>.<zero-padded counter>". The counter is
// monotonically increasing per stream and padded to a fixed width so that full
// event ids compare totally and stably with plain string comparison; the
// owning stream is recoverable from the id itself.
package eventlog

import (
	"context"
	"fmt"
	"strings"
)

// SinkFunc receives one replayed or appended event in order.
type SinkFunc func(ctx context.Context, eventID string, payload []byte) error

// Ledger is an append-only, per-stream ordered log of pushed messages.
//
// ReplayAfter resolves the stream that produced lastEventID and delivers every
// retained event of that stream strictly after it, in ascending order. An
// unknown lastEventID yields no events and no error: the caller must treat it
// as "cannot resume, restart conversation".
type Ledger interface {
	Append(ctx context.Context, streamID string, payload []byte) (string, error)
	ReplayAfter(ctx context.Context, lastEventID string, sink SinkFunc) error
	DropStream(ctx context.Context, streamID string) error
}

// counterWidth fixes the zero padding of the per-stream counter. 20 digits
// covers the full uint64 range.
const counterWidth = 20

// FormatEventID composes an event id from its stream id and counter.
func FormatEventID(streamID string, counter uint64) string {
	return fmt.Sprintf("%s.%0*d", streamID, counterWidth, counter)
}

// SplitEventID recovers the stream id from an event id. Returns false when the
// id is not in the composed form.
func SplitEventID(eventID string) (streamID string, ok bool) {
	i := strings.LastIndexByte(eventID, '.')
	if i <= 0 || i == len(eventID)-1 {
		return "", false
	}
	return eventID[:i], true
}
