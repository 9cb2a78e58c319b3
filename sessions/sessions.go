// Package sessions owns the multi-tenant conversation state shared by the
// transports: the registry mapping opaque session ids to live sessions, the
// per-session push stream and heartbeat, and the idle reaper that expires
// inactive sessions.
package sessions

import (
	"context"
	"errors"

	"github.com/searchhub/websearch-mcp-go/internal/jsonrpc"
	"github.com/searchhub/websearch-mcp-go/mcp"
)

var (
	// ErrSessionNotFound is returned when a session id is not registered.
	// Expiry and typo are indistinguishable at this layer and are reported
	// uniformly.
	ErrSessionNotFound = errors.New("session not found")

	// ErrStreamOpen is returned when a push stream open is attempted while the
	// session already has one. The second attempt is rejected, never queued.
	ErrStreamOpen = errors.New("session already has an open push stream")

	// ErrRegistryClosed is returned by Create once shutdown has begun.
	ErrRegistryClosed = errors.New("session registry is closed")
)

// HandlerSet is the bound set of remote operations for one conversation,
// created once at session start and owned by the session until teardown.
type HandlerSet interface {
	// Initialize performs the protocol handshake for this conversation.
	Initialize(ctx context.Context, req *mcp.InitializeRequest) (*mcp.InitializeResult, error)

	// HandleRequest serves one request carrying an id. Operation failures are
	// encoded in the returned response; an error return means the exchange
	// itself broke.
	HandleRequest(ctx context.Context, req *jsonrpc.Request) (*jsonrpc.Response, error)

	// HandleNotification serves one id-less request.
	HandleNotification(ctx context.Context, req *jsonrpc.Request) error

	// Close releases resources held by the handler set.
	Close() error
}
