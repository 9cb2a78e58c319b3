// Package streaminghttp implements the streamable HTTP transport. It mounts
// as a standard net/http handler and routes every request through one state
// machine keyed on the Mcp-Session-Id header:
//
//   - known session id: refresh activity, forward the exchange
//   - unknown session id: 404
//   - GET without a session id: 405
//   - sessionless POST carrying initialize: create the session, register it
//     before responding, return the id in the Mcp-Session-Id header
//   - sessionless POST carrying anything else: 400
//
// POST carries one JSON-RPC exchange (batch arrays are rejected). GET opens
// the session's single server-push SSE stream; a second concurrent GET is
// refused with 409 and the original stream is untouched. DELETE terminates the
// session.
//
// # Resumability
//
// Server-push messages are recorded in an eventlog.Ledger lane scoped to the
// session's stream id before live delivery. A client reconnecting with a
// Last-Event-ID header replays everything after that id in order; an id the
// ledger does not know (or that belongs to another session) replays nothing
// and the stream continues live. Keep-alive comments are never recorded.
//
// # Error Handling
//
// Transport-level rejections are JSON bodies with an HTTP status; MCP-level
// failures are serialized as JSON-RPC error responses inside a 200. When an
// Authenticator is configured, failures surface a WWW-Authenticate challenge.
//
// Example (mount in net/http):
//
//	h, err := streaminghttp.New("/mcp", registry, ledger, srv.NewHandlerSet)
//	if err != nil { ... }
//	http.ListenAndServe(":8787", h)
package streaminghttp
