package streaminghttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/elnormous/contenttype"
	"github.com/google/uuid"

	"github.com/searchhub/websearch-mcp-go/eventlog"
	"github.com/searchhub/websearch-mcp-go/internal/jsonrpc"
	"github.com/searchhub/websearch-mcp-go/internal/logctx"
	"github.com/searchhub/websearch-mcp-go/mcp"
	"github.com/searchhub/websearch-mcp-go/sessions"
)

var _ http.Handler = (*Handler)(nil)

var (
	jsonMediaType         = contenttype.NewMediaType("application/json")
	eventStreamMediaType  = contenttype.NewMediaType("text/event-stream")
	eventStreamMediaTypes = []contenttype.MediaType{eventStreamMediaType}
)

const (
	lastEventIDHeader        = "Last-Event-ID"
	mcpSessionIDHeader       = "Mcp-Session-Id"
	mcpProtocolVersionHeader = "Mcp-Protocol-Version"
	authorizationHeader      = "Authorization"
	wwwAuthenticateHeader    = "WWW-Authenticate"
)

// ErrUnauthorized is the error Authenticator implementations return for a
// token that fails validation.
var ErrUnauthorized = errors.New("unauthorized")

// Authenticator validates a bearer token presented on an HTTP exchange.
type Authenticator interface {
	CheckAuthentication(ctx context.Context, token string) error
}

// writeJSONError emits a minimal JSON body for transport-level rejections
// before a JSON-RPC exchange is possible. It does not claim JSON-RPC framing.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	if ct := w.Header().Get("Content-Type"); ct == "" || ct == jsonMediaType.String() {
		w.Header().Set("Content-Type", jsonMediaType.String())
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": status, "message": msg}})
}

// Option configures the Handler.
type Option func(*newConfig)

type newConfig struct {
	logger *slog.Logger
	auth   Authenticator
}

// WithLogger sets the slog logger used by the handler.
func WithLogger(log *slog.Logger) Option {
	return func(c *newConfig) { c.logger = log }
}

// WithAuthenticator enables bearer-token authentication on every exchange.
// Without it the endpoint is open.
func WithAuthenticator(a Authenticator) Option {
	return func(c *newConfig) { c.auth = a }
}

// Handler implements the streamable HTTP transport: POST carries JSON-RPC
// exchanges, GET opens the session's server-push SSE stream, DELETE terminates
// a session. Sessions are addressed by the Mcp-Session-Id header.
type Handler struct {
	mux      *http.ServeMux
	log      *slog.Logger
	registry *sessions.Registry
	ledger   eventlog.Ledger
	newSet   func() sessions.HandlerSet
	auth     Authenticator
}

// lockedWriteFlusher serializes concurrent writes/flushes to an SSE response
// and refuses to write after the request context is canceled.
type lockedWriteFlusher struct {
	io.Writer
	http.Flusher
	mu  sync.Mutex
	ctx context.Context
}

func (l *lockedWriteFlusher) Write(p []byte) (int, error) {
	if l.ctx != nil && l.ctx.Err() != nil {
		return 0, l.ctx.Err()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ctx != nil && l.ctx.Err() != nil {
		return 0, l.ctx.Err()
	}
	return l.Writer.Write(p)
}

func (l *lockedWriteFlusher) Flush() {
	if l.ctx != nil && l.ctx.Err() != nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ctx != nil && l.ctx.Err() != nil {
		return
	}
	l.Flusher.Flush()
}

// New constructs a Handler serving the MCP endpoint at endpointPath.
//
// Required:
//   - endpointPath: the URL path of the MCP endpoint (e.g. "/mcp")
//   - registry: the session registry
//   - ledger: the event ledger shared with the registry
//   - newHandlerSet: factory binding a fresh handler set per session
func New(endpointPath string, registry *sessions.Registry, ledger eventlog.Ledger, newHandlerSet func() sessions.HandlerSet, opts ...Option) (*Handler, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	if newHandlerSet == nil {
		return nil, fmt.Errorf("handler set factory is required")
	}
	if endpointPath == "" || !strings.HasPrefix(endpointPath, "/") {
		return nil, fmt.Errorf("invalid endpoint path %q", endpointPath)
	}

	cfg := &newConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	h := &Handler{
		log:      slog.New(logctx.Handler{Handler: cfg.logger.Handler()}),
		registry: registry,
		ledger:   ledger,
		newSet:   newHandlerSet,
		auth:     cfg.auth,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(fmt.Sprintf("POST %s", endpointPath), h.handlePost)
	mux.HandleFunc(fmt.Sprintf("GET %s", endpointPath), h.handleGet)
	mux.HandleFunc(fmt.Sprintf("DELETE %s", endpointPath), h.handleDelete)
	mux.HandleFunc(endpointPath, h.handleOtherMethod)
	h.mux = mux
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r.WithContext(logctx.WithRequestData(r.Context(), &logctx.RequestData{
		RequestID:  uuid.NewString(),
		Method:     r.Method,
		RemoteAddr: r.RemoteAddr,
		Path:       r.URL.Path,
	})))
}

// handleOtherMethod catches methods outside POST/GET/DELETE on the endpoint.
func (h *Handler) handleOtherMethod(w http.ResponseWriter, r *http.Request) {
	h.log.WarnContext(r.Context(), "http.method.unsupported", slog.String("method", r.Method))
	writeJSONError(w, http.StatusBadRequest, "unsupported method")
}

// handlePost serves one JSON-RPC exchange. A POST without a session id must
// carry an initialize request and creates the session; everything else routes
// to an existing session.
func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	h.log.InfoContext(ctx, "http.post.start")

	if !h.checkAuthentication(ctx, r, w) {
		return
	}

	ctype, err := contenttype.GetMediaType(r)
	if err != nil || !ctype.Matches(jsonMediaType) {
		writeJSONError(w, http.StatusUnsupportedMediaType, "content-type must be application/json")
		h.log.WarnContext(ctx, "content_type.unsupported")
		return
	}

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		h.log.WarnContext(ctx, "json.decode.fail", slog.String("err", err.Error()))
		return
	}
	if len(raw) > 0 && raw[0] == '[' {
		writeJSONError(w, http.StatusBadRequest, "JSON-RPC batch arrays are forbidden on streaming HTTP transport")
		h.log.WarnContext(ctx, "jsonrpc.batch.forbidden")
		return
	}

	var msg jsonrpc.AnyMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON-RPC message: "+err.Error())
		h.log.WarnContext(ctx, "jsonrpc.message.invalid", slog.String("err", err.Error()))
		return
	}

	ctx = logctx.WithRPCMessage(ctx, &logctx.RPCMessage{
		Method: msg.Method,
		ID:     msg.ID.String(),
		Type:   msg.Type(),
	})

	sessID := r.Header.Get(mcpSessionIDHeader)
	if sessID == "" {
		h.handleInitialize(ctx, w, &msg, start)
		return
	}

	sess, err := h.registry.Lookup(sessID)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "session not found")
		h.log.InfoContext(ctx, "session.load.miss")
		return
	}

	ctx = logctx.WithSessionData(ctx, &logctx.SessionData{SessionID: sess.ID(), StreamID: sess.StreamID()})
	h.log.InfoContext(ctx, "session.load.ok")

	if req := msg.AsRequest(); req != nil && req.Method == string(mcp.InitializeMethod) {
		writeJSONError(w, http.StatusConflict, "session already initialized")
		h.log.WarnContext(ctx, "session.initialize.redundant")
		return
	}
	clientPV := r.Header.Get(mcpProtocolVersionHeader)
	if clientPV != "" && sess.ProtocolVersion() != "" && clientPV != sess.ProtocolVersion() {
		writeJSONError(w, http.StatusBadRequest, "protocol version mismatch")
		h.log.WarnContext(ctx, "protocol.version.mismatch", slog.String("client_version", clientPV))
		return
	}

	handlers := sess.Handlers()
	if handlers == nil {
		writeJSONError(w, http.StatusNotFound, "session not found")
		h.log.InfoContext(ctx, "session.load.closing")
		return
	}
	sess.Touch()

	if req := msg.AsRequest(); req != nil {
		if req.IsNotification() {
			if err := handlers.HandleNotification(ctx, req); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				h.log.ErrorContext(ctx, "notification.inbound.fail", slog.String("err", err.Error()))
				return
			}
			if spv := sess.ProtocolVersion(); spv != "" {
				w.Header().Set(mcpProtocolVersionHeader, spv)
			}
			w.WriteHeader(http.StatusAccepted)
			h.log.InfoContext(ctx, "notification.inbound.ok", slog.Duration("dur", time.Since(start)))
			return
		}

		res, err := handlers.HandleRequest(ctx, req)
		if err != nil {
			h.log.ErrorContext(ctx, "rpc.inbound.fail", slog.String("err", err.Error()))
			res = jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "internal server error", nil)
		}

		if res.Error == nil && req.Method == string(mcp.ToolsCallMethod) {
			h.publishActivity(ctx, sess, req)
		}

		if spv := sess.ProtocolVersion(); spv != "" {
			w.Header().Set(mcpProtocolVersionHeader, spv)
		}
		w.Header().Set("Content-Type", jsonMediaType.String())
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(res); err != nil {
			h.log.ErrorContext(ctx, "rpc.response.write.fail", slog.String("err", err.Error()))
			return
		}
		h.log.InfoContext(ctx, "rpc.inbound.ok", slog.Duration("dur", time.Since(start)))
		return
	}

	if res := msg.AsResponse(); res != nil {
		// This server issues no requests toward the client; inbound responses
		// are accepted and dropped.
		if spv := sess.ProtocolVersion(); spv != "" {
			w.Header().Set(mcpProtocolVersionHeader, spv)
		}
		w.WriteHeader(http.StatusAccepted)
		h.log.InfoContext(ctx, "response.inbound.ignored", slog.Duration("dur", time.Since(start)))
		return
	}

	h.log.WarnContext(ctx, "jsonrpc.message.unrecognized")
	writeJSONError(w, http.StatusBadRequest, "unrecognized JSON-RPC message")
}

// handleInitialize creates a session for a sessionless POST. The session is
// registered before the response is written so a client acting immediately on
// the returned id cannot miss.
func (h *Handler) handleInitialize(ctx context.Context, w http.ResponseWriter, msg *jsonrpc.AnyMessage, start time.Time) {
	req := msg.AsRequest()
	if req == nil || req.Method != string(mcp.InitializeMethod) {
		writeJSONError(w, http.StatusBadRequest, "bad request: no valid session")
		h.log.InfoContext(ctx, "session.initialize.invalid")
		return
	}
	var initReq mcp.InitializeRequest
	if err := json.Unmarshal(req.Params, &initReq); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid initialize params")
		h.log.InfoContext(ctx, "session.initialize.params.fail", slog.String("err", err.Error()))
		return
	}

	handlers := h.newSet()
	sess, err := h.registry.Create(ctx, handlers)
	if err != nil {
		if errors.Is(err, sessions.ErrRegistryClosed) {
			writeJSONError(w, http.StatusServiceUnavailable, "server is shutting down")
		} else {
			writeJSONError(w, http.StatusInternalServerError, "failed to create session")
		}
		h.log.ErrorContext(ctx, "session.create.fail", slog.String("err", err.Error()))
		return
	}

	ctx = logctx.WithSessionData(ctx, &logctx.SessionData{SessionID: sess.ID(), StreamID: sess.StreamID()})

	initRes, err := handlers.Initialize(ctx, &initReq)
	if err != nil {
		_ = h.registry.Remove(ctx, sess.ID())
		writeJSONError(w, http.StatusInternalServerError, "failed to initialize session")
		h.log.ErrorContext(ctx, "session.initialize.fail", slog.String("err", err.Error()))
		return
	}
	sess.SetProtocolVersion(initRes.ProtocolVersion)

	resp, err := jsonrpc.NewResultResponse(req.ID, initRes)
	if err != nil {
		_ = h.registry.Remove(ctx, sess.ID())
		writeJSONError(w, http.StatusInternalServerError, "failed to encode initialize response")
		h.log.ErrorContext(ctx, "session.initialize.encode.fail", slog.String("err", err.Error()))
		return
	}

	w.Header().Set(mcpSessionIDHeader, sess.ID())
	if v := initRes.ProtocolVersion; v != "" {
		w.Header().Set(mcpProtocolVersionHeader, v)
	}
	w.Header().Set("Content-Type", jsonMediaType.String())
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.ErrorContext(ctx, "session.initialize.write.fail", slog.String("err", err.Error()))
	}
	h.log.InfoContext(ctx, "session.initialize.ok", slog.Duration("dur", time.Since(start)))
}

// handleGet opens the session's server-push SSE stream, replaying missed
// events when the client presents a Last-Event-ID.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	if !h.checkAuthentication(ctx, r, w) {
		return
	}

	sessID := r.Header.Get(mcpSessionIDHeader)
	if sessID == "" {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not supported without a session")
		h.log.WarnContext(ctx, "session.id.missing")
		return
	}

	sess, err := h.registry.Lookup(sessID)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "session not found")
		h.log.InfoContext(ctx, "session.load.miss")
		return
	}

	ctx = logctx.WithSessionData(ctx, &logctx.SessionData{SessionID: sess.ID(), StreamID: sess.StreamID()})

	if _, _, err := contenttype.GetAcceptableMediaType(r, eventStreamMediaTypes); err != nil {
		w.WriteHeader(http.StatusUnsupportedMediaType)
		h.log.WarnContext(ctx, "accept.unsupported", slog.String("accept", r.Header.Get("Accept")))
		return
	}

	f, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.ErrorContext(ctx, "sse.flusher.missing")
		return
	}
	wf := &lockedWriteFlusher{Writer: w, Flusher: f, ctx: ctx}

	if pv := r.Header.Get(mcpProtocolVersionHeader); pv != "" {
		if spv := sess.ProtocolVersion(); spv != "" && pv != spv {
			w.WriteHeader(http.StatusPreconditionFailed)
			h.log.WarnContext(ctx, "protocol.version.mismatch", slog.String("client_version", pv))
			return
		}
	}

	st, err := sess.AttachStream(h.registry.HeartbeatInterval())
	if err != nil {
		if errors.Is(err, sessions.ErrStreamOpen) {
			writeJSONError(w, http.StatusConflict, "session already has an open stream")
			h.log.WarnContext(ctx, "sse.stream.conflict")
		} else {
			writeJSONError(w, http.StatusNotFound, "session not found")
			h.log.InfoContext(ctx, "session.load.closing")
		}
		return
	}
	defer sess.DetachStream(st)
	sess.Touch()

	if spv := sess.ProtocolVersion(); spv != "" {
		w.Header().Set(mcpProtocolVersionHeader, spv)
	}
	w.Header().Set("Content-Type", eventStreamMediaType.String())
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	wf.Flush()

	h.log.InfoContext(ctx, "sse.stream.start")

	h.streamSession(ctx, wf, sess, st, r.Header.Get(lastEventIDHeader), start)
}

// streamSession replays missed events and then relays live frames until the
// stream or request ends. An event published between stream attach and the
// replay snapshot reaches the client twice without correction: once from
// replay and once as a queued live frame. Event ids within a lane order
// totally by plain string compare, so the live loop drops any frame at or
// below the highest replayed id.
func (h *Handler) streamSession(ctx context.Context, wf *lockedWriteFlusher, sess *sessions.Session, st *sessions.Stream, lastEventID string, start time.Time) {
	var lastReplayed string
	if lastEventID != "" {
		// Replay only within this session's lane. A last event id minted by
		// another stream yields nothing, same as an unknown id.
		if streamID, ok := eventlog.SplitEventID(lastEventID); ok && streamID == sess.StreamID() {
			lastReplayed = lastEventID
			err := h.ledger.ReplayAfter(ctx, lastEventID, func(cbCtx context.Context, eventID string, payload []byte) error {
				lastReplayed = eventID
				return writeSSEEvent(wf, eventID, payload)
			})
			if err != nil {
				h.log.ErrorContext(ctx, "sse.replay.fail", slog.String("err", err.Error()))
				return
			}
			h.log.InfoContext(ctx, "sse.replay.ok", slog.String("last_event_id", lastEventID))
		} else {
			h.log.InfoContext(ctx, "sse.replay.skip", slog.String("last_event_id", lastEventID))
		}
	}

	for {
		select {
		case <-ctx.Done():
			h.log.InfoContext(ctx, "sse.stream.end", slog.Duration("dur", time.Since(start)))
			return
		case <-st.Done():
			h.log.InfoContext(ctx, "sse.stream.closed", slog.Duration("dur", time.Since(start)))
			return
		case frame := <-st.Frames():
			if frame.KeepAlive {
				// Keep-alive frames are SSE comments: never recorded, never
				// given an id, ignored by conforming clients.
				if _, err := wf.Write([]byte(": keepalive\n\n")); err != nil {
					h.log.InfoContext(ctx, "sse.keepalive.write.fail", slog.String("err", err.Error()))
					return
				}
				wf.Flush()
				continue
			}
			if lastReplayed != "" && frame.EventID <= lastReplayed {
				h.log.DebugContext(ctx, "sse.frame.stale", slog.String("event_id", frame.EventID))
				continue
			}
			if err := writeSSEEvent(wf, frame.EventID, frame.Payload); err != nil {
				h.log.ErrorContext(ctx, "sse.write.fail", slog.String("err", err.Error()))
				return
			}
			h.log.InfoContext(ctx, "sse.message.deliver", slog.String("event_id", frame.EventID))
		}
	}
}

// handleDelete terminates a session: delete from the registry first, then
// teardown. A repeated DELETE observes the deletion and reports 404.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	h.log.InfoContext(ctx, "http.delete.start")

	if !h.checkAuthentication(ctx, r, w) {
		return
	}

	sessID := r.Header.Get(mcpSessionIDHeader)
	if sessID == "" {
		writeJSONError(w, http.StatusBadRequest, "missing session id")
		h.log.WarnContext(ctx, "delete.missing_session_id")
		return
	}

	sess, err := h.registry.Lookup(sessID)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "session not found")
		h.log.InfoContext(ctx, "session.delete.miss")
		return
	}

	ctx = logctx.WithSessionData(ctx, &logctx.SessionData{SessionID: sess.ID(), StreamID: sess.StreamID()})

	if err := h.registry.Remove(ctx, sessID); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to delete session")
		h.log.ErrorContext(ctx, "session.delete.fail", slog.String("err", err.Error()))
		return
	}

	if spv := sess.ProtocolVersion(); spv != "" {
		w.Header().Set(mcpProtocolVersionHeader, spv)
	}
	w.WriteHeader(http.StatusNoContent)
	h.log.InfoContext(ctx, "http.delete.ok", slog.Duration("dur", time.Since(start)))
}

// publishActivity records a log notification about a completed tool call in
// the session's ledger lane and pushes it live when a stream is open.
func (h *Handler) publishActivity(ctx context.Context, sess *sessions.Session, req *jsonrpc.Request) {
	var params mcp.CallToolRequest
	_ = json.Unmarshal(req.Params, &params)

	note, err := jsonrpc.NewRequest(nil, string(mcp.LoggingMessageNotificationMethod), mcp.LoggingMessageNotification{
		Level:  mcp.LoggingLevelInfo,
		Logger: "websearch",
		Data:   map[string]any{"event": "tool.call.ok", "tool": params.Name},
	})
	if err != nil {
		h.log.ErrorContext(ctx, "activity.encode.fail", slog.String("err", err.Error()))
		return
	}
	b, err := json.Marshal(note)
	if err != nil {
		h.log.ErrorContext(ctx, "activity.encode.fail", slog.String("err", err.Error()))
		return
	}
	if _, err := sess.Publish(ctx, b); err != nil {
		h.log.WarnContext(ctx, "activity.publish.fail", slog.String("err", err.Error()))
	}
}

// checkAuthentication enforces the optional bearer authenticator. It reports
// whether the request may proceed; on false the response is already written.
func (h *Handler) checkAuthentication(ctx context.Context, r *http.Request, w http.ResponseWriter) bool {
	if h.auth == nil {
		return true
	}

	authHeader := r.Header.Get(authorizationHeader)
	if authHeader == "" {
		h.log.InfoContext(ctx, "auth.check.missing")
		w.Header().Add(wwwAuthenticateHeader, "Bearer")
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) || len(authHeader) <= len(bearerPrefix) {
		h.log.InfoContext(ctx, "auth.check.invalid", slog.String("err", "malformed bearer authorization header"))
		w.Header().Add(wwwAuthenticateHeader, `Bearer error="invalid_request"`)
		w.WriteHeader(http.StatusBadRequest)
		return false
	}
	tok := strings.TrimSpace(authHeader[len(bearerPrefix):])

	if err := h.auth.CheckAuthentication(ctx, tok); err != nil {
		// Every validation failure is an unauthenticated request; there is no
		// upstream to fail against with a static-secret authenticator.
		h.log.InfoContext(ctx, "auth.check.fail", slog.String("err", err.Error()))
		w.Header().Add(wwwAuthenticateHeader, `Bearer error="invalid_token"`)
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}

	h.log.InfoContext(ctx, "auth.ok")
	return true
}

// writeSSEEvent writes one Server-Sent Event carrying a JSON-RPC payload and
// flushes it. Payloads are JSON and therefore single-line.
func writeSSEEvent(wf *lockedWriteFlusher, eventID string, payload []byte) error {
	if eventID != "" {
		if _, err := fmt.Fprintf(wf, "id: %s\n", eventID); err != nil {
			return fmt.Errorf("failed to write SSE event id: %w", err)
		}
	}
	if _, err := wf.Write([]byte("data: ")); err != nil {
		return fmt.Errorf("failed to write SSE data prefix: %w", err)
	}
	if _, err := wf.Write(payload); err != nil {
		return fmt.Errorf("failed to write SSE payload: %w", err)
	}
	if _, err := wf.Write([]byte("\n\n")); err != nil {
		return fmt.Errorf("failed to write SSE frame terminator: %w", err)
	}
	wf.Flush()
	return nil
}
