// Package stdio is the single-connection transport: newline-delimited JSON-RPC
// over a reader/writer pair, by default os.Stdin and os.Stdout. One implicit
// session spans the whole connection; there is no session id, no push stream,
// and no replay.
package stdio

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/searchhub/websearch-mcp-go/internal/jsonrpc"
	"github.com/searchhub/websearch-mcp-go/internal/logctx"
	"github.com/searchhub/websearch-mcp-go/mcp"
	"github.com/searchhub/websearch-mcp-go/sessions"
)

// maxLineBytes bounds a single JSON-RPC line. Tool results carrying scraped
// page text can be large.
const maxLineBytes = 16 * 1024 * 1024

// Handler runs one stdio conversation against a handler set.
type Handler struct {
	r        io.Reader
	w        io.Writer
	log      *slog.Logger
	handlers sessions.HandlerSet

	wmu sync.Mutex
}

// Option customizes a Handler.
type Option func(*Handler)

// WithIO sets the reader and writer for the handler.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(h *Handler) {
		if r != nil {
			h.r = r
		}
		if w != nil {
			h.w = w
		}
	}
}

// WithLogger overrides the logger. Logs must go to stderr or elsewhere; stdout
// carries the protocol.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// NewHandler constructs a stdio Handler bound to the given handler set.
func NewHandler(handlers sessions.HandlerSet, opts ...Option) *Handler {
	h := &Handler{
		r:        os.Stdin,
		w:        os.Stdout,
		log:      slog.New(logctx.Handler{Handler: slog.Default().Handler()}),
		handlers: handlers,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Serve runs the stdio event loop until EOF on the reader or context
// cancellation. EOF is a clean end of conversation, not an error. The handler
// set is closed when Serve returns.
func (h *Handler) Serve(ctx context.Context) error {
	defer func() {
		if err := h.handlers.Close(); err != nil {
			h.log.WarnContext(ctx, "handlers.close.fail", slog.String("err", err.Error()))
		}
	}()

	sc := bufio.NewScanner(h.r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := h.handleLine(ctx, line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	h.log.InfoContext(ctx, "stdio.eof")
	return nil
}

func (h *Handler) handleLine(ctx context.Context, line []byte) error {
	var msg jsonrpc.AnyMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		h.log.WarnContext(ctx, "jsonrpc.message.invalid", slog.String("err", err.Error()))
		return h.writeMessage(jsonrpc.NewErrorResponse(nil, jsonrpc.ErrorCodeParseError, "parse error: "+err.Error(), nil))
	}

	ctx = logctx.WithRPCMessage(ctx, &logctx.RPCMessage{
		Method: msg.Method,
		ID:     msg.ID.String(),
		Type:   msg.Type(),
	})

	req := msg.AsRequest()
	if req == nil {
		// Responses from the client have no pending counterpart here.
		h.log.DebugContext(ctx, "response.inbound.ignored")
		return nil
	}

	if req.Method == string(mcp.InitializeMethod) {
		return h.handleInitialize(ctx, req)
	}

	if req.IsNotification() {
		if err := h.handlers.HandleNotification(ctx, req); err != nil {
			h.log.WarnContext(ctx, "notification.inbound.fail", slog.String("err", err.Error()))
		}
		return nil
	}

	res, err := h.handlers.HandleRequest(ctx, req)
	if err != nil {
		h.log.ErrorContext(ctx, "rpc.inbound.fail", slog.String("err", err.Error()))
		res = jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "internal server error", nil)
	}
	return h.writeMessage(res)
}

func (h *Handler) handleInitialize(ctx context.Context, req *jsonrpc.Request) error {
	var initReq mcp.InitializeRequest
	if err := json.Unmarshal(req.Params, &initReq); err != nil {
		h.log.WarnContext(ctx, "initialize.params.fail", slog.String("err", err.Error()))
		return h.writeMessage(jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInvalidParams, "invalid initialize params", nil))
	}
	initRes, err := h.handlers.Initialize(ctx, &initReq)
	if err != nil {
		h.log.ErrorContext(ctx, "initialize.fail", slog.String("err", err.Error()))
		return h.writeMessage(jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "failed to initialize", nil))
	}
	res, err := jsonrpc.NewResultResponse(req.ID, initRes)
	if err != nil {
		return fmt.Errorf("encode initialize result: %w", err)
	}
	return h.writeMessage(res)
}

// writeMessage serializes one message as a single line. The write mutex keeps
// lines whole if callers ever write concurrently.
func (h *Handler) writeMessage(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	h.wmu.Lock()
	defer h.wmu.Unlock()
	if _, err := h.w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}
