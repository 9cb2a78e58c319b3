// Package websearch implements the MCP server surface: the handshake, the
// tools/list and tools/call operations, and the four web tools (search,
// scrape, map, extract). It is transport-agnostic; streaminghttp and stdio
// drive it through sessions.HandlerSet.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/searchhub/websearch-mcp-go/internal/browser"
	"github.com/searchhub/websearch-mcp-go/internal/jsonrpc"
	"github.com/searchhub/websearch-mcp-go/internal/logctx"
	"github.com/searchhub/websearch-mcp-go/internal/search"
	"github.com/searchhub/websearch-mcp-go/mcp"
	"github.com/searchhub/websearch-mcp-go/sessions"
	"github.com/searchhub/websearch-mcp-go/toolset"
)

// Config parameterizes a Server.
type Config struct {
	ServerName    string
	ServerVersion string

	// Search supplies the default provider selection; per-call arguments may
	// override every field except Timeout.
	Search        search.Config
	SearchTimeout time.Duration

	Browser browser.Browser

	Logger *slog.Logger

	// SearchFactory builds a provider from a per-exchange config. Nil means
	// search.New. Tests inject fakes here.
	SearchFactory func(cfg search.Config) (search.Provider, error)
}

// Server builds handler sets for new sessions. It holds no per-session state.
type Server struct {
	cfg Config
}

func NewServer(cfg Config) *Server {
	if cfg.ServerName == "" {
		cfg.ServerName = "websearch-mcp"
	}
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "0.0.0"
	}
	if cfg.Search.Provider == "" {
		cfg.Search.Provider = "searxng"
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = 15 * time.Second
	}
	if cfg.Browser == nil {
		cfg.Browser = browser.NewFetcher()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SearchFactory == nil {
		cfg.SearchFactory = search.New
	}
	return &Server{cfg: cfg}
}

// NewHandlerSet binds a fresh handler set for one conversation.
func (s *Server) NewHandlerSet() sessions.HandlerSet {
	return &handlerSet{
		cfg:   s.cfg,
		log:   s.cfg.Logger,
		tools: s.cfg.newToolSet(),
	}
}

type handlerSet struct {
	cfg   Config
	log   *slog.Logger
	tools *toolset.Set
}

func (h *handlerSet) Initialize(ctx context.Context, req *mcp.InitializeRequest) (*mcp.InitializeResult, error) {
	version := req.ProtocolVersion
	if !supportedProtocolVersion(version) {
		version = mcp.LatestProtocolVersion
	}
	h.log.InfoContext(ctx, "session.initialize",
		slog.String("client_name", req.ClientInfo.Name),
		slog.String("client_version", req.ClientInfo.Version),
		slog.String("protocol_version", version),
	)
	return &mcp.InitializeResult{
		ProtocolVersion: version,
		Capabilities: mcp.ServerCapabilities{
			Logging: &struct{}{},
			Tools: &struct {
				ListChanged bool `json:"listChanged"`
			}{},
		},
		ServerInfo: mcp.ImplementationInfo{Name: h.cfg.ServerName, Version: h.cfg.ServerVersion},
	}, nil
}

var supportedProtocolVersions = []string{"2025-06-18", "2025-03-26", "2024-11-05"}

func supportedProtocolVersion(v string) bool {
	for _, s := range supportedProtocolVersions {
		if v == s {
			return true
		}
	}
	return false
}

func (h *handlerSet) HandleRequest(ctx context.Context, req *jsonrpc.Request) (*jsonrpc.Response, error) {
	ctx = logctx.WithRPCMessage(ctx, &logctx.RPCMessage{Method: req.Method, ID: req.ID.String(), Type: "request"})

	switch mcp.Method(req.Method) {
	case mcp.PingMethod:
		return jsonrpc.NewResultResponse(req.ID, mcp.EmptyResult{})

	case mcp.ToolsListMethod:
		var params mcp.ListToolsRequest
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInvalidParams, "invalid tools/list params", nil), nil
			}
		}
		res, err := h.tools.List(params.Cursor)
		if err != nil {
			return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInvalidParams, err.Error(), nil), nil
		}
		return jsonrpc.NewResultResponse(req.ID, res)

	case mcp.ToolsCallMethod:
		var params mcp.CallToolRequest
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInvalidParams, "invalid tools/call params", nil), nil
		}
		ctx := logctx.WithToolCallData(ctx, &logctx.ToolCallData{ToolName: params.Name})
		res, err := h.tools.Call(ctx, &params)
		if err != nil {
			// Tool failures surface as isError results so the exchange itself
			// stays healthy.
			h.log.WarnContext(ctx, "tool.call.err", slog.String("err", err.Error()))
			res = toolset.Errorf("tool %s failed: %v", params.Name, err)
		} else {
			h.log.InfoContext(ctx, "tool.call.ok")
		}
		return jsonrpc.NewResultResponse(req.ID, res)

	default:
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method), nil), nil
	}
}

func (h *handlerSet) HandleNotification(ctx context.Context, req *jsonrpc.Request) error {
	switch mcp.Method(req.Method) {
	case mcp.InitializedNotificationMethod:
		h.log.DebugContext(ctx, "session.initialized")
	case mcp.CancelledNotificationMethod:
		h.log.DebugContext(ctx, "session.cancelled")
	default:
		h.log.DebugContext(ctx, "notification.ignored", slog.String("method", req.Method))
	}
	return nil
}

func (h *handlerSet) Close() error { return nil }
