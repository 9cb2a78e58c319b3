package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/searchhub/websearch-mcp-go/internal/jsonrpc"
	"github.com/searchhub/websearch-mcp-go/mcp"
)

type recordingHandlers struct {
	notifications []string
	closed        bool
}

func (r *recordingHandlers) Initialize(_ context.Context, req *mcp.InitializeRequest) (*mcp.InitializeResult, error) {
	return &mcp.InitializeResult{
		ProtocolVersion: mcp.LatestProtocolVersion,
		ServerInfo:      mcp.ImplementationInfo{Name: "stdio-test", Version: "0.0.1"},
	}, nil
}

func (r *recordingHandlers) HandleRequest(_ context.Context, req *jsonrpc.Request) (*jsonrpc.Response, error) {
	switch mcp.Method(req.Method) {
	case mcp.PingMethod:
		return jsonrpc.NewResultResponse(req.ID, mcp.EmptyResult{})
	default:
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeMethodNotFound, "method not found", nil), nil
	}
}

func (r *recordingHandlers) HandleNotification(_ context.Context, req *jsonrpc.Request) error {
	r.notifications = append(r.notifications, req.Method)
	return nil
}

func (r *recordingHandlers) Close() error {
	r.closed = true
	return nil
}

func serveLines(t *testing.T, handlers *recordingHandlers, input string) []string {
	t.Helper()
	var out bytes.Buffer
	h := NewHandler(handlers,
		WithIO(strings.NewReader(input), &out),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err := h.Serve(context.Background()); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	var lines []string
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

func TestServeConversation(t *testing.T) {
	t.Parallel()

	handlers := &recordingHandlers{}
	lines := serveLines(t, handlers, strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-06-18","capabilities":{},"clientInfo":{"name":"t","version":"1"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	}, "\n") + "\n")

	if len(lines) != 2 {
		t.Fatalf("got %d output lines, want 2: %v", len(lines), lines)
	}

	var initResp jsonrpc.Response
	if err := json.Unmarshal([]byte(lines[0]), &initResp); err != nil {
		t.Fatalf("decode initialize response: %v", err)
	}
	if initResp.Error != nil {
		t.Fatalf("initialize error: %+v", initResp.Error)
	}
	var initRes mcp.InitializeResult
	if err := json.Unmarshal(initResp.Result, &initRes); err != nil {
		t.Fatalf("decode initialize result: %v", err)
	}
	if initRes.ServerInfo.Name != "stdio-test" {
		t.Fatalf("server name = %q", initRes.ServerInfo.Name)
	}

	var pingResp jsonrpc.Response
	if err := json.Unmarshal([]byte(lines[1]), &pingResp); err != nil {
		t.Fatalf("decode ping response: %v", err)
	}
	if pingResp.Error != nil {
		t.Fatalf("ping error: %+v", pingResp.Error)
	}

	if len(handlers.notifications) != 1 || handlers.notifications[0] != "notifications/initialized" {
		t.Fatalf("notifications = %v", handlers.notifications)
	}
	if !handlers.closed {
		t.Fatal("handler set not closed after EOF")
	}
}

func TestServeParseError(t *testing.T) {
	t.Parallel()

	lines := serveLines(t, &recordingHandlers{}, "this is not json\n")
	if len(lines) != 1 {
		t.Fatalf("got %d output lines, want 1", len(lines))
	}
	var resp jsonrpc.Response
	if err := json.Unmarshal([]byte(lines[0]), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != jsonrpc.ErrorCodeParseError {
		t.Fatalf("error = %+v, want parse error", resp.Error)
	}
}

func TestServeUnknownMethod(t *testing.T) {
	t.Parallel()

	lines := serveLines(t, &recordingHandlers{}, `{"jsonrpc":"2.0","id":9,"method":"resources/list"}`+"\n")
	if len(lines) != 1 {
		t.Fatalf("got %d output lines, want 1", len(lines))
	}
	var resp jsonrpc.Response
	if err := json.Unmarshal([]byte(lines[0]), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != jsonrpc.ErrorCodeMethodNotFound {
		t.Fatalf("error = %+v, want method not found", resp.Error)
	}
}

func TestServeSkipsBlankLinesAndClientResponses(t *testing.T) {
	t.Parallel()

	lines := serveLines(t, &recordingHandlers{}, strings.Join([]string{
		"",
		`{"jsonrpc":"2.0","id":1,"result":{}}`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	}, "\n") + "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d output lines, want 1: %v", len(lines), lines)
	}
}
