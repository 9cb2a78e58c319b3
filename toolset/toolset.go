// Package toolset owns a threadsafe collection of named tools: descriptors for
// listing plus handlers for dispatch. Typed construction with reflected input
// schemas lives in typed.go.
package toolset

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/searchhub/websearch-mcp-go/mcp"
)

// Handler is the function signature used to handle a tool invocation.
type Handler func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Tool pairs an MCP tool descriptor with its handler.
type Tool struct {
	Descriptor mcp.Tool
	Handler    Handler
}

// Set is a mutable, threadsafe collection of tools.
type Set struct {
	mu       sync.RWMutex
	tools    []mcp.Tool
	handlers map[string]Handler
	pageSize int
}

// New constructs a Set with the given tool definitions. Duplicate names keep
// the last definition.
func New(defs ...Tool) *Set {
	s := &Set{pageSize: 50, handlers: make(map[string]Handler, len(defs))}
	for _, d := range defs {
		s.tools = append(s.tools, d.Descriptor)
		if d.Handler != nil {
			s.handlers[d.Descriptor.Name] = d.Handler
		}
	}
	return s
}

// SetPageSize sets the pagination size used by List. Non-positive is ignored.
func (s *Set) SetPageSize(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	s.pageSize = n
	s.mu.Unlock()
}

// List returns one page of tool descriptors starting at the given cursor.
func (s *Set) List(cursor string) (mcp.ListToolsResult, error) {
	s.mu.RLock()
	all := make([]mcp.Tool, len(s.tools))
	copy(all, s.tools)
	pageSize := s.pageSize
	s.mu.RUnlock()

	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 0 || n > len(all) {
			return mcp.ListToolsResult{}, fmt.Errorf("invalid cursor: %q", cursor)
		}
		start = n
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	res := mcp.ListToolsResult{Tools: all[start:end]}
	if end < len(all) {
		res.NextCursor = strconv.Itoa(end)
	}
	if res.Tools == nil {
		res.Tools = []mcp.Tool{}
	}
	return res, nil
}

// Call dispatches a request to the named tool if present. A handler error
// escapes as-is; callers at the protocol boundary convert it into an isError
// result so the client sees a clean failure rather than a broken exchange.
func (s *Set) Call(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if req == nil || req.Name == "" {
		return nil, fmt.Errorf("invalid tool request: missing name")
	}
	s.mu.RLock()
	h := s.handlers[req.Name]
	s.mu.RUnlock()
	if h == nil {
		return nil, fmt.Errorf("tool not found: %s", req.Name)
	}
	return h(ctx, req)
}

// Names returns the registered tool names in listing order.
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.tools))
	for i, t := range s.tools {
		out[i] = t.Name
	}
	return out
}

// TextResult builds a text CallToolResult.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.ContentBlock{{Type: "text", Text: text}}}
}

// Errorf returns an error CallToolResult with a single text block.
func Errorf(format string, a ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.ContentBlock{{Type: "text", Text: fmt.Sprintf(format, a...)}},
		IsError: true,
	}
}
