package toolset

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchhub/websearch-mcp-go/mcp"
)

type echoArgs struct {
	Message string `json:"message" jsonschema:"required,description=Text to echo back"`
	Times   int    `json:"times,omitempty" jsonschema:"description=Repeat count"`
}

func newEchoTool() Tool {
	return NewTool("echo", func(_ context.Context, args echoArgs) (*mcp.CallToolResult, error) {
		return TextResult(args.Message), nil
	}, WithDescription("Echo a message."))
}

func TestListPagination(t *testing.T) {
	t.Parallel()

	s := New(
		Tool{Descriptor: mcp.Tool{Name: "a"}},
		Tool{Descriptor: mcp.Tool{Name: "b"}},
		Tool{Descriptor: mcp.Tool{Name: "c"}},
	)
	s.SetPageSize(2)

	page1, err := s.List("")
	require.NoError(t, err)
	require.Len(t, page1.Tools, 2)
	assert.Equal(t, "a", page1.Tools[0].Name)
	require.NotEmpty(t, page1.NextCursor)

	page2, err := s.List(page1.NextCursor)
	require.NoError(t, err)
	require.Len(t, page2.Tools, 1)
	assert.Equal(t, "c", page2.Tools[0].Name)
	assert.Empty(t, page2.NextCursor)

	_, err = s.List("bogus")
	require.Error(t, err)
}

func TestCallUnknownTool(t *testing.T) {
	t.Parallel()

	s := New(newEchoTool())
	_, err := s.Call(context.Background(), &mcp.CallToolRequest{Name: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool not found")
}

func TestTypedToolCall(t *testing.T) {
	t.Parallel()

	s := New(newEchoTool())
	res, err := s.Call(context.Background(), &mcp.CallToolRequest{
		Name:      "echo",
		Arguments: json.RawMessage(`{"message":"hi"}`),
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, "hi", res.Content[0].Text)
}

func TestTypedToolRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	s := New(newEchoTool())
	res, err := s.Call(context.Background(), &mcp.CallToolRequest{
		Name:      "echo",
		Arguments: json.RawMessage(`{"message":"hi","bogus":1}`),
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "invalid arguments")
}

func TestTypedToolAllowsUnknownFieldsWhenOptedIn(t *testing.T) {
	t.Parallel()

	tool := NewTool("loose", func(_ context.Context, args echoArgs) (*mcp.CallToolResult, error) {
		return TextResult(args.Message), nil
	}, WithAllowAdditionalProperties(true))
	s := New(tool)

	res, err := s.Call(context.Background(), &mcp.CallToolRequest{
		Name:      "loose",
		Arguments: json.RawMessage(`{"message":"hi","bogus":1}`),
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
}

func TestReflectedSchema(t *testing.T) {
	t.Parallel()

	tool := newEchoTool()
	schema := tool.Descriptor.InputSchema

	assert.Equal(t, "object", schema.Type)
	assert.False(t, schema.AdditionalProperties)
	require.Contains(t, schema.Properties, "message")
	assert.Equal(t, "string", schema.Properties["message"].Type)
	assert.Equal(t, "Text to echo back", schema.Properties["message"].Description)
	require.Contains(t, schema.Properties, "times")
	assert.Equal(t, "integer", schema.Properties["times"].Type)
	assert.Contains(t, schema.Required, "message")
	assert.NotContains(t, schema.Required, "times")
}

func TestErrorfResult(t *testing.T) {
	t.Parallel()

	res := Errorf("bad thing: %d", 7)
	assert.True(t, res.IsError)
	assert.Equal(t, "bad thing: 7", res.Content[0].Text)
}
