package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/scikiq/toolbridge/internal/dispatch"
)

// GenericToolHandler routes an MCP tool call through the dispatcher and
// returns the envelope as text content. Every tool call goes through this one
// code path; no per-tool handlers are generated.
func GenericToolHandler(d *dispatch.Dispatcher, toolName string) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		envelope := d.Dispatch(ctx, toolName, r.GetArguments())

		out, err := envelope.JSON()
		if err != nil {
			return errorResult("failed to marshal call envelope"), nil
		}

		result := &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(string(out))},
		}
		// A failure envelope is still a well-formed tool result; IsError lets
		// the agent distinguish it without parsing the payload.
		result.IsError = envelope.IsError()
		return result, nil
	}
}

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
