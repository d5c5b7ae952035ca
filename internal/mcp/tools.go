// Package mcp exposes a dispatcher's tools over the Model Context Protocol.
// It is one of several possible transport shells; the dispatcher never knows
// which transport is active.
package mcp

import (
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/scikiq/toolbridge/internal/dispatch"
	"github.com/scikiq/toolbridge/internal/manifest"
)

// BuildMCPTool converts a manifest tool into an mcp.Tool with the
// corresponding input schema.
func BuildMCPTool(t manifest.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(t.Description)}

	names := make([]string, 0, len(t.Parameters.Properties))
	for name := range t.Parameters.Properties {
		names = append(names, name)
	}
	// Stable registration order for a reproducible tools/list.
	sort.Strings(names)

	required := make(map[string]bool, len(t.Parameters.Required))
	for _, name := range t.Parameters.Required {
		required[name] = true
	}

	for _, name := range names {
		prop := t.Parameters.Properties[name]
		opts = append(opts, buildParamOption(name, prop, required[name]))
	}

	return mcp.NewTool(t.Name, opts...)
}

// buildParamOption maps a manifest property to the appropriate mcp-go tool option.
func buildParamOption(name string, prop manifest.Property, required bool) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if prop.Description != "" {
		opts = append(opts, mcp.Description(prop.Description))
	}
	if required {
		opts = append(opts, mcp.Required())
	}

	switch {
	case prop.Type == "integer" || prop.Type == "number":
		return mcp.WithNumber(name, opts...)
	case prop.Type == "boolean":
		return mcp.WithBoolean(name, opts...)
	case strings.HasPrefix(prop.Type, "array"):
		opts = append([]mcp.PropertyOption{mcp.WithStringItems()}, opts...)
		return mcp.WithArray(name, opts...)
	default:
		// string, object, file, or unknown — all passed as string
		return mcp.WithString(name, opts...)
	}
}

// RegisterTools registers every manifest tool on the MCP server, routed
// through the dispatcher.
func RegisterTools(s *server.MCPServer, d *dispatch.Dispatcher) int {
	tools := d.Manifest().Tools
	for _, t := range tools {
		s.AddTool(BuildMCPTool(t), GenericToolHandler(d, t.Name))
	}
	return len(tools)
}
