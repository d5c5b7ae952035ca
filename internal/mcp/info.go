package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/scikiq/toolbridge/internal/common"
	"github.com/scikiq/toolbridge/internal/registry"
)

// apiInfo describes one registered API in the get_server_info payload.
type apiInfo struct {
	API        string `json:"api"`
	BaseURL    string `json:"base_url"`
	SwaggerURL string `json:"swagger_url"`
	ToolCount  int    `json:"tool_count"`
}

// serverInfo is the payload returned by the get_server_info tool.
type serverInfo struct {
	Server  string             `json:"server"`
	Version string             `json:"version"`
	Build   string             `json:"build"`
	Commit  string             `json:"commit"`
	APIs    map[string]apiInfo `json:"apis"`
}

// InfoTool returns the mcp.Tool definition for the get_server_info tool.
func InfoTool() mcp.Tool {
	return mcp.NewTool("get_server_info",
		mcp.WithDescription("Get ToolBridge server version and the wrapped APIs' details. Use this to verify connectivity."),
	)
}

// InfoToolHandler returns a handler describing the server and every
// registered manifest.
func InfoToolHandler(name string, reg *registry.Registry) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		info := serverInfo{
			Server:  name,
			Version: common.GetVersion(),
			Build:   common.GetBuild(),
			Commit:  common.GetGitCommit(),
			APIs:    map[string]apiInfo{},
		}
		for _, srvName := range reg.Names() {
			d, err := reg.Get(srvName)
			if err != nil {
				continue
			}
			m := d.Manifest()
			info.APIs[srvName] = apiInfo{
				API:        m.APIInfo.Name,
				BaseURL:    m.APIInfo.BaseURL,
				SwaggerURL: m.APIInfo.SwaggerURL,
				ToolCount:  len(m.Tools),
			}
		}

		out, err := json.Marshal(info)
		if err != nil {
			return errorResult("failed to marshal server info"), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(string(out))},
		}, nil
	}
}
