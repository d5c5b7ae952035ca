package mcp

import (
	"fmt"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/scikiq/toolbridge/internal/common"
	"github.com/scikiq/toolbridge/internal/registry"
)

// Server wraps an mcp-go MCPServer with tools registered from every
// dispatcher in a registry. Transport framing (stdio, streamable HTTP) is
// selected at serve time; dispatchers are unaware of it.
type Server struct {
	name   string
	mcpSrv *mcpserver.MCPServer
	logger *common.Logger
}

// NewServer builds an MCP server over a dispatcher registry. Tool names
// duplicated across registered servers are skipped with a warning; names are
// unique within one manifest by construction.
func NewServer(name string, reg *registry.Registry, logger *common.Logger) *Server {
	mcpSrv := mcpserver.NewMCPServer(
		name,
		common.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)

	total := 0
	seen := make(map[string]bool)
	for _, srvName := range reg.Names() {
		d, err := reg.Get(srvName)
		if err != nil {
			continue
		}
		for _, t := range d.Manifest().Tools {
			if seen[t.Name] {
				logger.Warn().Str("server", srvName).Str("tool", t.Name).Msg("skipping duplicate tool name")
				continue
			}
			seen[t.Name] = true
			mcpSrv.AddTool(BuildMCPTool(t), GenericToolHandler(d, t.Name))
			total++
		}
	}

	mcpSrv.AddTool(InfoTool(), InfoToolHandler(name, reg))

	logger.Info().
		Int("tools", total).
		Int("servers", len(reg.Names())).
		Msg("MCP server initialized")

	return &Server{
		name:   name,
		mcpSrv: mcpSrv,
		logger: logger,
	}
}

// MCPServer exposes the underlying mcp-go server, used by tests to drive the
// protocol directly.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpSrv
}

// ServeStdio blocks serving the MCP line protocol on stdin/stdout.
// Used by desktop agent hosts.
func (s *Server) ServeStdio() error {
	s.logger.Info().Str("transport", "stdio").Msg("serving MCP")
	return mcpserver.ServeStdio(s.mcpSrv)
}

// ServeHTTP blocks serving MCP over streamable HTTP on the given address.
func (s *Server) ServeHTTP(host string, port int) error {
	streamable := mcpserver.NewStreamableHTTPServer(s.mcpSrv,
		mcpserver.WithStateLess(true),
	)

	addr := fmt.Sprintf("%s:%d", host, port)
	s.logger.Info().Str("transport", "http").Str("addr", addr).Msg("serving MCP")

	mux := http.NewServeMux()
	mux.Handle("/mcp", streamable)
	return http.ListenAndServe(addr, mux)
}
