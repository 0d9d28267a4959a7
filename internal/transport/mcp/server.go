package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sandevgo/tianbot/internal/core"
	"github.com/sandevgo/tianbot/internal/providers/tools"
	"github.com/sandevgo/tianbot/pkg/log"
)

// Server publishes the tool registry over the MCP stdio transport, so other
// agents can use the weather and advice tools directly.
type Server struct {
	registry *tools.Registry
	mcp      *server.MCPServer
	in       io.Reader
	out      io.Writer
}

func NewServer(registry *tools.Registry, in io.Reader, out io.Writer) (*Server, error) {
	s := server.NewMCPServer(core.BotName, core.BotVersion, server.WithToolCapabilities(false))

	for _, d := range registry.Descriptors() {
		schema, err := registry.JSONSchema(d.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to build schema for %s: %w", d.Name, err)
		}
		s.AddTool(mcp.NewToolWithRawSchema(d.Name, d.Description, schema), handler(registry, d.Name))
	}

	return &Server{registry: registry, mcp: s, in: in, out: out}, nil
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Int("tools", len(s.registry.Descriptors())).Msg("serving tools over mcp stdio")
	return server.NewStdioServer(s.mcp).Listen(ctx, s.in, s.out)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

func handler(registry *tools.Registry, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap := req.GetArguments()
		if argsMap == nil {
			argsMap = map[string]any{}
		}
		args, err := json.Marshal(argsMap)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		out := registry.Invoke(ctx, name, args)
		if out.Failed() {
			return mcp.NewToolResultError(out.Observation()), nil
		}
		return mcp.NewToolResultText(out.Text), nil
	}
}
