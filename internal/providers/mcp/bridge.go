package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	mcpproto "github.com/mark3labs/mcp-go/mcp"

	"github.com/sandevgo/tianbot/internal/providers/tools"
	"github.com/sandevgo/tianbot/pkg/log"
)

const (
	listTimeout = 5 * time.Second
	callTimeout = 30 * time.Second
)

var errToolFailed = errors.New("tool reported an error")

type toolClient interface {
	ListTools(ctx context.Context, req mcpproto.ListToolsRequest) (*mcpproto.ListToolsResult, error)
	CallTool(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error)
}

// Bridge exposes tools of external MCP servers as registry descriptors.
// Each tool is renamed to <server>_<tool> so servers cannot shadow each other.
type Bridge struct {
	pool *Pool
}

func NewBridge(pool *Pool) *Bridge {
	return &Bridge{pool: pool}
}

// Connect dials every configured server. A server that fails to start is
// logged and skipped.
func (b *Bridge) Connect(ctx context.Context, cfg *Config) []tools.Descriptor {
	logger := log.FromCtx(ctx)

	names := make([]string, 0, len(cfg.MCPServers))
	for name := range cfg.MCPServers {
		names = append(names, name)
	}
	sort.Strings(names)

	var descs []tools.Descriptor
	for _, name := range names {
		cli, err := b.pool.Add(ctx, name, cfg.MCPServers[name])
		if err != nil {
			logger.Error().Err(err).Str("server", name).Msg("failed to connect mcp server")
			continue
		}

		found, err := describe(ctx, name, cli)
		if err != nil {
			logger.Error().Err(err).Str("server", name).Msg("failed to list mcp tools")
			continue
		}
		logger.Info().Str("server", name).Int("tools", len(found)).Msg("mcp server connected")
		descs = append(descs, found...)
	}
	return descs
}

func (b *Bridge) Close() error {
	return b.pool.Close()
}

func describe(ctx context.Context, server string, cli toolClient) ([]tools.Descriptor, error) {
	lCtx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	resp, err := cli.ListTools(lCtx, mcpproto.ListToolsRequest{})
	if err != nil {
		return nil, err
	}

	descs := make([]tools.Descriptor, 0, len(resp.Tools))
	for _, t := range resp.Tools {
		descs = append(descs, tools.Descriptor{
			Name:        server + "_" + t.Name,
			Description: t.Description,
			Params:      paramsFromSchema(t.InputSchema),
			Handler:     callHandler(cli, t.Name),
		})
	}
	return descs, nil
}

func callHandler(cli toolClient, name string) tools.Handler {
	return func(ctx context.Context, args json.RawMessage) (string, error) {
		var argsMap map[string]any
		if err := json.Unmarshal(args, &argsMap); err != nil {
			return "", fmt.Errorf("invalid json arguments: %w", err)
		}

		req := mcpproto.CallToolRequest{}
		req.Params.Name = name
		req.Params.Arguments = argsMap

		cCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		res, err := cli.CallTool(cCtx, req)
		if err != nil {
			return "", err
		}

		text := contentText(res.Content)
		if res.IsError {
			if text == "" {
				return "", errToolFailed
			}
			return "", fmt.Errorf("%w: %s", errToolFailed, text)
		}
		return text, nil
	}
}

func contentText(content []mcpproto.Content) string {
	var parts []string
	for _, c := range content {
		switch v := c.(type) {
		case mcpproto.TextContent:
			parts = append(parts, v.Text)
		case *mcpproto.TextContent:
			parts = append(parts, v.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func paramsFromSchema(schema mcpproto.ToolInputSchema) []tools.Param {
	required := make(map[string]bool, len(schema.Required))
	for _, r := range schema.Required {
		required[r] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]tools.Param, 0, len(names))
	for _, name := range names {
		p := tools.Param{Name: name, Required: required[name]}
		if prop, ok := schema.Properties[name].(map[string]any); ok {
			p.Type, _ = prop["type"].(string)
			p.Description, _ = prop["description"].(string)
		}
		if p.Type == "integer" {
			p.Type = tools.TypeNumber
		}
		params = append(params, p)
	}
	return params
}
