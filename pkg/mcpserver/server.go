// Package mcpserver exposes the tool catalog over the Model Context
// Protocol using the official Go SDK.
package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wilhg/filemcp/pkg/errmodel"
	"github.com/wilhg/filemcp/pkg/tool"
)

const serverName = "mcp-file-server"

// Server wraps an mcp.Server with every catalog tool registered against a
// Dispatcher.
type Server struct {
	srv        *mcp.Server
	dispatcher *tool.Dispatcher
}

// New builds the MCP server and registers the six file tools.
func New(d *tool.Dispatcher, version string) *Server {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version,
	}, &mcp.ServerOptions{})

	s := &Server{srv: srv, dispatcher: d}
	for _, desc := range tool.Catalog() {
		srv.AddTool(&mcp.Tool{
			Name:        desc.Name,
			Description: desc.Description,
			InputSchema: desc.InputSchema,
		}, s.handler(desc.Name))
	}
	return s
}

// Server returns the underlying SDK server for transport wiring.
func (s *Server) Server() *mcp.Server { return s.srv }

// handler adapts one catalog tool to the SDK handler signature. The
// returned handler never yields a protocol-level error: dispatch renders
// failures as text, and IsError stays unset so callers treat every result
// uniformly.
func (s *Server) handler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var res tool.Result
		args, err := decodeArgs(req.Params.Arguments)
		if err != nil {
			res = tool.Result{Blocks: []string{
				errmodel.Text(errmodel.InvalidArgs("malformed arguments: "+err.Error(), map[string]any{"tool": name})),
			}}
		} else {
			res = s.dispatcher.Dispatch(ctx, name, args)
		}

		content := make([]mcp.Content, 0, len(res.Blocks))
		for _, b := range res.Blocks {
			content = append(content, &mcp.TextContent{Text: b})
		}
		return &mcp.CallToolResult{Content: content}, nil
	}
}

func decodeArgs(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// SSEHandler serves the HTTP+SSE transport: GET opens the event stream,
// POST delivers client messages to the session endpoint the stream
// advertised.
func (s *Server) SSEHandler() http.Handler {
	return mcp.NewSSEHandler(func(*http.Request) *mcp.Server { return s.srv }, nil)
}

// StreamableHandler serves the streamable HTTP transport.
func (s *Server) StreamableHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.srv }, nil)
}

// RunStdio serves a single session over stdin/stdout and blocks until the
// context is canceled or the peer disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.srv.Run(ctx, &mcp.StdioTransport{})
}
