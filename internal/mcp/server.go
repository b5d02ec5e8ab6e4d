// Package mcp exposes registered methods as Model Context Protocol tools over
// stdio, so MCP-capable agent runtimes can discover and invoke them.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/y149604146/qwen-agent-scheduler/internal/domain/method"
	"github.com/y149604146/qwen-agent-scheduler/internal/version"
)

// Server adapts the invocation engine to the MCP tool interface. Tools are
// snapshotted from the registry when the server is built; a restart picks up
// newly registered methods.
type Server struct {
	engine *method.Engine
	server *sdk.Server
}

// NewServer builds an MCP server exporting every registered declaration as a
// tool backed by the engine.
func NewServer(engine *method.Engine, registry *method.Registry) *Server {
	s := &Server{
		engine: engine,
		server: sdk.NewServer(&sdk.Implementation{
			Name:    "qwen-agent-scheduler",
			Version: version.Version,
		}, nil),
	}

	for _, decl := range registry.List() {
		s.addTool(decl)
	}
	return s
}

// Run serves MCP over stdio until ctx is cancelled or the peer disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &sdk.StdioTransport{})
}

func (s *Server) addTool(decl *method.Declaration) {
	name := decl.Name
	s.server.AddTool(&sdk.Tool{
		Name:        name,
		Description: decl.Description,
		InputSchema: toolInputSchema(decl),
	}, func(ctx context.Context, req *sdk.CallToolRequest) (*sdk.CallToolResult, error) {
		return s.callTool(ctx, name, req)
	})
}

// toolResult is the JSON body returned to the MCP client for every call.
type toolResult struct {
	Success      bool     `json:"success"`
	Value        any      `json:"value,omitempty"`
	ErrorKind    string   `json:"error_kind,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
	DurationMS   int64    `json:"duration_ms"`
	Warnings     []string `json:"warnings,omitempty"`
}

func (s *Server) callTool(ctx context.Context, name string, req *sdk.CallToolRequest) (*sdk.CallToolResult, error) {
	args := map[string]any{}
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return nil, fmt.Errorf("decode tool arguments: %w", err)
		}
	}

	result := s.engine.Invoke(ctx, method.Request{MethodName: name, Arguments: args})

	body, err := json.Marshal(toolResult{
		Success:      result.Success,
		Value:        result.Value,
		ErrorKind:    string(result.ErrorKind),
		ErrorMessage: result.ErrorMessage,
		DurationMS:   result.Duration.Milliseconds(),
		Warnings:     result.Warnings,
	})
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}

	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: string(body)}},
		IsError: !result.Success,
	}, nil
}

// toolInputSchema converts a declaration's parameter list into the JSON
// schema MCP clients use to shape their calls.
func toolInputSchema(decl *method.Declaration) *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(decl.Parameters))
	var required []string

	for _, p := range decl.Parameters {
		prop := &jsonschema.Schema{
			Type:        schemaType(p.Kind),
			Description: p.Description,
		}
		if p.HasDefault() {
			if raw, err := json.Marshal(p.Default); err == nil {
				prop.Default = json.RawMessage(raw)
			}
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// schemaType maps a declared kind onto its JSON-schema type name. Unknown
// kinds produce an untyped property rather than an invalid schema.
func schemaType(k method.Kind) string {
	switch method.NormalizeKind(string(k)) {
	case method.KindString:
		return "string"
	case method.KindInteger:
		return "integer"
	case method.KindFloat:
		return "number"
	case method.KindBoolean:
		return "boolean"
	case method.KindObject:
		return "object"
	case method.KindArray:
		return "array"
	default:
		return ""
	}
}
