package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/y149604146/qwen-agent-scheduler/internal/domain/method"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	ms := method.NewModuleSet()
	ms.RegisterFunc("tools.calculator", "add", func(_ context.Context, args map[string]any) (any, error) {
		return args["a"].(int64) + args["b"].(int64), nil
	})
	resolver := method.NewCachedResolver(ms)
	registry := method.NewRegistry(resolver.Invalidate)
	registry.Put(&method.Declaration{
		Name:        "add",
		Description: "Add two integers",
		Parameters: []method.ParameterSchema{
			{Name: "a", Kind: method.KindInteger, Description: "First addend", Required: true},
			{Name: "b", Kind: method.KindInteger, Description: "Second addend", Required: true},
		},
		ReturnKind: method.KindInteger,
		Locator:    method.Locator{ModulePath: "tools.calculator", FunctionName: "add"},
	})
	engine := method.NewEngine(registry, resolver, time.Second)
	return NewServer(engine, registry)
}

func TestCallTool_Success(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	req := &sdk.CallToolRequest{
		Params: &sdk.CallToolParamsRaw{
			Name:      "add",
			Arguments: json.RawMessage(`{"a":"5","b":3}`),
		},
	}

	res, err := s.callTool(context.Background(), "add", req)
	if err != nil {
		t.Fatalf("callTool returned error: %v", err)
	}
	if res.IsError {
		t.Fatalf("expected success, got error result: %+v", res)
	}

	text, ok := res.Content[0].(*sdk.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", res.Content[0])
	}
	var body toolResult
	if err := json.Unmarshal([]byte(text.Text), &body); err != nil {
		t.Fatalf("result body is not JSON: %v", err)
	}
	if !body.Success || body.Value != float64(8) {
		t.Fatalf("unexpected result body: %+v", body)
	}
}

func TestCallTool_FailureMapsToIsError(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	req := &sdk.CallToolRequest{
		Params: &sdk.CallToolParamsRaw{
			Name:      "add",
			Arguments: json.RawMessage(`{"a":1}`),
		},
	}

	res, err := s.callTool(context.Background(), "add", req)
	if err != nil {
		t.Fatalf("callTool returned error: %v", err)
	}
	if !res.IsError {
		t.Fatalf("missing required argument must produce an error result")
	}

	text := res.Content[0].(*sdk.TextContent)
	var body toolResult
	if err := json.Unmarshal([]byte(text.Text), &body); err != nil {
		t.Fatalf("result body is not JSON: %v", err)
	}
	if body.ErrorKind != string(method.ErrorKindMissingRequiredParam) {
		t.Fatalf("error_kind = %q, want %q", body.ErrorKind, method.ErrorKindMissingRequiredParam)
	}
}

func TestCallTool_RejectsMalformedArguments(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	req := &sdk.CallToolRequest{
		Params: &sdk.CallToolParamsRaw{
			Name:      "add",
			Arguments: json.RawMessage(`{broken`),
		},
	}

	if _, err := s.callTool(context.Background(), "add", req); err == nil {
		t.Fatalf("expected protocol error for malformed arguments")
	}
}

func TestToolInputSchema(t *testing.T) {
	t.Parallel()

	decl := &method.Declaration{
		Name: "get_weather",
		Parameters: []method.ParameterSchema{
			{Name: "city", Kind: method.KindString, Description: "City name", Required: true},
			{Name: "unit", Kind: method.KindString, Description: "Temperature unit", Required: false, Default: "celsius"},
			{Name: "blob", Kind: method.Kind("tensor"), Description: "Opaque", Required: false},
		},
	}

	schema := toolInputSchema(decl)
	if schema.Type != "object" {
		t.Fatalf("schema type = %q, want object", schema.Type)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "city" {
		t.Fatalf("required = %v, want [city]", schema.Required)
	}
	if schema.Properties["city"].Type != "string" {
		t.Fatalf("city type = %q", schema.Properties["city"].Type)
	}
	if string(schema.Properties["unit"].Default) != `"celsius"` {
		t.Fatalf("unit default = %s", schema.Properties["unit"].Default)
	}
	if schema.Properties["blob"].Type != "" {
		t.Fatalf("unknown kind must stay untyped, got %q", schema.Properties["blob"].Type)
	}
}
