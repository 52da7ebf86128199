package mcpshim

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func testCatalog() []ToolSpec {
	return []ToolSpec{
		{Name: "ping", Category: "trace", Description: "pings"},
		{Name: "search", Category: "ast", Description: "searches"},
	}
}

func TestServerListFiltersDisabledCategories(t *testing.T) {
	dir := t.TempDir()
	srv := NewServer(dir, "s1", testCatalog(), map[string]bool{"trace": true}, EchoExecutor{})

	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}` + "\n")
	var out bytes.Buffer
	if err := srv.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("serve error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v (%s)", err, out.String())
	}
	result := resp["result"].(map[string]any)
	tools := result["tools"].([]any)
	if len(tools) != 1 {
		t.Fatalf("expected 1 visible tool after filtering trace, got %d: %v", len(tools), tools)
	}
	tool := tools[0].(map[string]any)
	if tool["name"] != "mcp__t__search" {
		t.Fatalf("expected prefixed tool name, got %v", tool["name"])
	}
}

func TestServerCallProxiesToExecutor(t *testing.T) {
	dir := t.TempDir()
	srv := NewServer(dir, "s2", testCatalog(), nil, EchoExecutor{})

	in := strings.NewReader(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"mcp__t__ping","arguments":{"x":1}}}` + "\n")
	var out bytes.Buffer
	if err := srv.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("serve error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v (%s)", err, out.String())
	}
	if resp["error"] != nil {
		t.Fatalf("unexpected error: %v", resp["error"])
	}
	result := resp["result"].(map[string]any)
	if result["tool"] != "mcp__t__ping" {
		t.Fatalf("expected echoed tool name, got %v", result["tool"])
	}
}

func TestServerUnknownMethod(t *testing.T) {
	dir := t.TempDir()
	srv := NewServer(dir, "s3", testCatalog(), nil, EchoExecutor{})

	in := strings.NewReader(`{"jsonrpc":"2.0","id":3,"method":"not/a/method"}` + "\n")
	var out bytes.Buffer
	if err := srv.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("serve error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if resp["error"] == nil {
		t.Fatalf("expected error for unknown method")
	}
}
