// ============================================================================
// METADATA
// ============================================================================
// mcp-server entry point - long-lived MCP tool-server process for one
// session. See SPEC_FULL.md section 4.14.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"omc/internal/mcpshim"
	"omc/internal/paths"
)

func main() {
	sessionID := os.Getenv("OMC_SESSION_ID")
	if sessionID == "" {
		sessionID = paths.FallbackSessionID()
	}
	if err := paths.ValidateSessionID(sessionID); err != nil {
		fmt.Fprintf(os.Stderr, "omc-mcp-server: %v\n", err)
		os.Exit(1)
	}

	cwd, _ := os.Getwd()
	worktreeRoot := paths.ResolveWorktreeRoot(cwd)
	omcRoot := paths.GetOmcRoot(worktreeRoot)

	disabled := disabledCategories()
	server := mcpshim.NewServer(omcRoot, sessionID, catalog(), disabled, mcpshim.EchoExecutor{})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := server.Serve(ctx, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "omc-mcp-server: %v\n", err)
		os.Exit(1)
	}
}

func disabledCategories() map[string]bool {
	v := os.Getenv("OMC_DISABLE_TOOLS")
	if v == "" {
		return nil
	}
	set := make(map[string]bool)
	for _, category := range strings.Split(v, ",") {
		category = strings.TrimSpace(category)
		if category != "" {
			set[category] = true
		}
	}
	return set
}

// catalog is the static tool-name/category catalog named in spec section
// 6: lsp, ast, python, trace, state, notepad, memory, skills, interop.
// Schemas are intentionally minimal — tool internals are out of scope.
func catalog() []mcpshim.ToolSpec {
	return []mcpshim.ToolSpec{
		{Name: "lsp_hover", Category: "lsp", Description: "Hover info at a source position"},
		{Name: "ast_query", Category: "ast", Description: "Query the syntax tree for a pattern"},
		{Name: "python_eval", Category: "python", Description: "Evaluate an expression in a Python REPL bridge"},
		{Name: "trace_capture", Category: "trace", Description: "Capture a runtime trace span"},
		{Name: "state_read", Category: "state", Description: "Read a value from omc's state store"},
		{Name: "notepad_append", Category: "notepad", Description: "Append a note to the session notepad"},
		{Name: "memory_search", Category: "memory", Description: "Search durable project memory"},
		{Name: "skills_list", Category: "skills", Description: "List available skills"},
		{Name: "interop_call", Category: "interop", Description: "Call an external interop bridge"},
	}
}
