// ============================================================================
// METADATA
// ============================================================================
// MCP Tool-Server Shim - JSON-RPC 2.0 stdio negotiation only
//
// Purpose: cmd/mcp-server's engine. Negotiates `tools/list` (filtered by
// OMC_DISABLE_TOOLS) and proxies `tools/call` to an injected ToolExecutor.
// Tool *internals* (LSP, AST, Python REPL, trace) are explicitly out of
// scope per SPEC_FULL.md section 4.14 — this package only speaks the wire
// protocol and holds the per-session lock/working-directory bookkeeping.
//
// The JSON-RPC framing itself is hand-rolled on encoding/json + bufio
// rather than built on a full MCP SDK: the shim deliberately implements
// only the negotiate/proxy surface named above, not a general-purpose MCP
// server, so pulling in a complete server framework would mean using a
// fraction of its surface. See DESIGN.md for the full justification.
package mcpshim

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"omc/internal/store"
)

// requestTimeout bounds every tools/call proxy per spec section 6's
// "Requests have per-request timeouts".
const requestTimeout = 30 * time.Second

// ToolSpec describes one entry in the negotiated tool catalog.
type ToolSpec struct {
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// ToolExecutor is the injected seam between this shim and real tool
// internals. Implementations live entirely outside this package's scope.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, arguments map[string]any) (any, error)
}

// EchoExecutor is a minimal ToolExecutor used in tests and as a smoke-test
// default: it returns its arguments back verbatim.
type EchoExecutor struct{}

func (EchoExecutor) Execute(_ context.Context, name string, arguments map[string]any) (any, error) {
	return map[string]any{"tool": name, "echo": arguments}, nil
}

// request is one JSON-RPC 2.0 request object.
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// response is one JSON-RPC 2.0 response object. Exactly one of Result/Error
// is populated.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server is the long-lived stdio JSON-RPC engine for one session.
type Server struct {
	omcRoot      string
	sessionID    string
	catalog      []ToolSpec
	disabled     map[string]bool
	executor     ToolExecutor
	mu           sync.Mutex
	workDir      string
	lockAcquired bool
}

// NewServer builds a Server scoped to one session, prefixing every tool
// name in catalog with "mcp__t__" per spec section 6's wire protocol note.
func NewServer(omcRoot, sessionID string, catalog []ToolSpec, disabledCategories map[string]bool, executor ToolExecutor) *Server {
	prefixed := make([]ToolSpec, len(catalog))
	for i, t := range catalog {
		t.Name = "mcp__t__" + strings.TrimPrefix(t.Name, "mcp__t__")
		prefixed[i] = t
	}
	return &Server{
		omcRoot:   omcRoot,
		sessionID: sessionID,
		catalog:   prefixed,
		disabled:  disabledCategories,
		executor:  executor,
		workDir:   filepath.Join(omcRoot, "state", "sessions", sessionID, "mcp"),
	}
}

// lockPath is the per-session bridge-socket lock named in spec section 5.
func (s *Server) lockPath() string {
	return filepath.Join(s.workDir, "bridge.lock")
}

// acquireSessionLock obtains (or confirms already held) the per-session
// lock guarding this server's working directory, per spec section 5's
// "holds its own session lock on a bridge socket path".
func (s *Server) acquireSessionLock() (*store.Lock, error) {
	lock, err := store.AcquireLock(s.lockPath(), store.AcquireLockOpts{})
	if err != nil {
		return nil, err
	}
	if lock != nil {
		s.lockAcquired = true
	}
	return lock, nil
}

// Serve reads JSON-RPC requests line-delimited from r and writes responses
// to w, until r returns io.EOF. Each request is handled synchronously and
// in order — the shim never reorders responses.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	lock, err := s.acquireSessionLock()
	if err != nil {
		return fmt.Errorf("omc/mcpshim: acquire session lock: %w", err)
	}
	if lock != nil {
		defer store.ReleaseLock(lock)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		resp := s.handleLine(ctx, line)
		if err := writeResponse(w, resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (s *Server) handleLine(ctx context.Context, line []byte) response {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		return response{JSONRPC: "2.0", Error: &rpcError{Code: -32700, Message: "parse error"}}
	}

	switch req.Method {
	case "tools/list":
		return s.handleList(req)
	case "tools/call":
		return s.handleCall(ctx, req)
	default:
		return response{JSONRPC: "2.0", ID: req.ID, Error: &rpcError{Code: -32601, Message: "method not found: " + req.Method}}
	}
}

func (s *Server) handleList(req request) response {
	var visible []ToolSpec
	for _, t := range s.catalog {
		if s.disabled[t.Category] {
			continue
		}
		visible = append(visible, t)
	}
	return response{JSONRPC: "2.0", ID: req.ID, Result: map[string]any{"tools": visible}}
}

type callParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (s *Server) handleCall(ctx context.Context, req request) response {
	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return response{JSONRPC: "2.0", ID: req.ID, Error: &rpcError{Code: -32602, Message: "invalid params"}}
	}

	callCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	result, err := s.executor.Execute(callCtx, params.Name, params.Arguments)
	if err != nil {
		return response{JSONRPC: "2.0", ID: req.ID, Error: &rpcError{Code: -32000, Message: err.Error()}}
	}
	return response{JSONRPC: "2.0", ID: req.ID, Result: result}
}

func writeResponse(w io.Writer, resp response) error {
	line, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	_, err = w.Write(line)
	return err
}
