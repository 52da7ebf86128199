// ============================================================================
// METADATA
// ============================================================================
// Orchestrator PreToolUse hook - delegation enforcement, expensive-tool
// hard-block, shell command safety.
//
// Purpose: the orchestrator may not write source files directly; this hook
// enforces that discipline non-blockingly, hard-blocks a narrow set of
// expensive tools under context pressure, and rejects unsafe shell
// commands. See spec section 4.10.
package orchestrator

import (
	"fmt"
	"path/filepath"
	"strings"

	"omc/internal/config"
	"omc/internal/hookproto"
)

// sourceFileExtensions is the "known set" of extensions spec section 4.10
// refers to for the delegation-reminder rule.
var sourceFileExtensions = map[string]bool{
	".go": true, ".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".py": true, ".rb": true, ".java": true, ".c": true, ".cc": true,
	".cpp": true, ".h": true, ".hpp": true, ".rs": true, ".swift": true,
	".kt": true, ".scala": true, ".cs": true, ".php": true,
}

// allowListPrefixes are paths the orchestrator may touch directly without
// triggering the delegation reminder.
var allowListPrefixes = []string{".omc/", ".claude/", "CLAUDE.md", "AGENTS.md", ".mcp.json"}

var writeToolNames = map[string]bool{"Write": true, "Edit": true, "write": true, "edit": true}

// PreToolInput is what PreToolUse needs from the normalized hook input.
type PreToolInput struct {
	ParentSessionID string
	ToolName        string
	ToolInput       map[string]any
	ContextPercent  int
}

// PreToolResult carries the hook output plus whether the host process
// should exit(2) — the hard-block path in spec section 4.10 writes to
// stderr with a non-zero exit rather than a JSON block decision.
type PreToolResult struct {
	Output   hookproto.Output
	ExitCode int // 0 = normal exit after writing Output to stdout
}

// PreToolUse implements spec section 4.10's PreToolUse rules in order.
func PreToolUse(omcRoot string, in PreToolInput, cfg config.Config) PreToolResult {
	audit := NewAudit(omcRoot)

	if in.ParentSessionID != "" {
		// Subagent-originated calls pass through unconditionally.
		return PreToolResult{Output: hookproto.PassThrough()}
	}

	if cfg.ExpensiveTools[in.ToolName] && in.ContextPercent >= cfg.ContextSafetyThreshold {
		audit.Blocked("expensive-tool-blocked", in.ToolName, map[string]any{
			"tool":    in.ToolName,
			"context": in.ContextPercent,
		})
		msg := fmt.Sprintf("omc: blocking %s at %d%% context (safety threshold %d%%); compact or start fresh first", in.ToolName, in.ContextPercent, cfg.ContextSafetyThreshold)
		return PreToolResult{Output: hookproto.Block(msg), ExitCode: 2}
	}

	if command, ok := shellCommand(in); ok {
		if !IsSafeCommand(command, nil) {
			audit.Blocked("unsafe-command-blocked", "metacharacter-or-no-prefix-match", map[string]any{"command": command})
			return PreToolResult{Output: hookproto.Block("omc: command rejected by safety allow-list")}
		}
		audit.Allowed("safe-command-allowed", map[string]any{"command": command})
		return PreToolResult{Output: hookproto.PassThrough()}
	}

	if writeToolNames[in.ToolName] {
		if path, ok := filePath(in.ToolInput); ok {
			if isAllowListed(path) {
				audit.Allowed("write-allowed", map[string]any{"path": path})
				return PreToolResult{Output: hookproto.PassThrough()}
			}
			if sourceFileExtensions[strings.ToLower(filepath.Ext(path))] {
				audit.Warned("write-warned", map[string]any{"path": path})
				reminder := fmt.Sprintf(
					"<delegation-reminder>\nDirect writes to source files are discouraged for the orchestrator role. Consider delegating %q to a dedicated executor subagent via Task.\n</delegation-reminder>",
					path,
				)
				return PreToolResult{Output: hookproto.Advisory(string(hookKindPreToolUse), reminder)}
			}
		}
	}

	return PreToolResult{Output: hookproto.PassThrough()}
}

const hookKindPreToolUse = "PreToolUse"

func shellCommand(in PreToolInput) (string, bool) {
	if in.ToolName != "Bash" && in.ToolName != "bash" && in.ToolName != "Shell" {
		return "", false
	}
	if cmd, ok := in.ToolInput["command"].(string); ok && cmd != "" {
		return cmd, true
	}
	return "", false
}

func filePath(toolInput map[string]any) (string, bool) {
	for _, key := range []string{"file_path", "filePath", "path"} {
		if v, ok := toolInput[key].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func isAllowListed(path string) bool {
	cleaned := strings.TrimPrefix(path, "./")
	for _, prefix := range allowListPrefixes {
		if strings.HasPrefix(cleaned, prefix) || strings.Contains(cleaned, "/"+prefix) {
			return true
		}
	}
	return false
}
