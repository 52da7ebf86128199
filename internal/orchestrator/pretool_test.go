package orchestrator

import (
	"testing"

	"omc/internal/config"
)

func TestPreToolUseSubagentPassThrough(t *testing.T) {
	dir := t.TempDir()
	result := PreToolUse(dir, PreToolInput{ParentSessionID: "parent-1", ToolName: "Write"}, config.Defaults())
	if !result.Output.Continue || !result.Output.SuppressOutput {
		t.Fatalf("expected pass-through for subagent call, got %+v", result.Output)
	}
}

func TestPreToolUseExpensiveToolBlockedUnderPressure(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Defaults()
	result := PreToolUse(dir, PreToolInput{ToolName: "ExitPlanMode", ContextPercent: 60}, cfg)
	if result.Output.Decision != "block" {
		t.Fatalf("expected block decision, got %+v", result.Output)
	}
	if result.ExitCode != 2 {
		t.Fatalf("expected exit code 2, got %d", result.ExitCode)
	}
}

func TestPreToolUseExpensiveToolAllowedBelowThreshold(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Defaults()
	result := PreToolUse(dir, PreToolInput{ToolName: "ExitPlanMode", ContextPercent: 10}, cfg)
	if result.Output.Decision == "block" {
		t.Fatalf("did not expect block below threshold, got %+v", result.Output)
	}
}

func TestPreToolUseUnsafeCommandBlocked(t *testing.T) {
	dir := t.TempDir()
	in := PreToolInput{
		ToolName:  "Bash",
		ToolInput: map[string]any{"command": "rm -rf / ; echo pwned"},
	}
	result := PreToolUse(dir, in, config.Defaults())
	if result.Output.Decision != "block" {
		t.Fatalf("expected block for unsafe command, got %+v", result.Output)
	}
}

func TestPreToolUseSafeCommandAllowed(t *testing.T) {
	dir := t.TempDir()
	in := PreToolInput{
		ToolName:  "Bash",
		ToolInput: map[string]any{"command": "git status"},
	}
	result := PreToolUse(dir, in, config.Defaults())
	if !result.Output.Continue {
		t.Fatalf("expected pass-through for safe command, got %+v", result.Output)
	}
}

func TestPreToolUseWriteOutsideAllowListWarns(t *testing.T) {
	dir := t.TempDir()
	in := PreToolInput{
		ToolName:  "Write",
		ToolInput: map[string]any{"file_path": "src/main.go"},
	}
	result := PreToolUse(dir, in, config.Defaults())
	if result.Output.HookSpecificOutput == nil {
		t.Fatalf("expected advisory output for source-file write, got %+v", result.Output)
	}
}

func TestPreToolUseWriteInsideAllowListPasses(t *testing.T) {
	dir := t.TempDir()
	in := PreToolInput{
		ToolName:  "Write",
		ToolInput: map[string]any{"file_path": ".omc/state.json"},
	}
	result := PreToolUse(dir, in, config.Defaults())
	if result.Output.HookSpecificOutput != nil {
		t.Fatalf("did not expect advisory for allow-listed path, got %+v", result.Output)
	}
	if !result.Output.Continue {
		t.Fatalf("expected pass-through, got %+v", result.Output)
	}
}
