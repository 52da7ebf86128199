// ============================================================================
// METADATA
// ============================================================================
// PreToolUse hook entry point. See spec section 4.10.
package main

import (
	"fmt"
	"os"

	"omc/internal/bridge"
	"omc/internal/config"
	"omc/internal/context"
	"omc/internal/hookproto"
	"omc/internal/hud"
	"omc/internal/orchestrator"
	"omc/internal/paths"
)

func main() {
	bridge.Run(hookproto.KindPreToolUse, handle)
}

func handle(in hookproto.Input) hookproto.Output {
	worktreeRoot := paths.ResolveWorktreeRoot(in.Cwd)
	omcRoot := paths.GetOmcRoot(worktreeRoot)
	cfg := config.Load(worktreeRoot, omcRoot)

	_ = hud.TouchTool(omcRoot, in.ToolName)

	pct := 0
	if in.TranscriptPath != "" {
		pct = context.EstimatePercent(in.TranscriptPath)
	}

	result := orchestrator.PreToolUse(omcRoot, orchestrator.PreToolInput{
		ParentSessionID: in.ParentSessionID,
		ToolName:        in.ToolName,
		ToolInput:       in.ToolInput,
		ContextPercent:  pct,
	}, cfg)

	if result.ExitCode != 0 {
		fmt.Fprintln(os.Stderr, result.Output.Reason)
		os.Exit(result.ExitCode)
	}
	return result.Output
}
