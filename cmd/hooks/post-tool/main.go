// ============================================================================
// METADATA
// ============================================================================
// PostToolUse hook entry point. See spec section 4.10.
package main

import (
	"omc/internal/bridge"
	"omc/internal/hookproto"
	"omc/internal/orchestrator"
	"omc/internal/paths"
)

func main() {
	bridge.Run(hookproto.KindPostToolUse, handle)
}

func handle(in hookproto.Input) hookproto.Output {
	worktreeRoot := paths.ResolveWorktreeRoot(in.Cwd)
	omcRoot := paths.GetOmcRoot(worktreeRoot)

	return orchestrator.PostToolUse(omcRoot, orchestrator.PostToolInput{
		SessionID:  in.SessionID,
		ToolName:   in.ToolName,
		ToolOutput: in.ToolOutput,
	})
}
