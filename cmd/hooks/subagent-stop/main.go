// ============================================================================
// METADATA
// ============================================================================
// SubagentStop hook entry point. Subagent sessions never drive top-level
// modes (only parentSessionId-free sessions do, per spec section 4.10), so
// this hook's only job is bookkeeping: decrement the HUD active-agents
// counter, then pass through.
package main

import (
	"omc/internal/bridge"
	"omc/internal/hookproto"
	"omc/internal/hud"
	"omc/internal/paths"
)

func main() {
	bridge.Run(hookproto.KindSubagentStop, handle)
}

func handle(in hookproto.Input) hookproto.Output {
	worktreeRoot := paths.ResolveWorktreeRoot(in.Cwd)
	omcRoot := paths.GetOmcRoot(worktreeRoot)

	state := hud.Read(omcRoot)
	if state.ActiveAgents > 0 {
		state.ActiveAgents--
		_ = hud.Write(omcRoot, state)
	}

	return hookproto.PassThrough()
}
