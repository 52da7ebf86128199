// ============================================================================
// METADATA
// ============================================================================
// SessionEnd hook entry point. Best-effort cleanup: does not tear down
// active modes (a session ending is not the same as a cancel), only clears
// the HUD's per-session transient fields so a stale "last tool" badge
// doesn't linger into the next session's first render.
package main

import (
	"omc/internal/bridge"
	"omc/internal/hookproto"
	"omc/internal/hud"
	"omc/internal/paths"
)

func main() {
	bridge.Run(hookproto.KindSessionEnd, handle)
}

func handle(in hookproto.Input) hookproto.Output {
	worktreeRoot := paths.ResolveWorktreeRoot(in.Cwd)
	omcRoot := paths.GetOmcRoot(worktreeRoot)

	_ = hud.Write(omcRoot, hud.State{})

	return hookproto.PassThrough()
}
