// ============================================================================
// METADATA
// ============================================================================
// Stop hook entry point - the central persistent-mode arbiter. See spec
// section 4.9.
package main

import (
	"omc/internal/bridge"
	"omc/internal/config"
	"omc/internal/hookproto"
	"omc/internal/paths"
	"omc/internal/stopgate"
)

func main() {
	bridge.Run(hookproto.KindStop, handle)
}

func handle(in hookproto.Input) hookproto.Output {
	worktreeRoot := paths.ResolveWorktreeRoot(in.Cwd)
	omcRoot := paths.GetOmcRoot(worktreeRoot)
	cfg := config.Load(worktreeRoot, omcRoot)

	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = paths.FallbackSessionID()
	}

	return stopgate.Decide(stopgate.Input{
		OmcRoot:         omcRoot,
		SessionID:       sessionID,
		StopReason:      in.StopReason,
		TranscriptPath:  in.TranscriptPath,
		IncompleteTodos: in.IncompleteTodos,
	}, cfg)
}
