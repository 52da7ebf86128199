// ============================================================================
// METADATA
// ============================================================================
// SessionStart hook entry point. Records the session in the boulder's
// session_ids set when a plan is already active, so a resumed session
// picks up boulder-progress reminders without re-declaring intent.
package main

import (
	"omc/internal/boulder"
	"omc/internal/bridge"
	"omc/internal/hookproto"
	"omc/internal/paths"
)

func main() {
	bridge.Run(hookproto.KindSessionStart, handle)
}

func handle(in hookproto.Input) hookproto.Output {
	worktreeRoot := paths.ResolveWorktreeRoot(in.Cwd)
	omcRoot := paths.GetOmcRoot(worktreeRoot)

	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = paths.FallbackSessionID()
	}
	state, err := boulder.Read(omcRoot)
	if err != nil || state == nil || !state.Active {
		return hookproto.PassThrough()
	}
	if err := paths.ValidateSessionID(sessionID); err == nil {
		_ = boulder.AppendSessionID(omcRoot, sessionID)
	}

	return hookproto.PassThrough()
}
