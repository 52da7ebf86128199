// ============================================================================
// METADATA
// ============================================================================
// PreCompact hook entry point. The host is about to compact the
// transcript; this hook has no state of its own to protect (every mode
// state file is out-of-band from the transcript), so it only resets the
// per-session stop-gate block counter so a fresh window starts at 0.
package main

import (
	"fmt"
	"path/filepath"

	"omc/internal/bridge"
	"omc/internal/hookproto"
	"omc/internal/paths"
	"omc/internal/store"
)

func main() {
	bridge.Run(hookproto.KindPreCompact, handle)
}

func handle(in hookproto.Input) hookproto.Output {
	worktreeRoot := paths.ResolveWorktreeRoot(in.Cwd)
	omcRoot := paths.GetOmcRoot(worktreeRoot)

	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = paths.FallbackSessionID()
	}

	resetBlockCounter(omcRoot, sessionID)
	return hookproto.PassThrough()
}

// resetBlockCounter overwrites the stop-gate's per-session counter file
// directly; stopgate's counter is keyed the same way (state/.omc-context-
// guard-<session>.json), but that package intentionally exposes no writer
// other than increment, so PreCompact resets it by writing a zero-valued
// counter to the same path.
func resetBlockCounter(omcRoot, sessionID string) {
	name := fmt.Sprintf(".omc-context-guard-%s.json", sessionID)
	path := filepath.Join(omcRoot, "state", name)
	_ = store.WriteJSONAtomic(path, struct {
		Count     int   `json:"count"`
		UpdatedAt int64 `json:"updatedAt"`
	}{})
}
