// ============================================================================
// METADATA
// ============================================================================
// Block Counter - per-session retry budget for the stop gate
//
// Purpose: tracks how many times the gate has blocked a given session
// within a rolling TTL window, so a misbehaving loop can never block
// forever. See spec section 4.9 step 3 and section 8's invariant "the
// per-session block counter never exceeds MAX_BLOCKS".
package stopgate

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"omc/internal/store"
)

// blockCounterTTL matches spec section 4.9 step 3's "TTL 5 minutes".
const blockCounterTTL = 5 * time.Minute

type blockCounterState struct {
	Count     int   `json:"count"`
	UpdatedAt int64 `json:"updatedAt"` // unix millis
}

// counterPath returns the per-session counter file. Rooted at omcRoot when
// non-empty (a per-worktree equivalent), otherwise the user's home
// directory, matching spec section 4.9's
// "~/.omc-context-guard-<session>.json OR per-worktree equivalent".
func counterPath(omcRoot, sessionID string) string {
	name := fmt.Sprintf(".omc-context-guard-%s.json", sessionID)
	if omcRoot != "" {
		return filepath.Join(omcRoot, "state", name)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, name)
}

// readBlockCount returns the current count, resetting to 0 if the stored
// entry is older than blockCounterTTL.
func readBlockCount(omcRoot, sessionID string) int {
	var s blockCounterState
	found, err := store.ReadJSON(counterPath(omcRoot, sessionID), &s)
	if err != nil || !found {
		return 0
	}
	if time.Since(time.UnixMilli(s.UpdatedAt)) > blockCounterTTL {
		return 0
	}
	return s.Count
}

// incrementBlockCount bumps (or resets-then-bumps, if the TTL expired) the
// counter and persists it.
func incrementBlockCount(omcRoot, sessionID string) int {
	current := readBlockCount(omcRoot, sessionID)
	next := current + 1
	s := blockCounterState{Count: next, UpdatedAt: time.Now().UnixMilli()}
	_ = store.WriteJSONAtomic(counterPath(omcRoot, sessionID), &s)
	return next
}
