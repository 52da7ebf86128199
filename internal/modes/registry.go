// ============================================================================
// METADATA
// ============================================================================
// Mode Registry - known modes, mutual exclusion, start/stop/isActive
//
// Purpose: owns the set of known modes and their state-file names, and
// enforces the mutual-exclusion policy between primary modes. The registry
// tracks state only; behavior lives in the per-mode controllers
// (controllers.go). See spec section 4.3.
package modes

import (
	"fmt"
	"path/filepath"

	"omc/internal/errs"
	"omc/internal/store"
)

// Name identifies one of the nine known modes.
type Name string

const (
	Autopilot  Name = "autopilot"
	Ultrapilot Name = "ultrapilot"
	Swarm      Name = "swarm"
	Pipeline   Name = "pipeline"
	Team       Name = "team"
	Ralph      Name = "ralph"
	Ultrawork  Name = "ultrawork"
	Ultraqa    Name = "ultraqa"
	TDD        Name = "tdd"
)

// All lists every known mode.
var All = []Name{Autopilot, Ultrapilot, Swarm, Pipeline, Team, Ralph, Ultrawork, Ultraqa, TDD}

// primarySet is {ralph, autopilot, ultrapilot, pipeline, ultraqa}: at most
// one of these may be active at once (spec section 4.3).
var primarySet = map[Name]bool{
	Ralph:      true,
	Autopilot:  true,
	Ultrapilot: true,
	Pipeline:   true,
	Ultraqa:    true,
}

// IsPrimary reports whether mode participates in the mutual-exclusion set.
func IsPrimary(mode Name) bool {
	return primarySet[mode]
}

func statePath(omcRoot string, mode Name) string {
	return filepath.Join(omcRoot, "state", string(mode)+"-state.json")
}

// Read returns mode's state, or nil if the file is absent/malformed.
func Read(omcRoot string, mode Name) (*State, error) {
	var s State
	found, err := store.ReadJSON(statePath(omcRoot, mode), &s)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

// Write atomically persists s for mode.
func Write(omcRoot string, mode Name, s *State) error {
	s.UpdatedAt = nowISO()
	return store.WriteJSONAtomic(statePath(omcRoot, mode), s)
}

// IsActive reports whether mode's state file exists with active: true.
func IsActive(omcRoot string, mode Name) bool {
	s, err := Read(omcRoot, mode)
	return err == nil && s != nil && s.Active
}

// ActivePrimary returns the currently active primary mode in omcRoot, if
// any.
func ActivePrimary(omcRoot string) (Name, bool) {
	for mode := range primarySet {
		if IsActive(omcRoot, mode) {
			return mode, true
		}
	}
	return "", false
}

// Start activates mode for sessionID, enforcing mutual exclusion among
// primary modes. Activating a primary while a different primary is active
// fails with ErrModeConflict and leaves both states untouched beyond the
// existing active one.
func Start(omcRoot string, mode Name, sessionID string, init func(*State)) error {
	if IsPrimary(mode) {
		if active, ok := ActivePrimary(omcRoot); ok && active != mode {
			return fmt.Errorf("%w: %s already active, cannot start %s", errs.ErrModeConflict, active, mode)
		}
	}

	s, err := Read(omcRoot, mode)
	if err != nil {
		return err
	}
	if s == nil {
		s = &State{StartedAt: nowISO()}
	}
	s.Active = true
	s.SessionID = sessionID
	if init != nil {
		init(s)
	}
	return Write(omcRoot, mode, s)
}

// Stop marks mode inactive without removing its state file, preserving the
// final iteration/stage values for any reporting that reads after stop.
// Actual file removal is a separate maintenance-prune operation performed
// only on state files already inactive, per spec section 3.
func Stop(omcRoot string, mode Name) error {
	s, err := Read(omcRoot, mode)
	if err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	s.Active = false
	return Write(omcRoot, mode, s)
}

// StateFileName returns the file name (not full path) for mode, useful for
// HUD rendering and audit logs.
func StateFileName(mode Name) string {
	return string(mode) + "-state.json"
}
