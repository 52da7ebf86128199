// ============================================================================
// METADATA
// ============================================================================
// HUD State Store - <omcRoot>/state/hud-state.json
//
// Purpose: the scratch space multiple hooks write into and only the
// statusline renderer reads, per spec section 3's "HUD state" entry:
// last-prompt time, last-tool info, active-agents summary, last-skill
// invocation, background-task counters. The Touch*/Set* helpers read the
// current file and write it back with one field changed, so the write path
// does read the state; no lock is taken around that read and write.
package hud

import (
	"path/filepath"
	"time"

	"omc/internal/store"
)

const fileName = "hud-state.json"

// State is the on-disk shape of hud-state.json.
type State struct {
	LastPromptAt    string `json:"lastPromptAt,omitempty"`
	LastToolName    string `json:"lastToolName,omitempty"`
	LastToolAt      string `json:"lastToolAt,omitempty"`
	ActiveAgents    int    `json:"activeAgents,omitempty"`
	LastSkill       string `json:"lastSkill,omitempty"`
	BackgroundTasks int    `json:"backgroundTasks,omitempty"`
}

func stateDir(omcRoot string) string {
	return filepath.Join(omcRoot, "state")
}

func path(omcRoot string) string {
	return filepath.Join(stateDir(omcRoot), fileName)
}

// Read returns the current HUD state, or a zero-value State (never an
// error worth surfacing) if the file is absent or malformed.
func Read(omcRoot string) State {
	var s State
	_, _ = store.ReadJSON(path(omcRoot), &s)
	return s
}

// Write atomically persists s.
func Write(omcRoot string, s State) error {
	return store.WriteJSONAtomic(path(omcRoot), &s)
}

// TouchPrompt updates LastPromptAt to now, leaving every other field as it
// was on disk — a read-modify-write, so fields written earlier by other
// hooks are kept. It takes no lock: a write by another process between this
// read and this write is lost.
func TouchPrompt(omcRoot string) error {
	s := Read(omcRoot)
	s.LastPromptAt = time.Now().UTC().Format(time.RFC3339Nano)
	return Write(omcRoot, s)
}

// TouchTool updates LastToolName/LastToolAt.
func TouchTool(omcRoot, toolName string) error {
	s := Read(omcRoot)
	s.LastToolName = toolName
	s.LastToolAt = time.Now().UTC().Format(time.RFC3339Nano)
	return Write(omcRoot, s)
}

// TouchSkill updates LastSkill.
func TouchSkill(omcRoot, skill string) error {
	s := Read(omcRoot)
	s.LastSkill = skill
	return Write(omcRoot, s)
}

// SetBackgroundTasks overwrites the background-task counter.
func SetBackgroundTasks(omcRoot string, count int) error {
	s := Read(omcRoot)
	s.BackgroundTasks = count
	return Write(omcRoot, s)
}
