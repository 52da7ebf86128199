// ============================================================================
// METADATA
// ============================================================================
// Boulder Store - the active plan pointer
//
// Purpose: maps active_plan to a plan file path, computes completed/total
// task counts by scanning checkbox markers, and records which sessions have
// touched the plan. See spec section 4.4. Name and metaphor are carried
// unchanged from spec.md's glossary.
package boulder

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"omc/internal/store"
)

const fileName = "boulder.json"

// State is the on-disk shape of boulder.json.
type State struct {
	Active     bool     `json:"active"`
	ActivePlan string   `json:"active_plan"`
	SessionIDs []string `json:"session_ids"`
}

// Progress is a task-checkbox count for one plan file.
type Progress struct {
	Completed int
	Total     int
}

var (
	pendingLine = regexp.MustCompile(`^\s*-\s\[\s\]\s`)
	doneLine    = regexp.MustCompile(`(?i)^\s*-\s\[x\]\s`)
)

func path(omcRoot string) string {
	return filepath.Join(omcRoot, fileName)
}

// Read returns the current boulder state, or (nil, nil) if no boulder.json
// exists or it is malformed.
func Read(omcRoot string) (*State, error) {
	var s State
	found, err := store.ReadJSON(path(omcRoot), &s)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

// Write atomically persists s.
func Write(omcRoot string, s *State) error {
	return store.WriteJSONAtomic(path(omcRoot), s)
}

// AppendSessionID adds sessionID to the boulder's session_ids set
// (deduplicated), creating the boulder file if absent but inactive.
func AppendSessionID(omcRoot, sessionID string) error {
	lockPath := path(omcRoot)
	var result error
	store.WithLock(lockPath, store.AcquireLockOpts{}, func() {
		s, err := Read(omcRoot)
		if err != nil {
			result = err
			return
		}
		if s == nil {
			s = &State{}
		}
		if !contains(s.SessionIDs, sessionID) {
			s.SessionIDs = append(s.SessionIDs, sessionID)
			sort.Strings(s.SessionIDs)
			result = Write(omcRoot, s)
		}
	})
	return result
}

func contains(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}

// GetPlanProgress reads planPath and counts pending/done checkbox lines. A
// missing file yields {0,0} rather than an error, per spec section 4.4's
// invariant that readers tolerate a missing plan file.
func GetPlanProgress(planPath string) Progress {
	f, err := os.Open(planPath)
	if err != nil {
		return Progress{}
	}
	defer f.Close()

	var progress Progress
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case doneLine.MatchString(line):
			progress.Total++
			progress.Completed++
		case pendingLine.MatchString(line):
			progress.Total++
		}
	}
	return progress
}

// FindPlannerPlans scans <omcRoot>/plans/ for files ending in .md.
func FindPlannerPlans(omcRoot string) ([]string, error) {
	dir := filepath.Join(omcRoot, "plans")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var plans []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".md") {
			plans = append(plans, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(plans)
	return plans, nil
}
