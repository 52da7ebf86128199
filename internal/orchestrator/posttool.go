// ============================================================================
// METADATA
// ============================================================================
// Orchestrator PostToolUse hook - remember-tag capture, boulder nudges
//
// Purpose: after a tool call completes, pulls any <remember> tags out of the
// tool output into a durable notepad, and reminds the orchestrator of plan
// progress after a Task delegation returns. See spec section 4.10.
package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"omc/internal/boulder"
	"omc/internal/hookproto"
	"omc/internal/recovery"
	"omc/internal/store"
)

var (
	rememberTag         = regexp.MustCompile(`(?is)<remember>(.*?)</remember>`)
	rememberPriorityTag = regexp.MustCompile(`(?is)<remember priority>(.*?)</remember>`)
)

const (
	priorityHeading = "## Priority Context"
	workingHeading  = "## Working Memory"
	manualHeading   = "## MANUAL"
)

// PostToolInput is what PostToolUse needs from the normalized hook input.
type PostToolInput struct {
	SessionID  string
	ToolName   string
	ToolOutput string
}

// PostToolUse implements spec section 4.10's PostToolUse rules: capture
// remember-tags into the notepad, check tool output for a context-limit
// error signature, then surface a boulder progress reminder when the
// completed tool was a Task delegation and a plan is active.
func PostToolUse(omcRoot string, in PostToolInput) hookproto.Output {
	priority, working := extractRememberNotes(in.ToolOutput)
	if priority != "" || len(working) > 0 {
		_ = rewriteNotepad(omcRoot, priority, working)
	}

	if out, block := checkRecovery(omcRoot, in); block {
		return out
	}

	if in.ToolName != "Task" {
		return hookproto.PassThrough()
	}

	state, err := boulder.Read(omcRoot)
	if err != nil || state == nil || !state.Active || state.ActivePlan == "" {
		return hookproto.PassThrough()
	}

	progress := boulder.GetPlanProgress(state.ActivePlan)
	if progress.Total == 0 || progress.Completed == progress.Total {
		return hookproto.PassThrough()
	}

	reminder := fmt.Sprintf(
		"<boulder-progress>\nActive plan %s: %d/%d tasks complete.\n</boulder-progress>",
		filepath.Base(state.ActivePlan), progress.Completed, progress.Total,
	)
	return hookproto.Advisory("PostToolUse", reminder)
}

// checkRecovery scans tool output for a context-limit error signature (a
// tool call can surface the host's own error object back through its
// output when the call itself failed mid-stream) and, when confirmed,
// returns a recovery advisory wrapping the per-session attempt counter.
func checkRecovery(omcRoot string, in PostToolInput) (hookproto.Output, bool) {
	det := recovery.Detect(recovery.ErrorObject{Message: in.ToolOutput, RawJSON: in.ToolOutput})
	if !det.IsContextLimit {
		return hookproto.Output{}, false
	}
	attempt, ok := recovery.RecordAttempt(omcRoot, in.SessionID)
	if !ok {
		return hookproto.Output{}, false
	}
	return hookproto.Advisory("PostToolUse", recovery.Guidance(det, attempt)), true
}

// extractRememberNotes pulls both tag forms out of tool output: a
// <remember priority> block replaces the notepad's Priority Context
// section outright (joined if several appear in one call), a plain
// <remember> block appends to Working Memory.
func extractRememberNotes(output string) (priority string, working []string) {
	if matches := rememberPriorityTag.FindAllStringSubmatch(output, -1); len(matches) > 0 {
		var parts []string
		for _, m := range matches {
			if note := strings.TrimSpace(m[1]); note != "" {
				parts = append(parts, note)
			}
		}
		priority = strings.Join(parts, "\n\n")
	}
	for _, m := range rememberTag.FindAllStringSubmatch(output, -1) {
		if note := strings.TrimSpace(m[1]); note != "" {
			working = append(working, note)
		}
	}
	return priority, working
}

// sectionHeadings is the notepad's fixed section order: Priority Context
// (overwritten wholesale), Working Memory (appended to), MANUAL (never
// touched by the runtime).
var sectionHeadings = []string{priorityHeading, workingHeading, manualHeading}

func isSectionHeading(line string) bool {
	for _, h := range sectionHeadings {
		if line == h {
			return true
		}
	}
	return false
}

// parseNotepad splits raw notepad content into its three section bodies,
// keyed by heading. A heading absent from content simply has no entry.
func parseNotepad(content string) map[string]string {
	sections := make(map[string]string)
	current := ""
	var body []string
	flush := func() {
		if current != "" {
			sections[current] = strings.TrimRight(strings.Join(body, "\n"), "\n")
		}
	}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if isSectionHeading(line) {
			flush()
			current = line
			body = nil
			continue
		}
		if current != "" {
			body = append(body, line)
		}
	}
	flush()
	return sections
}

// rewriteNotepad applies one read-structural_edit-write cycle to
// <omcRoot>/notepad.md: priority (if non-empty) overwrites the Priority
// Context section body, workingNotes are appended as timestamped bullets
// under Working Memory, and MANUAL is carried through untouched.
func rewriteNotepad(omcRoot, priority string, workingNotes []string) error {
	path := filepath.Join(omcRoot, "notepad.md")
	existing, _ := os.ReadFile(path)
	sections := parseNotepad(string(existing))

	if priority != "" {
		sections[priorityHeading] = priority
	}

	if len(workingNotes) > 0 {
		stamp := time.Now().UTC().Format(time.RFC3339)
		var b strings.Builder
		if prior := sections[workingHeading]; prior != "" {
			b.WriteString(prior)
			b.WriteString("\n")
		}
		for _, note := range workingNotes {
			fmt.Fprintf(&b, "- [%s] %s\n", stamp, note)
		}
		sections[workingHeading] = strings.TrimRight(b.String(), "\n")
	}

	var out strings.Builder
	for i, heading := range sectionHeadings {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(heading)
		out.WriteString("\n\n")
		if b := sections[heading]; b != "" {
			out.WriteString(b)
			out.WriteString("\n")
		}
	}
	return store.WriteFileAtomic(path, []byte(out.String()))
}
