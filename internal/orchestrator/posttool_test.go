package orchestrator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"omc/internal/boulder"
)

func TestPostToolUseCapturesRememberTags(t *testing.T) {
	dir := t.TempDir()
	output := "some tool ran\n<remember>the DB migration lives in migrations/0007</remember>\nmore text"
	PostToolUse(dir, PostToolInput{ToolName: "Bash", ToolOutput: output})

	data, err := os.ReadFile(filepath.Join(dir, "notepad.md"))
	if err != nil {
		t.Fatalf("expected notepad.md to be written: %v", err)
	}
	if !strings.Contains(string(data), "the DB migration lives in migrations/0007") {
		t.Fatalf("expected captured note in notepad, got %q", string(data))
	}
}

func TestPostToolUseNoRememberTagsNoFile(t *testing.T) {
	dir := t.TempDir()
	PostToolUse(dir, PostToolInput{ToolName: "Bash", ToolOutput: "nothing interesting"})
	if _, err := os.Stat(filepath.Join(dir, "notepad.md")); err == nil {
		t.Fatalf("did not expect notepad.md to be created")
	}
}

func TestPostToolUseTaskWithActivePlanAdvises(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.md")
	if err := os.WriteFile(planPath, []byte("- [x] done one\n- [ ] pending one\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := boulder.Write(dir, &boulder.State{Active: true, ActivePlan: planPath}); err != nil {
		t.Fatal(err)
	}

	out := PostToolUse(dir, PostToolInput{ToolName: "Task", ToolOutput: ""})
	if out.HookSpecificOutput == nil {
		t.Fatalf("expected boulder-progress advisory, got %+v", out)
	}
	if !strings.Contains(out.HookSpecificOutput.AdditionalContext, "1/2") {
		t.Fatalf("expected 1/2 progress in advisory, got %q", out.HookSpecificOutput.AdditionalContext)
	}
}

func TestPostToolUseTaskNoActivePlanPassesThrough(t *testing.T) {
	dir := t.TempDir()
	out := PostToolUse(dir, PostToolInput{ToolName: "Task", ToolOutput: ""})
	if out.HookSpecificOutput != nil {
		t.Fatalf("did not expect advisory with no active boulder, got %+v", out)
	}
}

func TestPostToolUseCapturesPriorityRememberTag(t *testing.T) {
	dir := t.TempDir()
	output := "<remember priority>always run lint before commit</remember>"
	PostToolUse(dir, PostToolInput{ToolName: "Bash", ToolOutput: output})

	data, err := os.ReadFile(filepath.Join(dir, "notepad.md"))
	if err != nil {
		t.Fatalf("expected notepad.md to be written: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, priorityHeading) || !strings.Contains(content, "always run lint before commit") {
		t.Fatalf("expected priority content under %q, got %q", priorityHeading, content)
	}

	// A second priority tag overwrites rather than accumulates.
	PostToolUse(dir, PostToolInput{
		ToolName:   "Bash",
		ToolOutput: "<remember priority>always run tests before commit</remember>",
	})
	data, err = os.ReadFile(filepath.Join(dir, "notepad.md"))
	if err != nil {
		t.Fatal(err)
	}
	content = string(data)
	if strings.Contains(content, "always run lint before commit") {
		t.Fatalf("expected old priority content overwritten, got %q", content)
	}
	if !strings.Contains(content, "always run tests before commit") {
		t.Fatalf("expected new priority content present, got %q", content)
	}
}

func TestPostToolUseNotepadHasThreeSectionsAndPreservesManual(t *testing.T) {
	dir := t.TempDir()
	notepadPath := filepath.Join(dir, "notepad.md")
	seed := "## Priority Context\n\nold priority\n\n## Working Memory\n\n- [2020-01-01T00:00:00Z] earlier note\n\n## MANUAL\n\nhand-written operator notes\n"
	if err := os.WriteFile(notepadPath, []byte(seed), 0o600); err != nil {
		t.Fatal(err)
	}

	PostToolUse(dir, PostToolInput{
		ToolName:   "Bash",
		ToolOutput: "<remember>fresh working-memory note</remember>",
	})

	data, err := os.ReadFile(notepadPath)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, heading := range []string{priorityHeading, workingHeading, manualHeading} {
		if !strings.Contains(content, heading) {
			t.Fatalf("expected section %q in notepad, got %q", heading, content)
		}
	}
	if !strings.Contains(content, "hand-written operator notes") {
		t.Fatalf("expected MANUAL section preserved untouched, got %q", content)
	}
	if !strings.Contains(content, "earlier note") || !strings.Contains(content, "fresh working-memory note") {
		t.Fatalf("expected Working Memory to retain earlier note and append new one, got %q", content)
	}
	if !strings.Contains(content, "old priority") {
		t.Fatalf("expected Priority Context left untouched when no priority tag present, got %q", content)
	}
}

func TestPostToolUseNoReminderWhenPlanFullyComplete(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.md")
	if err := os.WriteFile(planPath, []byte("- [x] done one\n- [x] done two\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := boulder.Write(dir, &boulder.State{Active: true, ActivePlan: planPath}); err != nil {
		t.Fatal(err)
	}

	out := PostToolUse(dir, PostToolInput{ToolName: "Task", ToolOutput: ""})
	if out.HookSpecificOutput != nil {
		t.Fatalf("did not expect advisory once plan is fully complete, got %+v", out)
	}
}
