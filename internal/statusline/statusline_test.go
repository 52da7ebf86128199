package statusline

import (
	"os"
	"path/filepath"
	"testing"

	"omc/internal/boulder"
	"omc/internal/modes"
)

func TestRenderIdleWithNoState(t *testing.T) {
	dir := t.TempDir()
	out := Render(Inputs{OmcRoot: dir})
	if out == "" {
		t.Fatalf("expected a non-empty idle statusline")
	}
}

func TestRenderShowsActiveRalphMode(t *testing.T) {
	dir := t.TempDir()
	if err := modes.Start(dir, modes.Ralph, "s1", func(s *modes.State) {
		s.Iteration = 2
		s.MaxIterations = 10
	}); err != nil {
		t.Fatal(err)
	}
	out := Render(Inputs{OmcRoot: dir})
	if out == "" {
		t.Fatalf("expected non-empty statusline")
	}
}

func TestRenderIncludesBoulderProgress(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.md")
	if err := os.WriteFile(planPath, []byte("- [x] one\n- [ ] two\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := boulder.Write(dir, &boulder.State{Active: true, ActivePlan: planPath}); err != nil {
		t.Fatal(err)
	}
	out := Render(Inputs{OmcRoot: dir})
	if out == "" {
		t.Fatalf("expected non-empty statusline with boulder progress")
	}
}

func TestRenderNoWorktreeSkipsGit(t *testing.T) {
	dir := t.TempDir()
	out := Render(Inputs{OmcRoot: dir, WorktreeRoot: ""})
	if out == "" {
		t.Fatalf("expected idle statusline even with no worktree")
	}
}
