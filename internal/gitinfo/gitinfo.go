// ============================================================================
// METADATA
// ============================================================================
// Git Info Library - repository status for the statusline's git badge.
//
// Adapted from: system/runtime/lib/git/operations.go (teacher). Same shape
// (shell out to git, degrade to zero-value on any failure) generalized with
// a context.Context so the statusline's per-tick poll can bound each git
// call instead of risking a hang on a slow filesystem.
package gitinfo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Info is comprehensive git repository status for one worktree.
type Info struct {
	Branch           string
	Dirty            bool
	Ahead            int
	Behind           int
	Stashes          int
	Conflicts        []string
	UncommittedCount int
}

// Get retrieves repository status for dir, bounding every git invocation at
// 1.5s so a slow or hung git process never blocks a hook or the statusline
// tick. Any failure degrades to a zero-value field rather than an error.
func Get(dir string) Info {
	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()

	var info Info
	info.Branch = run(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if info.Branch == "" || info.Branch == "HEAD" {
		if sha := run(ctx, dir, "rev-parse", "--short", "HEAD"); sha != "" {
			info.Branch = sha
		}
	}
	if info.Branch == "" {
		return info
	}

	if status := run(ctx, dir, "status", "--porcelain"); status != "" {
		info.Dirty = true
		info.UncommittedCount = len(strings.Split(status, "\n"))
	}

	if counts := run(ctx, dir, "rev-list", "--left-right", "--count", "HEAD...@{upstream}"); counts != "" {
		parts := strings.Fields(counts)
		if len(parts) == 2 {
			info.Ahead, _ = strconv.Atoi(parts[0])
			info.Behind, _ = strconv.Atoi(parts[1])
		}
	}

	if stashes := run(ctx, dir, "stash", "list"); stashes != "" {
		info.Stashes = len(strings.Split(stashes, "\n"))
	}

	if conflicts := run(ctx, dir, "diff", "--name-only", "--diff-filter=U"); conflicts != "" {
		info.Conflicts = strings.Split(conflicts, "\n")
	}

	return info
}

// IsRepository reports whether dir (or an ancestor) is inside a git
// worktree, by running `git rev-parse --is-inside-work-tree`. It returns
// false when no git binary is on PATH.
func IsRepository(dir string) bool {
	_, err := exec.LookPath("git")
	if err != nil {
		return false
	}
	return run(context.Background(), dir, "rev-parse", "--is-inside-work-tree") == "true"
}

func run(ctx context.Context, dir string, args ...string) string {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// HeadFile reads <dir>/.git/HEAD directly, used as a lock-free fallback
// when shelling out to git is undesirable (the teacher's original
// GetBranch approach).
func HeadFile(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, ".git", "HEAD"))
	if err != nil {
		return "", fmt.Errorf("omc/gitinfo: read HEAD: %w", err)
	}
	content := strings.TrimSpace(string(data))
	const prefix = "ref: refs/heads/"
	if strings.HasPrefix(content, prefix) {
		return strings.TrimPrefix(content, prefix), nil
	}
	if len(content) >= 7 {
		return content[:7], nil
	}
	return "", fmt.Errorf("omc/gitinfo: unrecognized HEAD content")
}
