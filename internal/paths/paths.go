// ============================================================================
// METADATA
// ============================================================================
// Paths Library - Worktree & OMC root resolution
//
// Purpose: Locates the worktree root from any working directory, derives a
// stable project identifier, places state under .omc/ or a centralized
// override root, and validates session IDs. See spec section 4.1.
//
// Adapted from: system/runtime/lib/paths + system/runtime/lib/fs (teacher).
// The teacher's paths.go loads a static paths.toml; this library instead
// computes paths dynamically from the worktree, since omc state is
// per-project rather than per-install.
package paths

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"omc/internal/errs"
)

// sessionIDPattern matches spec section 3's session-ID grammar.
var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// worktreeCache is the one module-level global permitted by the design
// notes ("Global mutable state: one module-level cache exists (worktree
// path cache) with an explicit reset for tests. No other global state is
// permitted.").
var worktreeCache = struct {
	mu sync.Mutex
	m  map[string]string
}{m: make(map[string]string)}

// ResetCache clears the worktree-root cache. Exported for tests only.
func ResetCache() {
	worktreeCache.mu.Lock()
	defer worktreeCache.mu.Unlock()
	worktreeCache.m = make(map[string]string)
}

// ResolveWorktreeRoot returns the git top-level directory of dir, falling
// back to dir itself when dir is not inside a git repository. Results are
// cached by input path for the lifetime of the process.
func ResolveWorktreeRoot(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	worktreeCache.mu.Lock()
	if cached, ok := worktreeCache.m[abs]; ok {
		worktreeCache.mu.Unlock()
		return cached
	}
	worktreeCache.mu.Unlock()

	root := abs
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = abs
	if out, err := cmd.Output(); err == nil {
		if top := strings.TrimSpace(string(out)); top != "" {
			root = top
		}
	}

	worktreeCache.mu.Lock()
	worktreeCache.m[abs] = root
	worktreeCache.mu.Unlock()

	return root
}

// projectIdentifier returns <basename>-<first-16-hex-of-sha256(remote-or-path)>,
// the centralized-state naming scheme from spec section 3.
func projectIdentifier(worktreeRoot string) string {
	remote := gitRemoteURL(worktreeRoot)
	hashSource := remote
	if hashSource == "" {
		hashSource = worktreeRoot
	}
	sum := sha256.Sum256([]byte(hashSource))
	short := hex.EncodeToString(sum[:])[:16]
	return fmt.Sprintf("%s-%s", filepath.Base(worktreeRoot), short)
}

func gitRemoteURL(worktreeRoot string) string {
	cmd := exec.Command("git", "remote", "get-url", "origin")
	cmd.Dir = worktreeRoot
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// GetOmcRoot returns <worktreeRoot>/.omc, or the centralized-state path
// <OMC_STATE_DIR>/<project-identifier> when OMC_STATE_DIR is set. It never
// creates the directory; creation is the writer's responsibility.
func GetOmcRoot(worktreeRoot string) string {
	if override := os.Getenv("OMC_STATE_DIR"); override != "" {
		return filepath.Join(override, projectIdentifier(worktreeRoot))
	}
	return filepath.Join(worktreeRoot, ".omc")
}

// ResolveOmcPath joins relative onto omcRoot and validates that the result
// stays under omcRoot: no ".." traversal, no absolute-path escape.
func ResolveOmcPath(omcRoot, relative string) (string, error) {
	if filepath.IsAbs(relative) {
		return "", fmt.Errorf("%w: absolute path not allowed: %s", errs.ErrUserInputInvalid, relative)
	}
	joined := filepath.Join(omcRoot, relative)
	cleanRoot := filepath.Clean(omcRoot)
	rel, err := filepath.Rel(cleanRoot, joined)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrUserInputInvalid, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path escapes omc root: %s", errs.ErrUserInputInvalid, relative)
	}
	return joined, nil
}

// ValidateSessionID rejects empty IDs and any character outside
// [A-Za-z0-9._-], the traversal-prevention rule from spec section 3.
func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty session id", errs.ErrUserInputInvalid)
	}
	if !sessionIDPattern.MatchString(id) {
		return fmt.Errorf("%w: session id contains invalid characters: %q", errs.ErrUserInputInvalid, id)
	}
	return nil
}

// ErrNoFallback is returned by FallbackSessionID callers that want to
// distinguish "host supplied nothing" from a validation failure; kept as a
// sentinel rather than a bare string per repo convention.
var ErrNoFallback = errors.New("omc: no session id supplied")
