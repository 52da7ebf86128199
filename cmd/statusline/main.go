// ============================================================================
// METADATA
// ============================================================================
// statusline entry point - reads the host's statusline stdin JSON, resolves
// omc/worktree roots, and prints one rendered line. See SPEC_FULL.md
// section 4.13.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"omc/internal/paths"
	"omc/internal/statusline"
)

// stdinPayload is the subset of the host's statusline JSON this binary
// needs; unrecognized fields are ignored.
type stdinPayload struct {
	Cwd            string `json:"cwd"`
	TranscriptPath string `json:"transcript_path"`
}

func main() {
	var payload stdinPayload
	if data, err := io.ReadAll(os.Stdin); err == nil {
		_ = json.Unmarshal(data, &payload)
	}

	cwd := payload.Cwd
	if cwd == "" {
		cwd, _ = os.Getwd()
	}

	worktreeRoot := paths.ResolveWorktreeRoot(cwd)
	omcRoot := paths.GetOmcRoot(worktreeRoot)

	fmt.Println(statusline.Render(statusline.Inputs{
		OmcRoot:        omcRoot,
		WorktreeRoot:   worktreeRoot,
		TranscriptPath: payload.TranscriptPath,
	}))
}
