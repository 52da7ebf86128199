// ============================================================================
// METADATA
// ============================================================================
// Statusline Renderer - single-line terminal HUD
//
// Purpose: assembles one color-coded terminal line from HUD state, mode
// state, git status, and context-window percentage. Grounded on the
// teacher's statusline/statusline.go orchestrator shape (read inputs,
// delegate formatting to small per-concern helpers, assemble one line) —
// terminal styling itself is delegated to lipgloss rather than the
// teacher's hand-rolled ANSI constants. See SPEC_FULL.md section 4.13.
package statusline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"omc/internal/boulder"
	"omc/internal/context"
	"omc/internal/gitinfo"
	"omc/internal/hud"
	"omc/internal/modes"
)

var (
	modeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	greenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	yellowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	redStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boulderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// contextThresholds mirrors config.Defaults()'s guard/safety thresholds for
// the purpose of color-coding only; the statusline has no config
// dependency of its own, so these are restated rather than imported to
// keep the renderer a pure function of its inputs.
const (
	contextYellowAt = 55
	contextRedAt    = 75
)

// Inputs bundles everything Render needs, gathered by cmd/statusline.
type Inputs struct {
	OmcRoot        string
	WorktreeRoot   string
	TranscriptPath string
}

// Render produces the complete statusline for the given inputs. It never
// returns an error: every sub-reader degrades to its zero value on
// failure, matching the HUD's "read-only, best-effort" contract.
func Render(in Inputs) string {
	segments := []string{
		renderMode(in.OmcRoot),
		renderContext(in.TranscriptPath),
		renderGit(in.WorktreeRoot),
		renderBoulder(in.OmcRoot),
		renderBackground(in.OmcRoot),
	}

	var visible []string
	for _, s := range segments {
		if s != "" {
			visible = append(visible, s)
		}
	}
	return strings.Join(visible, dimStyle.Render(" | "))
}

func renderMode(omcRoot string) string {
	active, ok := modes.ActivePrimary(omcRoot)
	if !ok {
		if modes.IsActive(omcRoot, modes.Ultrawork) {
			return modeStyle.Render("ultrawork")
		}
		return dimStyle.Render("idle")
	}

	label := string(active)
	if s, err := modes.Read(omcRoot, active); err == nil && s != nil {
		switch active {
		case modes.Ralph:
			label = fmt.Sprintf("ralph %d/%d", s.Iteration, s.MaxIterations)
		case modes.Pipeline:
			label = fmt.Sprintf("pipeline %d/%d", s.CurrentStage+1, len(s.Stages))
		}
	}
	if modes.IsActive(omcRoot, modes.Ultrawork) {
		label += "+ultrawork"
	}
	return modeStyle.Render(label)
}

func renderContext(transcriptPath string) string {
	if transcriptPath == "" {
		return ""
	}
	pct := context.EstimatePercent(transcriptPath)
	text := fmt.Sprintf("ctx %d%%", pct)
	switch {
	case pct >= contextRedAt:
		return redStyle.Render(text)
	case pct >= contextYellowAt:
		return yellowStyle.Render(text)
	default:
		return greenStyle.Render(text)
	}
}

func renderGit(worktreeRoot string) string {
	if worktreeRoot == "" || !gitinfo.IsRepository(worktreeRoot) {
		return ""
	}
	info := gitinfo.Get(worktreeRoot)
	if info.Branch == "" {
		return ""
	}
	text := info.Branch
	if info.Dirty {
		text += "*"
	}
	if info.Ahead > 0 {
		text += fmt.Sprintf(" ↑%d", info.Ahead)
	}
	if info.Behind > 0 {
		text += fmt.Sprintf(" ↓%d", info.Behind)
	}
	if len(info.Conflicts) > 0 {
		return redStyle.Render(text + " conflict")
	}
	if info.Dirty {
		return yellowStyle.Render(text)
	}
	return greenStyle.Render(text)
}

func renderBoulder(omcRoot string) string {
	state, err := boulder.Read(omcRoot)
	if err != nil || state == nil || !state.Active || state.ActivePlan == "" {
		return ""
	}
	progress := boulder.GetPlanProgress(state.ActivePlan)
	if progress.Total == 0 {
		return ""
	}
	text := fmt.Sprintf("plan %d/%d", progress.Completed, progress.Total)
	if progress.Completed == progress.Total {
		return greenStyle.Render(text)
	}
	return boulderStyle.Render(text)
}

func renderBackground(omcRoot string) string {
	state := hud.WaitFresh(omcRoot)
	if state.BackgroundTasks == 0 {
		return ""
	}
	return boulderStyle.Render(fmt.Sprintf("bg:%d", state.BackgroundTasks))
}
