// ============================================================================
// METADATA
// ============================================================================
// UserPromptSubmit hook - keyword detection, mode activation, ralplan gate.
// See spec section 4.5 and SPEC_FULL.md section 6's data-flow summary.
package main

import (
	"fmt"
	"strings"

	"omc/internal/bridge"
	"omc/internal/config"
	"omc/internal/hookproto"
	"omc/internal/hud"
	"omc/internal/keyword"
	"omc/internal/modes"
	"omc/internal/paths"
)

func main() {
	bridge.Run(hookproto.KindUserPromptSubmit, handle)
}

func handle(in hookproto.Input) hookproto.Output {
	worktreeRoot := paths.ResolveWorktreeRoot(in.Cwd)
	omcRoot := paths.GetOmcRoot(worktreeRoot)
	cfg := config.Load(worktreeRoot, omcRoot)

	_ = hud.TouchPrompt(omcRoot)

	result := keyword.Detect(in.Prompt, keyword.Flags{
		TeamEnabled:    cfg.TeamEnabled,
		EcomodeEnabled: cfg.EcomodeEnabled,
	}, cfg.SuppressHeavyForSmall)

	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = paths.FallbackSessionID()
	}

	for _, kw := range result.Keywords {
		if kw == keyword.Cancel {
			cancelAllModes(omcRoot)
			return hookproto.Advisory(string(hookproto.KindUserPromptSubmit), "All active modes cancelled.")
		}
		if mode, ok := modeFor(kw); ok {
			_ = modes.Start(omcRoot, mode, sessionID, nil)
		}
	}

	if result.RalplanGated {
		return hookproto.Advisory(
			string(hookproto.KindUserPromptSubmit),
			"<ralplan-gate>\nThis request looks underspecified for direct execution. Producing a plan first (ralplan) rather than starting an execution mode.\n</ralplan-gate>",
		)
	}

	if len(result.SuppressedKeywords) > 0 {
		var names []string
		for _, kw := range result.SuppressedKeywords {
			names = append(names, string(kw))
		}
		return hookproto.Advisory(
			string(hookproto.KindUserPromptSubmit),
			fmt.Sprintf("<mode-suppressed>\nSuppressed for a small task: %s\n</mode-suppressed>", strings.Join(names, ", ")),
		)
	}

	return hookproto.PassThrough()
}

// modeFor maps an execution keyword to the mode it starts. Overlay
// keywords (ultrawork, tdd) and non-mode keywords (ultrathink, deepsearch,
// analyze, codex, gemini, ralplan) are not primary/overlay mode starters
// handled here beyond ultrawork/tdd, which the registry itself treats as
// non-exclusive overlays.
func modeFor(kw keyword.Keyword) (modes.Name, bool) {
	switch kw {
	case keyword.RalphKW:
		return modes.Ralph, true
	case keyword.Autopilot:
		return modes.Autopilot, true
	case keyword.Ultrapilot:
		return modes.Ultrapilot, true
	case keyword.Team:
		return modes.Team, true
	case keyword.Swarm:
		return modes.Swarm, true
	case keyword.Pipeline:
		return modes.Pipeline, true
	case keyword.Ultrawork:
		return modes.Ultrawork, true
	case keyword.TDD:
		return modes.TDD, true
	default:
		return "", false
	}
}

func cancelAllModes(omcRoot string) {
	for _, mode := range modes.All {
		if modes.IsActive(omcRoot, mode) {
			_ = modes.Stop(omcRoot, mode)
		}
	}
}
