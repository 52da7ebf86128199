// ============================================================================
// METADATA
// ============================================================================
// Persistent-mode Stop Gate - the central Stop-event arbiter
//
// Purpose: decides whether to allow the session to stop, emit a
// continuation, or block with a diagnostic, honoring context-limit safety
// and retry caps. See spec section 4.9; this is the hard engineering core
// named in section 1.
package stopgate

import (
	"fmt"
	"strings"

	"omc/internal/config"
	"omc/internal/context"
	"omc/internal/hookproto"
	"omc/internal/modes"
)

// Input bundles what the gate needs from one Stop-event hook invocation.
type Input struct {
	OmcRoot         string
	SessionID       string
	StopReason      string
	TranscriptPath  string
	IncompleteTodos int
}

// contextLimitSignatures is spec section 4.9 step 1's exhaustive list.
var contextLimitSignatures = []string{
	"context_limit", "context_window", "context_exceeded", "context_full",
	"max_context", "token_limit", "max_tokens", "conversation_too_long",
	"input_too_long",
}

// userAbortExact is spec section 4.9 step 2's exact-match set.
var userAbortExact = map[string]bool{
	"aborted": true, "abort": true, "cancel": true, "interrupt": true,
}

// userAbortSubstrings is step 2's contains-match set.
var userAbortSubstrings = []string{
	"user_cancel", "user_interrupt", "ctrl_c", "manual_stop",
}

// Decide runs the full arbitration procedure. It never returns an error to
// the caller in a way that should block the host — any internal error is
// converted to a pass-through, matching spec section 4.9's "the runtime
// NEVER throws out of the hook process" rule.
func Decide(in Input, cfg config.Config) hookproto.Output {
	reason := strings.ToLower(strings.TrimSpace(in.StopReason))

	// Step 1: safety. Context-limit stops always pass through, uncounted.
	for _, sig := range contextLimitSignatures {
		if strings.Contains(reason, sig) {
			return hookproto.PassThrough()
		}
	}

	// Step 2: user abort.
	if userAbortExact[reason] {
		return hookproto.PassThrough()
	}
	for _, sub := range userAbortSubstrings {
		if strings.Contains(reason, sub) {
			return hookproto.PassThrough()
		}
	}

	// Step 3: retry budget.
	if readBlockCount(in.OmcRoot, in.SessionID) >= cfg.MaxBlocks {
		return hookproto.PassThrough()
	}

	// Step 4: context safety threshold.
	if in.TranscriptPath != "" {
		pct := context.EstimatePercent(in.TranscriptPath)
		if pct >= cfg.ContextGuardThreshold {
			count := incrementBlockCount(in.OmcRoot, in.SessionID)
			msg := fmt.Sprintf(
				"[OMC] Context at %d%% — this exceeds the %d%% guard threshold. Run /compact or start a fresh session. (Block %d/%d)",
				pct, cfg.ContextGuardThreshold, count, cfg.MaxBlocks,
			)
			return hookproto.Block(msg)
		}
	}

	// Step 5: mode arbitration, in priority order (ralph, then
	// autopilot/ultrapilot, then ultrawork overlay — modes.Order already
	// reflects this). Each controller runs exactly once per Stop event —
	// several controllers mutate state (ralph's iteration counter,
	// ultrawork's reinforcement counter), so re-invoking one to check a
	// second condition would double-advance it.
	var firstHandled *hookproto.Output
	for _, controller := range modes.Order {
		result, err := controller(in.OmcRoot, in.SessionID)
		if err != nil || !result.Handled {
			continue
		}
		if result.Output.Decision == "block" {
			return result.Output
		}
		if firstHandled == nil {
			out := result.Output
			firstHandled = &out
		}
	}
	if firstHandled != nil {
		return *firstHandled
	}

	// Step 6: todo continuation.
	if in.IncompleteTodos > 0 {
		if _, active := modes.ActivePrimary(in.OmcRoot); !active {
			count := incrementBlockCount(in.OmcRoot, in.SessionID)
			msg := fmt.Sprintf("[OMC] %d todo item(s) remain incomplete. (Block %d/%d)", in.IncompleteTodos, count, cfg.MaxBlocks)
			return hookproto.Block(msg)
		}
	}

	return hookproto.PassThrough()
}
