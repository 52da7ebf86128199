// ============================================================================
// METADATA
// ============================================================================
// Orchestrator Audit - decision trail for PreToolUse/PostToolUse
//
// Purpose: a thin wrapper over the logging package giving every orchestrator
// decision a uniform "decision" field (allowed/warned/blocked), written to
// <omcRoot>/logs/orchestrator-audit.jsonl. See spec section 4.10.
package orchestrator

import "omc/internal/logging"

// Audit records orchestrator decisions in a single uniform shape.
type Audit struct {
	log *logging.Logger
}

// NewAudit opens the orchestrator-audit log for omcRoot.
func NewAudit(omcRoot string) *Audit {
	return &Audit{log: logging.New(omcRoot, "orchestrator-audit")}
}

// Allowed records a pass-through decision.
func (a *Audit) Allowed(event string, details map[string]any) {
	a.log.Success(event, 10, withDecision(details, "allowed"))
}

// Warned records a non-blocking advisory decision.
func (a *Audit) Warned(event string, details map[string]any) {
	a.log.Failure(event, "advisory", 0, withDecision(details, "warned"))
}

// Blocked records a hard-block decision.
func (a *Audit) Blocked(event, reason string, details map[string]any) {
	a.log.Failure(event, reason, -50, withDecision(details, "blocked"))
}

func withDecision(details map[string]any, decision string) map[string]any {
	if details == nil {
		details = map[string]any{}
	}
	details["decision"] = decision
	return details
}
