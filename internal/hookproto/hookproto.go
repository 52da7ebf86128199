// ============================================================================
// METADATA
// ============================================================================
// Hook Protocol - canonical input/output shapes for the host's hook JSON
// protocol.
//
// Purpose: spec section 6 defines the stdin/stdout JSON contract; this
// package is the single place that shape is declared so every hook handler
// and the bridge dispatcher share one vocabulary.
package hookproto

// Kind enumerates the hook-event types the bridge recognizes.
type Kind string

const (
	KindUserPromptSubmit Kind = "UserPromptSubmit"
	KindPreToolUse       Kind = "PreToolUse"
	KindPostToolUse      Kind = "PostToolUse"
	KindStop             Kind = "Stop"
	KindSubagentStop     Kind = "SubagentStop"
	KindSessionStart     Kind = "SessionStart"
	KindSessionEnd       Kind = "SessionEnd"
	KindPreCompact       Kind = "PreCompact"
	KindNotification     Kind = "Notification"
)

// Input is the normalized shape of one hook stdin payload. Both snake_case
// and camelCase keys from the host are folded into these canonical
// camelCase fields by the bridge's normalizer (internal/bridge).
type Input struct {
	Kind             Kind           `json:"-"`
	SessionID        string         `json:"sessionId"`
	Cwd              string         `json:"cwd"`
	TranscriptPath   string         `json:"transcriptPath"`
	Prompt           string         `json:"prompt,omitempty"`
	ToolName         string         `json:"toolName,omitempty"`
	ToolInput        map[string]any `json:"toolInput,omitempty"`
	ToolOutput       string         `json:"toolOutput,omitempty"`
	StopReason       string         `json:"stopReason,omitempty"`
	UserRequested    bool           `json:"userRequested,omitempty"`
	EndTurnReason    string         `json:"endTurnReason,omitempty"`
	ParentSessionID  string         `json:"parentSessionId,omitempty"`
	IncompleteTodos  int            `json:"incompleteTodos,omitempty"`
}

// HookSpecificOutput carries an advisory injection.
type HookSpecificOutput struct {
	HookEventName   string `json:"hookEventName,omitempty"`
	AdditionalContext string `json:"additionalContext,omitempty"`
}

// Output is the canonical stdout shape. Exactly one of the three forms
// described in spec section 6 is populated:
//   - Pass-through: Continue=true, SuppressOutput=true.
//   - Advisory: Continue=true, HookSpecificOutput set.
//   - Block: Decision="block", Reason set.
type Output struct {
	Continue            bool                 `json:"continue,omitempty"`
	SuppressOutput      bool                 `json:"suppressOutput,omitempty"`
	HookSpecificOutput  *HookSpecificOutput  `json:"hookSpecificOutput,omitempty"`
	Decision            string               `json:"decision,omitempty"`
	Reason              string               `json:"reason,omitempty"`
	ModifiedInput       map[string]any       `json:"modifiedInput,omitempty"`
}

// PassThrough is the {"continue": true, "suppressOutput": true} response.
func PassThrough() Output {
	return Output{Continue: true, SuppressOutput: true}
}

// Advisory injects additionalContext without blocking.
func Advisory(hookEventName, additionalContext string) Output {
	return Output{
		Continue: true,
		HookSpecificOutput: &HookSpecificOutput{
			HookEventName:     hookEventName,
			AdditionalContext: additionalContext,
		},
	}
}

// Block decision-blocks the host's stop/tool-use with reason.
func Block(reason string) Output {
	return Output{Decision: "block", Reason: reason}
}
