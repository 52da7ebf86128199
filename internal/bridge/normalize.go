// ============================================================================
// METADATA
// ============================================================================
// Key Normalization - snake_case/camelCase folding for hook stdin JSON
//
// Purpose: the host is observed to send both casing conventions depending
// on event type and version; spec section 4.12 step 3 requires both map to
// one canonical camelCase shape before any handler sees the payload.
package bridge

import (
	"encoding/json"

	"omc/internal/hookproto"
)

// aliasGroups lists every accepted spelling for each canonical field, in
// the precedence order checked (first present key in the raw object wins).
var aliasGroups = map[string][]string{
	"sessionId":       {"sessionId", "session_id"},
	"cwd":             {"cwd", "directory", "working_directory"},
	"transcriptPath":  {"transcriptPath", "transcript_path"},
	"prompt":          {"prompt", "user_prompt"},
	"toolName":        {"toolName", "tool_name"},
	"toolInput":       {"toolInput", "tool_input"},
	"toolOutput":      {"toolOutput", "tool_output", "tool_response"},
	"stopReason":      {"stopReason", "stop_reason"},
	"userRequested":   {"userRequested", "user_requested"},
	"endTurnReason":   {"endTurnReason", "end_turn_reason"},
	"parentSessionId": {"parentSessionId", "parent_session_id", "parentSessionID"},
	"incompleteTodos": {"incompleteTodos", "incomplete_todos"},
}

// normalize parses raw as a JSON object, folds every alias group to its
// canonical key, and decodes the result into an Input. ok is false when
// raw is not valid JSON or is not a JSON object — both cases are treated
// as a parse failure per spec section 4.12 step 2.
func normalize(raw []byte) (hookproto.Input, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return hookproto.Input{}, false
	}

	canonical := make(map[string]json.RawMessage, len(aliasGroups))
	for field, aliases := range aliasGroups {
		for _, alias := range aliases {
			if v, ok := obj[alias]; ok {
				canonical[field] = v
				break
			}
		}
	}

	merged, err := json.Marshal(canonical)
	if err != nil {
		return hookproto.Input{}, false
	}

	var in hookproto.Input
	if err := json.Unmarshal(merged, &in); err != nil {
		return hookproto.Input{}, false
	}
	return in, true
}
