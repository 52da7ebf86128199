// ============================================================================
// METADATA
// ============================================================================
// Recovery - context-window-exhausted error detection and guidance
//
// Purpose: detects token-limit signatures in a host error object's textual
// fields, distinguishes them from unrelated "thinking-block structure"
// errors, and returns a structured recovery message with a per-session
// retry counter. See spec section 4.11.
package recovery

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"omc/internal/store"
)

const (
	// maxAttempts caps the per-session retry counter at 3, per spec.
	maxAttempts = 3
	// attemptTTL matches the 5-minute window named in spec section 4.11.
	attemptTTL = 5 * time.Minute
)

// tokenLimitSignatures are matched against every textual field of the
// error object.
var tokenLimitSignatures = []string{
	"token_limit", "context_limit", "context_window", "max_tokens",
	"too many tokens", "context length exceeded", "maximum context length",
}

// thinkingBlockSignature identifies a structurally unrelated error that
// happens to mention "tokens" — spec section 4.11 calls this out
// explicitly as something to skip rather than misclassify.
var thinkingBlockSignature = regexp.MustCompile(`(?i)thinking block`)

// ErrorObject is the subset of a host error payload this package inspects.
// Every field is optional; Detect scans whichever are non-empty.
type ErrorObject struct {
	Message           string
	Reason            string
	Description       string
	NestedErrorMsg    string
	ResponseBody      string
	RawJSON           string
}

// textualFields returns every non-empty field to scan, in the order spec
// section 4.11 lists them.
func (e ErrorObject) textualFields() []string {
	var fields []string
	for _, f := range []string{e.Message, e.ResponseBody, e.NestedErrorMsg, e.Reason, e.Description, e.RawJSON} {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// Detection is the outcome of Detect.
type Detection struct {
	IsContextLimit bool
	CurrentTokens  int
	MaxTokens      int
}

var tokenCountPattern = regexp.MustCompile(`(\d+)\s*(?:/|of|\s)\s*(\d+)\s*tokens`)

// Detect scans err's textual fields for a token-limit signature, skipping
// "thinking block" structural errors even if they mention tokens.
func Detect(err ErrorObject) Detection {
	for _, field := range err.textualFields() {
		if thinkingBlockSignature.MatchString(field) {
			continue
		}
		lower := strings.ToLower(field)
		for _, sig := range tokenLimitSignatures {
			if strings.Contains(lower, sig) {
				det := Detection{IsContextLimit: true}
				if m := tokenCountPattern.FindStringSubmatch(field); m != nil {
					fmt.Sscanf(m[1], "%d", &det.CurrentTokens)
					fmt.Sscanf(m[2], "%d", &det.MaxTokens)
				}
				return det
			}
		}
	}
	return Detection{}
}

type attemptState struct {
	Count     int   `json:"count"`
	UpdatedAt int64 `json:"updatedAt"`
}

func attemptPath(omcRoot, sessionID string) string {
	return omcRoot + "/state/recovery-attempts-" + sessionID + ".json"
}

// RecordAttempt increments and returns the per-session recovery-attempt
// counter, resetting it if the last attempt is older than attemptTTL.
// Returns ok=false once maxAttempts has been reached — callers should stop
// emitting recovery guidance and let the session fail through to the host.
func RecordAttempt(omcRoot, sessionID string) (attempt int, ok bool) {
	var s attemptState
	found, _ := store.ReadJSON(attemptPath(omcRoot, sessionID), &s)
	if !found || time.Since(time.UnixMilli(s.UpdatedAt)) > attemptTTL {
		s = attemptState{}
	}
	if s.Count >= maxAttempts {
		return s.Count, false
	}
	s.Count++
	s.UpdatedAt = time.Now().UnixMilli()
	_ = store.WriteJSONAtomic(attemptPath(omcRoot, sessionID), &s)
	return s.Count, true
}

// Guidance renders the advisory message injected into context when a
// context-limit error is confirmed.
func Guidance(det Detection, attempt int) string {
	if det.MaxTokens > 0 {
		return fmt.Sprintf(
			"[OMC] Context limit hit (%d/%d tokens, attempt %d/%d). Run /compact or start a fresh session before retrying.",
			det.CurrentTokens, det.MaxTokens, attempt, maxAttempts,
		)
	}
	return fmt.Sprintf(
		"[OMC] Context limit hit (attempt %d/%d). Run /compact or start a fresh session before retrying.",
		attempt, maxAttempts,
	)
}
