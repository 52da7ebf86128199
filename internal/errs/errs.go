// Package errs defines the sentinel error taxonomy shared across the omc
// runtime, matching spec section 7's error taxonomy. Hook handlers test
// against these with errors.Is rather than string matching.
package errs

import "errors"

var (
	// ErrUserInputInvalid covers session-ID validation failures and
	// prompt/paths that escape the worktree boundary.
	ErrUserInputInvalid = errors.New("omc: user input invalid")

	// ErrTransientState covers lock timeouts and tmp-rename failures.
	// Callers treat the operation as a no-op and continue.
	ErrTransientState = errors.New("omc: transient state error")

	// ErrContextLimitDetected signals the recovery path was triggered by a
	// token/context-limit error in the host's output.
	ErrContextLimitDetected = errors.New("omc: context limit detected")

	// ErrHostToolPolicyViolation covers shell-metacharacter rejections and
	// orchestrator write-to-source-file attempts.
	ErrHostToolPolicyViolation = errors.New("omc: host tool policy violation")

	// ErrExternalGateway covers notification/HTTP failures. Never surfaced
	// to the host; swallowed at the call site.
	ErrExternalGateway = errors.New("omc: external gateway error")

	// ErrConfigCorrupt covers malformed JSON in state files. Treated as
	// equivalent to a missing file by readers.
	ErrConfigCorrupt = errors.New("omc: config corrupt")

	// ErrModeConflict signals a primary mode activation attempted while
	// another primary mode is already active.
	ErrModeConflict = errors.New("omc: mode conflict")
)
