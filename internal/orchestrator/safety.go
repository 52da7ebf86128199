// ============================================================================
// METADATA
// ============================================================================
// Orchestrator Safety - shell command allow-listing
//
// Purpose: matches shell-tool commands against an allow-list of safe
// prefixes and rejects any command containing shell metacharacters, with a
// narrow heredoc exception. See spec section 4.10.
package orchestrator

import (
	"regexp"
	"strings"
)

// safeCommandPrefixes are the base commands spec section 4.10 names as an
// example allow-list; real deployments extend this via config, but the
// defaults cover the common read-only / test-runner cases named in the
// spec text.
var safeCommandPrefixes = []string{
	"git status", "git diff", "git log", "git show", "git branch",
	"npm test", "npm run test", "tsc", "pytest", "go test", "go vet",
	"go build", "ls", "cat", "pwd", "wc", "head", "tail", "grep", "rg",
	"find",
}

// rejectedMetacharacters is spec section 4.10's exact rejection set.
const rejectedMetacharacters = ";|&$`()<>\n\r\t*?[]{}~!#"

// heredocCommand captures the opening delimiter (group 2) and the final
// line (group 4); IsSafeCommand requires the two to be equal.
var heredocCommand = regexp.MustCompile(`(?s)^\s*(\S[^<\n]*)<<[-~]?\s*['"]?(\w+)['"]?\s*\n(.*)\n(\w+)\s*$`)

// IsSafeCommand reports whether command is allowed to run unconfirmed:
// its base command is on the allow-list AND it contains none of the
// rejected metacharacters, OR it is a heredoc whose base command is itself
// on the allow-list (spec section 4.10's "multi-line form" exception).
func IsSafeCommand(command string, extraPrefixes []string) bool {
	prefixes := safeCommandPrefixes
	if len(extraPrefixes) > 0 {
		prefixes = append(append([]string{}, safeCommandPrefixes...), extraPrefixes...)
	}

	if m := heredocCommand.FindStringSubmatch(command); m != nil && m[2] == m[4] {
		base := strings.TrimSpace(m[1])
		return hasAllowedPrefix(base, prefixes) && !containsRejected(base)
	}

	if containsRejected(command) {
		return false
	}
	return hasAllowedPrefix(strings.TrimSpace(command), prefixes)
}

func hasAllowedPrefix(command string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(command, prefix) {
			return true
		}
	}
	return false
}

func containsRejected(s string) bool {
	return strings.ContainsAny(s, rejectedMetacharacters)
}
