// ============================================================================
// METADATA
// ============================================================================
// Task-size classifier - small/medium/large prompt classification
//
// Purpose: classifies a prompt by explicit escape-hatch prefixes, size
// signal phrases, and effective word count, in that priority order. See
// spec section 4.6.
package tasksize

import (
	"regexp"
	"strings"
)

// Size is one of small, medium, large.
type Size string

const (
	Small  Size = "small"
	Medium Size = "medium"
	Large  Size = "large"
)

// Thresholds configures the word-count fallback tier (decision step 4).
type Thresholds struct {
	SmallWordLimit int
	LargeWordLimit int
}

// DefaultThresholds matches spec section 4.6's stated defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{SmallWordLimit: 50, LargeWordLimit: 200}
}

// Result is the full classification outcome.
type Result struct {
	Size          Size
	Reason        string
	WordCount     int
	HasEscapeHatch bool
}

var escapeHatchPrefix = regexp.MustCompile(`(?i)^\s*(quick|simple|tiny|minor|small|just|only)\s*:`)

var largeSignalPhrases = []string{
	"architecture", "refactor", "redesign", "entire codebase", "all files",
	"multiple files", "migrate", "from scratch", "end-to-end", "overhaul",
	"comprehensive",
}

var smallSignalPhrases = []string{
	"typo", "spelling", "rename", "single file", "in this file",
	"this function", "minor fix", "quick fix", "whitespace", "indentation",
	"add a comment", "bump version",
}

// CountWords returns the number of maximal non-whitespace runs in s: 0 iff
// the trimmed input is empty.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// Classify applies the four-step decision order from spec section 4.6: an
// escape-hatch prefix wins outright, then a large-signal phrase, then a
// small-signal phrase, then raw word count against thresholds.
func Classify(text string, thresholds Thresholds) Result {
	hasEscape := escapeHatchPrefix.MatchString(text)
	wordCount := CountWords(text)
	lower := strings.ToLower(text)

	if hasEscape {
		return Result{Size: Small, Reason: "escape-hatch prefix", WordCount: wordCount, HasEscapeHatch: true}
	}

	if phrase, ok := matchAny(lower, largeSignalPhrases); ok {
		return Result{Size: Large, Reason: "large-signal phrase: " + phrase, WordCount: wordCount}
	}

	if phrase, ok := matchAny(lower, smallSignalPhrases); ok {
		return Result{Size: Small, Reason: "small-signal phrase: " + phrase, WordCount: wordCount}
	}

	switch {
	case wordCount <= thresholds.SmallWordLimit:
		return Result{Size: Small, Reason: "word count <= small limit", WordCount: wordCount}
	case wordCount >= thresholds.LargeWordLimit:
		return Result{Size: Large, Reason: "word count >= large limit", WordCount: wordCount}
	default:
		return Result{Size: Medium, Reason: "word count between thresholds", WordCount: wordCount}
	}
}

func matchAny(lower string, phrases []string) (string, bool) {
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			return phrase, true
		}
	}
	return "", false
}

// heavySet is the set of keywords classified as "heavy modes" by spec
// section 4.6 and referenced again in section 4.5's size-guard step.
var heavySet = map[string]bool{
	"ralph": true, "autopilot": true, "team": true, "ultrawork": true,
	"ultrapilot": true, "swarm": true, "pipeline": true, "ralplan": true,
	"ccg": true,
}

// IsHeavyMode reports whether keyword names a heavy mode.
func IsHeavyMode(keyword string) bool {
	return heavySet[keyword]
}

// HeavyModeSet returns the heavy-mode keyword set, used by the keyword
// detector's size-guard filter step.
func HeavyModeSet() map[string]bool {
	return heavySet
}
