// ============================================================================
// METADATA
// ============================================================================
// Keyword Detector - mode-intent extraction, conflict resolution, the
// ralplan gate.
//
// Purpose: extracts mode-intent tokens from a prompt, applies conflict
// resolution by priority, and enforces the ralplan-first gate on
// underspecified prompts. See spec section 4.5.
package keyword

import (
	"regexp"
	"strings"

	"omc/internal/tasksize"
)

// Keyword is one matched mode-intent token.
type Keyword string

const (
	Cancel     Keyword = "cancel"
	RalphKW    Keyword = "ralph"
	Autopilot  Keyword = "autopilot"
	Ultrapilot Keyword = "ultrapilot"
	Team       Keyword = "team"
	Swarm      Keyword = "swarm"
	Ultrawork  Keyword = "ultrawork"
	Ecomode    Keyword = "ecomode"
	Pipeline   Keyword = "pipeline"
	Ralplan    Keyword = "ralplan"
	TDD        Keyword = "tdd"
	Ultrathink Keyword = "ultrathink"
	Deepsearch Keyword = "deepsearch"
	Analyze    Keyword = "analyze"
	Codex      Keyword = "codex"
	Gemini     Keyword = "gemini"
)

// Flags gates feature-flagged keywords.
type Flags struct {
	TeamEnabled    bool
	EcomodeEnabled bool
}

// pattern is one keyword's matcher plus the feature flag (if any) gating
// it.
type pattern struct {
	keyword Keyword
	re      *regexp.Regexp
	gated   func(Flags) bool // nil means always eligible
}

// patterns are listed in spec section 4.5 step 2's priority order.
var patterns = []pattern{
	{Cancel, regexp.MustCompile(`(?i)\b(cancelomc|stopomc)\b`), nil},
	{RalphKW, regexp.MustCompile(`(?i)\bralph(?:[^\w-]|$)`), nil},
	{Autopilot, regexp.MustCompile(`(?i)\b(autopilot|auto[\s-]?pilot|fullsend|full\s+auto)\b`), nil},
	{Ultrapilot, regexp.MustCompile(`(?i)\bultrapilot\b`), func(f Flags) bool { return f.TeamEnabled }},
	{Team, regexp.MustCompile(`(?i)\bteam\b`), func(f Flags) bool { return f.TeamEnabled }},
	{Swarm, regexp.MustCompile(`(?i)\bswarm\b`), func(f Flags) bool { return f.TeamEnabled }},
	{Ultrawork, regexp.MustCompile(`(?i)\b(ultrawork|ulw)\b`), nil},
	{Ecomode, regexp.MustCompile(`(?i)\becomode\b`), func(f Flags) bool { return f.EcomodeEnabled }},
	{Pipeline, regexp.MustCompile(`(?i)\bpipeline\b`), nil},
	{Ralplan, regexp.MustCompile(`(?i)\bralplan\b`), nil},
	{TDD, regexp.MustCompile(`(?i)\btdd\b`), nil},
	{Ultrathink, regexp.MustCompile(`(?i)\bultrathink\b`), nil},
	{Deepsearch, regexp.MustCompile(`(?i)\bdeepsearch\b`), nil},
	{Analyze, regexp.MustCompile(`(?i)\banalyze\b`), nil},
	{Codex, regexp.MustCompile(`(?i)\bcodex\b`), nil},
	{Gemini, regexp.MustCompile(`(?i)\bgemini\b`), nil},
}

// priorityOrder maps each keyword to its list index for stable sort.
var priorityOrder = func() map[Keyword]int {
	m := make(map[Keyword]int, len(patterns))
	for i, p := range patterns {
		m[p.keyword] = i
	}
	return m
}()

// executionKeywords is the set the ralplan gate may replace (spec section
// 4.5 step 5).
var executionKeywords = map[Keyword]bool{
	RalphKW: true, Autopilot: true, Team: true, Ultrawork: true, Ultrapilot: true,
}

// GetAllKeywords extracts the priority-ordered keyword list from prompt.
// It performs sanitize + match + conflict resolution (steps 1-3); it does
// NOT apply the size-guard or the ralplan gate (steps 4-5) — see
// GetAllKeywordsWithSizeCheck and ApplyRalplanGate for those.
//
// Invariant: cancel ∈ result ⇒ result == [cancel].
func GetAllKeywords(prompt string, flags Flags) []Keyword {
	sanitized := Sanitize(prompt)

	var matched []Keyword
	for _, p := range patterns {
		if p.gated != nil && !p.gated(flags) {
			continue
		}
		if p.re.MatchString(sanitized) {
			matched = append(matched, p.keyword)
		}
	}

	return resolveConflicts(matched, flags)
}

// resolveConflicts applies spec section 4.5 step 3: cancel beats
// everything; ecomode (when enabled) beats ultrawork; team/ultrapilot/swarm
// beat autopilot.
func resolveConflicts(matched []Keyword, flags Flags) []Keyword {
	set := toSet(matched)

	if set[Cancel] {
		return []Keyword{Cancel}
	}

	if flags.EcomodeEnabled && set[Ecomode] && set[Ultrawork] {
		delete(set, Ultrawork)
	}

	if (set[Team] || set[Ultrapilot] || set[Swarm]) && set[Autopilot] {
		delete(set, Autopilot)
	}

	return sortedByPriority(set)
}

func toSet(keywords []Keyword) map[Keyword]bool {
	set := make(map[Keyword]bool, len(keywords))
	for _, k := range keywords {
		set[k] = true
	}
	return set
}

func sortedByPriority(set map[Keyword]bool) []Keyword {
	result := make([]Keyword, 0, len(set))
	for k := range set {
		result = append(result, k)
	}
	// Insertion sort by priorityOrder; the list is always short (<= 16).
	for i := 1; i < len(result); i++ {
		for j := i; j > 0 && priorityOrder[result[j]] < priorityOrder[result[j-1]]; j-- {
			result[j], result[j-1] = result[j-1], result[j]
		}
	}
	return result
}

// SizeCheckResult is the outcome of GetAllKeywordsWithSizeCheck.
type SizeCheckResult struct {
	Keywords           []Keyword
	SuppressedKeywords []Keyword
	Size               tasksize.Size
}

// GetAllKeywordsWithSizeCheck applies spec section 4.5 step 4: when
// suppressHeavyModesForSmallTasks is set and the prompt classifies as
// small, every keyword in tasksize's heavy-mode set is filtered out of the
// result and reported separately as suppressed.
func GetAllKeywordsWithSizeCheck(prompt string, flags Flags, suppressHeavyForSmall bool) SizeCheckResult {
	keywords := GetAllKeywords(prompt, flags)
	size := tasksize.Classify(prompt, tasksize.DefaultThresholds()).Size

	if !suppressHeavyForSmall || size != tasksize.Small {
		return SizeCheckResult{Keywords: keywords, Size: size}
	}

	var kept, suppressed []Keyword
	for _, k := range keywords {
		if tasksize.IsHeavyMode(string(k)) {
			suppressed = append(suppressed, k)
		} else {
			kept = append(kept, k)
		}
	}
	return SizeCheckResult{Keywords: kept, SuppressedKeywords: suppressed, Size: size}
}

// ralplanEscapeHatch matches the ralplan gate's own escape hatch, distinct
// from tasksize's ("force:", "!"), per spec section 4.5 step 4's final
// clause.
var ralplanEscapeHatch = regexp.MustCompile(`(?i)^\s*(force:|!)`)

// wellSpecifiedSignals lists every pattern from spec section 4.5 whose
// presence means a prompt is NOT underspecified.
var wellSpecifiedSignals = []*regexp.Regexp{
	// File references with recognized extensions.
	regexp.MustCompile(`\b[\w./-]+\.(go|ts|tsx|js|jsx|py|rb|java|c|cc|cpp|h|hpp|rs|md|json|yaml|yml|toml|sql|sh|css|html)\b`),
	// Multi-segment repository paths.
	regexp.MustCompile(`\b[\w.-]+/[\w./-]+\b`),
	// Declared function/class/method names.
	regexp.MustCompile(`(?i)\b(function|func|class|def|method)\s+\w+`),
	// camelCase / PascalCase identifiers, >= 2 segments.
	regexp.MustCompile(`\b[a-z]+[A-Z]\w*\b|\b[A-Z][a-z]+[A-Z]\w*\b`),
	// snake_case identifiers, >= 2 segments.
	regexp.MustCompile(`\b[a-z][a-z0-9]*_[a-z0-9_]+\b`),
	// Bare issue or PR numbers.
	regexp.MustCompile(`#\d+`),
	// Numbered-step or bulleted lists.
	regexp.MustCompile(`(?m)^\s*(\d+\.|[-*])\s+\S`),
	// Acceptance-criteria / test-spec / "should X" phrasing.
	regexp.MustCompile(`(?i)(acceptance criteria|test spec|should (return|throw|render|display|show|produce|output))`),
	// Explicit error / stack-trace references.
	regexp.MustCompile(`(?i)(error:|exception|stack trace|traceback)`),
	// Commit SHA (7+ hex characters).
	regexp.MustCompile(`\b[0-9a-f]{7,40}\b`),
	// "in <path.ext>" phrasing.
	regexp.MustCompile(`(?i)\bin\s+[\w./-]+\.\w+\b`),
	// Recognized test-runner command.
	regexp.MustCompile(`(?i)\b(go test|pytest|npm test|jest|mocha|cargo test|rspec)\b`),
}

// fencedCodeBody captures the content of a fenced code block so its body
// length can be checked against the 20-character minimum.
var fencedCodeBody = regexp.MustCompile("(?s)```[^\n]*\n?(.*?)```")

// modeKeywordTokens is used to compute "effective word count" by stripping
// every keyword token (matched or not) before counting — spec section 4.5
// step 4's "effective word count ≤ 15 after stripping mode keywords".
var modeKeywordTokens = regexp.MustCompile(`(?i)\b(cancelomc|stopomc|ralph|autopilot|auto[\s-]?pilot|fullsend|full\s+auto|ultrapilot|team|swarm|ultrawork|ulw|ecomode|pipeline|ralplan|tdd|ultrathink|deepsearch|analyze|codex|gemini)\b`)

// IsUnderspecifiedForExecution reports whether prompt lacks enough
// information to run an execution mode directly: true iff no
// well-specified signal matches, AND the effective word count (after
// stripping mode keywords) is <= 15, AND there is no escape-hatch prefix.
// Idempotent under trimming.
func IsUnderspecifiedForExecution(prompt string) bool {
	trimmed := strings.TrimSpace(prompt)

	if ralplanEscapeHatch.MatchString(trimmed) {
		return false
	}

	for _, sig := range wellSpecifiedSignals {
		if sig.MatchString(trimmed) {
			return false
		}
	}
	if hasSubstantialFence(trimmed) {
		return false
	}

	stripped := modeKeywordTokens.ReplaceAllString(trimmed, " ")
	if tasksize.CountWords(stripped) > 15 {
		return false
	}

	return true
}

func hasSubstantialFence(text string) bool {
	for _, m := range fencedCodeBody.FindAllStringSubmatch(text, -1) {
		if len(strings.TrimSpace(m[1])) >= 20 {
			return true
		}
	}
	return false
}

// DetectResult is the fully-resolved outcome of Detect: every step of spec
// section 4.5's pipeline applied in order.
type DetectResult struct {
	Keywords           []Keyword
	SuppressedKeywords []Keyword
	Size               tasksize.Size
	RalplanGated       bool
}

// Detect runs the full spec section 4.5 pipeline: sanitize + match (step
// 1-2), conflict resolution (step 3), the size-guard (step 4), then the
// ralplan gate (step 5). This is the entry point hook handlers should call;
// GetAllKeywords and GetAllKeywordsWithSizeCheck exist separately because
// spec section 8's testable properties exercise them independently.
func Detect(prompt string, flags Flags, suppressHeavyForSmall bool) DetectResult {
	sized := GetAllKeywordsWithSizeCheck(prompt, flags, suppressHeavyForSmall)
	gated := ApplyRalplanGate(prompt, sized.Keywords)

	ralplanGated := len(gated) != len(sized.Keywords)
	if !ralplanGated {
		for i := range gated {
			if gated[i] != sized.Keywords[i] {
				ralplanGated = true
				break
			}
		}
	}

	return DetectResult{
		Keywords:           gated,
		SuppressedKeywords: sized.SuppressedKeywords,
		Size:               sized.Size,
		RalplanGated:       ralplanGated,
	}
}

// ApplyRalplanGate implements spec section 4.5 step 5: if keywords contains
// any execution keyword and prompt is underspecified, every execution
// keyword is replaced by a single ralplan keyword.
func ApplyRalplanGate(prompt string, keywords []Keyword) []Keyword {
	hasExecution := false
	for _, k := range keywords {
		if executionKeywords[k] {
			hasExecution = true
			break
		}
	}
	if !hasExecution || !IsUnderspecifiedForExecution(prompt) {
		return keywords
	}

	var result []Keyword
	seenRalplan := false
	for _, k := range keywords {
		if executionKeywords[k] {
			if !seenRalplan {
				result = append(result, Ralplan)
				seenRalplan = true
			}
			continue
		}
		result = append(result, k)
	}
	return sortedByPriority(toSet(result))
}
