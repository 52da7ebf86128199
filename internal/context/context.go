// ============================================================================
// METADATA
// ============================================================================
// Context Estimator - transcript-tail percentage-of-context-window
//
// Purpose: parses the tail of a JSONL transcript and returns an integer
// percentage of the host's context window consumed. Read-only,
// side-effect-free. See spec section 4.7.
package context

import (
	"io"
	"math"
	"os"
	"regexp"
)

// tailBytes is how much of the transcript's end to scan: the last
// occurrence of each counter is always near the end of the file, so there
// is no need to read the whole transcript.
const tailBytes = 4096

// Bounded quantifiers on both patterns prevent catastrophic backtracking on
// adversarial input, per spec section 4.7.
var (
	contextWindowPattern = regexp.MustCompile(`"context_window"\s*:\s*(\d{1,12})`)
	inputTokensPattern   = regexp.MustCompile(`"input_tokens"\s*:\s*(\d{1,12})`)
)

// EstimatePercent opens transcriptPath read-only, seeks to the last
// tailBytes of the file, and returns round(input/window*100) using the
// LAST occurrence of each counter in that tail. Any failure (missing file,
// no matches, zero window) yields 0.
func EstimatePercent(transcriptPath string) int {
	tail, err := readTail(transcriptPath, tailBytes)
	if err != nil {
		return 0
	}

	window := lastMatch(contextWindowPattern, tail)
	input := lastMatch(inputTokensPattern, tail)
	if window <= 0 {
		return 0
	}

	pct := math.Round(float64(input) / float64(window) * 100)
	if pct < 0 {
		return 0
	}
	return int(pct)
}

func readTail(path string, n int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	start := info.Size() - n
	if start < 0 {
		start = 0
	}
	if _, err := f.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(f)
}

func lastMatch(re *regexp.Regexp, data []byte) int64 {
	matches := re.FindAllSubmatch(data, -1)
	if len(matches) == 0 {
		return 0
	}
	last := matches[len(matches)-1]
	var value int64
	for _, b := range last[1] {
		if b < '0' || b > '9' {
			return 0
		}
		value = value*10 + int64(b-'0')
	}
	return value
}
