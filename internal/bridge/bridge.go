// ============================================================================
// METADATA
// ============================================================================
// Hook Bridge - single stdin/stdout dispatcher
//
// Purpose: every cmd/hooks/<event> binary is a thin wrapper around this
// package. It owns the one behavior shared by all nine hook events: read
// stdin with a bounded timeout, normalize snake_case/camelCase keys into one
// canonical shape, route to a handler, and guarantee exactly one line of
// JSON lands on stdout no matter what the handler does. See spec section
// 4.12 and section 5's "NEVER throws out of the hook process" rule.
//
// Adapted from: hooks/tool/cmd-pre-use (teacher) for the thin-orchestrator
// shape; the teacher reads CLI args, this dispatcher reads stdin JSON per
// spec section 6's protocol instead.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"omc/internal/hookproto"
	"omc/internal/logging"
)

// DefaultReadTimeout matches spec section 4.12 step 1's "default 5 s".
const DefaultReadTimeout = 5 * time.Second

// HardSafetyTimeout matches spec section 5's "hard safety timeout (10 s)".
const HardSafetyTimeout = 10 * time.Second

// Handler processes one normalized hook Input and returns the Output to
// emit. Handlers are plain functions; Run recovers any panic and converts
// it to pass-through, so a handler never needs its own recover().
type Handler func(in hookproto.Input) hookproto.Output

// Run is the full dispatcher: read, parse, normalize, validate kind,
// route, emit, always within HardSafetyTimeout. It always exits the
// process via os.Exit(0) — the hook protocol has no failure exit code
// for the bridge itself, only for PreToolUse's explicit block path,
// which handlers signal by writing to stderr and calling os.Exit(2)
// themselves before Run's emit stage is reached.
func Run(kind hookproto.Kind, handler Handler) {
	out := dispatch(kind, handler)
	emit(out)
	os.Exit(0)
}

// dispatch performs steps 1-6 of spec section 4.12, bounded by
// HardSafetyTimeout so a wedged handler or blocked stdin read cannot hang
// the host indefinitely.
func dispatch(kind hookproto.Kind, handler Handler) hookproto.Output {
	resultCh := make(chan hookproto.Output, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.Discard().Error("bridge-panic-recovered", toError(r), -20)
				resultCh <- hookproto.PassThrough()
			}
		}()
		resultCh <- run(kind, handler)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), HardSafetyTimeout)
	defer cancel()

	select {
	case out := <-resultCh:
		return out
	case <-ctx.Done():
		return hookproto.PassThrough()
	}
}

func run(kind hookproto.Kind, handler Handler) hookproto.Output {
	raw, err := readStdin(DefaultReadTimeout)
	if err != nil {
		return hookproto.PassThrough()
	}

	normalized, ok := normalize(raw)
	if !ok {
		return hookproto.PassThrough()
	}
	normalized.Kind = kind

	if !isKnownKind(kind) {
		return hookproto.PassThrough()
	}

	return handler(normalized)
}

// readStdin reads all of stdin, bounded by timeout so a host that never
// closes the pipe cannot hang the process.
func readStdin(timeout time.Duration) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		data, err := io.ReadAll(os.Stdin)
		ch <- result{data, err}
	}()

	select {
	case r := <-ch:
		return r.data, r.err
	case <-time.After(timeout):
		return nil, context.DeadlineExceeded
	}
}

func isKnownKind(kind hookproto.Kind) bool {
	switch kind {
	case hookproto.KindUserPromptSubmit, hookproto.KindPreToolUse, hookproto.KindPostToolUse,
		hookproto.KindStop, hookproto.KindSubagentStop, hookproto.KindSessionStart,
		hookproto.KindSessionEnd, hookproto.KindPreCompact, hookproto.KindNotification:
		return true
	default:
		return false
	}
}

// emit writes exactly one line of JSON to stdout, per spec section 4.12
// step 7. A marshal failure (should be unreachable given Output's shape)
// still emits a valid pass-through line rather than nothing.
func emit(out hookproto.Output) {
	line, err := json.Marshal(out)
	if err != nil {
		line, _ = json.Marshal(hookproto.PassThrough())
	}
	var buf bytes.Buffer
	buf.Write(line)
	buf.WriteByte('\n')
	_, _ = os.Stdout.Write(buf.Bytes())
}

func toError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &panicValue{r}
}

type panicValue struct{ v any }

func (p *panicValue) Error() string {
	if s, ok := p.v.(string); ok {
		return s
	}
	return "panic: non-error value recovered"
}
