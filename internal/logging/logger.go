// ============================================================================
// METADATA
// ============================================================================
// Logging Library - Rails-pattern structured logging
//
// Purpose: Provides append-only JSONL logging for every other component in
// the runtime. Each component creates its own Logger rather than receiving
// one as a parameter (the "Rails" pattern: logging is infrastructure that
// runs alongside the work, never wired through call signatures).
//
// Adapted from: system/runtime/lib/logging (teacher). The health-impact
// integer on each entry is kept from the teacher's convention but is now a
// coarse signal only (no point totals are declared or enforced anywhere in
// this runtime).
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry is one JSONL record. Fields are flat so grep/jq can filter logs
// without a schema.
type Entry struct {
	Time         string         `json:"time"`
	Component    string         `json:"component"`
	Level        string         `json:"level"`
	Event        string         `json:"event"`
	HealthImpact int            `json:"health_impact,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	Err          string         `json:"error,omitempty"`
}

// Logger writes JSONL entries for one named component under
// <omcRoot>/logs/<component>.jsonl. A Logger is safe for concurrent use
// within one process, but two processes writing the same component log
// concurrently may interleave lines (each Write is a single os.File.Write
// call, so individual lines never tear).
type Logger struct {
	component string
	path      string
	mu        sync.Mutex
}

// New creates a Logger for component, rooted at omcRoot. The log directory
// is created lazily on first write, never on construction, matching the
// store package's "never create on read" convention.
func New(omcRoot, component string) *Logger {
	return &Logger{
		component: component,
		path:      filepath.Join(omcRoot, "logs", component+".jsonl"),
	}
}

// Discard returns a Logger that drops every entry. Useful for tests and for
// hook paths that run before an omcRoot is known.
func Discard() *Logger {
	return &Logger{}
}

func (l *Logger) write(level, event string, healthImpact int, details map[string]any, err error) {
	if l == nil || l.path == "" {
		return
	}
	entry := Entry{
		Time:         time.Now().UTC().Format(time.RFC3339Nano),
		Component:    l.component,
		Level:        level,
		Event:        event,
		HealthImpact: healthImpact,
		Details:      details,
	}
	if err != nil {
		entry.Err = err.Error()
	}
	line, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		return
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if mkErr := os.MkdirAll(filepath.Dir(l.path), 0o700); mkErr != nil {
		return
	}
	f, openErr := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if openErr != nil {
		return
	}
	defer f.Close()
	_, _ = f.Write(line)
}

// Operation logs a routine action (a command ran, a file was written).
func (l *Logger) Operation(event string, healthImpact int, details map[string]any) {
	l.write("operation", event, healthImpact, details, nil)
}

// Success logs a confirmed-good outcome.
func (l *Logger) Success(event string, healthImpact int, details map[string]any) {
	l.write("success", event, healthImpact, details, nil)
}

// Failure logs an expected-but-unwanted outcome (not a Go error value, a
// business-logic failure: mode conflict, lock timeout, policy violation).
func (l *Logger) Failure(event, reason string, healthImpact int, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	details["reason"] = reason
	l.write("failure", event, healthImpact, details, nil)
}

// Error logs a Go error returned from a lower layer.
func (l *Logger) Error(event string, err error, healthImpact int) {
	l.write("error", event, healthImpact, nil, err)
}

// Debug logs internal state, only useful when a human is staring at the
// JSONL file directly.
func (l *Logger) Debug(event string, details map[string]any) {
	l.write("debug", event, 0, details, nil)
}

// Fprint writes a human-readable line to stderr on every call. It reads no
// OMC_<COMPONENT>_DEBUG variable and does no gating of its own. Kept
// separate from the JSONL writer because this is meant for interactive
// debugging, not durable records.
func Fprint(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
