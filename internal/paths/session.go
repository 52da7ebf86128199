package paths

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var fallbackOnce = struct {
	mu    sync.Mutex
	value string
}{}

// FallbackSessionID mints a process-local session ID of the form
// "pid-<PID>-<startMs>" the first time it is called in a process, and
// returns the same value on every subsequent call (the fallback must be
// stable for the lifetime of one hook invocation).
func FallbackSessionID() string {
	fallbackOnce.mu.Lock()
	defer fallbackOnce.mu.Unlock()
	if fallbackOnce.value == "" {
		fallbackOnce.value = fmt.Sprintf("pid-%d-%d", os.Getpid(), time.Now().UnixMilli())
	}
	return fallbackOnce.value
}
