// ============================================================================
// METADATA
// ============================================================================
// HUD freshness wait - fsnotify fast-path over the state directory, with a
// plain timer as the fallback that always fires. See spec section 5:
// fsnotify never replaces the timer poll, it only shortens the common case.
package hud

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// freshWindow bounds how long WaitFresh gives an in-flight write to the
// HUD state file to land before falling back to whatever is already on
// disk. Kept short since WaitFresh sits in the statusline render path.
const freshWindow = 20 * time.Millisecond

// WaitFresh gives a concurrent writer a brief window to finish before
// Read runs, so the statusline doesn't render a badge one hook-invocation
// stale. It watches the state directory for a write event and races that
// against freshWindow; whichever happens first wins. If the watcher can't
// be set up at all, it just waits out the timer — the timer is the
// fallback path, not an optional extra.
func WaitFresh(omcRoot string) State {
	dir := stateDir(omcRoot)
	timer := time.NewTimer(freshWindow)
	defer timer.Stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		<-timer.C
		return Read(omcRoot)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		<-timer.C
		return Read(omcRoot)
	}

	select {
	case <-watcher.Events:
	case <-watcher.Errors:
	case <-timer.C:
	}
	return Read(omcRoot)
}
