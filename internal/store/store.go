// ============================================================================
// METADATA
// ============================================================================
// Atomic State Store - JSON read/write with tmp-rename, lock files with
// stale-reap.
//
// Purpose: every other component in this runtime reads and writes its state
// through this package so the tmp-rename / O_EXCL-lock discipline lives in
// exactly one place. See spec section 4.2.
//
// Adapted from: the teacher's disk-state conventions in
// hooks/lib/session/disk.go and system/runtime/lib/fs, generalized into a
// standalone atomic-JSON + advisory-lock library.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultStaleLockMs is how old (by mtime) a lock file must be, in
	// addition to its owning PID being dead, before a reaper will remove
	// it.
	DefaultStaleLockMs = 10_000
	// DefaultTimeoutMs bounds a single non-waiting acquire attempt.
	DefaultTimeoutMs = 2_000
	// DefaultMaxWaitMs bounds the waiting variant (AcquireLockWait).
	DefaultMaxWaitMs = 10_000
)

// ReadJSON reads path and unmarshals into v. Missing files and malformed
// JSON both yield (false, nil): readJson never throws (spec section 4.2).
func ReadJSON(path string, v any) (found bool, err error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return false, nil
		}
		return false, nil
	}
	if len(data) == 0 {
		return false, nil
	}
	if jsonErr := json.Unmarshal(data, v); jsonErr != nil {
		// ConfigCorrupt: treated as missing, never surfaced.
		return false, nil
	}
	return true, nil
}

// WriteJSONAtomic marshals v and writes it to path via a tmp-file-then-
// rename, creating the parent directory (0o700) if missing.
func WriteJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("omc/store: marshal: %w", err)
	}
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic writes data to path via tmp-file-then-rename, the same
// discipline WriteJSONAtomic uses, for callers whose on-disk format isn't
// JSON (e.g. the notepad's markdown sections).
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("omc/store: mkdir parent: %w", err)
	}
	tmp := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("omc/store: write tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("omc/store: rename: %w", err)
	}
	return nil
}

// lockPayload is the JSON body written into a <path>.lock file.
type lockPayload struct {
	PID        int    `json:"pid"`
	Token      string `json:"token"`
	AcquiredAt string `json:"acquiredAt"`
}

// Lock is a handle returned by AcquireLock. Callers must pass it to
// ReleaseLock.
type Lock struct {
	path  string
	token string
}

// AcquireLockOpts configures timeouts for AcquireLock / AcquireLockWait.
type AcquireLockOpts struct {
	TimeoutMs    int
	StaleLockMs  int
	MaxWaitMs    int
}

func withDefaults(opts AcquireLockOpts) AcquireLockOpts {
	if opts.TimeoutMs <= 0 {
		opts.TimeoutMs = DefaultTimeoutMs
	}
	if opts.StaleLockMs <= 0 {
		opts.StaleLockMs = DefaultStaleLockMs
	}
	if opts.MaxWaitMs <= 0 {
		opts.MaxWaitMs = DefaultMaxWaitMs
	}
	return opts
}

// AcquireLock attempts an O_EXCL create of <path>.lock. Returns nil (no
// error) with a nil *Lock when the deadline elapses without acquiring —
// callers treat that as "proceed without the lock" per spec section 4.2.
func AcquireLock(path string, opts AcquireLockOpts) (*Lock, error) {
	opts = withDefaults(opts)
	lockPath := path + ".lock"
	deadline := time.Now().Add(time.Duration(opts.TimeoutMs) * time.Millisecond)

	for {
		lock, acquired, err := tryAcquireOnce(lockPath, opts)
		if err != nil {
			return nil, err
		}
		if acquired {
			return lock, nil
		}
		if time.Now().After(deadline) {
			return nil, nil
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// AcquireLockWait is the waiting variant: retries up to MaxWaitMs instead of
// TimeoutMs.
func AcquireLockWait(path string, opts AcquireLockOpts) (*Lock, error) {
	opts = withDefaults(opts)
	opts.TimeoutMs = opts.MaxWaitMs
	return AcquireLock(path, opts)
}

func tryAcquireOnce(lockPath string, opts AcquireLockOpts) (*Lock, bool, error) {
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o700); err != nil {
		return nil, false, fmt.Errorf("omc/store: mkdir lock parent: %w", err)
	}

	token := uuid.NewString()
	payload := lockPayload{PID: os.Getpid(), Token: token, AcquiredAt: time.Now().UTC().Format(time.RFC3339Nano)}
	data, _ := json.Marshal(payload)

	fd, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err == nil {
		if _, werr := fd.Write(data); werr != nil {
			fd.Close()
			_ = os.Remove(lockPath)
			return nil, false, nil
		}
		fd.Close()
		return &Lock{path: lockPath, token: token}, true, nil
	}
	if !os.IsExist(err) {
		return nil, false, nil
	}

	// Lock exists. Consider stale-reaping it.
	reapStaleLock(lockPath, opts)
	return nil, false, nil
}

// reapStaleLock removes lockPath only when BOTH the owning PID is dead AND
// the lock file's mtime is older than StaleLockMs AND its raw bytes still
// byte-match the snapshot just read — this closes the race in spec section
// 9's design note where two reapers could unlink in sequence and destroy a
// third acquirer's fresh lock.
func reapStaleLock(lockPath string, opts AcquireLockOpts) {
	info, err := os.Stat(lockPath)
	if err != nil {
		return
	}
	if time.Since(info.ModTime()) < time.Duration(opts.StaleLockMs)*time.Millisecond {
		return
	}
	snapshot, err := os.ReadFile(lockPath)
	if err != nil {
		return
	}
	var payload lockPayload
	if err := json.Unmarshal(snapshot, &payload); err != nil {
		return
	}
	if processAlive(payload.PID) {
		return
	}

	current, err := os.ReadFile(lockPath)
	if err != nil {
		return
	}
	if string(current) != string(snapshot) {
		// Another reaper or the original owner touched it since our read.
		return
	}
	_ = os.Remove(lockPath)
}

// processAlive reports whether pid is a live process, using signal 0
// (POSIX "check existence, send nothing").
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil
}

// ReleaseLock closes and unlinks lock's file, but only if the file on disk
// still carries the token this handle acquired — guards against releasing
// a lock that was stale-reaped and re-acquired by someone else in the
// interim.
func ReleaseLock(lock *Lock) error {
	if lock == nil {
		return nil
	}
	data, err := os.ReadFile(lock.path)
	if err != nil {
		// Already gone; nothing to do.
		return nil
	}
	var payload lockPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil
	}
	if payload.Token != lock.token {
		return nil
	}
	return os.Remove(lock.path)
}

// WithLock runs fn while holding path's lock. If the lock cannot be
// acquired within the deadline, fn still runs (best-effort callers proceed
// without the lock rather than failing the whole hook) — matching spec
// section 4.2's "never throws" rule. WithLockStrict is provided for
// cleanup-style callers that want a no-op instead.
func WithLock(path string, opts AcquireLockOpts, fn func()) {
	lock, _ := AcquireLock(path, opts)
	defer ReleaseLock(lock)
	fn()
}

// WithLockStrict runs fn only if the lock was actually acquired; otherwise
// it is a no-op. Used by cleanup paths (pruning, bulk rewrites) where a
// racing writer is worse than skipping the cleanup this cycle.
func WithLockStrict(path string, opts AcquireLockOpts, fn func()) {
	lock, _ := AcquireLock(path, opts)
	if lock == nil {
		return
	}
	defer ReleaseLock(lock)
	fn()
}
