package bridge

import (
	"os"
	"testing"

	"omc/internal/hookproto"
)

func withStdin(t *testing.T, content string, fn func()) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	old := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = old }()

	go func() {
		_, _ = w.WriteString(content)
		w.Close()
	}()
	fn()
}

func TestDispatchRoutesToHandler(t *testing.T) {
	var gotSessionID string
	handler := func(in hookproto.Input) hookproto.Output {
		gotSessionID = in.SessionID
		return hookproto.Advisory("Stop", "ok")
	}

	withStdin(t, `{"session_id":"s1","stop_reason":"end_turn"}`, func() {
		out := dispatch(hookproto.KindStop, handler)
		if out.HookSpecificOutput == nil || out.HookSpecificOutput.AdditionalContext != "ok" {
			t.Fatalf("expected advisory output, got %+v", out)
		}
	})

	if gotSessionID != "s1" {
		t.Fatalf("expected handler to see normalized session id, got %q", gotSessionID)
	}
}

func TestDispatchMalformedStdinPassesThrough(t *testing.T) {
	called := false
	handler := func(in hookproto.Input) hookproto.Output {
		called = true
		return hookproto.PassThrough()
	}
	withStdin(t, `not json`, func() {
		out := dispatch(hookproto.KindStop, handler)
		if !out.Continue || !out.SuppressOutput {
			t.Fatalf("expected pass-through, got %+v", out)
		}
	})
	if called {
		t.Fatalf("handler should not run on malformed input")
	}
}

func TestDispatchPanicRecoveredToPassThrough(t *testing.T) {
	handler := func(in hookproto.Input) hookproto.Output {
		panic("boom")
	}
	withStdin(t, `{"session_id":"s1"}`, func() {
		out := dispatch(hookproto.KindStop, handler)
		if !out.Continue || !out.SuppressOutput {
			t.Fatalf("expected pass-through after panic, got %+v", out)
		}
	})
}

func TestDispatchUnknownKindPassesThrough(t *testing.T) {
	called := false
	handler := func(in hookproto.Input) hookproto.Output {
		called = true
		return hookproto.PassThrough()
	}
	withStdin(t, `{"session_id":"s1"}`, func() {
		dispatch(hookproto.Kind("NotARealKind"), handler)
	})
	if called {
		t.Fatalf("handler should not run for an unrecognized kind")
	}
}
