package bridge

import "testing"

func TestNormalizeSnakeCase(t *testing.T) {
	raw := []byte(`{"session_id":"abc","stop_reason":"done","transcript_path":"/tmp/t.jsonl"}`)
	in, ok := normalize(raw)
	if !ok {
		t.Fatalf("expected normalize to succeed")
	}
	if in.SessionID != "abc" || in.StopReason != "done" || in.TranscriptPath != "/tmp/t.jsonl" {
		t.Fatalf("unexpected normalized input: %+v", in)
	}
}

func TestNormalizeCamelCase(t *testing.T) {
	raw := []byte(`{"sessionId":"abc","stopReason":"done"}`)
	in, ok := normalize(raw)
	if !ok {
		t.Fatalf("expected normalize to succeed")
	}
	if in.SessionID != "abc" || in.StopReason != "done" {
		t.Fatalf("unexpected normalized input: %+v", in)
	}
}

func TestNormalizeCamelCasePreferredOverSnake(t *testing.T) {
	raw := []byte(`{"sessionId":"camel","session_id":"snake"}`)
	in, ok := normalize(raw)
	if !ok {
		t.Fatalf("expected normalize to succeed")
	}
	if in.SessionID != "camel" {
		t.Fatalf("expected camelCase alias to win, got %q", in.SessionID)
	}
}

func TestNormalizeMalformedJSON(t *testing.T) {
	if _, ok := normalize([]byte(`not json`)); ok {
		t.Fatalf("expected malformed JSON to fail normalization")
	}
}

func TestNormalizeNonObjectJSON(t *testing.T) {
	if _, ok := normalize([]byte(`["a","b"]`)); ok {
		t.Fatalf("expected non-object JSON to fail normalization")
	}
}

func TestNormalizeToolFields(t *testing.T) {
	raw := []byte(`{"tool_name":"Bash","tool_input":{"command":"ls"},"parent_session_id":"p1"}`)
	in, ok := normalize(raw)
	if !ok {
		t.Fatalf("expected normalize to succeed")
	}
	if in.ToolName != "Bash" || in.ParentSessionID != "p1" {
		t.Fatalf("unexpected normalized input: %+v", in)
	}
	if in.ToolInput["command"] != "ls" {
		t.Fatalf("expected tool input command to survive, got %+v", in.ToolInput)
	}
}
