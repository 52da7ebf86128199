package notify

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

func TestFireSkipsWhenToggleUnset(t *testing.T) {
	os.Unsetenv("OMC_NOTIFY")
	hit := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit <- struct{}{}
	}))
	defer srv.Close()

	os.Setenv("OMC_NOTIFY_URL", srv.URL)
	defer os.Unsetenv("OMC_NOTIFY_URL")

	Fire(Event{SessionID: "s1", Kind: "test", Message: "hello"})

	select {
	case <-hit:
		t.Fatalf("did not expect a request when toggle is unset")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFirePostsWhenToggleSet(t *testing.T) {
	hit := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit <- struct{}{}
	}))
	defer srv.Close()

	os.Setenv("OMC_NOTIFY", "1")
	os.Setenv("OMC_NOTIFY_URL", srv.URL)
	defer os.Unsetenv("OMC_NOTIFY")
	defer os.Unsetenv("OMC_NOTIFY_URL")

	Fire(Event{SessionID: "s1", Kind: "test", Message: "hello"})

	select {
	case <-hit:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a request to be fired")
	}
}
