package tracing

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
)

type recordingLogger struct {
	mu   sync.Mutex
	logs []string
}

func (r *recordingLogger) Printf(format string, v ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, fmt.Sprintf(format, v...))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestWrapReturnsUnchangedWhenLoggerNil(t *testing.T) {
	inner := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: 200, Body: http.NoBody}, nil
	})
	wrapped := Wrap(inner, nil)
	if _, ok := wrapped.(roundTripFunc); !ok {
		t.Fatalf("expected Wrap(rt, nil) to return rt unchanged, got %T", wrapped)
	}
}

func TestWrapLogsSuccessfulRequest(t *testing.T) {
	inner := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: 204, Body: http.NoBody}, nil
	})
	log := &recordingLogger{}
	wrapped := Wrap(inner, log)

	req, err := http.NewRequest(http.MethodGet, "https://example.com/thing", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := wrapped.RoundTrip(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 204 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.logs) != 1 {
		t.Fatalf("expected exactly one log line, got %d: %v", len(log.logs), log.logs)
	}
}

func TestWrapLogsFailedRequest(t *testing.T) {
	boom := &transportError{}
	inner := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, boom
	})
	log := &recordingLogger{}
	wrapped := Wrap(inner, log)

	req, err := http.NewRequest(http.MethodGet, "https://example.com/thing", nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = wrapped.RoundTrip(req)
	if err != boom {
		t.Fatalf("expected underlying error to propagate, got %v", err)
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.logs) != 1 {
		t.Fatalf("expected exactly one log line for failed request, got %d", len(log.logs))
	}
}

type transportError struct{}

func (e *transportError) Error() string { return "simulated transport failure" }
