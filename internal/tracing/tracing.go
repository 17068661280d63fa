// Package tracing provides an http.RoundTripper wrapper that logs a span for
// every outgoing request, in the same wrap-a-RoundTripper style as
// internal/useragent.
package tracing

import (
	"net/http"
	"time"
)

// Logger is the minimal logging surface spans are reported through.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Wrap returns a RoundTripper that logs method, URL, status and duration of
// every request it proxies to rt, using log as the sink. If log is nil, rt is
// returned unchanged.
func Wrap(rt http.RoundTripper, log Logger) http.RoundTripper {
	if log == nil {
		return rt
	}
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &spanRT{rt, log}
}

type spanRT struct {
	http.RoundTripper
	log Logger
}

func (t *spanRT) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.RoundTripper.RoundTrip(r)
	elapsed := time.Since(start)
	if err != nil {
		t.log.Printf("span: %s %s failed after %s: %v", r.Method, r.URL, elapsed, err)
		return resp, err
	}
	t.log.Printf("span: %s %s -> %d in %s", r.Method, r.URL, resp.StatusCode, elapsed)
	return resp, err
}
