package boorusnap

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestProviderCanonicalOrder(t *testing.T) {
	order := []Provider{
		ProviderTwitter, ProviderNitter, ProviderTumblr,
		ProviderDeviantArt, ProviderPhilomena, ProviderBuzzly, ProviderRaw,
	}
	for i := 1; i < len(order); i++ {
		if order[i-1] >= order[i] {
			t.Fatalf("canonical order violated at index %d: %v >= %v", i, order[i-1], order[i])
		}
	}
}

func TestScrapeUnparseableURL(t *testing.T) {
	result, err := Scrape(context.Background(), &http.Client{}, &Configuration{}, "not a url")
	if err != nil {
		t.Fatal(err)
	}
	if result.Err == nil || len(result.Err.Errors) == 0 {
		t.Fatalf("expected Err variant, got %+v", result)
	}
}

func TestScrapeNoProviderMatches(t *testing.T) {
	result, err := Scrape(context.Background(), &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return stubResponse(404, "", nil), nil
	})}, &Configuration{}, "https://example.com/no-match")
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsNone() {
		t.Errorf("expected None, got %+v", result)
	}
}

func TestScrapeRawFallback(t *testing.T) {
	result, err := Scrape(context.Background(), &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return stubResponse(200, "", map[string]string{"Content-Type": "image/png"}), nil
	})}, &Configuration{}, "https://static.example.art/img/view/4010154.png")
	if err != nil {
		t.Fatal(err)
	}
	if result.Ok == nil {
		t.Fatalf("expected Ok variant, got %+v", result)
	}
	if len(result.Ok.Images) != 1 {
		t.Fatalf("expected one image, got %d", len(result.Ok.Images))
	}
}

// roundTripFunc lets a test provide http.RoundTripper behavior inline,
// avoiding a network dependency for classifier/adapter unit tests.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func stubResponse(status int, body string, headers map[string]string) *http.Response {
	h := make(http.Header)
	for k, v := range headers {
		h.Set(k, v)
	}
	var rc io.ReadCloser
	if body == "" {
		rc = http.NoBody
	} else {
		rc = io.NopCloser(strings.NewReader(body))
	}
	return &http.Response{
		StatusCode: status,
		Header:     h,
		Body:       rc,
	}
}
