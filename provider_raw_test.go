package boorusnap

import (
	"context"
	"net/http"
	"net/url"
	"testing"
)

func TestRawClassifyMatchesKnownImageMime(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodHead {
			t.Fatalf("expected HEAD request, got %s", r.Method)
		}
		return stubResponse(200, "", map[string]string{"Content-Type": "image/png"}), nil
	})}
	u, _ := url.Parse("https://static.manebooru.art/img/view/2021/3/20/4010154.png")
	ok, err := (rawScraper{}).Classify(context.Background(), client, &Configuration{}, u)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected raw classifier to match image/png")
	}
}

func TestRawClassifyRejectsUnknownMime(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return stubResponse(200, "", map[string]string{"Content-Type": "text/html"}), nil
	})}
	u, _ := url.Parse("https://example.com/page")
	ok, err := (rawScraper{}).Classify(context.Background(), client, &Configuration{}, u)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected raw classifier to reject text/html")
	}
}

func TestRawScrape(t *testing.T) {
	u, _ := url.Parse("https://static.manebooru.art/img/view/2021/3/20/4010154.png")
	data, err := (rawScraper{}).Scrape(context.Background(), &http.Client{}, &Configuration{}, u)
	if err != nil {
		t.Fatal(err)
	}
	if data.SourceURL.String() != u.String() {
		t.Errorf("source_url: got %q", data.SourceURL)
	}
	if len(data.Images) != 1 || data.Images[0].URL.String() != u.String() {
		t.Errorf("images: got %+v", data.Images)
	}
	if data.AuthorName != nil || data.AdditionalTags != nil || data.Description != nil {
		t.Errorf("expected no author/tags/description, got %+v", data)
	}
}
