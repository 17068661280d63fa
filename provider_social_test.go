package boorusnap

import (
	"context"
	"net/url"
	"testing"
)

func TestTwitterClassify(t *testing.T) {
	for _, host := range []string{"twitter.com", "www.twitter.com", "mobile.twitter.com", "x.com"} {
		u := &url.URL{Scheme: "https", Host: host}
		ok, err := (twitterScraper{}).Classify(context.Background(), nil, &Configuration{}, u)
		if err != nil || !ok {
			t.Errorf("host %q: expected match, got ok=%v err=%v", host, ok, err)
		}
	}
	u := &url.URL{Scheme: "https", Host: "example.com"}
	ok, _ := (twitterScraper{}).Classify(context.Background(), nil, &Configuration{}, u)
	if ok {
		t.Errorf("did not expect example.com to match twitter")
	}
}

func TestTwitterURLRegex(t *testing.T) {
	m := twitterURLRE.FindStringSubmatch("https://twitter.com/amix3k/status/679355208091181056")
	if m == nil {
		t.Fatal("expected match")
	}
	if m[1] != "amix3k" || m[2] != "679355208091181056" {
		t.Errorf("unexpected capture groups: %v", m)
	}
}

func TestNitterClassifyKnownInstance(t *testing.T) {
	u := &url.URL{Scheme: "https", Host: "nitter.net"}
	ok, err := (nitterScraper{}).Classify(context.Background(), nil, &Configuration{}, u)
	if err != nil || !ok {
		t.Errorf("expected nitter.net to match, got ok=%v err=%v", ok, err)
	}
}

func TestNitterClassifyPreferredInstance(t *testing.T) {
	config := &Configuration{PreferredNitterInstanceHost: "nitter.example.org"}
	u := &url.URL{Scheme: "https", Host: "nitter.example.org"}
	ok, err := (nitterScraper{}).Classify(context.Background(), nil, config, u)
	if err != nil || !ok {
		t.Errorf("expected configured preferred instance to match, got ok=%v err=%v", ok, err)
	}

	unconfigured := &url.URL{Scheme: "https", Host: "nitter.unknown.example"}
	ok, err = (nitterScraper{}).Classify(context.Background(), nil, config, unconfigured)
	if err != nil || ok {
		t.Errorf("did not expect unknown instance to match, got ok=%v err=%v", ok, err)
	}
}

func TestBuzzlyClassify(t *testing.T) {
	u := &url.URL{Scheme: "https", Host: "buzzly.art"}
	ok, err := (buzzlyScraper{}).Classify(context.Background(), nil, &Configuration{}, u)
	if err != nil || !ok {
		t.Errorf("expected buzzly.art to match, got ok=%v err=%v", ok, err)
	}
}

func TestTumblrClassifyHostSuffix(t *testing.T) {
	u := &url.URL{Scheme: "https", Host: "someone.tumblr.com"}
	ok, err := (tumblrScraper{}).Classify(context.Background(), nil, &Configuration{}, u)
	if err != nil || !ok {
		t.Errorf("expected *.tumblr.com to match, got ok=%v err=%v", ok, err)
	}
}

func TestTumblrPostURLRegex(t *testing.T) {
	m := tumblrPostURLRE.FindStringSubmatch("https://someone.tumblr.com/post/123456789/a-caption")
	if m == nil {
		t.Fatal("expected match")
	}
	if m[1] != "someone" || m[2] != "123456789" {
		t.Errorf("unexpected capture groups: %v", m)
	}
}
