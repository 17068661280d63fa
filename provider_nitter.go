package boorusnap

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// knownNitterHosts lists compiled-in public Nitter instances, mirroring the
// same kind of static host allow-list the teacher used for oembed providers.
// PREFERRED_NITTER_INSTANCE_HOST (§6) adds exactly one more at runtime.
var knownNitterHosts = map[string]bool{
	"nitter.net":                 true,
	"nitter.poast.org":           true,
	"nitter.privacyredirect.com": true,
}

// nitterStatusRE extracts the author and numeric status id from a Nitter
// permalink, e.g. https://nitter.net/someuser/status/12345#m.
var nitterStatusRE = regexp.MustCompile(`https?://[^/]+/([^/]+)/status/(\d+)`)

type nitterScraper struct{}

func (nitterScraper) Provider() Provider { return ProviderNitter }

func (nitterScraper) Classify(ctx context.Context, client *http.Client, config *Configuration, u *url.URL) (bool, error) {
	if knownNitterHosts[u.Host] {
		return true, nil
	}
	return config.PreferredNitterInstanceHost != "" && u.Host == config.PreferredNitterInstanceHost, nil
}

// Scrape parses the Nitter status page HTML directly: Nitter is a
// self-hosted mirror with no JSON API, so this adapter reads the same
// attachment markup Nitter's own templates render, the way heyLu-numblr's
// feed-parsing helpers read Tumblr/Nitter HTML in the corpus.
func (nitterScraper) Scrape(ctx context.Context, client *http.Client, config *Configuration, u *url.URL) (*ScrapeResultData, error) {
	m := nitterStatusRE.FindStringSubmatch(u.String())
	if m == nil {
		return nil, fmt.Errorf("could not parse nitter status url")
	}
	handle := m[1]

	body, err := fetchBody(ctx, client, u)
	if err != nil {
		return nil, fmt.Errorf("nitter request failed: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not parse nitter page: %w", err)
	}

	var images []ScrapeImage
	doc.Find(".attachments a.still-image").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		imageURL, err := u.Parse(href)
		if err != nil {
			return
		}
		camo, err := CamoURL(config, imageURL)
		if err != nil {
			return
		}
		images = append(images, ScrapeImage{URL: imageURL, CamoURL: camo})
	})
	if len(images) == 0 {
		return nil, nil
	}

	description := strings.TrimSpace(doc.Find(".tweet-content").First().Text())

	return &ScrapeResultData{
		SourceURL:   u,
		AuthorName:  ptr(handle),
		Description: normalizeDescription(description),
		Images:      images,
	}, nil
}
