package boorusnap

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dyatlov/go-opengraph/opengraph"
)

// buzzlyHosts lists the Buzzly art domains (§4.3).
var buzzlyHosts = map[string]bool{
	"buzzly.art":     true,
	"www.buzzly.art": true,
}

type buzzlyScraper struct{}

func (buzzlyScraper) Provider() Provider { return ProviderBuzzly }

func (buzzlyScraper) Classify(ctx context.Context, client *http.Client, config *Configuration, u *url.URL) (bool, error) {
	return buzzlyHosts[u.Host], nil
}

// Scrape reads Buzzly's own Open Graph tags, the same ogp.me parsing the
// teacher's opengraph_parser.go drives via github.com/dyatlov/go-opengraph.
func (buzzlyScraper) Scrape(ctx context.Context, client *http.Client, config *Configuration, u *url.URL) (*ScrapeResultData, error) {
	body, err := fetchBody(ctx, client, u)
	if err != nil {
		return nil, fmt.Errorf("buzzly request failed: %w", err)
	}

	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(body)); err != nil {
		return nil, fmt.Errorf("could not parse buzzly page: %w", err)
	}
	if len(og.Images) == 0 {
		return nil, nil
	}

	imageURL, err := url.Parse(og.Images[0].URL)
	if err != nil {
		return nil, fmt.Errorf("buzzly image url: %w", err)
	}
	camo, err := CamoURL(config, imageURL)
	if err != nil {
		return nil, err
	}

	var authorName *string
	if idx := strings.Index(og.Title, " by "); idx >= 0 {
		authorName = ptr(strings.TrimSpace(og.Title[idx+len(" by "):]))
	}

	return &ScrapeResultData{
		SourceURL:   u,
		AuthorName:  authorName,
		Description: normalizeDescription(og.Description),
		Images:      []ScrapeImage{{URL: imageURL, CamoURL: camo}},
	}, nil
}
