package boorusnap

import (
	"context"
	"net/http"
	"net/url"
)

// rawMimeTypes lists the Content-Type values that qualify a direct link as
// raw media (§4.3).
var rawMimeTypes = map[string]bool{
	"image/gif":     true,
	"image/jpeg":    true,
	"image/png":     true,
	"image/svg":     true,
	"image/svg+xml": true,
	"video/webm":    true,
}

// rawScraper is the fallback adapter: it never inspects the host, only the
// response of a HEAD probe, so it is always tried last (see Scrape in
// dispatch.go).
type rawScraper struct{}

func (rawScraper) Provider() Provider { return ProviderRaw }

func (rawScraper) Classify(ctx context.Context, client *http.Client, config *Configuration, u *url.URL) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u.String(), nil)
	if err != nil {
		return false, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, nil
	}
	return rawMimeTypes[resp.Header.Get("Content-Type")], nil
}

func (rawScraper) Scrape(ctx context.Context, client *http.Client, config *Configuration, u *url.URL) (*ScrapeResultData, error) {
	camo, err := CamoURL(config, u)
	if err != nil {
		return nil, err
	}
	return &ScrapeResultData{
		SourceURL: u,
		Images:    []ScrapeImage{{URL: u, CamoURL: camo}},
	}, nil
}
