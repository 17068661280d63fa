package boorusnap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// philomenaHosts lists the known Philomena-family boorus. Derpibooru is the
// only member today; adding a booru is a one-line change here.
var philomenaHosts = map[string]bool{
	"derpibooru.org":     true,
	"www.derpibooru.org": true,
}

// philomenaPathRE matches the two URL shapes the Philomena adapter accepts:
// /images/{id} and the short-link form /{id}.
var philomenaPathRE = regexp.MustCompile(`^/(?:images/)?(\d+)/?$`)

type philomenaScraper struct{}

func (philomenaScraper) Provider() Provider { return ProviderPhilomena }

func (philomenaScraper) Classify(ctx context.Context, client *http.Client, config *Configuration, u *url.URL) (bool, error) {
	return philomenaHosts[u.Host], nil
}

// philomenaAPIURL rewrites a booru image page URL to its JSON API endpoint.
func philomenaAPIURL(u *url.URL) (*url.URL, error) {
	m := philomenaPathRE.FindStringSubmatch(u.Path)
	if m == nil {
		return nil, fmt.Errorf("philomena: could not extract image id from path %q", u.Path)
	}
	return &url.URL{
		Scheme: u.Scheme,
		Host:   u.Host,
		Path:   "/api/v1/json/images/" + m[1],
	}, nil
}

type philomenaAPIResponse struct {
	Image struct {
		Tags        []string `json:"tags"`
		SourceURL   *string  `json:"source_url"`
		Description *string  `json:"description"`
		ViewURL     string   `json:"view_url"`
	} `json:"image"`
}

func (philomenaScraper) Scrape(ctx context.Context, client *http.Client, config *Configuration, u *url.URL) (*ScrapeResultData, error) {
	apiURL, err := philomenaAPIURL(u)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to philomena failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("philomena returned status %d", resp.StatusCode)
	}

	var api philomenaAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return nil, fmt.Errorf("could not parse philomena response: %w", err)
	}

	viewURL, err := url.Parse(api.Image.ViewURL)
	if err != nil {
		return nil, fmt.Errorf("philomena view_url: %w", err)
	}
	camo, err := CamoURL(config, viewURL)
	if err != nil {
		return nil, err
	}

	var sourceURL *url.URL
	if api.Image.SourceURL != nil && strings.TrimSpace(*api.Image.SourceURL) != "" {
		sourceURL, err = url.Parse(strings.TrimSpace(*api.Image.SourceURL))
		if err != nil {
			return nil, fmt.Errorf("philomena source_url: %w", err)
		}
	}

	var authorName *string
	var additionalTags []string
	for _, tag := range api.Image.Tags {
		if strings.HasPrefix(tag, "artist:") {
			if authorName == nil {
				authorName = ptr(strings.TrimPrefix(tag, "artist:"))
			}
			continue
		}
		additionalTags = append(additionalTags, tag)
	}
	sort.Strings(additionalTags)

	var description *string
	if api.Image.Description != nil {
		description = normalizeDescription(*api.Image.Description)
	}

	return &ScrapeResultData{
		SourceURL:      sourceURL,
		AuthorName:     authorName,
		AdditionalTags: normalizeTags(additionalTags),
		Description:    description,
		Images:         []ScrapeImage{{URL: viewURL, CamoURL: camo}},
	}, nil
}
