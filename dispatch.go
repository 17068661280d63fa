package boorusnap

import (
	"context"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"
)

// Provider identifies which adapter a URL was classified as belonging to. Its
// declaration order is the canonical tie-break order used when more than one
// classifier matches the same URL: earlier providers win.
type Provider int

const (
	ProviderTwitter Provider = iota
	ProviderNitter
	ProviderTumblr
	ProviderDeviantArt
	ProviderPhilomena
	ProviderBuzzly
	ProviderRaw
	providerNone
)

func (p Provider) String() string {
	switch p {
	case ProviderTwitter:
		return "twitter"
	case ProviderNitter:
		return "nitter"
	case ProviderTumblr:
		return "tumblr"
	case ProviderDeviantArt:
		return "deviantart"
	case ProviderPhilomena:
		return "philomena"
	case ProviderBuzzly:
		return "buzzly"
	case ProviderRaw:
		return "raw"
	default:
		return "none"
	}
}

// Scraper classifies a URL and, if it matches, scrapes it. Scrape is only
// ever called after Classify has reported a match.
type Scraper interface {
	Provider() Provider
	Classify(ctx context.Context, client *http.Client, config *Configuration, u *url.URL) (bool, error)
	Scrape(ctx context.Context, client *http.Client, config *Configuration, u *url.URL) (*ScrapeResultData, error)
}

// cheapScrapers lists every adapter whose Classify needs no network I/O, in
// canonical tie-break order. Raw is deliberately excluded: its Classify is a
// HEAD probe, the one classifier expensive enough (and flaky enough against
// bot-hostile servers) that it must only run when nothing cheaper matched.
func cheapScrapers() []Scraper {
	return []Scraper{
		&twitterScraper{},
		&nitterScraper{},
		&tumblrScraper{},
		&deviantArtScraper{},
		&philomenaScraper{},
		&buzzlyScraper{},
	}
}

// Scrape classifies rawURL against every cheap provider concurrently, and
// falls back to the Raw classifier's HEAD probe only if none of them matched.
// It picks the canonically-first match and scrapes it, returning the "None"
// variant (a nil, nil ScrapeResult) when no provider claims the URL.
func Scrape(ctx context.Context, client *http.Client, config *Configuration, rawURL string) (*ScrapeResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrResultf("URL invalid"), nil
	}

	candidates := cheapScrapers()
	matched := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range candidates {
		i, s := i, s
		g.Go(func() error {
			ok, err := s.Classify(gctx, client, config, u)
			if err != nil {
				return err
			}
			matched[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, ok := range matched {
		if !ok {
			continue
		}
		return scrapeWith(ctx, client, config, u, candidates[i])
	}

	raw := &rawScraper{}
	ok, err := raw.Classify(ctx, client, config, u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return scrapeWith(ctx, client, config, u, raw)
}

func scrapeWith(ctx context.Context, client *http.Client, config *Configuration, u *url.URL, s Scraper) (*ScrapeResult, error) {
	data, err := s.Scrape(ctx, client, config, u)
	if err != nil {
		return ErrResultf("%s: %v", s.Provider(), err), nil
	}
	if data == nil {
		return nil, nil
	}
	return OkResult(data), nil
}
