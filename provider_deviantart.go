package boorusnap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Regexes mirror the ones the original DeviantArt scraper was built around,
// kept isolated and named per §9: they are expected to break when DeviantArt
// reskins its page markup.
var (
	deviantArtImageRE    = regexp.MustCompile(`data-rh="true" rel="preload" href="([^"]*)" as="image"`)
	deviantArtSourceRE   = regexp.MustCompile(`rel="canonical" href="([^"]*)"`)
	deviantArtArtistRE   = regexp.MustCompile(`https://www\.deviantart\.com/([^/]*)/art`)
	deviantArtSerialRE   = regexp.MustCompile(`https://www\.deviantart\.com/.*-(\d+)$`)
	deviantArtCdnIntRE   = regexp.MustCompile(`(https://images-wixmp-[0-9a-f]+\.wixmp\.com)(?:/intermediary)?/f/([^/]*)/([^/?]*)`)
	deviantArtPngRE      = regexp.MustCompile(`(https://[0-9a-z\-.]+(?:/intermediary)?/f/[0-9a-f\-]+/[0-9a-z\-]+\.png/v1/fill/[0-9a-z_,]+/[0-9a-z_\-]+)(\.png)(.*)`)
	deviantArtJpgRE      = regexp.MustCompile(`(https://[0-9a-z\-.]+(?:/intermediary)?/f/[0-9a-f\-]+/[0-9a-z\-]+\.jpg/v1/fill/w_[0-9]+,h_[0-9]+,q_)([0-9]+)(,[a-z]+/[a-z0-9_\-]+\.jpe?g.*)`)
)

type deviantArtScraper struct{}

func (deviantArtScraper) Provider() Provider { return ProviderDeviantArt }

func (deviantArtScraper) Classify(ctx context.Context, client *http.Client, config *Configuration, u *url.URL) (bool, error) {
	return u.Host == "deviantart.com" || strings.HasSuffix(u.Host, ".deviantart.com"), nil
}

func (s deviantArtScraper) Scrape(ctx context.Context, client *http.Client, config *Configuration, u *url.URL) (*ScrapeResultData, error) {
	body, err := fetchBody(ctx, client, u)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}

	data, seedCamo, err := deviantArtExtract(config, body)
	if err != nil {
		return nil, fmt.Errorf("could not extract DA page data: %w", err)
	}

	images := deviantArtTryNewHires(data.Images)
	images, err = s.tryIntermediaryHires(ctx, client, images)
	if err != nil {
		return nil, err
	}
	if data.SourceURL == nil {
		return nil, fmt.Errorf("had no source url")
	}
	images, err = s.tryOldHires(ctx, client, data.SourceURL, images, seedCamo)
	if err != nil {
		return nil, fmt.Errorf("old_hires conversion failed: %w", err)
	}
	data.Images = images
	return data, nil
}

// deviantArtExtract pulls the preload image, canonical source and artist
// slug out of a DeviantArt page body and builds the seed single-image
// result. Returns the camo URL of that seed image alongside it, since later
// pipeline stages reuse it for derived images.
func deviantArtExtract(config *Configuration, body string) (*ScrapeResultData, *url.URL, error) {
	imageMatch := deviantArtImageRE.FindStringSubmatch(body)
	if imageMatch == nil {
		return nil, nil, fmt.Errorf("no image found")
	}
	sourceMatch := deviantArtSourceRE.FindStringSubmatch(body)
	if sourceMatch == nil {
		return nil, nil, fmt.Errorf("no source found")
	}
	artistMatch := deviantArtArtistRE.FindStringSubmatch(sourceMatch[1])
	if artistMatch == nil {
		return nil, nil, fmt.Errorf("no artist found")
	}

	imageURL, err := url.Parse(imageMatch[1])
	if err != nil {
		return nil, nil, fmt.Errorf("could not parse image URL: %w", err)
	}
	sourceURL, err := url.Parse(sourceMatch[1])
	if err != nil {
		return nil, nil, fmt.Errorf("source URL not valid URL: %w", err)
	}
	camo, err := CamoURL(config, imageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("could not camo URL: %w", err)
	}

	return &ScrapeResultData{
		SourceURL:  sourceURL,
		AuthorName: ptr(artistMatch[1]),
		Images:     []ScrapeImage{{URL: imageURL, CamoURL: camo}},
	}, camo, nil
}

// deviantArtTryNewHires rewrites wixmp "fill" URLs to a higher-fidelity
// variant, appending the rewritten URL alongside (not in place of) the
// original seed image, one per matching regex.
func deviantArtTryNewHires(images []ScrapeImage) []ScrapeImage {
	out := append([]ScrapeImage(nil), images...)
	for _, img := range images {
		old := img.URL.String()
		if deviantArtPngRE.MatchString(old) {
			rewritten := deviantArtPngRE.ReplaceAllString(old, "${1}.png${3}")
			if u, err := url.Parse(rewritten); err == nil {
				out = append(out, ScrapeImage{URL: u, CamoURL: img.CamoURL})
			}
		}
		if deviantArtJpgRE.MatchString(old) {
			rewritten := deviantArtJpgRE.ReplaceAllString(old, "${1}100${3}")
			if u, err := url.Parse(rewritten); err == nil {
				out = append(out, ScrapeImage{URL: u, CamoURL: img.CamoURL})
			}
		}
	}
	return out
}

// tryIntermediaryHires derives an /intermediary/{uuid}/{filename} candidate
// for each wixmp image and keeps it only if a HEAD probe returns 200.
func (deviantArtScraper) tryIntermediaryHires(ctx context.Context, client *http.Client, images []ScrapeImage) ([]ScrapeImage, error) {
	out := append([]ScrapeImage(nil), images...)
	for _, img := range images {
		m := deviantArtCdnIntRE.FindStringSubmatch(img.URL.String())
		if m == nil {
			continue
		}
		built := m[1] + "/intermediary/" + m[2] + "/" + m[3]
		builtURL, err := url.Parse(built)
		if err != nil {
			continue
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, builtURL.String(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HEAD request to DA URL failed: %w", err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			out = append(out, ScrapeImage{URL: builtURL, CamoURL: img.CamoURL})
		}
	}
	return out, nil
}

// tryOldHires parses a trailing numeric serial from sourceURL, converts it to
// base-36, and GETs the legacy orig01.deviantart.net redirect endpoint with
// redirects disabled; a Location header response becomes an additional image.
func (deviantArtScraper) tryOldHires(ctx context.Context, client *http.Client, sourceURL *url.URL, images []ScrapeImage, camo *url.URL) ([]ScrapeImage, error) {
	m := deviantArtSerialRE.FindStringSubmatch(sourceURL.String())
	if m == nil {
		return nil, fmt.Errorf("no serial captured")
	}
	serial, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("integer could not be parsed: %w", err)
	}
	base36 := strings.ToLower(strconv.FormatInt(serial, 36))

	built := fmt.Sprintf("http://orig01.deviantart.net/x_by_x-d%s.png", base36)

	// Reuse the caller's transport (proxy, tracing, fixed UA) but disable
	// redirect following, since the signal this probe wants is the
	// Location header of a 30x response, not its final destination.
	probeClient := &http.Client{
		Transport: client.Transport,
		Jar:       client.Jar,
		Timeout:   client.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, built, nil)
	if err != nil {
		return nil, err
	}
	resp, err := probeClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("old hires request failed: %w", err)
	}
	defer resp.Body.Close()

	if loc := resp.Header.Get("Location"); loc != "" {
		locURL, err := url.Parse(loc)
		if err != nil {
			return nil, fmt.Errorf("new old_hires location is not valid URL: %w", err)
		}
		return append(images, ScrapeImage{URL: locURL, CamoURL: camo}), nil
	}
	return images, nil
}

func fetchBody(ctx context.Context, client *http.Client, u *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("could not read response: %w", err)
	}
	return string(b), nil
}
