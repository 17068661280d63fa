package boorusnap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/dyatlov/go-opengraph/opengraph"
)

// twitterURLRE extracts the author handle and numeric tweet id from a status
// URL, shared by both the v1 (HTML) and v2 (API) code paths.
var twitterURLRE = regexp.MustCompile(`https?://(?:www\.|mobile\.)?(?:twitter|x)\.com/([^/]+)/status(?:es)?/(\d+)`)

type twitterScraper struct{}

func (twitterScraper) Provider() Provider { return ProviderTwitter }

func (twitterScraper) Classify(ctx context.Context, client *http.Client, config *Configuration, u *url.URL) (bool, error) {
	switch u.Host {
	case "twitter.com", "www.twitter.com", "mobile.twitter.com", "x.com":
		return true, nil
	default:
		return false, nil
	}
}

func (s twitterScraper) Scrape(ctx context.Context, client *http.Client, config *Configuration, u *url.URL) (*ScrapeResultData, error) {
	if config.TwitterUseV2 {
		return s.scrapeV2(ctx, client, config, u)
	}
	return s.scrapeV1(ctx, client, config, u)
}

// scrapeV1 follows the teacher's own og-tag parsing style (opengraph_parser.go):
// no API credentials required, at the cost of only ever seeing the single
// preview image Twitter's card markup exposes.
func (twitterScraper) scrapeV1(ctx context.Context, client *http.Client, config *Configuration, u *url.URL) (*ScrapeResultData, error) {
	m := twitterURLRE.FindStringSubmatch(u.String())
	if m == nil {
		return nil, fmt.Errorf("could not parse tweet url")
	}
	handle := m[1]

	body, err := fetchBody(ctx, client, u)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}

	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(body)); err != nil {
		return nil, fmt.Errorf("could not parse tweet page: %w", err)
	}
	if len(og.Images) == 0 {
		return nil, nil
	}

	imageURL, err := url.Parse(og.Images[0].URL)
	if err != nil {
		return nil, fmt.Errorf("tweet image url: %w", err)
	}
	camo, err := CamoURL(config, imageURL)
	if err != nil {
		return nil, err
	}

	return &ScrapeResultData{
		SourceURL:   u,
		AuthorName:  ptr(handle),
		Description: normalizeDescription(og.Description),
		Images:      []ScrapeImage{{URL: imageURL, CamoURL: camo}},
	}, nil
}

// Twitter API v2 response shapes, trimmed to the fields this adapter reads.
type twitterV2TweetResponse struct {
	Data struct {
		ID          string `json:"id"`
		Text        string `json:"text"`
		AuthorID    string `json:"author_id"`
		Attachments *struct {
			MediaKeys []string `json:"media_keys"`
		} `json:"attachments"`
	} `json:"data"`
	Includes struct {
		Media []struct {
			MediaKey        string  `json:"media_key"`
			URL             *string `json:"url"`
			PreviewImageURL *string `json:"preview_image_url"`
		} `json:"media"`
	} `json:"includes"`
}

type twitterV2UserResponse struct {
	Data struct {
		Username string `json:"username"`
	} `json:"data"`
}

// scrapeV2 uses a bearer-token authenticated API v2 fetch. Per the stricter
// null-handling variant, any missing author, media URL or empty media set
// yields the "None" outcome rather than a partially-populated result.
func (twitterScraper) scrapeV2(ctx context.Context, client *http.Client, config *Configuration, u *url.URL) (*ScrapeResultData, error) {
	if config.TwitterAPIKeyBearer == "" {
		return nil, fmt.Errorf("must have configured v2 api key")
	}
	m := twitterURLRE.FindStringSubmatch(u.String())
	if m == nil {
		return nil, fmt.Errorf("could not parse tweet url")
	}
	statusID := m[2]

	tweetURL := "https://api.twitter.com/2/tweets/" + statusID +
		"?tweet.fields=text,id,created_at,author_id,attachments" +
		"&expansions=attachments.media_keys" +
		"&media.fields=url,preview_image_url,media_key"
	var tweet twitterV2TweetResponse
	if err := twitterV2Get(ctx, client, config, tweetURL, &tweet); err != nil {
		return nil, err
	}
	if tweet.Data.AuthorID == "" {
		return nil, nil
	}

	userURL := "https://api.twitter.com/2/users/" + tweet.Data.AuthorID + "?user.fields=name,url"
	var user twitterV2UserResponse
	if err := twitterV2Get(ctx, client, config, userURL, &user); err != nil {
		return nil, err
	}
	if user.Data.Username == "" {
		return nil, nil
	}

	var images []ScrapeImage
	for _, media := range tweet.Includes.Media {
		if media.URL == nil {
			return nil, nil
		}
		previewRaw := *media.URL
		if media.PreviewImageURL != nil {
			previewRaw = *media.PreviewImageURL
		}
		imageURL, err := url.Parse(*media.URL)
		if err != nil {
			continue
		}
		previewURL, err := url.Parse(previewRaw)
		if err != nil {
			previewURL = imageURL
		}
		camo, err := CamoURL(config, previewURL)
		if err != nil {
			return nil, fmt.Errorf("invalid tweet media uri: %w", err)
		}
		images = append(images, ScrapeImage{URL: imageURL, CamoURL: camo})
	}
	if len(images) == 0 {
		return nil, nil
	}

	return &ScrapeResultData{
		SourceURL:   u,
		AuthorName:  ptr(user.Data.Username),
		Description: normalizeDescription(tweet.Data.Text),
		Images:      images,
	}, nil
}

func twitterV2Get(ctx context.Context, client *http.Client, config *Configuration, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+config.TwitterAPIKeyBearer)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("twitter api v2 request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("twitter api v2 returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode twitter api v2 response: %w", err)
	}
	return nil
}
