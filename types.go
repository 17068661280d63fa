package boorusnap

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// ScrapeImage describes one media artifact found at a scraped URL: the
// canonical upstream URL and its camo-proxied equivalent (see CamoURL).
type ScrapeImage struct {
	URL     *url.URL `json:"url"`
	CamoURL *url.URL `json:"camo_url"`
}

// MarshalJSON renders a ScrapeImage as {"url": "...", "camo_url": "..."}.
func (s ScrapeImage) MarshalJSON() ([]byte, error) {
	type wire struct {
		URL     string `json:"url"`
		CamoURL string `json:"camo_url"`
	}
	var w wire
	if s.URL != nil {
		w.URL = s.URL.String()
	}
	if s.CamoURL != nil {
		w.CamoURL = s.CamoURL.String()
	}
	return json.Marshal(w)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *ScrapeImage) UnmarshalJSON(data []byte) error {
	var w struct {
		URL     string `json:"url"`
		CamoURL string `json:"camo_url"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	u, err := url.Parse(w.URL)
	if err != nil {
		return fmt.Errorf("scrape image url: %w", err)
	}
	c, err := url.Parse(w.CamoURL)
	if err != nil {
		return fmt.Errorf("scrape image camo_url: %w", err)
	}
	s.URL, s.CamoURL = u, c
	return nil
}

// ScrapeResultData is a normalized hit: the provider-supplied metadata about
// the media found at a scraped URL.
type ScrapeResultData struct {
	SourceURL      *url.URL
	AuthorName     *string
	AdditionalTags []string // nil means "absent"; non-nil is always non-empty and sorted
	Description    *string
	Images         []ScrapeImage // never empty
}

// ScrapeResultError is a structured, human-readable failure report.
type ScrapeResultError struct {
	Errors []string
}

// NewScrapeResultError builds a ScrapeResultError from a single message.
func NewScrapeResultError(msg string) *ScrapeResultError {
	return &ScrapeResultError{Errors: []string{msg}}
}

// ScrapeResult is the tagged union returned by the scrape pipeline: exactly
// one of Ok, Err is non-nil, or both are nil (the "None" variant: no provider
// matched, or the matched provider found no media). It serializes untagged:
// the JSON shape alone distinguishes the three cases, matching the upstream
// client contract this service was built to satisfy.
type ScrapeResult struct {
	Ok  *ScrapeResultData
	Err *ScrapeResultError
}

// OkResult wraps d as the Ok variant.
func OkResult(d *ScrapeResultData) *ScrapeResult { return &ScrapeResult{Ok: d} }

// ErrResult wraps e as the Err variant.
func ErrResult(e *ScrapeResultError) *ScrapeResult { return &ScrapeResult{Err: e} }

// ErrResultf builds the Err variant from a single formatted message.
func ErrResultf(format string, args ...interface{}) *ScrapeResult {
	return &ScrapeResult{Err: NewScrapeResultError(fmt.Sprintf(format, args...))}
}

// IsNone reports whether r represents the "no match" variant: either r itself
// is nil, or both of its fields are.
func (r *ScrapeResult) IsNone() bool {
	return r == nil || (r.Ok == nil && r.Err == nil)
}

// wireOk and wireErr mirror the two non-null JSON shapes ScrapeResult can
// take; a JSON null is the None variant.
type wireOk struct {
	SourceURL      *string       `json:"source_url"`
	AuthorName     *string       `json:"author_name"`
	AdditionalTags []string      `json:"additional_tags"`
	Description    *string       `json:"description"`
	Images         []ScrapeImage `json:"images"`
}

type wireErr struct {
	Errors []string `json:"errors"`
}

// MarshalJSON renders whichever of the three ScrapeResult shapes is present:
// {"errors": [...]}, {"images": [...], ...}, or JSON null.
func (r *ScrapeResult) MarshalJSON() ([]byte, error) {
	switch {
	case r == nil:
		return []byte("null"), nil
	case r.Err != nil:
		return json.Marshal(wireErr{Errors: r.Err.Errors})
	case r.Ok != nil:
		w := wireOk{
			AdditionalTags: r.Ok.AdditionalTags,
			Description:    r.Ok.Description,
			AuthorName:     r.Ok.AuthorName,
			Images:         r.Ok.Images,
		}
		if r.Ok.SourceURL != nil {
			s := r.Ok.SourceURL.String()
			w.SourceURL = &s
		}
		return json.Marshal(w)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON tries Err first (requires a non-empty "errors" array), then
// Ok (requires an "images" array), falling back to the None variant for JSON
// null or anything else unrecognized.
func (r *ScrapeResult) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		r.Ok, r.Err = nil, nil
		return nil
	}
	var e wireErr
	if err := json.Unmarshal(data, &e); err == nil && len(e.Errors) > 0 {
		r.Err = &ScrapeResultError{Errors: e.Errors}
		r.Ok = nil
		return nil
	}
	var w wireOk
	if err := json.Unmarshal(data, &w); err != nil || w.Images == nil {
		r.Ok, r.Err = nil, nil
		return nil
	}
	d := &ScrapeResultData{
		AuthorName:     w.AuthorName,
		AdditionalTags: w.AdditionalTags,
		Description:    w.Description,
		Images:         w.Images,
	}
	if w.SourceURL != nil {
		u, err := url.Parse(*w.SourceURL)
		if err != nil {
			return fmt.Errorf("scrape result source_url: %w", err)
		}
		d.SourceURL = u
	}
	r.Ok = d
	r.Err = nil
	return nil
}

// normalizeTags sorts tags ascending and returns nil for an empty slice, so
// callers satisfy the "non-empty when present" invariant uniformly.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	sort.Strings(out)
	return out
}

// normalizeDescription trims whitespace and returns nil if the result is
// empty, so a whitespace-only description becomes "absent" rather than
// "present but blank".
func normalizeDescription(desc string) *string {
	trimmed := strings.TrimSpace(desc)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func ptr[T any](v T) *T { return &v }
