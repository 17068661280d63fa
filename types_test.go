package boorusnap

import (
	"encoding/json"
	"net/url"
	"testing"
)

func TestScrapeResultMarshalNone(t *testing.T) {
	var r *ScrapeResult
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "null" {
		t.Errorf("expected null, got %s", b)
	}
}

func TestScrapeResultMarshalErr(t *testing.T) {
	r := ErrResultf("URL invalid")
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	errs, ok := got["errors"].([]interface{})
	if !ok || len(errs) != 1 || errs[0] != "URL invalid" {
		t.Errorf("unexpected errors field: %v", got)
	}
}

func TestScrapeResultMarshalOk(t *testing.T) {
	u, _ := url.Parse("https://derpicdn.net/img/view/2017/5/1/1426211.png")
	src, _ := url.Parse("http://brunomilan13.deviantart.com/art/Starlight-Glimmer-678047433")
	r := OkResult(&ScrapeResultData{
		SourceURL:      src,
		AuthorName:     ptr("zacatron94"),
		AdditionalTags: normalizeTags([]string{"pony", "safe", "unicorn"}),
		Images:         []ScrapeImage{{URL: u, CamoURL: u}},
	})
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}

	var rt ScrapeResult
	if err := json.Unmarshal(b, &rt); err != nil {
		t.Fatal(err)
	}
	if rt.Ok == nil {
		t.Fatal("expected Ok variant after round trip")
	}
	if got := *rt.Ok.AuthorName; got != "zacatron94" {
		t.Errorf("author_name: got %q", got)
	}
	if len(rt.Ok.Images) != 1 || rt.Ok.Images[0].URL.String() != u.String() {
		t.Errorf("images: got %+v", rt.Ok.Images)
	}
	wantTags := []string{"pony", "safe", "unicorn"}
	if len(rt.Ok.AdditionalTags) != len(wantTags) {
		t.Fatalf("additional_tags: got %v", rt.Ok.AdditionalTags)
	}
	for i, tag := range wantTags {
		if rt.Ok.AdditionalTags[i] != tag {
			t.Errorf("additional_tags[%d]: want %q, got %q", i, tag, rt.Ok.AdditionalTags[i])
		}
	}
}

func TestScrapeResultUnmarshalNull(t *testing.T) {
	var r ScrapeResult
	if err := json.Unmarshal([]byte("null"), &r); err != nil {
		t.Fatal(err)
	}
	if !r.IsNone() {
		t.Errorf("expected None variant")
	}
}

func TestNormalizeTagsEmpty(t *testing.T) {
	if got := normalizeTags(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := normalizeTags([]string{}); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestNormalizeTagsSorts(t *testing.T) {
	got := normalizeTags([]string{"unicorn", "pony", "safe"})
	want := []string{"pony", "safe", "unicorn"}
	for i, tag := range want {
		if got[i] != tag {
			t.Errorf("index %d: want %q, got %q", i, tag, got[i])
		}
	}
}

func TestNormalizeDescriptionWhitespaceOnly(t *testing.T) {
	if got := normalizeDescription("   \n\t  "); got != nil {
		t.Errorf("expected nil for whitespace-only description, got %q", *got)
	}
}

func TestNormalizeDescriptionTrims(t *testing.T) {
	got := normalizeDescription("  hello world  ")
	if got == nil || *got != "hello world" {
		t.Errorf("unexpected description: %v", got)
	}
}
