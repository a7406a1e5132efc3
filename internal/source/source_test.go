package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/habarihub/habarihub/internal/feed"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSources(t *testing.T) {
	path := writeTempFile(t, "sources.yaml", `
sources:
  - name: BBC World
    kind: rss
    url: https://feeds.bbci.co.uk/news/world/rss.xml
    category: international
    language: en
  - name: Mwananchi
    kind: file
    path: data/mwananchi.json
    category: tanzania
    language: sw
`)

	descriptors, err := LoadSources(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(descriptors) != 2 {
		t.Fatalf("got %d sources, want 2", len(descriptors))
	}
	if descriptors[0].Kind != KindRSS || descriptors[1].Kind != KindFile {
		t.Errorf("kinds = %q, %q", descriptors[0].Kind, descriptors[1].Kind)
	}

	meta := descriptors[0].Meta()
	if meta.BaseURL != "https://feeds.bbci.co.uk" {
		t.Errorf("derived base URL = %q", meta.BaseURL)
	}
	if meta.Category != feed.CategoryInternational {
		t.Errorf("category = %q", meta.Category)
	}
}

func TestLoadSourcesRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown kind", "sources:\n  - name: X\n    kind: carrier-pigeon\n    url: https://x.example\n"},
		{"rss without url", "sources:\n  - name: X\n    kind: rss\n"},
		{"file without path", "sources:\n  - name: X\n    kind: file\n"},
		{"duplicate name", "sources:\n  - name: X\n    kind: rss\n    url: https://a.example/rss\n  - name: X\n    kind: rss\n    url: https://b.example/rss\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "sources.yaml", tt.yaml)
			if _, err := LoadSources(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Test Feed</title>
  <item>
    <title>First story</title>
    <link>https://example.com/first</link>
    <description>Something happened</description>
    <pubDate>Sat, 29 Aug 2026 10:00:00 +0000</pubDate>
    <enclosure url="https://example.com/first.jpg" type="image/jpeg" length="1000"/>
  </item>
  <item>
    <title>Second story</title>
    <link>https://example.com/second</link>
    <description>Something else happened</description>
  </item>
</channel>
</rss>`

func TestRSSFetcher(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testRSS))
	}))
	defer ts.Close()

	f := newRSSFetcher(Descriptor{Name: "Test", Kind: KindRSS, URL: ts.URL, Language: "en"}, 5*time.Second)
	raws, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != 2 {
		t.Fatalf("got %d items, want 2", len(raws))
	}
	if raws[0].Title != "First story" || raws[0].Link != "https://example.com/first" {
		t.Errorf("first item = %+v", raws[0])
	}
	if raws[0].Image != "https://example.com/first.jpg" {
		t.Errorf("enclosure image not picked up, got %q", raws[0].Image)
	}
	if raws[0].Published.IsZero() {
		t.Error("pubDate should be parsed")
	}
	if !raws[1].Published.IsZero() {
		t.Error("item without pubDate should have zero time")
	}
}

func TestRSSFetcherBadFeed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not XML"))
	}))
	defer ts.Close()

	f := newRSSFetcher(Descriptor{Name: "Test", Kind: KindRSS, URL: ts.URL}, 5*time.Second)
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Error("expected parse error")
	}
}

const testHTML = `<html><body>
<article class="story-card">
  <h3>Scraped headline</h3>
  <p>Scraped summary text.</p>
  <a href="/world/scraped-headline">read</a>
  <img src="https://example.com/pic.jpg">
</article>
<article class="story-card">
  <h3>Another headline</h3>
  <a href="https://example.com/another">read</a>
</article>
</body></html>`

func TestScrapeFetcher(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testHTML))
	}))
	defer ts.Close()

	desc := Descriptor{
		Name: "Test", Kind: KindScrape, URL: ts.URL, Language: "en",
		Scrape: ScrapeRule{Item: "article.story-card", Title: "h3", Link: "a", Summary: "p", Image: "img"},
	}
	f := newScrapeFetcher(desc, 5*time.Second)
	raws, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != 2 {
		t.Fatalf("got %d items, want 2", len(raws))
	}
	if raws[0].Title != "Scraped headline" {
		t.Errorf("title = %q", raws[0].Title)
	}
	if raws[0].Link != "/world/scraped-headline" {
		t.Errorf("link = %q (resolution happens later, in normalization)", raws[0].Link)
	}
	if raws[0].Description != "Scraped summary text." {
		t.Errorf("summary = %q", raws[0].Description)
	}
	if raws[0].Image != "https://example.com/pic.jpg" {
		t.Errorf("image = %q", raws[0].Image)
	}
	if raws[1].Description != "" || raws[1].Image != "" {
		t.Errorf("missing optional fields should stay empty, got %+v", raws[1])
	}
}

func TestScrapeFetcherNoMatchesIsNotAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>redesigned page</p></body></html>"))
	}))
	defer ts.Close()

	desc := Descriptor{
		Name: "Test", Kind: KindScrape, URL: ts.URL,
		Scrape: ScrapeRule{Item: "article.story-card", Title: "h3", Link: "a"},
	}
	f := newScrapeFetcher(desc, 5*time.Second)
	raws, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != 0 {
		t.Errorf("got %d items, want 0", len(raws))
	}
}

func TestScrapeFetcherHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	f := newScrapeFetcher(Descriptor{Name: "Test", Kind: KindScrape, URL: ts.URL}, 5*time.Second)
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Error("expected error on non-2xx status")
	}
}

func TestFileFetcher(t *testing.T) {
	path := writeTempFile(t, "batch.json", `[
  {"title": "Habari moja", "link": "https://example.com/1", "description": "Maelezo", "image": "https://example.com/1.jpg", "pub_date": "2026-08-29 09:15:00", "source": "Mwananchi"},
  {"title": "Habari mbili", "link": "https://example.com/2", "pub_date": "not-a-date"}
]`)

	f := newFileFetcher(Descriptor{Name: "Mwananchi", Kind: KindFile, Path: path, Language: "sw"})
	raws, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != 2 {
		t.Fatalf("got %d items, want 2", len(raws))
	}
	want := time.Date(2026, 8, 29, 9, 15, 0, 0, time.UTC)
	if !raws[0].Published.Equal(want) {
		t.Errorf("published = %v, want %v", raws[0].Published, want)
	}
	if !raws[1].Published.IsZero() {
		t.Error("unparseable date should yield zero time")
	}
}

func TestFileFetcherMissingFile(t *testing.T) {
	f := newFileFetcher(Descriptor{Name: "Mwananchi", Kind: KindFile, Path: "does/not/exist.json"})
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Error("expected error for missing batch file")
	}
}

func TestNewFetchersCoversAllKinds(t *testing.T) {
	descriptors := []Descriptor{
		{Name: "A", Kind: KindRSS, URL: "https://a.example/rss"},
		{Name: "B", Kind: KindScrape, URL: "https://b.example/"},
		{Name: "C", Kind: KindFile, Path: "c.json"},
	}
	fetchers, err := NewFetchers(descriptors, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if len(fetchers) != 3 {
		t.Fatalf("got %d fetchers, want 3", len(fetchers))
	}
	for i, f := range fetchers {
		if f.Name() != descriptors[i].Name {
			t.Errorf("fetcher %d name = %q", i, f.Name())
		}
	}
}
