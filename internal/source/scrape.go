package source

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/habarihub/habarihub/internal/feed"
)

// Rotated per request; some news sites throttle repeat agents.
var scrapeUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:124.0) Gecko/20100101 Firefox/124.0",
}

type scrapeFetcher struct {
	desc   Descriptor
	client *http.Client
}

func newScrapeFetcher(d Descriptor, timeout time.Duration) *scrapeFetcher {
	return &scrapeFetcher{
		desc:   d,
		client: &http.Client{Timeout: timeout},
	}
}

func (f *scrapeFetcher) Name() string          { return f.desc.Name }
func (f *scrapeFetcher) Meta() feed.SourceMeta { return f.desc.Meta() }

// Fetch loads the page and applies the configured selectors. Selectors that
// match nothing yield an empty result, not an error.
func (f *scrapeFetcher) Fetch(ctx context.Context) ([]feed.RawArticle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.desc.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", scrapeUserAgents[rand.Intn(len(scrapeUserAgents))])

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("load page %s: %w", f.desc.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("page %s returned status %d", f.desc.URL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML from %s: %w", f.desc.URL, err)
	}

	rule := f.desc.Scrape
	var raws []feed.RawArticle
	doc.Find(rule.Item).Each(func(i int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find(rule.Title).First().Text())
		link, _ := sel.Find(rule.Link).First().Attr("href")

		raw := feed.RawArticle{
			Title: title,
			Link:  strings.TrimSpace(link),
		}
		if rule.Summary != "" {
			raw.Description = strings.TrimSpace(sel.Find(rule.Summary).First().Text())
		}
		if rule.Image != "" {
			if src, ok := sel.Find(rule.Image).First().Attr("src"); ok {
				raw.Image = strings.TrimSpace(src)
			}
		}
		raws = append(raws, raw)
	})
	return raws, nil
}
