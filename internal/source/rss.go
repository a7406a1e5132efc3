package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/habarihub/habarihub/internal/feed"
)

const rssUserAgent = "HabariHub/1.0 (+https://github.com/habarihub/habarihub)"

type rssFetcher struct {
	desc   Descriptor
	parser *gofeed.Parser
}

func newRSSFetcher(d Descriptor, timeout time.Duration) *rssFetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = rssUserAgent
	parser.Client = &http.Client{Timeout: timeout}
	return &rssFetcher{desc: d, parser: parser}
}

func (f *rssFetcher) Name() string          { return f.desc.Name }
func (f *rssFetcher) Meta() feed.SourceMeta { return f.desc.Meta() }

func (f *rssFetcher) Fetch(ctx context.Context) ([]feed.RawArticle, error) {
	parsed, err := f.parser.ParseURLWithContext(f.desc.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", f.desc.URL, err)
	}

	raws := make([]feed.RawArticle, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		raw := feed.RawArticle{
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
			Content:     item.Content,
			Image:       itemImage(item),
		}
		if item.PublishedParsed != nil {
			raw.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			raw.Published = *item.UpdatedParsed
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// itemImage picks the explicit image field: the feed item image first, then
// the first image-typed enclosure.
func itemImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc.URL != "" && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}
