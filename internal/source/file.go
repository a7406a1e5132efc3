package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/habarihub/habarihub/internal/feed"
)

// fileRecord is the shape written by the batch scraper (one JSON array of
// pre-scraped items, e.g. mwananchi.json).
type fileRecord struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Image       string `json:"image"`
	PubDate     string `json:"pub_date"`
	Source      string `json:"source"`
}

var fileDateLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type fileFetcher struct {
	desc Descriptor
}

func newFileFetcher(d Descriptor) *fileFetcher {
	return &fileFetcher{desc: d}
}

func (f *fileFetcher) Name() string          { return f.desc.Name }
func (f *fileFetcher) Meta() feed.SourceMeta { return f.desc.Meta() }

func (f *fileFetcher) Fetch(ctx context.Context) ([]feed.RawArticle, error) {
	data, err := os.ReadFile(f.desc.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.desc.Path, err)
	}

	var records []fileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", f.desc.Path, err)
	}

	raws := make([]feed.RawArticle, 0, len(records))
	for _, rec := range records {
		raws = append(raws, feed.RawArticle{
			Title:       rec.Title,
			Link:        rec.Link,
			Description: rec.Description,
			Image:       rec.Image,
			Published:   parseFileDate(rec.PubDate),
		})
	}
	return raws, nil
}

// parseFileDate tries the known layouts; a zero time means the normalizer
// falls back to fetch time.
func parseFileDate(s string) time.Time {
	for _, layout := range fileDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
