// Package source wraps every upstream — RSS feeds, HTML scrape targets and
// batch-produced JSON files — behind one Fetcher interface so a failure in
// any single source never aborts a refresh cycle.
package source

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/habarihub/habarihub/internal/feed"
)

type Kind string

const (
	KindRSS    Kind = "rss"
	KindScrape Kind = "scrape"
	KindFile   Kind = "file"
)

// ScrapeRule holds the CSS selectors for one scrape target. Selectors are
// brittle by nature; matching nothing is not an error.
type ScrapeRule struct {
	Item    string `yaml:"item"`
	Title   string `yaml:"title"`
	Link    string `yaml:"link"`
	Summary string `yaml:"summary"`
	Image   string `yaml:"image"`
}

// Descriptor is one entry of the sources YAML file.
type Descriptor struct {
	Name     string        `yaml:"name"`
	Kind     Kind          `yaml:"kind"`
	URL      string        `yaml:"url"`
	Path     string        `yaml:"path"` // file kind only
	Category feed.Category `yaml:"category"`
	Language string        `yaml:"language"`
	BaseURL  string        `yaml:"base_url"` // optional; derived from URL when empty
	Scrape   ScrapeRule    `yaml:"scrape"`
}

// Meta returns the normalization metadata for this source.
func (d Descriptor) Meta() feed.SourceMeta {
	base := d.BaseURL
	if base == "" && d.URL != "" {
		if u, err := url.Parse(d.URL); err == nil {
			base = u.Scheme + "://" + u.Host
		}
	}
	return feed.SourceMeta{
		Name:     d.Name,
		Category: d.Category,
		BaseURL:  base,
		Language: d.Language,
	}
}

type sourcesConfig struct {
	Sources []Descriptor `yaml:"sources"`
}

// LoadSources reads the source list from a YAML file.
func LoadSources(path string) ([]Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg sourcesConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(cfg.Sources))
	for _, d := range cfg.Sources {
		// Names key the per-source results during aggregation, so they
		// must be unique.
		if _, dup := seen[d.Name]; dup {
			return nil, fmt.Errorf("source %q: duplicate name", d.Name)
		}
		seen[d.Name] = struct{}{}

		switch d.Kind {
		case KindRSS, KindScrape:
			if d.URL == "" {
				return nil, fmt.Errorf("source %q: url is required for kind %q", d.Name, d.Kind)
			}
		case KindFile:
			if d.Path == "" {
				return nil, fmt.Errorf("source %q: path is required for kind file", d.Name)
			}
		default:
			return nil, fmt.Errorf("source %q: unknown kind %q", d.Name, d.Kind)
		}
	}
	return cfg.Sources, nil
}

// Fetcher produces zero or more raw records per refresh cycle. One attempt,
// bounded by the fetch timeout; errors are logged by the pipeline and the
// source simply contributes nothing for that cycle.
type Fetcher interface {
	Name() string
	Meta() feed.SourceMeta
	Fetch(ctx context.Context) ([]feed.RawArticle, error)
}

// NewFetcher builds the adapter for a descriptor.
func NewFetcher(d Descriptor, timeout time.Duration) (Fetcher, error) {
	switch d.Kind {
	case KindRSS:
		return newRSSFetcher(d, timeout), nil
	case KindScrape:
		return newScrapeFetcher(d, timeout), nil
	case KindFile:
		return newFileFetcher(d), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", d.Kind)
	}
}

// NewFetchers builds adapters for all descriptors.
func NewFetchers(descriptors []Descriptor, timeout time.Duration) ([]Fetcher, error) {
	fetchers := make([]Fetcher, 0, len(descriptors))
	for _, d := range descriptors {
		f, err := NewFetcher(d, timeout)
		if err != nil {
			return nil, err
		}
		fetchers = append(fetchers, f)
	}
	return fetchers, nil
}
