package feed

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// Summary length cap, applied before translation so translated payloads
	// stay small too.
	summaryMaxChars = 200

	// DefaultImageURL is substituted when no usable image is found.
	DefaultImageURL = "/static/img/placeholder.svg"
)

var (
	tagPattern = regexp.MustCompile(`<[^>]*>`)
	imgPattern = regexp.MustCompile(`<img[^>]+src=["'](http[^"']+)["']`)
)

// Normalizer converts heterogeneous raw source records into the canonical
// Article shape.
type Normalizer struct {
	targetLang string
}

func NewNormalizer(targetLang string) *Normalizer {
	return &Normalizer{targetLang: targetLang}
}

// Normalize returns the canonical article and true, or false when the record
// cannot be rendered meaningfully (missing title or link).
func (n *Normalizer) Normalize(raw RawArticle, meta SourceMeta, fetchedAt time.Time) (Article, bool) {
	title := strings.TrimSpace(StripHTML(raw.Title))
	link := resolveURL(meta.BaseURL, strings.TrimSpace(raw.Link))
	if title == "" || link == "" {
		return Article{}, false
	}

	summary := strings.TrimSpace(StripHTML(raw.Description))
	if summary == "" {
		summary = strings.TrimSpace(StripHTML(raw.Content))
	}
	if summary == "" {
		summary = fmt.Sprintf("Habari kutoka %s", meta.Name)
	}
	summary = truncate(summary, summaryMaxChars)

	published := raw.Published
	if published.IsZero() {
		published = fetchedAt
	}

	image := n.extractImage(raw, meta)

	needsTranslation := meta.Language != n.targetLang && !LooksSwahili(title)

	a := Article{
		Title:            title,
		Link:             link,
		Summary:          summary,
		PublishedAt:      published,
		SourceName:       meta.Name,
		Category:         meta.Category,
		ImageURL:         image,
		NeedsTranslation: needsTranslation,
	}
	if !needsTranslation {
		a.TitleTranslated = a.Title
		a.SummaryTranslated = a.Summary
	}
	return a, true
}

// extractImage searches in priority order: the explicit enclosure/media
// field, then the first http-prefixed <img> in content or description HTML,
// then the fixed placeholder.
func (n *Normalizer) extractImage(raw RawArticle, meta SourceMeta) string {
	if raw.Image != "" {
		return resolveURL(meta.BaseURL, raw.Image)
	}
	for _, html := range []string{raw.Content, raw.Description} {
		if m := imgPattern.FindStringSubmatch(html); m != nil {
			return m[1]
		}
	}
	return DefaultImageURL
}

// StripHTML removes tags and unescapes entities.
func StripHTML(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// resolveURL makes ref absolute against base. Already-absolute refs pass
// through unchanged; unparseable refs resolve to "".
func resolveURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if refURL.IsAbs() {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil || base == "" {
		return ""
	}
	return baseURL.ResolveReference(refURL).String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}
