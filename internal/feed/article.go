package feed

import "time"

// Category groups articles on the rendered page. The set is open; sources
// may declare new categories in the YAML config without code changes.
type Category string

const (
	CategoryInternational Category = "international"
	CategorySports        Category = "sports"
	CategoryTanzania      Category = "tanzania"
	CategoryEastAfrica    Category = "eastAfrica"
	CategorySwahili       Category = "swahili"
)

// Article is the canonical post-normalization shape. Title and Link are
// mandatory; the normalizer drops records that lack either.
type Article struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Summary     string    `json:"summary"`
	PublishedAt time.Time `json:"published_at"`
	SourceName  string    `json:"source"`
	Category    Category  `json:"category"`
	ImageURL    string    `json:"image_url"`

	// NeedsTranslation is decided once at normalization time. When false the
	// translated fields are verbatim copies of the originals.
	NeedsTranslation  bool   `json:"needs_translation"`
	TitleTranslated   string `json:"title_translated"`
	SummaryTranslated string `json:"summary_translated"`
}

// RawArticle is what a source fetcher hands to the normalizer before any
// cleanup. Description and Content may still contain HTML.
type RawArticle struct {
	Title       string
	Link        string
	Description string
	Content     string
	Image       string // explicit enclosure/media URL, if the source gave one
	Published   time.Time
}

// SourceMeta describes the source a raw record came from.
type SourceMeta struct {
	Name     string
	Category Category
	BaseURL  string
	Language string // declared feed language; "sw" sources skip translation
}
