package pipeline

import (
	"time"

	"github.com/habarihub/habarihub/internal/feed"
)

// FallbackArticles is the fixed set shown when filtering leaves too little
// to render. The texts are already Swahili, so no translation is triggered.
func FallbackArticles(now time.Time) []feed.Article {
	items := []struct {
		title   string
		summary string
	}{
		{"Karibu HabariHub", "Habari mpya kutoka vyanzo vyetu zinakuja hivi karibuni. Tafadhali rudi baada ya muda mfupi."},
		{"Habari za kimataifa", "Tunakusanya habari za dunia nzima kutoka mashirika makubwa ya habari."},
		{"Michezo leo", "Matokeo na taarifa za michezo kutoka Tanzania na kwingineko zitapatikana hapa."},
		{"Habari za Afrika Mashariki", "Taarifa kutoka Kenya, Uganda, Rwanda na nchi jirani zinakusanywa kila saa."},
		{"Habari kwa Kiswahili", "HabariHub hutafsiri vichwa vya habari vya Kiingereza kwa Kiswahili kiotomatiki."},
	}

	articles := make([]feed.Article, 0, len(items))
	for _, item := range items {
		articles = append(articles, feed.Article{
			Title:             item.title,
			Link:              "https://habarihub.example/about",
			Summary:           item.summary,
			PublishedAt:       now,
			SourceName:        "HabariHub",
			Category:          feed.CategorySwahili,
			ImageURL:          feed.DefaultImageURL,
			NeedsTranslation:  false,
			TitleTranslated:   item.title,
			SummaryTranslated: item.summary,
		})
	}
	return articles
}
