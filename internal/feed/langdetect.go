package feed

import "strings"

// Common Swahili function words. Titles matching at least two of these are
// treated as already Swahili and skip translation. This is a heuristic, not
// a classifier: a Swahili title that slips through is simply re-translated,
// which is harmless.
var swahiliLexicon = map[string]struct{}{
	"na": {}, "ya": {}, "wa": {}, "kwa": {}, "ni": {}, "za": {},
	"la": {}, "cha": {}, "vya": {}, "katika": {}, "kuwa": {}, "kama": {},
	"hii": {}, "huu": {}, "hilo": {}, "yake": {}, "wake": {}, "zao": {},
	"lakini": {}, "pia": {}, "sasa": {}, "leo": {}, "baada": {}, "kabla": {},
	"watu": {}, "nchini": {}, "serikali": {}, "rais": {}, "habari": {},
	"mpya": {}, "zaidi": {}, "bila": {}, "wakati": {}, "hadi": {},
}

const swahiliMatchThreshold = 2

// LooksSwahili tokenizes the title on whitespace, lowercases, and counts
// lexicon matches.
func LooksSwahili(title string) bool {
	matches := 0
	for _, token := range strings.Fields(strings.ToLower(title)) {
		token = strings.Trim(token, ".,!?;:\"'()[]“”‘’")
		if _, ok := swahiliLexicon[token]; ok {
			matches++
			if matches >= swahiliMatchThreshold {
				return true
			}
		}
	}
	return false
}
