package translate

import (
	"regexp"
	"strings"
)

// AI models sometimes wrap translations in machine-translation disclaimers.
// These never belong in a headline.
var (
	parenNotePattern   = regexp.MustCompile(`(?i)\((note|disclaimer)[^)]*\)`)
	bracketNotePattern = regexp.MustCompile(`(?i)\[(note|disclaimer)[^\]]*\]`)
	linePrefixPattern  = regexp.MustCompile(`(?i)^(note|disclaimer|translation)\s*:`)
)

// SanitizeAIText strips disclaimer notes an AI provider may have added
// around the actual translation.
func SanitizeAIText(text string) string {
	text = parenNotePattern.ReplaceAllString(text, "")
	text = bracketNotePattern.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	var kept []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if linePrefixPattern.MatchString(trimmed) {
			continue
		}
		kept = append(kept, trimmed)
	}

	return strings.Join(strings.Fields(strings.Join(kept, "\n")), " ")
}
