package extractor

import (
	"strings"

	"golang.org/x/net/html"
)

// visibleText extracts the page's visible text, stripping all tags and
// <script>/<style>/<noscript> content. Text nodes are trimmed and joined
// with newlines; this is the corpus the counter patterns search and the
// source of the raw snippet.
func visibleText(markup string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(markup))
	var parts []string
	skipDepth := 0

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return strings.Join(parts, "\n")
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			switch string(tn) {
			case "script", "style", "noscript":
				skipDepth++
			}
		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			switch string(tn) {
			case "script", "style", "noscript":
				if skipDepth > 0 {
					skipDepth--
				}
			}
		case html.TextToken:
			if skipDepth == 0 {
				if text := strings.TrimSpace(string(tokenizer.Text())); text != "" {
					parts = append(parts, text)
				}
			}
		}
	}
}

// truncateRunes cuts text to at most limit characters, not bytes, so a
// multi-byte rune is never split mid-sequence.
func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
