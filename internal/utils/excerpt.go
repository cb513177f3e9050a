package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// Excerpt produces a plain-text summary of markdown content, cut at a word
// boundary near maxLen runes.
func Excerpt(markdown string, maxLen int) string {
	plain := stripPolicy.Sanitize(string(RenderMarkdown(markdown)))
	plain = strings.Join(strings.Fields(plain), " ")

	runes := []rune(plain)
	if len(runes) <= maxLen {
		return plain
	}
	cut := string(runes[:maxLen])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
