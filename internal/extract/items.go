package extract

import (
	"regexp"
	"strings"
)

var (
	itemSeparators = regexp.MustCompile(`[,;\n]`)
	itemListMarker = regexp.MustCompile(`^(?:[-*•]+|\d+[.)]|(?i:and)\s)\s*`)
)

// ItemList splits a free-text list of objects, as written by a user or by
// the model, into trimmed items. Items are separated by commas, semicolons
// and line breaks only, so "black and white rug" stays one item. Bullets,
// numbering, a serial "and" and trailing periods are stripped and duplicates
// are dropped case-insensitively, keeping the first spelling.
func ItemList(text string) []string {
	parts := itemSeparators.Split(text, -1)
	seen := make(map[string]struct{}, len(parts))
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		item = itemListMarker.ReplaceAllString(item, "")
		item = strings.TrimSpace(strings.TrimRight(item, ". "))
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, item)
	}
	return items
}
