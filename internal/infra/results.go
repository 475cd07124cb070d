package infra

import (
	"fmt"
	"strings"
)

// MaxSearchItems caps how many search hits go into a combined answer.
const MaxSearchItems = 4

// MinItemLength drops near-empty snippets so they don't pollute the
// combined blob.
const MinItemLength = 40

// SearchItem is one hit from a real-time search provider.
type SearchItem struct {
	Title   string
	URL     string
	Content string
}

// CombineItems merges search hits into one attribution-friendly blob: each
// surviving item is prefixed with its title and URL. Returns the blob and
// how many items survived the length filter.
func CombineItems(items []SearchItem) (string, int) {
	var parts []string
	for _, item := range items {
		if len(parts) >= MaxSearchItems {
			break
		}

		content := strings.TrimSpace(item.Content)
		if len(content) < MinItemLength {
			continue
		}

		header := item.URL
		if title := strings.TrimSpace(item.Title); title != "" {
			header = fmt.Sprintf("%s (%s)", title, item.URL)
		}

		parts = append(parts, header+"\n"+content)
	}

	return strings.Join(parts, "\n\n"), len(parts)
}
