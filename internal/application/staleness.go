package application

import "strings"

// InsufficientLength is the length below which an answer is considered too
// thin to stand on its own. The upstream revisions used 100-200; 150 is the
// value this deployment settled on.
const InsufficientLength = 150

// staleMarkers are phrases a language model emits when it lacks current
// knowledge. Matching is case-insensitive substring. The list is
// deliberately conservative: flagging a good answer as stale only costs an
// extra search, accepting a stale answer is the real failure.
var staleMarkers = []string{
	"no recent information",
	"outdated",
	"no results found",
	"i don't have access to real-time",
	"real-time data",
	"my knowledge cutoff",
	"as of my last update",
	"i cannot browse",
	"training data",
}

// IsInsufficient reports whether content from the primary provider looks
// stale or too short, meaning the real-time fallback should be consulted.
func IsInsufficient(content string) bool {
	if len(content) < InsufficientLength {
		return true
	}
	lower := strings.ToLower(content)
	for _, marker := range staleMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
