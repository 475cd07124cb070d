package domain

import "strings"

// TextCommandPrefix is the marker used to indicate text commands (vs audio)
const TextCommandPrefix = "__TEXT__:"

// Query is a trimmed, non-empty question from the user.
type Query string

// ParseQuery trims the raw transcript and reports whether anything is left.
// Empty or whitespace-only input never reaches a provider.
func ParseQuery(raw string) (Query, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	return Query(trimmed), true
}

func (q Query) String() string {
	return string(q)
}
