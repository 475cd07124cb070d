package application

import (
	"context"
	"strings"
	"sync"
	"unicode"
)

// summaryInputBudget caps how much text is handed to a summarizer, keeping
// model-backed calls inside upstream token limits. Applied before either
// strategy runs.
const summaryInputBudget = 1500

// Summarizer condenses text to roughly minWords-maxWords words.
type Summarizer interface {
	Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error)
}

// TruncateForSummary trims text to the summary input budget.
func TruncateForSummary(text string) string {
	if len(text) <= summaryInputBudget {
		return text
	}
	return text[:summaryInputBudget]
}

// ExtractiveSummarizer is the local, model-free condensation strategy:
// keep whole leading sentences while they fit a character budget derived
// from the word target.
type ExtractiveSummarizer struct{}

// avgCharsPerWord converts a word budget to a character budget.
const avgCharsPerWord = 7

func (e *ExtractiveSummarizer) Summarize(_ context.Context, text string, _, maxWords int) (string, error) {
	text = strings.TrimSpace(TruncateForSummary(text))
	budget := maxWords * avgCharsPerWord

	if len(text) <= budget {
		return text, nil
	}

	var out strings.Builder
	for _, sentence := range splitSentences(text) {
		if out.Len()+len(sentence) > budget {
			break
		}
		if out.Len() > 0 {
			out.WriteByte(' ')
		}
		out.WriteString(sentence)
	}

	if out.Len() == 0 {
		// No sentence fits, hard truncate.
		if budget > len(text) {
			budget = len(text)
		}
		return strings.TrimSpace(text[:budget]) + "…", nil
	}

	summary := out.String()
	if !endsWithTerminal(summary) {
		summary += "."
	}
	return summary, nil
}

func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(text[start : i+1])
			if s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

func endsWithTerminal(s string) bool {
	trimmed := strings.TrimRightFunc(s, unicode.IsSpace)
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return true
	}
	return strings.HasSuffix(trimmed, "…")
}

// SummarizerHandle lazily initializes the model-backed summarizer once per
// process and caches the outcome, so a known-broken backend is not probed
// on every request. Safe for concurrent use.
type SummarizerHandle struct {
	build func(ctx context.Context) (Summarizer, error)

	once    sync.Once
	backend Summarizer
	initErr error
}

// NewSummarizerHandle wraps a constructor for the model-backed summarizer.
// The constructor runs at most once, on first use.
func NewSummarizerHandle(build func(ctx context.Context) (Summarizer, error)) *SummarizerHandle {
	return &SummarizerHandle{build: build}
}

// Init forces initialization. Repeated calls return the cached outcome.
func (h *SummarizerHandle) Init(ctx context.Context) error {
	h.once.Do(func() {
		if h.build == nil {
			h.initErr = errNoBackend
			return
		}
		h.backend, h.initErr = h.build(ctx)
	})
	return h.initErr
}

// IsReady reports whether a backend is available, initializing if needed.
func (h *SummarizerHandle) IsReady(ctx context.Context) bool {
	return h.Init(ctx) == nil && h.backend != nil
}

// Summarize delegates to the initialized backend.
func (h *SummarizerHandle) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	if err := h.Init(ctx); err != nil {
		return "", err
	}
	return h.backend.Summarize(ctx, text, minWords, maxWords)
}

type noBackendError struct{}

func (noBackendError) Error() string { return "no summarizer backend configured" }

var errNoBackend = noBackendError{}
