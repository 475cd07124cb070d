package application_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"voxassist/internal/application"
)

func TestExtractiveSummarizer_ShortContentUnchanged(t *testing.T) {
	s := &application.ExtractiveSummarizer{}

	content := "Paris is the capital of France."
	got, err := s.Summarize(context.Background(), content, 40, 120)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}

	if got != content {
		t.Errorf("short content should pass through unchanged: got %q", got)
	}
}

func TestExtractiveSummarizer_KeepsWholeSentences(t *testing.T) {
	s := &application.ExtractiveSummarizer{}

	first := "The first sentence is short."
	second := "The second sentence is also quite short."
	long := strings.Repeat("word ", 100) + "end."
	content := first + " " + second + " " + long

	got, err := s.Summarize(context.Background(), content, 5, 15)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}

	if !strings.HasPrefix(got, first) {
		t.Errorf("summary should start with the first sentence: got %q", got)
	}
	if strings.Contains(got, "word word word word word word word word word word") {
		t.Errorf("summary should not include the oversized sentence: got %q", got)
	}
	if !strings.HasSuffix(got, ".") && !strings.HasSuffix(got, "…") {
		t.Errorf("summary should end with terminal punctuation: got %q", got)
	}
}

func TestExtractiveSummarizer_HardTruncatesUnbreakableText(t *testing.T) {
	s := &application.ExtractiveSummarizer{}

	content := strings.Repeat("abcdefghij", 90) // 900 chars, no sentence breaks
	got, err := s.Summarize(context.Background(), content, 5, 10)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}

	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated summary should end with ellipsis: got %q", got)
	}
	if len(got) > 100 {
		t.Errorf("summary too long for a 10-word target: %d chars", len(got))
	}
}

func TestTruncateForSummary(t *testing.T) {
	long := strings.Repeat("x", 5000)
	if got := application.TruncateForSummary(long); len(got) != 1500 {
		t.Errorf("expected 1500 chars, got %d", len(got))
	}

	short := "short text"
	if got := application.TruncateForSummary(short); got != short {
		t.Errorf("short text should be unchanged, got %q", got)
	}
}

type countingSummarizer struct {
	calls int
}

func (c *countingSummarizer) Summarize(_ context.Context, text string, _, _ int) (string, error) {
	c.calls++
	return text, nil
}

func TestSummarizerHandle_InitializesOnce(t *testing.T) {
	builds := 0
	backend := &countingSummarizer{}

	handle := application.NewSummarizerHandle(func(_ context.Context) (application.Summarizer, error) {
		builds++
		return backend, nil
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if !handle.IsReady(ctx) {
			t.Fatal("handle should be ready")
		}
	}

	if _, err := handle.Summarize(ctx, "text", 5, 10); err != nil {
		t.Fatalf("Summarize error: %v", err)
	}

	if builds != 1 {
		t.Errorf("backend should be built exactly once, got %d", builds)
	}
}

func TestSummarizerHandle_CachesInitFailure(t *testing.T) {
	builds := 0
	handle := application.NewSummarizerHandle(func(_ context.Context) (application.Summarizer, error) {
		builds++
		return nil, errors.New("no credential")
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if handle.IsReady(ctx) {
			t.Fatal("handle should not be ready")
		}
		if err := handle.Init(ctx); err == nil {
			t.Fatal("Init should keep returning the cached error")
		}
	}

	if builds != 1 {
		t.Errorf("a broken backend should not be probed again, got %d builds", builds)
	}
}
