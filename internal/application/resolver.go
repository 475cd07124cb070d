package application

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"voxassist/internal/domain"
)

// EmptyQueryPrompt is returned for blank input, before any network call.
const EmptyQueryPrompt = "I didn't catch that. Please ask a question."

// ApologyMessage is the only thing the caller sees when something truly
// unexpected escapes the pipeline.
const ApologyMessage = "Sorry, something went wrong while answering that. Please try again."

// Routing selects how the resolver orders its two providers.
type Routing string

const (
	// RoutingPrimaryFirst always asks the model first and falls back to
	// real-time search when the answer looks insufficient.
	RoutingPrimaryFirst Routing = "primary_first"
	// RoutingRecencyCues routes queries with temporal wording straight to
	// the real-time fallback.
	RoutingRecencyCues Routing = "recency_cues"
)

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

var recencyCues = []string{
	"today",
	"latest",
	"breaking",
	"news",
	"current",
	"right now",
	"this week",
}

// HasRecencyCues reports whether a query asks about something time-sensitive.
func HasRecencyCues(query string) bool {
	lower := strings.ToLower(query)
	for _, cue := range recencyCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return yearPattern.MatchString(query)
}

// ResolverConfig tunes the pipeline.
type ResolverConfig struct {
	Routing  Routing
	MinWords int
	MaxWords int
}

func (c *ResolverConfig) setDefaults() {
	if c.Routing == "" {
		c.Routing = RoutingPrimaryFirst
	}
	if c.MinWords == 0 {
		c.MinWords = 40
	}
	if c.MaxWords == 0 {
		c.MaxWords = 120
	}
}

// Resolver turns a transcribed query into a finished answer: primary fetch,
// staleness check, real-time fallback, optional condensation, attribution.
// One request at a time; the steps are sequential because each decision
// depends on the previous step's output.
type Resolver struct {
	primary    AnswerProvider
	fallback   AnswerProvider
	model      *SummarizerHandle
	extractive ExtractiveSummarizer
	cfg        ResolverConfig
	logger     *slog.Logger
}

func NewResolver(
	primary AnswerProvider,
	fallback AnswerProvider,
	model *SummarizerHandle,
	cfg ResolverConfig,
	logger *slog.Logger,
) *Resolver {
	cfg.setDefaults()
	return &Resolver{
		primary:  primary,
		fallback: fallback,
		model:    model,
		cfg:      cfg,
		logger:   logger,
	}
}

// Resolve answers a raw transcript and returns the finished text, including
// any attribution line. It never returns an error and never panics: failures
// surface as user-facing text.
func (r *Resolver) Resolve(ctx context.Context, raw string) (answer string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("resolver panic", "panic", rec)
			answer = ApologyMessage
		}
	}()

	result := r.ResolveRaw(ctx, raw)
	return r.finish(ctx, result)
}

// ResolveRaw runs the fetch-and-fallback stage only, returning the raw
// provider content without condensation or attribution.
func (r *Resolver) ResolveRaw(ctx context.Context, raw string) domain.ProviderResult {
	query, ok := domain.ParseQuery(raw)
	if !ok {
		return domain.Failure(domain.StatusInputError, EmptyQueryPrompt)
	}
	return r.fetch(ctx, query)
}

func (r *Resolver) fetch(ctx context.Context, query domain.Query) domain.ProviderResult {
	if r.cfg.Routing == RoutingRecencyCues && HasRecencyCues(query.String()) {
		r.logger.Debug("recency cues detected, trying real-time search first", "query", query)
		fallback := r.fallback.Fetch(ctx, query)
		if fallback.Status.Usable() {
			return fallback
		}
		primary := r.primary.Fetch(ctx, query)
		if primary.Status.Usable() {
			return primary
		}
		return fallback
	}

	primary := r.primary.Fetch(ctx, query)
	if primary.Status.Usable() && !IsInsufficient(primary.Content) {
		return primary
	}

	r.logger.Info("primary answer insufficient, consulting fallback",
		"status", primary.Status,
		"length", len(primary.Content),
	)

	fallback := r.fallback.Fetch(ctx, query)
	if fallback.Status.Usable() {
		return fallback
	}

	// The fallback had nothing either; the primary's content (answer or
	// encoded failure message) is the best we have.
	return primary
}

func (r *Resolver) finish(ctx context.Context, result domain.ProviderResult) string {
	final := domain.FinalAnswer{Text: result.Content}
	if result.Status.Usable() && result.Source != domain.SourceNone {
		final.Attribution = result.SourceName
	}

	// Never summarize an already-short or already-failed message.
	if !result.Status.Usable() || len(result.Content) < InsufficientLength {
		return final.Render()
	}

	final.Text = r.condense(ctx, result.Content)
	return final.Render()
}

func (r *Resolver) condense(ctx context.Context, content string) string {
	content = TruncateForSummary(content)

	if r.model != nil && r.model.IsReady(ctx) {
		summary, err := r.model.Summarize(ctx, content, r.cfg.MinWords, r.cfg.MaxWords)
		if err == nil && strings.TrimSpace(summary) != "" {
			return strings.TrimSpace(summary)
		}
		if err != nil {
			r.logger.Warn("model summarizer failed, using extractive", "error", err)
		}
	}

	summary, _ := r.extractive.Summarize(ctx, content, r.cfg.MinWords, r.cfg.MaxWords)
	return summary
}

// diagnosticQuery is a canned question both providers should handle.
const diagnosticQuery = domain.Query("What is the capital of France?")

// Diagnose exercises both providers and the condensation backend and
// reports one status line per component.
func (r *Resolver) Diagnose(ctx context.Context) string {
	var lines []string

	for _, probe := range []struct {
		label    string
		provider AnswerProvider
	}{
		{"primary", r.primary},
		{"fallback", r.fallback},
	} {
		result := probe.provider.Fetch(ctx, diagnosticQuery)
		if result.Status.Usable() {
			lines = append(lines, fmt.Sprintf("✓ %s (%s): ok", probe.label, probe.provider.Name()))
		} else {
			lines = append(lines, fmt.Sprintf("✗ %s (%s): %s", probe.label, probe.provider.Name(), result.Content))
		}
	}

	if r.model != nil && r.model.IsReady(ctx) {
		lines = append(lines, "✓ condenser: model backend ready")
	} else {
		reason := "not configured"
		if r.model != nil {
			if err := r.model.Init(ctx); err != nil {
				reason = err.Error()
			}
		}
		lines = append(lines, fmt.Sprintf("✗ condenser: model backend unavailable (%s), extractive summaries in use", reason))
	}

	return strings.Join(lines, "\n")
}
