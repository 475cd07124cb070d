package application_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"voxassist/internal/application"
	"voxassist/internal/domain"
)

type mockProvider struct {
	name    string
	result  domain.ProviderResult
	calls   int
	queries []string
}

func (m *mockProvider) Fetch(_ context.Context, query domain.Query) domain.ProviderResult {
	m.calls++
	m.queries = append(m.queries, query.String())
	return m.result
}

func (m *mockProvider) Name() string { return m.name }

type panickingProvider struct{}

func (p *panickingProvider) Fetch(_ context.Context, _ domain.Query) domain.ProviderResult {
	panic("boom")
}

func (p *panickingProvider) Name() string { return "panicking" }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const definitiveAnswer = "Paris is the capital of France and its largest city. " +
	"It sits on the Seine in the north of the country and has been a major " +
	"center of finance, diplomacy, commerce, culture and science since the " +
	"seventeenth century. The city proper has over two million residents."

func newResolver(primary, fallback application.AnswerProvider, cfg application.ResolverConfig) *application.Resolver {
	return application.NewResolver(primary, fallback, nil, cfg, testLogger())
}

func TestResolve_WhitespaceQueryShortCircuits(t *testing.T) {
	primary := &mockProvider{name: "DeepSeek"}
	fallback := &mockProvider{name: "Firecrawl web search"}
	resolver := newResolver(primary, fallback, application.ResolverConfig{})

	for _, raw := range []string{"", "   ", "\n\t "} {
		got := resolver.Resolve(context.Background(), raw)
		if got != application.EmptyQueryPrompt {
			t.Errorf("Resolve(%q) = %q, want the empty-query prompt", raw, got)
		}
	}

	if primary.calls != 0 || fallback.calls != 0 {
		t.Errorf("no provider should be called for blank input: primary=%d fallback=%d",
			primary.calls, fallback.calls)
	}
}

func TestResolve_DefinitiveAnswerSkipsFallback(t *testing.T) {
	primary := &mockProvider{
		name:   "DeepSeek",
		result: domain.Answer(definitiveAnswer, domain.SourcePrimary, "DeepSeek", false),
	}
	fallback := &mockProvider{name: "Firecrawl web search"}
	resolver := newResolver(primary, fallback, application.ResolverConfig{})

	got := resolver.Resolve(context.Background(), "capital of France")

	if fallback.calls != 0 {
		t.Errorf("fallback should not be consulted for a definitive answer, got %d calls", fallback.calls)
	}
	if !strings.HasPrefix(got, "Paris is the capital of France") {
		t.Errorf("answer should carry the condensed primary content, got %q", got)
	}
	if !strings.HasSuffix(got, "Source: DeepSeek") {
		t.Errorf("answer should be attributed to the primary, got %q", got)
	}
}

func TestResolve_StaleAnswerUsesFallback(t *testing.T) {
	primary := &mockProvider{
		name:   "DeepSeek",
		result: domain.Answer("I don't have access to real-time data", domain.SourcePrimary, "DeepSeek", false),
	}
	fallback := &mockProvider{
		name: "Firecrawl web search",
		result: domain.Answer(
			"Latest headlines (example.com)\nMarkets rallied this morning after the announcement.",
			domain.SourceWebSearch, "Firecrawl web search", true),
	}
	resolver := newResolver(primary, fallback, application.ResolverConfig{})

	got := resolver.Resolve(context.Background(), "latest news today")

	if fallback.calls != 1 {
		t.Fatalf("fallback should be invoked exactly once, got %d", fallback.calls)
	}
	if !strings.HasSuffix(got, "Source: Firecrawl web search") {
		t.Errorf("attribution should name the fallback, got %q", got)
	}
}

func TestResolve_TransportErrorStillTriesFallback(t *testing.T) {
	networkMsg := "I couldn't reach the answer service due to a network error. Please try again."
	primary := &mockProvider{
		name:   "DeepSeek",
		result: domain.Failure(domain.StatusTransportError, networkMsg),
	}
	fallback := &mockProvider{
		name:   "Firecrawl web search",
		result: domain.Failure(domain.StatusEmpty, "I couldn't find any real-time results for that question."),
	}
	resolver := newResolver(primary, fallback, application.ResolverConfig{})

	got := resolver.Resolve(context.Background(), "capital of France")

	if fallback.calls != 1 {
		t.Errorf("fallback should still be attempted after a transport failure, got %d calls", fallback.calls)
	}
	if got != networkMsg {
		t.Errorf("Resolve = %q, want the verbatim network-error text", got)
	}
}

func TestResolve_FailedMessageNeverSummarizedOrAttributed(t *testing.T) {
	msg := "The answer service is rate limiting requests. Please try again in a moment."
	primary := &mockProvider{name: "DeepSeek", result: domain.Failure(domain.StatusRateLimited, msg)}
	fallback := &mockProvider{
		name:   "Firecrawl web search",
		result: domain.Failure(domain.StatusEmpty, "nothing"),
	}
	resolver := newResolver(primary, fallback, application.ResolverConfig{})

	got := resolver.Resolve(context.Background(), "capital of France")
	if got != msg {
		t.Errorf("failure text must come back verbatim with no attribution: %q", got)
	}
}

func TestResolve_RecencyCuesRouteToFallbackFirst(t *testing.T) {
	primary := &mockProvider{name: "DeepSeek"}
	fallback := &mockProvider{
		name: "NewsAPI",
		result: domain.Answer(
			"Breaking coverage (news.example)\nThe summit concluded with a joint statement this afternoon.",
			domain.SourceWebSearch, "NewsAPI", true),
	}
	resolver := newResolver(primary, fallback, application.ResolverConfig{
		Routing: application.RoutingRecencyCues,
	})

	got := resolver.Resolve(context.Background(), "latest news today")

	if primary.calls != 0 {
		t.Errorf("primary should be skipped when recency cues route to the fallback, got %d calls", primary.calls)
	}
	if fallback.calls != 1 {
		t.Errorf("fallback should be called once, got %d", fallback.calls)
	}
	if !strings.HasSuffix(got, "Source: NewsAPI") {
		t.Errorf("attribution should name the fallback, got %q", got)
	}
}

func TestHasRecencyCues(t *testing.T) {
	cues := []string{
		"latest news today",
		"breaking developments",
		"who won the election in 2024",
		"what is happening right now",
	}
	for _, q := range cues {
		if !application.HasRecencyCues(q) {
			t.Errorf("%q should have recency cues", q)
		}
	}

	if application.HasRecencyCues("capital of France") {
		t.Error("plain factual query should have no recency cues")
	}
}

func TestResolveRaw_ReturnsUnsummarizedContent(t *testing.T) {
	primary := &mockProvider{
		name:   "DeepSeek",
		result: domain.Answer(definitiveAnswer, domain.SourcePrimary, "DeepSeek", false),
	}
	fallback := &mockProvider{name: "Firecrawl web search"}
	resolver := newResolver(primary, fallback, application.ResolverConfig{})

	raw := resolver.ResolveRaw(context.Background(), "capital of France")
	if raw.Content != definitiveAnswer {
		t.Errorf("raw content should be the provider's verbatim output")
	}
	if raw.Source != domain.SourcePrimary {
		t.Errorf("raw source = %s, want primary", raw.Source)
	}
}

func TestResolve_PanicBecomesApology(t *testing.T) {
	resolver := newResolver(&panickingProvider{}, &mockProvider{name: "fallback"}, application.ResolverConfig{})

	got := resolver.Resolve(context.Background(), "capital of France")
	if got != application.ApologyMessage {
		t.Errorf("Resolve = %q, want the generic apology", got)
	}
}

func TestDiagnose_ReportsConfigurationError(t *testing.T) {
	primary := &mockProvider{
		name: "DeepSeek",
		result: domain.Failure(domain.StatusConfigError,
			"The assistant is not configured. Set the DEEPSEEK_API_KEY environment variable to enable answers."),
	}
	fallback := &mockProvider{
		name:   "Firecrawl web search",
		result: domain.Answer(definitiveAnswer, domain.SourceWebSearch, "Firecrawl web search", true),
	}
	resolver := newResolver(primary, fallback, application.ResolverConfig{})

	report := resolver.Diagnose(context.Background())

	if !strings.Contains(report, "✗ primary (DeepSeek)") {
		t.Errorf("report should flag the unconfigured primary:\n%s", report)
	}
	if !strings.Contains(report, "DEEPSEEK_API_KEY") {
		t.Errorf("report should name the missing configuration:\n%s", report)
	}
	if !strings.Contains(report, "✓ fallback (Firecrawl web search)") {
		t.Errorf("report should pass the healthy fallback:\n%s", report)
	}
	if !strings.Contains(report, "condenser") {
		t.Errorf("report should include condensation health:\n%s", report)
	}
}
