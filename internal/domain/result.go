package domain

// Source identifies which upstream produced a result's content.
type Source string

const (
	SourcePrimary   Source = "primary"
	SourceWebSearch Source = "web_search"
	SourceNone      Source = "none"
)

// Status tags a ProviderResult. Providers never return Go errors for
// upstream failures: every outcome is encoded as a tagged result carrying
// the exact user-facing text, so the resolver can branch on the tag and
// hand the text back verbatim.
type Status string

const (
	StatusOK             Status = "ok"
	StatusInputError     Status = "input_error"
	StatusConfigError    Status = "config_error"
	StatusBadRequest     Status = "bad_request"
	StatusAuthError      Status = "auth_error"
	StatusRateLimited    Status = "rate_limited"
	StatusProviderError  Status = "provider_error"
	StatusTransportError Status = "transport_error"
	StatusEmpty          Status = "empty_result"
)

// Usable reports whether the content is a real answer rather than an
// encoded failure.
func (s Status) Usable() bool {
	return s == StatusOK
}

// ProviderResult is the outcome of exactly one fetch call. Immutable once
// returned.
type ProviderResult struct {
	Content    string
	Source     Source
	SourceName string // display name for attribution, e.g. "DeepSeek"
	RealTime   bool
	Status     Status
}

// Answer builds an OK result.
func Answer(content string, source Source, name string, realTime bool) ProviderResult {
	return ProviderResult{
		Content:    content,
		Source:     source,
		SourceName: name,
		RealTime:   realTime,
		Status:     StatusOK,
	}
}

// Failure builds a non-OK result whose content is the user-facing message.
func Failure(status Status, content string) ProviderResult {
	return ProviderResult{
		Content: content,
		Source:  SourceNone,
		Status:  status,
	}
}

// FinalAnswer is the terminal artifact handed back to the caller. Rendering
// or speaking it is the caller's job.
type FinalAnswer struct {
	Text        string
	Attribution string
}

// Render appends the attribution as a trailing line when one is known.
// It is never fabricated for unattributed content.
func (f FinalAnswer) Render() string {
	if f.Attribution == "" {
		return f.Text
	}
	return f.Text + "\n\nSource: " + f.Attribution
}
