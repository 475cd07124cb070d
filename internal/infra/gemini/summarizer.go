package gemini

import (
	"context"
	"fmt"
)

const summaryPromptTemplate = "Summarize the following text in %d to %d words. " +
	"Reply with the summary only, no preamble.\n\n%s"

const summaryTemperature = 0.2

// Summarizer condenses text through a secondary generateContent call, used
// when Gemini is the configured primary provider.
type Summarizer struct {
	client *Client
}

func NewSummarizer(client *Client) (*Summarizer, error) {
	if !client.Configured() {
		return nil, fmt.Errorf("gemini summarizer: API key not configured")
	}
	return &Summarizer{client: client}, nil
}

func (s *Summarizer) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	prompt := fmt.Sprintf(summaryPromptTemplate, minWords, maxWords, text)

	maxTokens := maxWords * 3
	if maxTokens < 128 {
		maxTokens = 128
	}

	return s.client.generate(ctx, prompt, maxTokens, summaryTemperature)
}
