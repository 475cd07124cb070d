package deepseek

import (
	"context"
	"fmt"
)

const summaryPromptTemplate = "Summarize the following text in %d to %d words. " +
	"Reply with the summary only, no preamble.\n\n%s"

// summaryTemperature is kept low so repeated summaries of the same text
// stay close to deterministic.
const summaryTemperature = 0.2

// Summarizer condenses text through a secondary chat-completion call. Any
// failure is returned as an error; the resolver then falls through to the
// local extractive strategy instead of surfacing it.
type Summarizer struct {
	client *Client
}

func NewSummarizer(client *Client) (*Summarizer, error) {
	if !client.Configured() {
		return nil, fmt.Errorf("deepseek summarizer: API key not configured")
	}
	return &Summarizer{client: client}, nil
}

func (s *Summarizer) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	prompt := fmt.Sprintf(summaryPromptTemplate, minWords, maxWords, text)

	// Rough word-to-token margin so the model is not cut off mid-sentence.
	maxTokens := maxWords * 3
	if maxTokens < 128 {
		maxTokens = 128
	}

	return s.client.chat(ctx, prompt, maxTokens, summaryTemperature)
}
