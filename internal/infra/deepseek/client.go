package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voxassist/internal/application"
	"voxassist/internal/domain"
)

const providerName = "DeepSeek"

// User-facing messages for every failure class. The resolver branches on
// result status and returns these texts verbatim, so they have to read well
// when spoken aloud.
const (
	msgMissingKey  = "The assistant is not configured. Set the DEEPSEEK_API_KEY environment variable to enable answers."
	msgBadRequest  = "The answer service rejected that question. Please try a different phrasing."
	msgAuthError   = "The answer service refused the configured API key. Check the credential."
	msgRateLimited = "The answer service is rate limiting requests. Please try again in a moment."
	msgNetwork     = "I couldn't reach the answer service due to a network error. Please try again."
	msgNoAnswer    = "The answer service returned no results for that question."
)

const answerPromptTemplate = "Answer the following question clearly and concisely, as if speaking to the user: %s"

type Client struct {
	apiKey      string
	model       string
	baseURL     string
	httpClient  *http.Client
	maxTokens   int
	temperature float64
}

func NewClient(apiKey, model string) *Client {
	return NewClientWithURL(apiKey, model, "https://api.deepseek.com/v1")
}

func NewClientWithURL(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = "deepseek-chat"
	}
	return &Client{
		apiKey:      apiKey,
		model:       model,
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		maxTokens:   512,
		temperature: 0.7,
	}
}

func (c *Client) Name() string {
	return providerName
}

// Configured reports whether a credential is present.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("deepseek API error %d: %s", e.code, e.message)
}

type transportError struct {
	err error
}

func (e *transportError) Error() string { return "deepseek request failed: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

var errEmptyAnswer = errors.New("deepseek returned an empty answer")

// Fetch asks the chat-completion endpoint for a first-pass answer. Every
// failure comes back as a tagged result, never a Go error; nothing is
// retried, a human retries by asking again.
func (c *Client) Fetch(ctx context.Context, query domain.Query) domain.ProviderResult {
	if strings.TrimSpace(query.String()) == "" {
		return domain.Failure(domain.StatusInputError, application.EmptyQueryPrompt)
	}
	if !c.Configured() {
		return domain.Failure(domain.StatusConfigError, msgMissingKey)
	}

	prompt := fmt.Sprintf(answerPromptTemplate, query)
	content, err := c.chat(ctx, prompt, c.maxTokens, c.temperature)
	if err != nil {
		return c.mapError(err)
	}

	return domain.Answer(content, domain.SourcePrimary, providerName, false)
}

func (c *Client) mapError(err error) domain.ProviderResult {
	var se *statusError
	switch {
	case errors.As(err, &se):
		switch {
		case se.code == http.StatusBadRequest:
			return domain.Failure(domain.StatusBadRequest, msgBadRequest)
		case se.code == http.StatusUnauthorized || se.code == http.StatusForbidden:
			return domain.Failure(domain.StatusAuthError, msgAuthError)
		case se.code == http.StatusTooManyRequests:
			return domain.Failure(domain.StatusRateLimited, msgRateLimited)
		default:
			return domain.Failure(domain.StatusProviderError,
				fmt.Sprintf("The answer service reported an error (%d): %s", se.code, se.message))
		}
	case errors.Is(err, errEmptyAnswer):
		return domain.Failure(domain.StatusEmpty, msgNoAnswer)
	default:
		return domain.Failure(domain.StatusTransportError, msgNetwork)
	}
}

// chat issues one completion call and returns the assistant's text.
func (c *Client) chat(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &transportError{err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &transportError{err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var parsed chatResponse
		message := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &parsed) == nil && parsed.Error != nil && parsed.Error.Message != "" {
			message = parsed.Error.Message
		}
		return "", &statusError{code: resp.StatusCode, message: message}
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", errEmptyAnswer
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", errEmptyAnswer
	}

	return content, nil
}
