package gemini

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

const providerName = "Gemini"

const (
	msgMissingKey  = "The assistant is not configured. Set the GEMINI_API_KEY environment variable to enable answers."
	msgBadRequest  = "The answer service rejected that question. Please try a different phrasing."
	msgAuthError   = "The answer service refused the configured API key. Check the credential."
	msgRateLimited = "The answer service is rate limiting requests. Please try again in a moment."
	msgNetwork     = "I couldn't reach the answer service due to a network error. Please try again."
	msgNoAnswer    = "The answer service returned no results for that question."
)

const answerPromptTemplate = "Answer the following question clearly and concisely, as if speaking to the user: %s"

// Client is an alternative primary provider backed by Gemini's
// generateContent endpoint. Unlike the chat-completion providers the key
// travels in the URL, not a bearer header.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	model      string
}

func NewClient(apiKey, model string) *Client {
	return NewClientWithURL(apiKey, model, "https://generativelanguage.googleapis.com/v1beta")
}

func NewClientWithURL(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		model:      model,
	}
}

func (c *Client) Name() string {
	return providerName
}

func (c *Client) Configured() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

type part struct {
	Text string `json:"text"`
}

type request struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type response struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("gemini API error %d: %s", e.code, e.message)
}

type transportError struct {
	err error
}

func (e *transportError) Error() string { return "gemini request failed: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

var errEmptyAnswer = errors.New("gemini returned an empty answer")

func (c *Client) Fetch(ctx context.Context, query domain.Query) domain.ProviderResult {
	if strings.TrimSpace(query.String()) == "" {
		return domain.Failure(domain.StatusInputError, application.EmptyQueryPrompt)
	}
	if !c.Configured() {
		return domain.Failure(domain.StatusConfigError, msgMissingKey)
	}

	prompt := fmt.Sprintf(answerPromptTemplate, query)
	text, err := c.generate(ctx, prompt, 512, 0.7)
	if err != nil {
		return c.mapError(err)
	}

	return domain.Answer(text, domain.SourcePrimary, providerName, false)
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

func (c *Client) generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	reqBody := request{
		Contents: []content{
			{
				Role:  "user",
				Parts: []part{{Text: prompt}},
			},
		},
		GenerationConfig: generationConfig{
			MaxOutputTokens: maxTokens,
			Temperature:     temperature,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &transportError{err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &transportError{err}
	}

	if resp.StatusCode != http.StatusOK {
		var parsed response
		message := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &parsed) == nil && parsed.Error != nil && parsed.Error.Message != "" {
			message = parsed.Error.Message
		}
		return "", &statusError{code: resp.StatusCode, message: message}
	}

	var result response
	if err = json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if result.Error != nil {
		return "", &statusError{code: result.Error.Code, message: result.Error.Message}
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", errEmptyAnswer
	}

	text := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", errEmptyAnswer
	}

	return text, nil
}
