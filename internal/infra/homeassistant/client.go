// Package homeassistant speaks finished answers aloud on a media player
// through a Home Assistant instance's TTS service.
package homeassistant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voxassist/internal/infra"
)

const defaultTTSService = "tts/google_translate_say"

// Client calls a Home Assistant TTS service so the assistant's answer plays
// on a smart speaker instead of (or alongside) the console.
type Client struct {
	baseURL     string
	token       string
	ttsService  string
	mediaPlayer string
	httpClient  *http.Client
	backoff     infra.Backoff
}

func NewClient(baseURL, token, ttsService, mediaPlayer string) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if ttsService = strings.TrimSpace(ttsService); ttsService == "" {
		ttsService = defaultTTSService
	}

	return &Client{
		baseURL:     baseURL,
		token:       token,
		ttsService:  ttsService,
		mediaPlayer: mediaPlayer,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		backoff:     infra.DefaultBackoff(),
	}
}

// Announce plays the answer on the configured media player. A speaker that
// is briefly unreachable gets retried; the caller only sees a final failure.
func (c *Client) Announce(ctx context.Context, answer string) error {
	parts := strings.SplitN(c.ttsService, "/", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid tts service %q, expected domain/service", c.ttsService)
	}

	data := map[string]interface{}{
		"entity_id": c.mediaPlayer,
		"message":   answer,
	}

	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	path := fmt.Sprintf("/api/services/%s/%s", parts[0], parts[1])
	if _, err := c.doRequest(ctx, http.MethodPost, path, body); err != nil {
		return fmt.Errorf("announcing answer: %w", err)
	}

	return nil
}

// Healthy checks the Home Assistant API, used by the diagnose flow.
func (c *Client) Healthy(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/api/", nil)
	return err
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var respBody []byte

	retryErr := c.backoff.Do(ctx, func() error {
		var bodyReader io.Reader
		if body != nil {
			bodyReader = strings.NewReader(string(body))
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("unauthorized: check your Home Assistant token")
		}

		if infra.IsRetryableHTTPStatus(resp.StatusCode) {
			return fmt.Errorf("home assistant API error %d (retryable): %s", resp.StatusCode, string(respBody))
		}

		if resp.StatusCode >= 400 {
			return fmt.Errorf("home assistant API error %d: %s", resp.StatusCode, string(respBody))
		}

		return nil
	})

	if retryErr != nil {
		return nil, retryErr
	}

	return respBody, nil
}
