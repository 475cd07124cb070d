package serpapi

import (
	"context"
	"strings"

	g "github.com/serpapi/google-search-results-golang"

	"voxassist/internal/application"
	"voxassist/internal/domain"
	"voxassist/internal/infra"
)

const providerName = "Google Search"

const (
	msgMissingKey = "Google search is not configured. Set the SERPAPI_API_KEY environment variable to enable it."
	msgNetwork    = "I couldn't reach the search service. Please try again."
	msgNoResults  = "I couldn't find any web results for that question."
)

// Client is the Google-search fallback variant, backed by the SerpAPI SDK.
// The SDK exposes neither HTTP status codes nor context support, so errors
// collapse into the transport class and cancellation is checked up front.
type Client struct {
	apiKey string
	domain string
}

func NewClient(apiKey string) *Client {
	return &Client{apiKey: apiKey, domain: "google.com"}
}

func (c *Client) Name() string {
	return providerName
}

func (c *Client) Fetch(ctx context.Context, query domain.Query) domain.ProviderResult {
	if strings.TrimSpace(query.String()) == "" {
		return domain.Failure(domain.StatusInputError, application.EmptyQueryPrompt)
	}
	if strings.TrimSpace(c.apiKey) == "" {
		return domain.Failure(domain.StatusConfigError, msgMissingKey)
	}
	if err := ctx.Err(); err != nil {
		return domain.Failure(domain.StatusTransportError, msgNetwork)
	}

	parameter := map[string]string{
		"engine":        "google",
		"q":             query.String(),
		"google_domain": c.domain,
		"hl":            "en",
	}

	search := g.NewGoogleSearch(parameter, c.apiKey)
	results, err := search.GetJSON()
	if err != nil {
		return domain.Failure(domain.StatusTransportError, msgNetwork)
	}

	organic, ok := results["organic_results"].([]interface{})
	if !ok {
		return domain.Failure(domain.StatusEmpty, msgNoResults)
	}

	items := make([]infra.SearchItem, 0, len(organic))
	for _, raw := range organic {
		hit, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		title, _ := hit["title"].(string)
		link, _ := hit["link"].(string)
		snippet, _ := hit["snippet"].(string)
		if link == "" {
			continue
		}

		items = append(items, infra.SearchItem{Title: title, URL: link, Content: snippet})
	}

	combined, kept := infra.CombineItems(items)
	if kept == 0 {
		return domain.Failure(domain.StatusEmpty, msgNoResults)
	}

	return domain.Answer(combined, domain.SourceWebSearch, providerName, true)
}
