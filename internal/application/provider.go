package application

import (
	"context"

	"voxassist/internal/domain"
)

// AnswerProvider fetches an answer for a query from one upstream. Upstream
// failures are encoded in the returned result's Status and Content, never
// as a Go error, so the resolver can treat every outcome uniformly.
type AnswerProvider interface {
	Fetch(ctx context.Context, query domain.Query) domain.ProviderResult
	Name() string
}
