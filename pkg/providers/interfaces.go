package providers

import (
	"context"

	"github.com/Adda-Baaj/wanreader/internal/domain"
	"github.com/Adda-Baaj/wanreader/pkg/httpclient"
)

// Fetcher retrieves articles for a provider. Implementations are keyed by provider
// type (see wan.go).
type Fetcher interface {
	ID() string
	Fetch(ctx context.Context, cfg Provider) ([]domain.Article, error)
}

// FetcherRegistry resolves the fetcher implementation for a given provider config.
type FetcherRegistry interface {
	FetcherFor(cfg Provider) (Fetcher, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within providers.
type HTTPClient = httpclient.Client
