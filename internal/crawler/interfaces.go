package crawler

import (
	"context"

	"github.com/Adda-Baaj/wanreader/internal/domain"
	"github.com/Adda-Baaj/wanreader/pkg/providers"
	"github.com/Adda-Baaj/wanreader/pkg/publishers"
)

// ArticleScraper fills in metadata the API left empty (OG description and image).
type ArticleScraper interface {
	Enrich(ctx context.Context, cfg providers.Provider, articles []domain.Article) []domain.Article
}

// EventPublisher publishes articles downstream and reports how many sinks accepted the event.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers which articles were already published.
type Deduper interface {
	SeenArticle(id string) (bool, error)
	MarkArticle(id string) error
}
