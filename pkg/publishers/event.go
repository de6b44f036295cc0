package publishers

import (
	"encoding/json"
	"time"

	"github.com/Adda-Baaj/wanreader/internal/domain"
)

// Event is the payload published downstream for each new article.
type Event struct {
	ProviderID   string         `json:"provider_id"`
	ProviderName string         `json:"provider_name"`
	Article      domain.Article `json:"article"`
	CollectedAt  time.Time      `json:"collected_at"`
}

// NewEvent constructs an Event for the given provider + article.
func NewEvent(providerID, providerName string, article domain.Article) Event {
	return Event{
		ProviderID:   providerID,
		ProviderName: providerName,
		Article:      article,
		CollectedAt:  time.Now().UTC(),
	}
}

// attributes are copied onto message metadata by the queue senders.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{"provider_id": e.ProviderID}
	if e.Article.ID != "" {
		attrs["article_id"] = e.Article.ID
	}
	return attrs
}

func (e Event) payload() ([]byte, error) {
	return json.Marshal(e)
}
