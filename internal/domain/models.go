package domain

import "time"

// Article is the provider-neutral shape the harvester enriches, dedupes and publishes.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Author      string    `json:"author,omitempty"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// NeedsEnrichment reports whether the article lacks metadata a page scrape could fill.
func (a Article) NeedsEnrichment() bool {
	return a.Description == "" || a.ImageURL == ""
}
