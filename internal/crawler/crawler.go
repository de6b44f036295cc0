// Package crawler runs crawl passes. Each provider is fetched, already published
// articles are dropped, and the rest are enriched and fanned out to publishers.
package crawler

import (
	"context"
	"errors"
	"fmt"

	"github.com/Adda-Baaj/wanreader/internal/domain"
	"github.com/Adda-Baaj/wanreader/internal/logger"
	"github.com/Adda-Baaj/wanreader/pkg/providers"
	"github.com/Adda-Baaj/wanreader/pkg/publishers"
)

// Service coordinates crawling across multiple providers.
type Service struct {
	processor *ProviderProcessor
	log       logger.Logger
}

// NewService wires a crawler with the fetcher registry, publisher and dedupe store.
// A nil store disables deduplication.
func NewService(reg providers.FetcherRegistry, pub EventPublisher, log logger.Logger, store Deduper) *Service {
	log = ensureLogger(log)
	return &Service{
		processor: NewProviderProcessor(reg, NewScraper(nil, log), pub, log, store),
		log:       log,
	}
}

// Run executes a crawl pass for all configured providers.
func (s *Service) Run(ctx context.Context, cfgs []providers.Provider) error {
	if s == nil || s.processor == nil || s.processor.registry == nil {
		return fmt.Errorf("crawler service is not initialized")
	}
	if len(cfgs) == 0 {
		return fmt.Errorf("no providers configured for crawling")
	}

	return errors.Join(s.runAll(ctx, cfgs)...)
}

func (s *Service) runAll(ctx context.Context, cfgs []providers.Provider) []error {
	var errs []error
	for i, cfg := range cfgs {
		if ctx.Err() != nil {
			break
		}
		if err := s.processor.Process(ctx, cfg, i); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("provider crawl failed", "provider_error", map[string]any{
				"provider_id": cfg.ID,
				"error":       err.Error(),
			})
		}
	}
	return errs
}

// ProviderProcessor runs the pipeline for a single provider.
type ProviderProcessor struct {
	registry providers.FetcherRegistry
	scraper  ArticleScraper
	pub      EventPublisher
	log      logger.Logger
	store    Deduper
}

// NewProviderProcessor builds a processor. scraper and store are optional.
func NewProviderProcessor(reg providers.FetcherRegistry, scraper ArticleScraper, pub EventPublisher, log logger.Logger, store Deduper) *ProviderProcessor {
	return &ProviderProcessor{
		registry: reg,
		scraper:  scraper,
		pub:      pub,
		log:      ensureLogger(log),
		store:    store,
	}
}

// Process fetches, filters, enriches and publishes the articles of cfg. idx is the
// provider's position in the current pass and is only used for logging.
func (p *ProviderProcessor) Process(ctx context.Context, cfg providers.Provider, idx int) error {
	fetcher, err := p.registry.FetcherFor(cfg)
	if err != nil {
		return fmt.Errorf("resolve fetcher for provider %s: %w", cfg.ID, err)
	}

	articles, err := fetcher.Fetch(ctx, cfg)
	if err != nil {
		return fmt.Errorf("fetch provider %s: %w", cfg.ID, err)
	}
	countArticles(cfg.ID, stageFetched, len(articles))

	fresh := p.filterNewArticles(cfg, articles)
	countArticles(cfg.ID, stageDuplicate, len(articles)-len(fresh))

	if p.scraper != nil && len(fresh) > 0 {
		fresh = p.scraper.Enrich(ctx, cfg, fresh)
	}

	published, err := p.publish(ctx, cfg, fresh)

	p.log.InfoObj("provider crawl completed", "provider_result", map[string]any{
		"provider_id":        cfg.ID,
		"provider_index":     idx,
		"articles_collected": len(articles),
		"articles_new":       len(fresh),
		"articles_published": published,
	})
	return err
}

// filterNewArticles drops articles the store has already seen. Lookup failures keep
// the article so a broken store never silently hides news.
func (p *ProviderProcessor) filterNewArticles(cfg providers.Provider, articles []domain.Article) []domain.Article {
	if p.store == nil {
		return articles
	}

	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		seen, err := p.store.SeenArticle(a.ID)
		if err != nil {
			p.log.WarnObj("dedupe lookup failed", "storage_error", map[string]any{
				"provider_id": cfg.ID,
				"article_id":  a.ID,
				"error":       err.Error(),
			})
			out = append(out, a)
			continue
		}
		if !seen {
			out = append(out, a)
		}
	}
	return out
}

// publish sends each article and marks it seen once at least one publisher accepted it.
func (p *ProviderProcessor) publish(ctx context.Context, cfg providers.Provider, articles []domain.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}
	if p.pub == nil {
		return 0, fmt.Errorf("provider %s: no publisher configured", cfg.ID)
	}

	var errs []error
	published := 0
	for _, a := range articles {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		delivered, err := p.pub.Publish(ctx, publishers.NewEvent(cfg.ID, cfg.Name, a))
		if err != nil {
			errs = append(errs, fmt.Errorf("publish article %s: %w", a.ID, err))
		}
		if delivered == 0 {
			countArticles(cfg.ID, stageFailed, 1)
			continue
		}

		published++
		countArticles(cfg.ID, stagePublished, 1)
		if p.store != nil {
			if err := p.store.MarkArticle(a.ID); err != nil {
				errs = append(errs, fmt.Errorf("mark article %s: %w", a.ID, err))
			}
		}
	}
	return published, errors.Join(errs...)
}

func ensureLogger(log logger.Logger) logger.Logger {
	if log == nil {
		return logger.NopLogger{}
	}
	return log
}
