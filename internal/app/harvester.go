package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Adda-Baaj/wanreader/internal/config"
	"github.com/Adda-Baaj/wanreader/internal/crawler"
	"github.com/Adda-Baaj/wanreader/internal/logger"
	"github.com/Adda-Baaj/wanreader/internal/storage"
	"github.com/Adda-Baaj/wanreader/pkg/httpclient"
	"github.com/Adda-Baaj/wanreader/pkg/providers"
	"github.com/Adda-Baaj/wanreader/pkg/publishers"
)

// Harvester is the article harvester runtime. It owns the crawl loop, the publisher
// fanout, the dedupe store and the optional metrics endpoint.
type Harvester struct {
	cfg           *config.Config
	providers     []providers.Provider
	fanout        *publishers.Fanout
	crawlService  *crawler.Service
	crawlInterval time.Duration
	log           logger.Logger
	store         storage.Store
}

// NewHarvester builds a harvester runtime from config files.
func NewHarvester(ctx context.Context, cfg *config.Config, log logger.Logger) (*Harvester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	providerReg, err := providers.LoadRegistry(cfg.ProvidersFile)
	if err != nil {
		return nil, fmt.Errorf("load providers registry: %w", err)
	}
	providerList := applyProviderDefaults(providerReg.All(), cfg)
	providerIDs := make([]string, 0, len(providerList))
	for _, p := range providerList {
		providerIDs = append(providerIDs, p.ID)
	}
	log.InfoObj("providers registry loaded", "providers_meta", map[string]any{
		"count": len(providerIDs),
		"ids":   providerIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ArticleTTL:      cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("init storage: %w", err), fanout.Close())
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"article_ttl_seconds":      int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	fetchers := providers.DefaultFetcherRegistry(httpclient.NewRestyClient(cfg.HTTPTimeout), log)

	return &Harvester{
		cfg:           cfg,
		providers:     providerList,
		fanout:        fanout,
		crawlService:  crawler.NewService(fetchers, fanout, log, store),
		crawlInterval: cfg.CrawlInterval,
		log:           log,
		store:         store,
	}, nil
}

// Run starts the crawl loop until the context is cancelled, then releases resources.
func (h *Harvester) Run(ctx context.Context) error {
	if h == nil || h.crawlService == nil {
		return fmt.Errorf("harvester is not initialized")
	}
	defer h.Close()

	if h.cfg.MetricsAddr != "" {
		stop := h.serveMetrics(h.cfg.MetricsAddr)
		defer stop()
	}

	h.log.InfoObj("harvester loop starting", "harvester_state", map[string]any{
		"providers_count":  len(h.providers),
		"publishers_count": h.fanout.Size(),
		"crawl_interval":   h.crawlInterval.String(),
	})

	if err := h.RunOnce(ctx); err != nil {
		h.log.ErrorObj("initial crawl failed", "error", err.Error())
	}

	ticker := time.NewTicker(h.crawlInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.InfoObj("harvester loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := h.RunOnce(ctx); err != nil {
				h.log.ErrorObj("scheduled crawl failed", "error", err.Error())
			}
		}
	}
}

// RunOnce performs a single crawl pass across all providers.
func (h *Harvester) RunOnce(ctx context.Context) error {
	start := time.Now()
	h.log.InfoObj("crawl started", "crawl_meta", map[string]any{
		"providers_count": len(h.providers),
		"started_at":      start.UTC(),
	})
	if err := h.crawlService.Run(ctx, h.providers); err != nil {
		return err
	}
	h.log.InfoObj("crawl completed", "crawl_meta", map[string]any{
		"providers_count": len(h.providers),
		"elapsed_ms":      time.Since(start).Milliseconds(),
	})
	return nil
}

// Close releases the publishers and the storage backend.
func (h *Harvester) Close() error {
	if h == nil {
		return nil
	}
	var errs []error
	if err := h.fanout.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publishers: %w", err))
	}
	if h.store != nil {
		if err := h.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	err := errors.Join(errs...)
	if err != nil {
		h.log.ErrorObj("harvester close failed", "error", err.Error())
	}
	return err
}

// serveMetrics exposes the Prometheus registry on addr and returns a stop function.
func (h *Harvester) serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.log.ErrorObj("metrics server failed", "error", err.Error())
		}
	}()
	h.log.InfoObj("metrics server listening", "metrics_addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// applyProviderDefaults fills source_url and config.user_agent from cfg on providers
// that leave them empty. Inputs are not mutated.
func applyProviderDefaults(list []providers.Provider, cfg *config.Config) []providers.Provider {
	out := make([]providers.Provider, len(list))
	for i, p := range list {
		if p.SourceURL == "" {
			p.SourceURL = cfg.APIBaseURL
		}
		if cfg.UserAgent != "" && providers.ConfigString(p, providers.ConfigUserAgentKey, "") == "" {
			conf := make(map[string]any, len(p.Config)+1)
			for k, v := range p.Config {
				conf[k] = v
			}
			conf[providers.ConfigUserAgentKey] = cfg.UserAgent
			p.Config = conf
		}
		out[i] = p
	}
	return out
}
