package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/Adda-Baaj/wanreader/internal/domain"
	"github.com/Adda-Baaj/wanreader/pkg/wanandroid"
)

// Provider types served by the WanAndroid API.
const (
	TypeWanArticles  = "wan_articles"
	TypeWanAuthor    = "wan_author"
	TypeWanPublisher = "wan_publisher"
	TypeWanTop       = "wan_top"
	TypeWanSearch    = "wan_search"
)

var fetcherTypes = []string{TypeWanArticles, TypeWanAuthor, TypeWanPublisher, TypeWanTop, TypeWanSearch}

func knownType(typ string) bool {
	for _, t := range fetcherTypes {
		if t == typ {
			return true
		}
	}
	return false
}

// pageFunc requests one page of a paged article listing.
type pageFunc func(ctx context.Context, api *wanandroid.Client, cfg Provider, page int) (wanandroid.Envelope[*wanandroid.ArticlePage], error)

// wanFetcher pulls articles for one provider type. Paged types walk up to
// config.pages pages from config.start_page, stopping early on the last page.
type wanFetcher struct {
	typ       string
	client    HTTPClient
	log       wanandroid.Logger
	firstPage int
	page      pageFunc
}

func newWanFetcher(typ string, client HTTPClient, log wanandroid.Logger) *wanFetcher {
	f := &wanFetcher{typ: typ, client: client, log: log}

	switch typ {
	case TypeWanArticles:
		f.page = func(ctx context.Context, api *wanandroid.Client, cfg Provider, page int) (wanandroid.Envelope[*wanandroid.ArticlePage], error) {
			var cid *int
			if _, ok := cfg.Config[ConfigCategoryIDKey]; ok {
				n, err := ConfigInt(cfg, ConfigCategoryIDKey, 0)
				if err != nil {
					return wanandroid.Envelope[*wanandroid.ArticlePage]{}, err
				}
				cid = &n
			}
			return api.ListArticles(ctx, page, cid)
		}
	case TypeWanAuthor:
		f.page = func(ctx context.Context, api *wanandroid.Client, cfg Provider, page int) (wanandroid.Envelope[*wanandroid.ArticlePage], error) {
			return api.ListArticlesByAuthor(ctx, page, ConfigString(cfg, ConfigAuthorKey, ""))
		}
	case TypeWanPublisher:
		// Publisher history pages start at 1.
		f.firstPage = 1
		f.page = func(ctx context.Context, api *wanandroid.Client, cfg Provider, page int) (wanandroid.Envelope[*wanandroid.ArticlePage], error) {
			var search *string
			if s := ConfigString(cfg, ConfigSearchKey, ""); s != "" {
				search = &s
			}
			return api.ListPublisherArticles(ctx, ConfigString(cfg, ConfigPublisherIDKey, ""), page, search)
		}
	case TypeWanSearch:
		f.page = func(ctx context.Context, api *wanandroid.Client, cfg Provider, page int) (wanandroid.Envelope[*wanandroid.ArticlePage], error) {
			return api.SearchArticles(ctx, page, ConfigString(cfg, ConfigKeywordKey, ""))
		}
	}
	return f
}

func (f *wanFetcher) ID() string { return f.typ }

func (f *wanFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.Article, error) {
	if cfg.Type != f.typ {
		return nil, fmt.Errorf("%s fetcher received provider %q of type %q", f.typ, cfg.ID, cfg.Type)
	}

	base := cfg.SourceURL
	if base == "" {
		base = wanandroid.DefaultBaseURL
	}
	api, err := f.api(base, cfg)
	if err != nil {
		return nil, fmt.Errorf("build api client for %s: %w", cfg.ID, err)
	}

	if f.page == nil {
		env, err := api.ListTopArticles(ctx)
		if err != nil {
			return nil, fmt.Errorf("list top articles: %w", err)
		}
		if err := env.Err(); err != nil {
			return nil, fmt.Errorf("list top articles: %w", err)
		}
		return newCollector(base).add(env.Data...).articles, nil
	}

	pages, err := ConfigInt(cfg, ConfigPagesKey, 1)
	if err != nil {
		return nil, err
	}
	if pages < 1 {
		pages = 1
	}
	start, err := ConfigInt(cfg, ConfigStartPageKey, f.firstPage)
	if err != nil {
		return nil, err
	}

	col := newCollector(base)
	for i := 0; i < pages; i++ {
		if i > 0 {
			if err := sleepCtx(ctx, cfg.RequestDelay()); err != nil {
				return nil, err
			}
		}

		page := start + i
		env, err := f.page(ctx, api, cfg, page)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		if err := env.Err(); err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		if env.Data == nil {
			break
		}
		col.add(env.Data.Items...)
		if env.Data.IsLastPage {
			break
		}
	}
	return col.articles, nil
}

func (f *wanFetcher) api(base string, cfg Provider) (*wanandroid.Client, error) {
	opts := []wanandroid.Option{
		wanandroid.WithHTTPClient(f.client),
		wanandroid.WithHeaders(Headers(cfg)),
	}
	if f.log != nil {
		opts = append(opts, wanandroid.WithLogger(f.log))
	}
	return wanandroid.New(base, opts...)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
