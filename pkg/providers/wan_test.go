package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Adda-Baaj/wanreader/pkg/wanandroid"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	body   string
	ua     string
}

// apiServer answers each path from a fixed table of JSON bodies.
type apiServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
	bodies   map[string]string
}

func newAPIServer(t *testing.T, bodies map[string]string) *apiServer {
	t.Helper()
	s := &apiServer{bodies: bodies}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.requests = append(s.requests, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			body:   string(raw),
			ua:     r.Header.Get("User-Agent"),
		})
		s.mu.Unlock()

		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *apiServer) recorded() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedRequest(nil), s.requests...)
}

func pageBody(cur int, over bool, ids ...int) string {
	items := make([]string, 0, len(ids))
	for _, id := range ids {
		items = append(items, fmt.Sprintf(`{"id":%d,"title":"Article %d","link":"https://example.com/%d","author":"author-%d","chapterName":"Chapter","superChapterName":"Super","publishTime":1700000000000}`, id, id, id, id))
	}
	return fmt.Sprintf(`{"data":{"curPage":%d,"datas":[%s],"offset":0,"over":%t,"pageCount":2,"size":20,"total":%d},"errorCode":0,"errorMsg":""}`,
		cur, strings.Join(items, ","), over, len(ids))
}

func fetchWith(t *testing.T, cfg Provider) ([]string, error) {
	t.Helper()
	fetcher, err := DefaultFetcherRegistry(nil, nil).FetcherFor(cfg)
	if err != nil {
		t.Fatalf("FetcherFor: %v", err)
	}
	articles, err := fetcher.Fetch(context.Background(), cfg)
	ids := make([]string, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}
	return ids, err
}

func TestArticlesFetcherWalksPagesUntilOver(t *testing.T) {
	srv := newAPIServer(t, map[string]string{
		"/api/article/list/0/json": pageBody(1, false, 1, 2),
		"/api/article/list/1/json": pageBody(2, true, 3),
		"/api/article/list/2/json": pageBody(3, true, 4),
	})

	ids, err := fetchWith(t, sanitizeProvider(Provider{
		ID:             "feed",
		Type:           TypeWanArticles,
		SourceURL:      srv.URL + "/api",
		RequestDelayMs: 1,
		Config:         map[string]any{"pages": 5, "category_id": 60, "user_agent": "wanreader-test"},
	}))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if strings.Join(ids, ",") != "wanandroid:1,wanandroid:2,wanandroid:3" {
		t.Fatalf("unexpected ids %v", ids)
	}

	reqs := srv.recorded()
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(reqs))
	}
	for _, r := range reqs {
		if r.query != "cid=60" {
			t.Fatalf("expected cid query, got %q", r.query)
		}
		if r.ua != "wanreader-test" {
			t.Fatalf("user agent not forwarded: %q", r.ua)
		}
	}
}

func TestArticlesFetcherOmitsCategoryWhenUnset(t *testing.T) {
	srv := newAPIServer(t, map[string]string{"/article/list/0/json": pageBody(1, false, 1)})

	if _, err := fetchWith(t, sanitizeProvider(Provider{ID: "feed", Type: TypeWanArticles, SourceURL: srv.URL})); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	reqs := srv.recorded()
	if len(reqs) != 1 || reqs[0].query != "" {
		t.Fatalf("expected one request without query, got %+v", reqs)
	}
}

func TestPublisherFetcherStartsAtPageOne(t *testing.T) {
	srv := newAPIServer(t, map[string]string{"/wxarticle/list/408/1/json": pageBody(1, true, 7)})

	ids, err := fetchWith(t, sanitizeProvider(Provider{
		ID:        "gdg",
		Type:      TypeWanPublisher,
		SourceURL: srv.URL,
		Config:    map[string]any{"publisher_id": 408, "search": "Jetpack Compose"},
	}))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(ids) != 1 || ids[0] != "wanandroid:7" {
		t.Fatalf("unexpected ids %v", ids)
	}
	if q := srv.recorded()[0].query; q != "k=Jetpack%20Compose" {
		t.Fatalf("unexpected query %q", q)
	}
}

func TestAuthorFetcherSendsAuthor(t *testing.T) {
	srv := newAPIServer(t, map[string]string{"/article/list/0/json": pageBody(1, true, 9)})

	if _, err := fetchWith(t, sanitizeProvider(Provider{
		ID:        "guolin",
		Type:      TypeWanAuthor,
		SourceURL: srv.URL,
		Config:    map[string]any{"author": "郭霖"},
	})); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if q := srv.recorded()[0].query; q != "author=%E9%83%AD%E9%9C%96" {
		t.Fatalf("unexpected query %q", q)
	}
}

func TestSearchFetcherPostsForm(t *testing.T) {
	srv := newAPIServer(t, map[string]string{"/article/query/0/json": pageBody(1, true, 11)})

	ids, err := fetchWith(t, sanitizeProvider(Provider{
		ID:        "kotlin",
		Type:      TypeWanSearch,
		SourceURL: srv.URL,
		Config:    map[string]any{"keyword": "Kotlin 协程"},
	}))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("unexpected ids %v", ids)
	}
	req := srv.recorded()[0]
	if req.method != http.MethodPost || req.body != "k=Kotlin%20%E5%8D%8F%E7%A8%8B" {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestTopFetcherDropsRepeatedArticles(t *testing.T) {
	srv := newAPIServer(t, map[string]string{
		"/article/top/json": `{"data":[{"id":1,"title":"a"},{"id":1,"title":"a again"},{"id":2,"title":"b"}],"errorCode":0}`,
	})

	ids, err := fetchWith(t, sanitizeProvider(Provider{ID: "top", Type: TypeWanTop, SourceURL: srv.URL}))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if strings.Join(ids, ",") != "wanandroid:1,wanandroid:2" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestFetcherSurfacesAPIErrors(t *testing.T) {
	srv := newAPIServer(t, map[string]string{
		"/article/top/json": `{"data":null,"errorCode":-1001,"errorMsg":"请先登录！"}`,
	})

	_, err := fetchWith(t, sanitizeProvider(Provider{ID: "top", Type: TypeWanTop, SourceURL: srv.URL}))
	var apiErr *wanandroid.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != -1001 {
		t.Fatalf("unexpected code %d", apiErr.Code)
	}
}

func TestFetcherSurfacesTransportErrors(t *testing.T) {
	srv := newAPIServer(t, map[string]string{})

	_, err := fetchWith(t, sanitizeProvider(Provider{ID: "feed", Type: TypeWanArticles, SourceURL: srv.URL}))
	if !wanandroid.IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestFetcherStopsOnCancelledContextBetweenPages(t *testing.T) {
	srv := newAPIServer(t, map[string]string{"/article/list/0/json": pageBody(1, false, 1)})

	cfg := sanitizeProvider(Provider{
		ID:             "feed",
		Type:           TypeWanArticles,
		SourceURL:      srv.URL,
		RequestDelayMs: int(time.Minute / time.Millisecond),
		Config:         map[string]any{"pages": 2},
	})
	fetcher := newWanFetcher(TypeWanArticles, DefaultHTTPClient(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for len(srv.recorded()) == 0 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	if _, err := fetcher.Fetch(ctx, cfg); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFetcherRejectsMismatchedType(t *testing.T) {
	fetcher := newWanFetcher(TypeWanTop, DefaultHTTPClient(), nil)
	if _, err := fetcher.Fetch(context.Background(), Provider{ID: "x", Type: TypeWanSearch}); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func TestDefaultFetcherRegistryResolution(t *testing.T) {
	reg := DefaultFetcherRegistry(nil, nil)
	for _, typ := range fetcherTypes {
		f, err := reg.FetcherFor(Provider{ID: "p-" + typ, Type: typ})
		if err != nil {
			t.Fatalf("FetcherFor(%s): %v", typ, err)
		}
		if f.ID() != typ {
			t.Fatalf("fetcher id %q for type %q", f.ID(), typ)
		}
	}
	if _, err := reg.FetcherFor(Provider{ID: "p", Type: "rss"}); err == nil {
		t.Fatalf("expected error for unknown type")
	}
	if _, err := reg.FetcherFor(Provider{Type: TypeWanTop}); err == nil {
		t.Fatalf("expected error for empty id")
	}

	override := newWanFetcher(TypeWanTop, DefaultHTTPClient(), nil)
	byID := NewTypeFetcherRegistry(map[string]Fetcher{TypeWanSearch: newWanFetcher(TypeWanSearch, nil, nil)}, override)
	if f, _ := byID.FetcherFor(Provider{ID: TypeWanTop, Type: TypeWanSearch}); f != override {
		t.Fatalf("id match should win over type match")
	}
}

func TestToArticle(t *testing.T) {
	a := ToArticle(wanandroid.Article{
		ID:               42,
		Title:            "Compose &amp; Flow",
		Link:             "/blog/show/2744",
		Desc:             "<p>Hello <b>world</b></p>",
		EnvelopePic:      "https://img.example/p.png",
		ShareUser:        "sharer",
		ChapterName:      "Compose",
		SuperChapterName: "Jetpack",
		PublishTime:      1_700_000_000_000,
		Tags:             []wanandroid.Tag{{Name: "公众号"}, {Name: " "}},
	}, "https://www.wanandroid.com/")

	if a.ID != "wanandroid:42" {
		t.Fatalf("ID = %q", a.ID)
	}
	if a.Title != "Compose & Flow" {
		t.Fatalf("Title = %q", a.Title)
	}
	if a.URL != "https://www.wanandroid.com/blog/show/2744" {
		t.Fatalf("URL = %q", a.URL)
	}
	if a.Description != "Hello world" {
		t.Fatalf("Description = %q", a.Description)
	}
	if a.Author != "sharer" || a.Category != "Jetpack/Compose" {
		t.Fatalf("author/category = %q/%q", a.Author, a.Category)
	}
	if len(a.Tags) != 1 || a.Tags[0] != "公众号" {
		t.Fatalf("Tags = %v", a.Tags)
	}
	if !a.PublishedAt.Equal(time.UnixMilli(1_700_000_000_000)) {
		t.Fatalf("PublishedAt = %v", a.PublishedAt)
	}
	if a.NeedsEnrichment() {
		t.Fatalf("article with description and image should not need enrichment")
	}
}
