package wanandroid

import (
	"context"
	"net/http"
	"strconv"
)

var (
	epListPublishers        = endpoint{name: "list_publishers", method: http.MethodGet, path: "wxarticle/chapters/json"}
	epListPublisherArticles = endpoint{name: "list_publisher_articles", method: http.MethodGet, path: "wxarticle/list/{wechatId}/{page}/json"}
	epListArticles          = endpoint{name: "list_articles", method: http.MethodGet, path: "article/list/{page}/json"}
	epListArticlesByAuthor  = endpoint{name: "list_articles_by_author", method: http.MethodGet, path: "article/list/{page}/json"}
	epListTopArticles       = endpoint{name: "list_top_articles", method: http.MethodGet, path: "article/top/json"}
	epSearchArticles        = endpoint{name: "search_articles", method: http.MethodPost, path: "article/query/{page}/json"}
	epListBanners           = endpoint{name: "list_banners", method: http.MethodGet, path: "banner/json"}
	epListPopularKeywords   = endpoint{name: "list_popular_keywords", method: http.MethodGet, path: "hotkey/json"}
	epListCategoryTree      = endpoint{name: "list_category_tree", method: http.MethodGet, path: "tree/json"}
)

// ListPublishers returns the WeChat official accounts.
//
//	GET wxarticle/chapters/json
func (c *Client) ListPublishers(ctx context.Context) (Envelope[[]Publisher], error) {
	return call[[]Publisher](ctx, c, newRequest(epListPublishers))
}

// ListPublisherArticles returns one page of a publisher's articles, optionally
// filtered by search.
//
//	GET wxarticle/list/{wechatId}/{page}/json[?k=search]
func (c *Client) ListPublisherArticles(ctx context.Context, publisherID string, page int, search *string) (Envelope[*ArticlePage], error) {
	req := newRequest(epListPublisherArticles).
		path("wechatId", publisherID).
		path("page", strconv.Itoa(page)).
		queryOpt("k", search)
	return call[*ArticlePage](ctx, c, req)
}

// ListArticles returns one page of the home feed, optionally narrowed to a category.
//
//	GET article/list/{page}/json[?cid=categoryId]
func (c *Client) ListArticles(ctx context.Context, page int, categoryID *int) (Envelope[*ArticlePage], error) {
	req := newRequest(epListArticles).path("page", strconv.Itoa(page))
	if categoryID != nil {
		req.queryParam("cid", strconv.Itoa(*categoryID))
	}
	return call[*ArticlePage](ctx, c, req)
}

// ListArticlesByAuthor returns one page of articles written by author.
//
//	GET article/list/{page}/json?author=author
func (c *Client) ListArticlesByAuthor(ctx context.Context, page int, author string) (Envelope[*ArticlePage], error) {
	req := newRequest(epListArticlesByAuthor).
		path("page", strconv.Itoa(page)).
		queryParam("author", author)
	return call[*ArticlePage](ctx, c, req)
}

// ListTopArticles returns the pinned articles.
//
//	GET article/top/json
func (c *Client) ListTopArticles(ctx context.Context) (Envelope[[]Article], error) {
	return call[[]Article](ctx, c, newRequest(epListTopArticles))
}

// SearchArticles runs a full-text search.
//
//	POST article/query/{page}/json  body: k=keyword
func (c *Client) SearchArticles(ctx context.Context, page int, keyword string) (Envelope[*ArticlePage], error) {
	req := newRequest(epSearchArticles).
		path("page", strconv.Itoa(page)).
		field("k", keyword)
	return call[*ArticlePage](ctx, c, req)
}

// ListBanners returns the carousel entries.
//
//	GET banner/json
func (c *Client) ListBanners(ctx context.Context) (Envelope[[]Banner], error) {
	return call[[]Banner](ctx, c, newRequest(epListBanners))
}

// ListPopularKeywords returns the trending search terms.
//
//	GET hotkey/json
func (c *Client) ListPopularKeywords(ctx context.Context) (Envelope[[]Keyword], error) {
	return call[[]Keyword](ctx, c, newRequest(epListPopularKeywords))
}

// ListCategoryTree returns the root nodes of the knowledge-system tree.
//
//	GET tree/json
func (c *Client) ListCategoryTree(ctx context.Context) (Envelope[[]Category], error) {
	return call[[]Category](ctx, c, newRequest(epListCategoryTree))
}
