package providers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Adda-Baaj/wanreader/internal/domain"
	"github.com/Adda-Baaj/wanreader/pkg/wanandroid"
)

// ArticleIDPrefix namespaces WanAndroid ids in the dedupe store.
const ArticleIDPrefix = "wanandroid:"

// ToArticle maps an API article to the harvester model. Relative links resolve
// against base; HTML in the title and description is flattened to text.
func ToArticle(a wanandroid.Article, base string) domain.Article {
	tags := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		if name := strings.TrimSpace(t.Name); name != "" {
			tags = append(tags, name)
		}
	}
	if len(tags) == 0 {
		tags = nil
	}

	category := a.ChapterName
	if a.SuperChapterName != "" && a.ChapterName != "" && a.SuperChapterName != a.ChapterName {
		category = a.SuperChapterName + "/" + a.ChapterName
	} else if category == "" {
		category = a.SuperChapterName
	}

	return domain.Article{
		ID:          ArticleIDPrefix + strconv.Itoa(a.ID),
		Title:       plainText(a.Title),
		URL:         resolveLink(a.Link, base),
		Description: plainText(a.Desc),
		ImageURL:    resolveLink(a.EnvelopePic, base),
		Author:      a.Byline(),
		Category:    category,
		Tags:        tags,
		PublishedAt: a.Published(),
	}
}

// collector accumulates mapped articles, dropping repeats within one fetch.
type collector struct {
	base     string
	seen     map[int]struct{}
	articles []domain.Article
}

func newCollector(base string) *collector {
	return &collector{base: base, seen: make(map[int]struct{})}
}

func (c *collector) add(items ...wanandroid.Article) *collector {
	for _, a := range items {
		if _, dup := c.seen[a.ID]; dup {
			continue
		}
		c.seen[a.ID] = struct{}{}
		c.articles = append(c.articles, ToArticle(a, c.base))
	}
	return c
}

func plainText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func resolveLink(link, base string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	ref, err := url.Parse(link)
	if err != nil || ref.IsAbs() {
		return link
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return link
	}
	return b.ResolveReference(ref).String()
}
