package wanandroid

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPathEscapesSegments(t *testing.T) {
	got, err := expandPath("wxarticle/list/{wechatId}/{page}/json", map[string]string{
		"wechatId": "a/b c",
		"page":     "3",
	})
	require.NoError(t, err)
	assert.Equal(t, "wxarticle/list/a%2Fb%20c/3/json", got)
}

func TestExpandPathErrors(t *testing.T) {
	_, err := expandPath("article/list/{page}/json", nil)
	assert.ErrorContains(t, err, `missing path parameter "page"`)

	_, err = expandPath("article/list/{page/json", map[string]string{"page": "1"})
	assert.ErrorContains(t, err, "unterminated placeholder")
}

func TestEscapeComponent(t *testing.T) {
	cases := map[string]string{
		"Jetpack Compose": "Jetpack%20Compose",
		"Kotlin 协程":       "Kotlin%20%E5%8D%8F%E7%A8%8B",
		"a+b&c=d":         "a%2Bb%26c%3Dd",
		"plain-text_1.0~": "plain-text_1.0~",
		"*.kt":            "%2A.kt",
	}
	for in, want := range cases {
		assert.Equal(t, want, escapeComponent(in), in)
	}
}

func TestRequestURLAndBody(t *testing.T) {
	get := newRequest(endpoint{name: "x", method: http.MethodGet, path: "article/list/{page}/json"}).
		path("page", "0").
		queryOpt("k", nil).
		queryParam("cid", "60").
		queryOpt("author", String("鸿洋"))

	target, err := get.url("https://www.wanandroid.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://www.wanandroid.com/article/list/0/json?cid=60&author=%E9%B8%BF%E6%B4%8B", target)
	assert.Nil(t, get.body())

	post := newRequest(endpoint{name: "y", method: http.MethodPost, path: "article/query/{page}/json"}).
		path("page", "1").
		field("k", "")
	assert.Equal(t, "k=", string(post.body()))
}
