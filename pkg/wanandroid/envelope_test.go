package wanandroid

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagedResultRoundTripUsesWireKeys(t *testing.T) {
	page := ArticlePage{
		PageIndex:  2,
		PageOffset: 20,
		Items: []Article{
			{ID: 1, Title: "Compose", Author: "xiaoyang", Tags: []Tag{{Name: "Jetpack", URL: "/t/1"}}},
			{ID: 2, Title: "Flow", ShareUser: "zhujiang"},
		},
		IsLastPage: true,
		PageCount:  2,
		PageSize:   20,
		TotalItems: 22,
	}

	raw, err := json.Marshal(page)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	for _, key := range []string{"curPage", "offset", "datas", "over", "pageCount", "size", "total"} {
		assert.Contains(t, wire, key)
	}

	var decoded ArticlePage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, page, decoded)
}

func TestCategoryRoundTripKeepsNestedChildren(t *testing.T) {
	tree := Category{
		ID:   1,
		Name: "root",
		Children: []Category{
			{ID: 2, Name: "a", ParentChapterID: 1, Visible: 2, Children: []Category{
				{ID: 3, Name: "a.1", ParentChapterID: 2, IsUserPinned: true, Children: []Category{
					{ID: 4, Name: "a.1.x", ParentChapterID: 3, Visible: 0},
				}},
			}},
			{ID: 5, Name: "b", ParentChapterID: 1, Order: 7, CourseID: 13},
		},
	}

	raw, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"userControlSetTop":true`)

	var decoded Category
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, tree, decoded)
}

func TestEnvelopeToleratesUnknownAndMissingFields(t *testing.T) {
	var env Envelope[[]Keyword]
	err := json.Unmarshal([]byte(`{"data":[{"name":"面试","extra":{"x":1}}],"traceId":"abc"}`), &env)
	require.NoError(t, err)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "面试", env.Data[0].Name)
	assert.Zero(t, env.ErrorCode)
}

func TestEnvelopeErrWithoutMessage(t *testing.T) {
	env := Envelope[[]Banner]{ErrorCode: 500}
	err := env.Err()
	require.Error(t, err)
	assert.Equal(t, "wanandroid api error 500", err.Error())
}

func TestPublisherChildrenStayOpaque(t *testing.T) {
	var p Publisher
	err := json.Unmarshal([]byte(`{"id":408,"name":"鸿洋","children":[1,"two",{"three":3}]}`), &p)
	require.NoError(t, err)
	require.Len(t, p.Children, 3)
	assert.Equal(t, "two", p.Children[1])
}

func TestCategoryWalkVisitsDepthFirst(t *testing.T) {
	tree := Category{Name: "root", Children: []Category{
		{Name: "a", Children: []Category{{Name: "a1"}}},
		{Name: "b"},
	}}

	var names []string
	var depths []int
	tree.Walk(func(depth int, node Category) bool {
		names = append(names, node.Name)
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []string{"root", "a", "a1", "b"}, names)
	assert.Equal(t, []int{0, 1, 2, 1}, depths)

	var visited int
	completed := tree.Walk(func(_ int, node Category) bool {
		visited++
		return node.Name != "a"
	})
	assert.False(t, completed)
	assert.Equal(t, 2, visited)
}

func TestArticlePublishedAndByline(t *testing.T) {
	a := Article{PublishTime: 1598950000000, Author: "鸿洋"}
	assert.Equal(t, time.UnixMilli(1598950000000).UTC(), a.Published())
	assert.Equal(t, "鸿洋", a.Byline())

	shared := Article{ShareDate: 1598930000000, ShareUser: "Zhujiang"}
	assert.Equal(t, time.UnixMilli(1598930000000).UTC(), shared.Published())
	assert.Equal(t, "Zhujiang", shared.Byline())

	assert.True(t, Article{}.Published().IsZero())
}
