package wanandroid

import "time"

// Article is a single content item as returned by the list, top and search endpoints.
type Article struct {
	ID                 int    `json:"id"`
	Title              string `json:"title"`
	Author             string `json:"author"`
	ShareUser          string `json:"shareUser"`
	Link               string `json:"link"`
	Desc               string `json:"desc"`
	DescMd             string `json:"descMd"`
	EnvelopePic        string `json:"envelopePic"`
	ApkLink            string `json:"apkLink"`
	ProjectLink        string `json:"projectLink"`
	Origin             string `json:"origin"`
	Prefix             string `json:"prefix"`
	Host               string `json:"host"`
	ChapterID          int    `json:"chapterId"`
	ChapterName        string `json:"chapterName"`
	SuperChapterID     int    `json:"superChapterId"`
	SuperChapterName   string `json:"superChapterName"`
	RealSuperChapterID int    `json:"realSuperChapterId"`
	CourseID           int    `json:"courseId"`
	UserID             int    `json:"userId"`
	PublishTime        int64  `json:"publishTime"`
	ShareDate          int64  `json:"shareDate"`
	NiceDate           string `json:"niceDate"`
	NiceShareDate      string `json:"niceShareDate"`
	Type               int    `json:"type"`
	Audit              int    `json:"audit"`
	Visible            int    `json:"visible"`
	SelfVisible        int    `json:"selfVisible"`
	Zan                int    `json:"zan"`
	Fresh              bool   `json:"fresh"`
	Collect            bool   `json:"collect"`
	CanEdit            bool   `json:"canEdit"`
	AdminAdd           bool   `json:"adminAdd"`
	Tags               []Tag  `json:"tags"`
}

// Tag labels an article with a chapter or project link.
type Tag struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Published returns the publish time, falling back to the share date.
// The API reports both as epoch milliseconds; zero means unknown.
func (a Article) Published() time.Time {
	ms := a.PublishTime
	if ms <= 0 {
		ms = a.ShareDate
	}
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// Byline returns the author, or the sharing user for shared links.
func (a Article) Byline() string {
	if a.Author != "" {
		return a.Author
	}
	return a.ShareUser
}

// Category is a node of the knowledge-system tree.
type Category struct {
	Children        []Category `json:"children"`
	CourseID        int        `json:"courseId"`
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Order           int        `json:"order"`
	ParentChapterID int        `json:"parentChapterId"`
	IsUserPinned    bool       `json:"userControlSetTop"`
	// Visible is an opaque flag; observed values are not limited to 0 and 1.
	Visible int `json:"visible"`
}

// Walk visits c and every descendant depth-first, parents before children.
// Returning false from fn stops the walk.
func (c Category) Walk(fn func(depth int, node Category) bool) bool {
	return c.walk(0, fn)
}

func (c Category) walk(depth int, fn func(int, Category) bool) bool {
	if !fn(depth, c) {
		return false
	}
	for _, child := range c.Children {
		if !child.walk(depth+1, fn) {
			return false
		}
	}
	return true
}

// Publisher is a WeChat official account. Its children share no shape with Category
// and are kept undecoded.
type Publisher struct {
	Children        []any  `json:"children"`
	CourseID        int    `json:"courseId"`
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Order           int    `json:"order"`
	ParentChapterID int    `json:"parentChapterId"`
	IsUserPinned    bool   `json:"userControlSetTop"`
	Visible         int    `json:"visible"`
}

// Keyword is a popular search term.
type Keyword struct {
	ID      int    `json:"id"`
	Link    string `json:"link"`
	Name    string `json:"name"`
	Order   int    `json:"order"`
	Visible int    `json:"visible"`
}

// Banner is a promotional carousel entry.
type Banner struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Desc      string `json:"desc"`
	ImagePath string `json:"imagePath"`
	URL       string `json:"url"`
	IsVisible int    `json:"isVisible"`
	Order     int    `json:"order"`
	Type      int    `json:"type"`
}
