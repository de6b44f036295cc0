package wanandroid

// Envelope wraps every response body. Data is the zero value (nil for the slice and
// pointer payloads used here) when the server omits it or sends null.
type Envelope[T any] struct {
	Data      T      `json:"data"`
	ErrorCode int    `json:"errorCode"`
	ErrorMsg  string `json:"errorMsg,omitempty"`
}

// OK reports whether the server signalled success.
func (e Envelope[T]) OK() bool { return e.ErrorCode == 0 }

// Err returns an *APIError for a non-zero errorCode and nil otherwise.
func (e Envelope[T]) Err() error {
	if e.ErrorCode == 0 {
		return nil
	}
	return &APIError{Code: e.ErrorCode, Message: e.ErrorMsg}
}

// PagedResult is one page of a larger ordered collection. Pages are zero-based on
// the request side; PageIndex echoes the server's curPage.
type PagedResult[T any] struct {
	PageIndex  int  `json:"curPage"`
	PageOffset int  `json:"offset"`
	Items      []T  `json:"datas"`
	IsLastPage bool `json:"over"`
	PageCount  int  `json:"pageCount"`
	PageSize   int  `json:"size"`
	TotalItems int  `json:"total"`
}

// ArticlePage is the payload of every paged article endpoint.
type ArticlePage = PagedResult[Article]
