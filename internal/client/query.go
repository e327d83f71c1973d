package client

import (
	"net/url"
	"strconv"

	"github.com/rookgm/storefront/internal/models"
)

// withQuery appends the set listing parameters to path
func withQuery(path string, q models.PageQuery) string {
	params := url.Values{}
	if q.PageNo != nil {
		params.Set("pageNo", strconv.Itoa(*q.PageNo))
	}
	if q.PageSize != nil {
		params.Set("pageSize", strconv.Itoa(*q.PageSize))
	}
	if q.SortBy != "" {
		params.Set("sortBy", q.SortBy)
	}
	if q.SortDir != "" {
		params.Set("sortDir", q.SortDir)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}

	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}
