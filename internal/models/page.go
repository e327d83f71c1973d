package models

// Page is one page of a paginated listing
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNo        int   `json:"pageNo"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Last          bool  `json:"last"`
}

// sort direction
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// PageQuery holds the optional listing parameters. Zero values are not sent.
type PageQuery struct {
	PageNo   *int
	PageSize *int
	SortBy   string
	SortDir  string
	Search   string
}
