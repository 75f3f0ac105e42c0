package dto

// Pagination is a generic pagination envelope for list results.
// Page is 1-based; Total counts matching items before pagination.
type Pagination[T any] struct {
	Data     []T   `json:"data"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}
