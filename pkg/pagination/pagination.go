// Package pagination validates page/limit query parameters and shapes
// paginated responses.
package pagination

import (
	"net/http"

	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/platform/httputil"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is a validated page request. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// New validates explicit values. Non-positive values are rejected rather than
// coerced; limit is capped at MaxLimit.
func New(page, limit int) (Params, error) {
	if page <= 0 {
		return Params{}, dErrors.New(dErrors.CodeBadRequest, "page must be positive")
	}
	if limit <= 0 {
		return Params{}, dErrors.New(dErrors.CodeBadRequest, "limit must be positive")
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}, nil
}

// FromRequest reads ?page= and ?limit=, applying the defaults when absent.
func FromRequest(r *http.Request) (Params, error) {
	page, err := httputil.QueryInt(r, "page", DefaultPage)
	if err != nil {
		return Params{}, err
	}
	limit, err := httputil.QueryInt(r, "limit", DefaultLimit)
	if err != nil {
		return Params{}, err
	}
	return New(page, limit)
}

// Offset is the number of records to skip.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of results plus the totals needed to render a pager.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPages  int   `json:"total_pages"`
}

// NewPage assembles a Page; TotalPages is ceil(total/limit).
func NewPage[T any](items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Page[T]{
		Items:       items,
		Total:       total,
		CurrentPage: p.Page,
		PerPage:     p.Limit,
		TotalPages:  totalPages,
	}
}
