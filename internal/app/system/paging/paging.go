// internal/app/system/paging/paging.go

// Package paging implements offset pagination for the directory
// endpoints: page/limit query parameters in, skip/limit plus a totals
// block out.
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the page size used when the client does not ask for
// one. MaxLimit caps what a client may ask for.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds a parsed page request.
type Params struct {
	Page  int
	Limit int
}

// Parse reads "page" and "limit" query parameters, applying defaults and
// bounds. Invalid or missing values fall back rather than erroring, to
// match what list UIs expect.
func Parse(r *http.Request) Params {
	p := Params{Page: 1, Limit: DefaultLimit}

	if s := query.Get(r, "page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			p.Page = n
		}
	}
	if s := query.Get(r, "limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			if n > MaxLimit {
				n = MaxLimit
			}
			p.Limit = n
		}
	}
	return p
}

// Skip returns the number of documents to skip for this page.
func (p Params) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// Limit64 returns the page size as int64 for Mongo Find options.
func (p Params) Limit64() int64 {
	return int64(p.Limit)
}

// Pagination is the totals block returned alongside paged results.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

// Totals builds the pagination block for a total row count.
func (p Params) Totals(total int64) Pagination {
	pages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		pages++
	}
	return Pagination{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: pages,
	}
}
