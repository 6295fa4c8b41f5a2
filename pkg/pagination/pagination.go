package pagination

import (
	"math"
	"strconv"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
	// keeps (Page-1)*Limit inside int32 on every platform
	MaxPage = math.MaxInt32 / MaxLimit
)

// Params is a 1-based page request.
type Params struct {
	Page  int
	Limit int
}

// Meta is the pagination block returned next to list results.
type Meta struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"total"`
	Limit       int   `json:"limit"`
}

// Parse reads raw query values; anything non-numeric or non-positive falls back to defaults.
func Parse(page, limit string) Params {
	p := Params{Page: 1, Limit: DefaultLimit}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	return p
}

// Skip saturates at math.MaxInt64 instead of wrapping.
func (p Params) Skip() int64 {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if int64(p.Page-1) > math.MaxInt64/int64(p.Limit) {
		return math.MaxInt64
	}
	return int64(p.Page-1) * int64(p.Limit)
}

// Bounds returns the [start, end) slice indexes for a collection of n items.
func (p Params) Bounds(n int) (int, int) {
	skip := p.Skip()
	start := n
	if skip < int64(n) {
		start = int(skip)
	}
	end := n
	if p.Limit > 0 && p.Limit < n-start {
		end = start + p.Limit
	}
	return start, end
}

func (p Params) Meta(total int64) Meta {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Meta{CurrentPage: p.Page, TotalPages: pages, Total: total, Limit: p.Limit}
}
