// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package policy

import "math"

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 10

// PageRequest selects one page of a listing. Numbers start at 1.
type PageRequest struct {
	Number int
	Size   int
}

// NewPageRequest clamps number to at least 1 and falls back to
// DefaultPageSize for a non-positive size. Numbers so large that the
// offset would overflow are clamped to the largest representable page,
// which is past the end of any real listing.
func NewPageRequest(number, size int) PageRequest {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if limit := math.MaxInt / size; number > limit {
		number = limit
	}
	return PageRequest{Number: number, Size: size}
}

// Offset is the number of items before the page.
func (r PageRequest) Offset() int {
	return (r.Number - 1) * r.Size
}

// Page is one page of a listing plus the total number of matching items.
// A page past the end has no items; it is not an error.
type Page[T any] struct {
	Items  []T `json:"items"`
	Number int `json:"page"`
	Size   int `json:"page_size"`
	Total  int `json:"total"`
}

// NumPages is the number of non-empty pages, at least 1.
func (p Page[T]) NumPages() int {
	if p.Total == 0 || p.Size < 1 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}

// HasNext reports whether a later page has items.
func (p Page[T]) HasNext() bool {
	return p.Number < p.NumPages()
}

// HasPrevious reports whether an earlier page exists.
func (p Page[T]) HasPrevious() bool {
	return p.Number > 1
}

// Paginate cuts one page out of a fully materialised, already ordered list.
func Paginate[T any](items []T, req PageRequest) Page[T] {
	req = NewPageRequest(req.Number, req.Size)
	page := Page[T]{Items: []T{}, Number: req.Number, Size: req.Size, Total: len(items)}

	start := req.Offset()
	if start < 0 || start >= len(items) {
		return page
	}
	end := start + req.Size
	if end > len(items) {
		end = len(items)
	}
	page.Items = append(page.Items, items[start:end]...)
	return page
}
