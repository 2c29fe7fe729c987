// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageRequest selects one page of a listing.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize applies defaults and bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of results plus navigation metadata.
type Page[T any] struct { //nolint:govet // fieldalignment: readability over optimization
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	PerPage     int   `json:"perPage"`
	Results     []T   `json:"results"`
}

// NewPage builds a Page for results fetched with req.
func NewPage[T any](results []T, total int64, req PageRequest) Page[T] {
	if results == nil {
		results = []T{}
	}
	totalPages := 0
	if req.Limit > 0 {
		totalPages = int((total + int64(req.Limit) - 1) / int64(req.Limit))
	}
	return Page[T]{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: req.Page,
		HasNextPage: req.Page < totalPages,
		HasPrevPage: req.Page > 1,
		PerPage:     req.Limit,
		Results:     results,
	}
}

// MapPage converts the results of a page, keeping its metadata.
func MapPage[T, U any](p Page[T], f func(T) U) Page[U] {
	out := make([]U, len(p.Results))
	for i, item := range p.Results {
		out[i] = f(item)
	}
	return Page[U]{
		Total:       p.Total,
		TotalPages:  p.TotalPages,
		CurrentPage: p.CurrentPage,
		HasNextPage: p.HasNextPage,
		HasPrevPage: p.HasPrevPage,
		PerPage:     p.PerPage,
		Results:     out,
	}
}
