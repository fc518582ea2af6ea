package service

import (
	"fmt"
	"strings"

	"github.com/tnqbao/charcoal-cms/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	maxSearchLength = 100
)

type ListParams struct {
	Search    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// SortColumns maps the sort keys a list accepts onto table columns.
type SortColumns struct {
	Columns     map[string]string
	Default     string
	DefaultDesc bool
}

type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func newPage[T any](items []T, total int64, page, pageSize int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Total: total, Page: page, PageSize: pageSize}
}

func mapPage[S, T any](items []S, total int64, q resolvedQuery, fn func(S) T) *Page[T] {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return newPage(out, total, q.page, q.pageSize)
}

type resolvedQuery struct {
	repository.ListQuery
	page     int
	pageSize int
}

func (p ListParams) resolve(sort SortColumns) (resolvedQuery, error) {
	page := p.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return resolvedQuery{}, BadRequest("page must be 1 or greater")
	}

	limit := p.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = sort.Default
	}
	column, ok := sort.Columns[sortBy]
	if !ok {
		return resolvedQuery{}, BadRequest(fmt.Sprintf("unsupported sortBy %q", sortBy))
	}

	desc := sort.DefaultDesc
	switch strings.ToLower(p.SortOrder) {
	case "":
	case "asc":
		desc = false
	case "desc":
		desc = true
	default:
		return resolvedQuery{}, BadRequest("sortOrder must be asc or desc")
	}

	search := strings.TrimSpace(p.Search)
	if len(search) > maxSearchLength {
		return resolvedQuery{}, BadRequest("search is too long")
	}

	return resolvedQuery{
		ListQuery: repository.ListQuery{
			Search:     search,
			Offset:     (page - 1) * limit,
			Limit:      limit,
			SortColumn: column,
			Desc:       desc,
		},
		page:     page,
		pageSize: limit,
	}, nil
}
