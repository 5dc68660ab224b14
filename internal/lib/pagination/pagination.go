// Package pagination разбирает параметры page и page_size.
package pagination

import (
	"net/http"
	"strconv"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

const (
	DefaultPageSize = 3
	MaxPageSize     = 10
)

// Params номер страницы и ее размер.
type Params struct {
	Page     int
	PageSize int
}

// FromRequest читает page и page_size из query. Некорректные значения заменяются
// значениями по умолчанию, page_size ограничен MaxPageSize.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()
	p := Params{Page: 1, PageSize: DefaultPageSize}

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("page_size")); err == nil && v > 0 {
		p.PageSize = min(v, MaxPageSize)
	}
	return p
}

// Limits переводит параметры в limit/offset.
func (p Params) Limits() models.Page {
	return models.Page{Limit: p.PageSize, Offset: (p.Page - 1) * p.PageSize}
}

// Result страница ответа.
type Result[T any] struct {
	Count    int  `json:"count"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasNext  bool `json:"has_next"`
	Results  []T  `json:"results"`
}

// NewResult собирает страницу ответа.
func NewResult[T any](p Params, total int, items []T) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{
		Count:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
		HasNext:  p.Page*p.PageSize < total,
		Results:  items,
	}
}
