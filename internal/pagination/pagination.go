// Package pagination bounds list queries. It has no authorization role: it is
// applied only after the caller is allowed to see the collection.
package pagination

import (
	"net/http"
	"strconv"

	"github.com/diewo77/parkgate/internal/apperr"
	"gorm.io/gorm"
)

const (
	// DefaultLimit is used when the caller does not specify one.
	DefaultLimit = 20
	// MaxLimit caps the page size to bound worst-case response size.
	MaxLimit = 100
)

// Page holds offset/limit pagination parameters.
type Page struct {
	Offset int
	Limit  int
}

// Normalize validates the page and applies defaults: a zero limit becomes
// DefaultLimit, a limit above MaxLimit is capped, and negative values are
// rejected with InvalidArgument.
func (p Page) Normalize() (Page, error) {
	if p.Offset < 0 {
		return Page{}, apperr.New(apperr.ErrInvalidArgument, "offset must not be negative")
	}
	if p.Limit < 0 {
		return Page{}, apperr.New(apperr.ErrInvalidArgument, "limit must not be negative")
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p, nil
}

// Scope returns a GORM scope applying the page bounds. Call Normalize first;
// Scope applies the values as-is.
func (p Page) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset).Limit(p.Limit)
	}
}

// FromRequest reads offset/limit query parameters. Missing parameters default
// to zero; non-numeric values are an InvalidArgument failure.
func FromRequest(r *http.Request) (Page, error) {
	var p Page
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Page{}, apperr.New(apperr.ErrInvalidArgument, "offset must be an integer")
		}
		p.Offset = n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Page{}, apperr.New(apperr.ErrInvalidArgument, "limit must be an integer")
		}
		p.Limit = n
	}
	return p.Normalize()
}

// Result is the paged response envelope.
type Result[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// NewResult builds a Result from a page and its query results.
func NewResult[T any](items []T, total int64, p Page) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{Items: items, Total: total, Limit: p.Limit, Offset: p.Offset}
}

// HasMore reports whether rows remain beyond this page.
func (r Result[T]) HasMore() bool {
	return int64(r.Offset+len(r.Items)) < r.Total
}
