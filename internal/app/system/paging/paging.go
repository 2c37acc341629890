// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/pagination"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultLimit is the page size used when the request does not ask for one.
const DefaultLimit = 10

// MaxLimit caps the page size a client can request.
const MaxLimit = 100

// Page is a parsed page/limit pair. Page is 1-based.
type Page struct {
	Page  int
	Limit int
}

// Skip returns the number of documents before this page.
func (p Page) Skip() int64 { return int64((p.Page - 1) * p.Limit) }

// Parse reads "page" and "limit" from the query string. Invalid or missing
// values fall back to page 1 and DefaultLimit; limit is clamped to MaxLimit.
func Parse(r *http.Request) Page {
	wp := pagination.FromRequestWithDefaults(r, DefaultLimit, MaxLimit)
	return Page{Page: wp.Page, Limit: wp.Limit()}
}

// Info is the pagination block returned with every list.
type Info struct {
	Current    int   `json:"current"`
	TotalPages int   `json:"totalPages"`
	Total      int64 `json:"total"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewInfo computes the pagination block for page p of total documents.
func NewInfo(p Page, total int64) Info {
	pages := 0
	if p.Limit > 0 && total > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Info{
		Current:    p.Page,
		TotalPages: pages,
		Total:      total,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1,
	}
}

// List is the response shape of a paged list.
type List[T any] struct {
	Items      []T  `json:"items"`
	Pagination Info `json:"pagination"`
}

// NewList wraps items with their pagination block. A nil slice is returned
// as an empty JSON array.
func NewList[T any](items []T, p Page, total int64) List[T] {
	if items == nil {
		items = []T{}
	}
	return List[T]{Items: items, Pagination: NewInfo(p, total)}
}

// FindOptions returns Find options for the page, newest first with _id as the
// tie breaker.
func FindOptions(p Page) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit))
}

// Sort parses a "sort" value such as "price" or "-created_at" into a sort
// document. Only keys present in allowed are accepted; allowed maps the
// public name to the stored field. Unknown or empty values return nil.
func Sort(raw string, allowed map[string]string) bson.D {
	raw = strings.TrimSpace(raw)
	dir := 1
	if strings.HasPrefix(raw, "-") {
		dir = -1
		raw = raw[1:]
	}
	field, ok := allowed[raw]
	if !ok || raw == "" {
		return nil
	}
	return bson.D{{Key: field, Value: dir}}
}
