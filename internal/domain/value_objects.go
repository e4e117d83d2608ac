package domain

import (
	"fmt"
	"strconv"
)

// Pagination defaults applied when the caller omits page or limit.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// -----------------------------------------------------------------------------
// Pagination - 1-based page request
// -----------------------------------------------------------------------------

// Pagination selects one page of a remote listing. Page is 1-based.
type Pagination struct {
	Page  int
	Limit int
}

// DefaultPagination returns the first page with the default limit
func DefaultPagination() Pagination {
	return Pagination{Page: DefaultPage, Limit: DefaultLimit}
}

// Normalize replaces non-positive fields with the defaults
func (p Pagination) Normalize() Pagination {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	return p
}

// Validate rejects explicitly negative values
func (p Pagination) Validate() error {
	if p.Page < 0 || p.Limit < 0 {
		return fmt.Errorf("%w: page=%d limit=%d", ErrInvalidPagination, p.Page, p.Limit)
	}
	return nil
}

// Query renders the pagination as page/limit query values
func (p Pagination) Query() map[string]string {
	n := p.Normalize()
	return map[string]string{
		"page":  strconv.Itoa(n.Page),
		"limit": strconv.Itoa(n.Limit),
	}
}

// -----------------------------------------------------------------------------
// Cursor - opaque continuation tokens
// -----------------------------------------------------------------------------

// Cursor holds the continuation tokens returned with a page. A nil token
// means there is no page in that direction.
type Cursor struct {
	Prev *string `json:"prev"`
	Next *string `json:"next"`
}

// HasNext reports whether a following page exists
func (c Cursor) HasNext() bool {
	return c.Next != nil
}

// HasPrev reports whether a preceding page exists
func (c Cursor) HasPrev() bool {
	return c.Prev != nil
}

// -----------------------------------------------------------------------------
// Page - one page of a stream
// -----------------------------------------------------------------------------

// Page is one page of a paginated stream. Data may be sparse: entries the
// server omitted are nil.
type Page[T any] struct {
	Cursor Cursor
	Data   []*T
}

// First returns the first present entry, or nil when there is none
func (p Page[T]) First() *T {
	for _, v := range p.Data {
		if v != nil {
			return v
		}
	}
	return nil
}

// Items returns the present entries in order
func (p Page[T]) Items() []*T {
	items := make([]*T, 0, len(p.Data))
	for _, v := range p.Data {
		if v != nil {
			items = append(items, v)
		}
	}
	return items
}

// IsEmpty reports whether the page has no present entry
func (p Page[T]) IsEmpty() bool {
	return p.First() == nil
}
