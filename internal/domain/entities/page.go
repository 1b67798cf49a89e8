package entities

import "math"

// SortOrder is the direction of a listing.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// PageRequest is an offset pagination request; Page is 1-based.
type PageRequest struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
}

// Offset returns the number of rows to skip. It saturates at math.MaxInt
// instead of overflowing.
func (p PageRequest) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Pagination describes the slice of a listing that was returned.
type Pagination struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// NewPage builds a Page from the items of a request and the total count.
func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if req.Limit > 0 {
		totalPages = int((total + int64(req.Limit) - 1) / int64(req.Limit))
	}
	return Page[T]{
		Items: items,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

// ParticipantQuery filters participant listings.
type ParticipantQuery struct {
	Search string
	Page   PageRequest
}

// EventFilter filters event listings; Active nil means all events.
type EventFilter struct {
	Active *bool
	Page   PageRequest
}

// UserFilter filters operator listings.
type UserFilter struct {
	Role   Role
	Active *bool
	Page   PageRequest
}

// EntryFilter filters entry listings; empty ids are ignored.
type EntryFilter struct {
	EventID       string
	ParticipantID string
	Page          PageRequest
}
