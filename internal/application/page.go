package application

import (
	"math"
	"slices"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
)

// MaxPageLimit caps the page size of every listing.
const MaxPageLimit = 500

type pageDefaults struct {
	limit  int
	sortBy string
	order  entities.SortOrder
	fields []string
}

var (
	participantPageDefaults = pageDefaults{limit: 10, sortBy: "createdAt", order: entities.SortDesc, fields: entities.ParticipantSortFields}
	eventPageDefaults       = pageDefaults{limit: 100, sortBy: "date", order: entities.SortDesc, fields: entities.EventSortFields}
	entryPageDefaults       = pageDefaults{limit: 10, sortBy: "entryTime", order: entities.SortDesc, fields: entities.EntrySortFields}
	userPageDefaults        = pageDefaults{limit: 10, sortBy: "createdAt", order: entities.SortDesc, fields: entities.UserSortFields}
)

// normalizePage fills defaults and rejects values a repository could not
// honour, so repositories can trust SortBy to be one of the declared fields.
func normalizePage(req entities.PageRequest, d pageDefaults) (entities.PageRequest, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.Page < 0 {
		return req, domain.Invalid("page")
	}
	if req.Limit == 0 {
		req.Limit = d.limit
	}
	if req.Limit < 0 || req.Limit > MaxPageLimit {
		return req, domain.Invalid("limit")
	}
	// The row offset (Page-1)*Limit must fit in an int.
	if req.Page-1 > math.MaxInt/req.Limit {
		return req, domain.Invalid("page")
	}
	if req.SortBy == "" {
		req.SortBy = d.sortBy
	}
	if !slices.Contains(d.fields, req.SortBy) {
		return req, domain.Invalid("sortBy")
	}
	switch req.SortOrder {
	case "":
		req.SortOrder = d.order
	case entities.SortAsc, entities.SortDesc:
	default:
		return req, domain.Invalid("sortOrder")
	}
	return req, nil
}
