package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
	"checkin/pkg/tz"
)

const maxBodyBytes = 10 << 20

var (
	errInvalidBody   = &domain.Error{Kind: domain.KindValidation, Code: "invalid_body", Message: "invalid request body"}
	errRouteNotFound = &domain.Error{Kind: domain.KindNotFound, Code: "route_not_found", Message: "route not found"}
)

// decodeJSON reads a JSON request body into dst. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return errInvalidBody
	}
	return nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Invalid(name)
	}
	return n, nil
}

// queryBool parses an optional true/false filter.
func queryBool(r *http.Request, name string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.Invalid(name)
	}
	return &b, nil
}

// pageRequest reads page, limit, sortBy and sortOrder. Defaults and bounds
// are applied by the use cases.
func pageRequest(r *http.Request) (entities.PageRequest, error) {
	page, err := queryInt(r, "page")
	if err != nil {
		return entities.PageRequest{}, err
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		return entities.PageRequest{}, err
	}
	q := r.URL.Query()
	return entities.PageRequest{
		Page:      page,
		Limit:     limit,
		SortBy:    strings.TrimSpace(q.Get("sortBy")),
		SortOrder: entities.SortOrder(strings.ToLower(strings.TrimSpace(q.Get("sortOrder")))),
	}, nil
}

func (h *Handler) parseDate(field, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, domain.Required(field)
	}
	t, err := tz.ParseEventDate(raw, h.loc)
	if err != nil {
		return time.Time{}, domain.Invalid(field)
	}
	return t, nil
}
