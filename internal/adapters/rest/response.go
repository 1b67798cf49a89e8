package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"checkin/internal/domain"
	"checkin/internal/domain/entities"
)

// envelope is the shape of every API response. Failures never carry data.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type paginationView struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type pageView[T any] struct {
	Data       []T            `json:"data"`
	Pagination paginationView `json:"pagination"`
}

func newPageView[E, V any](p entities.Page[E], view func(E) V) pageView[V] {
	items := make([]V, len(p.Items))
	for i, item := range p.Items {
		items[i] = view(item)
	}
	return pageView[V]{
		Data: items,
		Pagination: paginationView{
			Page:       p.Pagination.Page,
			Limit:      p.Pagination.Limit,
			Total:      p.Pagination.Total,
			TotalPages: p.Pagination.TotalPages,
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// msg localizes key for the request's Accept-Language.
func (h *Handler) msg(r *http.Request, key string, data map[string]any) string {
	if h.translator == nil || key == "" {
		return key
	}
	return h.translator.T(r.Header.Get("Accept-Language"), key, data)
}

// ok writes a success envelope. messageKey may be empty.
func (h *Handler) ok(w http.ResponseWriter, r *http.Request, status int, data any, messageKey string) {
	writeJSON(w, status, envelope{
		Success: true,
		Data:    data,
		Message: h.msg(r, messageKey, nil),
	})
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation, domain.KindDuplicate:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// fail maps err to a status and a localized message. Internal errors are
// logged in full and answered with a generic message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	code := domain.Code(err)
	status := statusFor(kind)

	switch kind {
	case domain.KindInternal:
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("err", err),
		)
		code = "internal"
	case domain.KindUnauthenticated:
		h.logger.InfoContext(r.Context(), "request unauthenticated",
			slog.String("path", r.URL.Path),
			slog.String("code", code),
		)
	}

	writeJSON(w, status, envelope{
		Success: false,
		Error:   h.msg(r, "error."+code, map[string]any{"Field": domain.Field(err)}),
	})
}
