package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"checkin/internal/domain"
)

// clientLog is one record sent by the web client. Context is an alias of Meta.
type clientLog struct {
	Level     string          `json:"level"`
	Message   *string         `json:"message"`
	Meta      json.RawMessage `json:"meta"`
	Context   json.RawMessage `json:"context"`
	Timestamp string          `json:"timestamp"`
	UserID    string          `json:"userId"`
	URL       string          `json:"url"`
	UserAgent string          `json:"userAgent"`
}

func clientLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// receiveLogs accepts one record or an array of records. In an array, items
// without a message are dropped; a single record must carry one.
func (h *Handler) receiveLogs(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.fail(w, r, errInvalidBody)
		return
	}
	body = bytes.TrimSpace(body)

	switch {
	case len(body) > 0 && body[0] == '[':
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			h.fail(w, r, errInvalidBody)
			return
		}
		for _, raw := range items {
			var item clientLog
			if json.Unmarshal(raw, &item) == nil && item.Message != nil {
				h.writeClientLog(r, item)
			}
		}
	case len(body) > 0 && body[0] == '{':
		var item clientLog
		if err := json.Unmarshal(body, &item); err != nil {
			h.fail(w, r, errInvalidBody)
			return
		}
		if item.Message == nil {
			h.fail(w, r, domain.Required("message"))
			return
		}
		h.writeClientLog(r, item)
	default:
		h.fail(w, r, errInvalidBody)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true})
}

func (h *Handler) writeClientLog(r *http.Request, item clientLog) {
	attrs := []slog.Attr{
		slog.String("source", "client"),
		slog.String("ip", clientIP(r)),
		slog.String("user_agent", r.UserAgent()),
	}
	if item.Timestamp != "" {
		attrs = append(attrs, slog.String("client_timestamp", item.Timestamp))
	}
	if item.UserID != "" {
		attrs = append(attrs, slog.String("client_user_id", item.UserID))
	}
	if item.URL != "" {
		attrs = append(attrs, slog.String("client_url", item.URL))
	}
	if item.UserAgent != "" {
		attrs = append(attrs, slog.String("client_user_agent", item.UserAgent))
	}
	meta := item.Meta
	if len(meta) == 0 {
		meta = item.Context
	}
	if len(meta) > 0 && json.Valid(meta) {
		attrs = append(attrs, slog.Any("meta", meta))
	}
	h.logger.LogAttrs(r.Context(), clientLogLevel(item.Level), "[client-log] "+*item.Message, attrs...)
}
