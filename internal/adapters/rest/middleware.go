package rest

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"checkin/internal/domain"
	"checkin/internal/domain/access"
	"checkin/internal/domain/entities"
)

var tracer = otel.Tracer("checkin/internal/adapters/rest")

type ctxKey int

const (
	userKey ctxKey = iota
	infoKey
)

// requestInfo is filled in by inner handlers for the access log.
type requestInfo struct {
	userID string
}

// currentUser returns the operator authenticated for the request.
func currentUser(ctx context.Context) *entities.User {
	u, _ := ctx.Value(userKey).(*entities.User)
	return u
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// recoverPanics answers 500 instead of dropping the connection.
func (h *Handler) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				h.logger.ErrorContext(r.Context(), "panic serving request",
					slog.String("path", r.URL.Path),
					slog.Any("panic", v),
				)
				writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Error: h.msg(r, "error.internal", nil)})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		info := &requestInfo{}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), infoKey, info)))

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		h.logger.LogAttrs(r.Context(), level, "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
			slog.String("user_id", info.userID),
			slog.String("ip", clientIP(r)),
		)
	})
}

// traceRequests opens a server span per request, continuing any W3C trace
// context sent by the client.
func (h *Handler) traceRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
			),
		)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		r = r.WithContext(ctx)
		next.ServeHTTP(rec, r)

		// The mux records the matched pattern on the request.
		if r.Pattern != "" {
			span.SetName(r.Pattern)
		}
		span.SetAttributes(attribute.Int("http.response.status_code", rec.status))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
	})
}

func (h *Handler) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (h.anyOrigin || h.origins[origin]) {
			hdr := w.Header()
			hdr.Set("Access-Control-Allow-Origin", origin)
			hdr.Set("Access-Control-Allow-Credentials", "true")
			hdr.Add("Vary", "Origin")
			if r.Method == http.MethodOptions {
				hdr.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				hdr.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept-Language")
				hdr.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimit counts requests per client IP. A limiter failure lets the
// request through.
func (h *Handler) rateLimit(next http.Handler) http.Handler {
	if h.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, err := h.limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			h.logger.WarnContext(r.Context(), "rate limiter unavailable", slog.Any("err", err))
			allowed = true
		}
		if !allowed {
			writeJSON(w, http.StatusTooManyRequests, envelope{Success: false, Error: h.msg(r, "error.rate_limited", nil)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	hdr := r.Header.Get("Authorization")
	if len(hdr) < len(prefix) || !strings.EqualFold(hdr[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(hdr[len(prefix):])
}

// authorize authenticates the bearer token, then admits the operator only if
// their current role is in roles.
func (h *Handler) authorize(roles access.RoleSet, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			h.fail(w, r, domain.ErrUnauthenticated)
			return
		}
		user, err := h.auth.Authenticate(r.Context(), token)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if info, ok := r.Context().Value(infoKey).(*requestInfo); ok {
			info.userID = user.ID
		}
		trace.SpanFromContext(r.Context()).SetAttributes(
			attribute.String("checkin.user_id", user.ID),
			attribute.String("checkin.role", string(user.Role)),
		)
		if err := access.Authorize(user.Role, roles); err != nil {
			h.logger.InfoContext(r.Context(), "request forbidden",
				slog.String("path", r.URL.Path),
				slog.String("role", string(user.Role)),
				slog.String("allowed", roles.String()),
			)
			h.fail(w, r, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}
