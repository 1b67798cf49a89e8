package rest

import (
	"log/slog"
	"time"

	"checkin/internal/ports/input"
	"checkin/internal/ports/output"
)

// Services are the use cases the REST adapter drives.
type Services struct {
	Auth         input.AuthUseCase
	Users        input.UserUseCase
	Participants input.ParticipantUseCase
	Events       input.EventUseCase
	Entries      input.EntryUseCase
	Statistics   input.StatisticsUseCase
}

// Options configure the ambient behaviour of the Handler.
type Options struct {
	Translator output.T
	// Limiter counts requests per client IP; nil disables rate limiting.
	Limiter        output.RateLimiter
	AllowedOrigins []string
	// EventLocation decides which calendar day "today" is.
	EventLocation *time.Location
	Logger        *slog.Logger
}

// Handler handles HTTP requests using use cases.
type Handler struct {
	auth         input.AuthUseCase
	users        input.UserUseCase
	participants input.ParticipantUseCase
	events       input.EventUseCase
	entries      input.EntryUseCase
	statistics   input.StatisticsUseCase

	translator output.T
	limiter    output.RateLimiter
	origins    map[string]bool
	anyOrigin  bool
	loc        *time.Location
	now        func() time.Time
	logger     *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(svc Services, opts Options) *Handler {
	h := &Handler{
		auth:         svc.Auth,
		users:        svc.Users,
		participants: svc.Participants,
		events:       svc.Events,
		entries:      svc.Entries,
		statistics:   svc.Statistics,
		translator:   opts.Translator,
		limiter:      opts.Limiter,
		origins:      make(map[string]bool, len(opts.AllowedOrigins)),
		loc:          opts.EventLocation,
		now:          time.Now,
		logger:       opts.Logger,
	}
	for _, o := range opts.AllowedOrigins {
		if o == "*" {
			h.anyOrigin = true
		}
		h.origins[o] = true
	}
	if h.loc == nil {
		h.loc = time.UTC
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}
