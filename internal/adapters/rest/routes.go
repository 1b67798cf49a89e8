package rest

import (
	"net/http"

	"checkin/internal/domain/access"
)

// Routes builds the API. Every guarded route names the exact roles it admits.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	guard := func(pattern string, roles access.RoleSet, fn http.HandlerFunc) {
		mux.Handle(pattern, h.authorize(roles, fn))
	}

	mux.HandleFunc("GET /health", h.health)

	mux.HandleFunc("POST /api/auth/login", h.login)
	guard("GET /api/auth/profile", access.AnyOperator, h.profile)
	guard("POST /api/auth/change-password", access.AnyOperator, h.changePassword)

	guard("GET /api/participants", access.AnyOperator, h.listParticipants)
	guard("GET /api/participants/{id}", access.AnyOperator, h.getParticipant)
	guard("GET /api/participants/barcode/{barcode}", access.AnyOperator, h.getParticipantByBarcode)
	guard("POST /api/participants", access.AdminOnly, h.createParticipant)
	guard("PUT /api/participants/{id}", access.AdminOnly, h.updateParticipant)
	guard("DELETE /api/participants/{id}", access.AdminOnly, h.deleteParticipant)

	guard("GET /api/events", access.AnyOperator, h.listEvents)
	guard("GET /api/events/active", access.AnyOperator, h.listActiveEvents)
	guard("GET /api/events/{id}", access.AnyOperator, h.getEvent)
	guard("POST /api/events", access.AdminOnly, h.createEvent)
	guard("PUT /api/events/{id}", access.AdminOnly, h.updateEvent)
	guard("DELETE /api/events/{id}", access.AdminOnly, h.deleteEvent)
	guard("PATCH /api/events/{id}/toggle-status", access.AdminOnly, h.toggleEvent)

	guard("POST /api/entries", access.ScannerOrAdmin, h.createEntry)
	guard("POST /api/entries/barcode", access.ScannerOrAdmin, h.createEntryByBarcode)
	guard("GET /api/entries/event/{eventId}", access.ScannerOrAdmin, h.listEventEntries)
	guard("GET /api/entries/stats/{eventId}", access.ScannerOrAdmin, h.eventEntryStats)
	guard("GET /api/entries/status/{participantId}/{eventId}", access.ScannerOrAdmin, h.entryStatus)
	guard("GET /api/entries", access.AdminOnly, h.listEntries)
	guard("GET /api/entries/stats", access.AdminOnly, h.entryStats)
	guard("GET /api/entries/{id}", access.AdminOnly, h.getEntry)
	guard("DELETE /api/entries/{id}", access.AdminOnly, h.deleteEntry)

	guard("GET /api/statistics/event/{eventId}", access.AdminOnly, h.eventAttendance)
	guard("GET /api/statistics/event/{eventId}/timeline", access.AdminOnly, h.eventTimeline)
	guard("GET /api/statistics/events", access.AdminOnly, h.pastEventsAttendance)
	guard("GET /api/statistics/buckets", access.AdminOnly, h.entryBuckets)

	guard("GET /api/users", access.AdminOnly, h.listUsers)
	guard("GET /api/users/scanners", access.AdminOnly, h.listScanners)
	guard("GET /api/users/{id}", access.AdminOnly, h.getUser)
	guard("POST /api/users", access.AdminOnly, h.createUser)
	guard("PUT /api/users/{id}", access.AdminOnly, h.updateUser)
	guard("DELETE /api/users/{id}", access.AdminOnly, h.deleteUser)
	guard("PATCH /api/users/{id}/toggle-status", access.AdminOnly, h.toggleUser)
	guard("POST /api/users/{id}/reset-password", access.AdminOnly, h.resetUserPassword)

	mux.HandleFunc("POST /api/logs", h.receiveLogs)

	mux.HandleFunc("/", h.notFound)

	return h.recoverPanics(h.logRequests(h.traceRequests(h.cors(h.rateLimit(mux)))))
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, errRouteNotFound)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.ok(w, r, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": h.now().UTC(),
	}, "success.health")
}
