package rest

import (
	"net/http"

	"checkin/internal/domain/entities"
)

type entryRequest struct {
	ParticipantID string `json:"participantId"`
	Barcode       string `json:"barcode"`
	EventID       string `json:"eventId"`
	Method        string `json:"method"`
}

func (h *Handler) createEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	scanner := currentUser(r.Context())
	entry, err := h.entries.CheckIn(r.Context(), req.ParticipantID, req.EventID, scanner.ID, entities.EntryMethod(req.Method))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, h.entryView(*entry), "success.entry_created")
}

func (h *Handler) createEntryByBarcode(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	scanner := currentUser(r.Context())
	entry, err := h.entries.CheckInByBarcode(r.Context(), req.Barcode, req.EventID, scanner.ID, entities.EntryMethod(req.Method))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, h.entryView(*entry), "success.entry_created")
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	h.writeEntryPage(w, r, entities.EntryFilter{
		EventID:       q.Get("eventId"),
		ParticipantID: q.Get("participantId"),
		Page:          page,
	})
}

func (h *Handler) listEventEntries(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeEntryPage(w, r, entities.EntryFilter{EventID: r.PathValue("eventId"), Page: page})
}

func (h *Handler) writeEntryPage(w http.ResponseWriter, r *http.Request, filter entities.EntryFilter) {
	result, err := h.entries.ListEntries(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, newPageView(result, h.entryView), "")
}

func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.entries.GetEntry(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, h.entryView(*entry), "")
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.entries.DeleteEntry(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, nil, "success.entry_deleted")
}

func (h *Handler) entryStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.entries.CheckStatus(r.Context(), r.PathValue("participantId"), r.PathValue("eventId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, h.entryStatusView(status), "")
}

func (h *Handler) eventEntryStats(w http.ResponseWriter, r *http.Request) {
	h.writeEntryStats(w, r, r.PathValue("eventId"))
}

func (h *Handler) entryStats(w http.ResponseWriter, r *http.Request) {
	h.writeEntryStats(w, r, "")
}

func (h *Handler) writeEntryStats(w http.ResponseWriter, r *http.Request, eventID string) {
	s, err := h.statistics.EntryStats(r.Context(), eventID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, h.entryStatsView(s), "")
}
