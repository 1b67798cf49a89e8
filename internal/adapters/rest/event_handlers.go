package rest

import (
	"net/http"

	"checkin/internal/domain/entities"
)

type eventRequest struct {
	Name        *string `json:"name"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

func (h *Handler) eventPatch(req eventRequest) (entities.EventPatch, error) {
	patch := entities.EventPatch{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	}
	if req.Date != nil {
		date, err := h.parseDate("date", *req.Date)
		if err != nil {
			return patch, err
		}
		patch.Date = &date
	}
	return patch, nil
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	active, err := queryBool(r, "isActive")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := h.events.ListEvents(r.Context(), entities.EventFilter{Active: active, Page: page})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, newPageView(result, h.eventView), "")
}

func (h *Handler) listActiveEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListActiveEvents(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, mapSlice(events, h.eventView), "")
}

func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) {
	e, err := h.events.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, h.eventView(*e), "")
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Date == nil {
		empty := ""
		req.Date = &empty
	}
	patch, err := h.eventPatch(req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	// New events are active unless the client says otherwise.
	e := entities.Event{IsActive: true}
	patch.Apply(&e)
	if err := h.events.CreateEvent(r.Context(), &e); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, h.eventView(e), "success.event_created")
}

func (h *Handler) updateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	patch, err := h.eventPatch(req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	e, err := h.events.UpdateEvent(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, h.eventView(*e), "success.event_updated")
}

func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.events.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, nil, "success.event_deleted")
}

func (h *Handler) toggleEvent(w http.ResponseWriter, r *http.Request) {
	e, err := h.events.ToggleEventStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	key := "success.event_deactivated"
	if e.IsActive {
		key = "success.event_activated"
	}
	h.ok(w, r, http.StatusOK, h.eventView(*e), key)
}
