package rest

import (
	"net/http"

	"checkin/internal/domain/entities"
)

// participantRequest is the body of create and update calls. Absent fields
// are nil and left untouched by an update.
type participantRequest struct {
	Name        *string `json:"name"`
	Family      *string `json:"family"`
	Barcode     *string `json:"barcode"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	City        *string `json:"city"`
	SchoolClass *string `json:"schoolClass"`
	Branch      *string `json:"branch"`
	GroupType   *string `json:"groupType"`
}

func (req participantRequest) patch() entities.ParticipantPatch {
	return entities.ParticipantPatch{
		Name:        req.Name,
		Family:      req.Family,
		Barcode:     req.Barcode,
		Phone:       req.Phone,
		Email:       req.Email,
		City:        req.City,
		SchoolClass: req.SchoolClass,
		Branch:      req.Branch,
		GroupType:   req.GroupType,
	}
}

func (h *Handler) listParticipants(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	result, err := h.participants.SearchParticipants(r.Context(), entities.ParticipantQuery{
		Search: r.URL.Query().Get("search"),
		Page:   page,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, newPageView(result, newParticipantView), "")
}

func (h *Handler) getParticipant(w http.ResponseWriter, r *http.Request) {
	p, err := h.participants.GetParticipant(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, newParticipantView(*p), "")
}

func (h *Handler) getParticipantByBarcode(w http.ResponseWriter, r *http.Request) {
	p, err := h.participants.GetParticipantByBarcode(r.Context(), r.PathValue("barcode"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, newParticipantView(*p), "")
}

func (h *Handler) createParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	var p entities.Participant
	req.patch().Apply(&p)
	if err := h.participants.CreateParticipant(r.Context(), &p); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, newParticipantView(p), "success.participant_created")
}

func (h *Handler) updateParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.participants.UpdateParticipant(r.Context(), r.PathValue("id"), req.patch())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, newParticipantView(*p), "success.participant_updated")
}

func (h *Handler) deleteParticipant(w http.ResponseWriter, r *http.Request) {
	if err := h.participants.DeleteParticipant(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, nil, "success.participant_deleted")
}
