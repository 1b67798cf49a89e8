package rest

import (
	"net/http"
	"strings"

	"checkin/internal/domain/entities"
)

type userRequest struct {
	Username *string `json:"username"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

// patch ignores Password: passwords change only through the dedicated routes.
func (req userRequest) patch() entities.UserPatch {
	patch := entities.UserPatch{
		Username: req.Username,
		Name:     req.Name,
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role := entities.Role(strings.TrimSpace(*req.Role))
		patch.Role = &role
	}
	return patch
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
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
	result, err := h.users.ListUsers(r.Context(), entities.UserFilter{
		Role:   entities.Role(r.URL.Query().Get("role")),
		Active: active,
		Page:   page,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, newPageView(result, newUserView), "")
}

func (h *Handler) listScanners(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListScanners(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, mapSlice(users, newUserView), "")
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, newUserView(*u), "")
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	u := entities.User{IsActive: true}
	req.patch().Apply(&u)
	if err := h.users.CreateUser(r.Context(), &u, req.Password); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, newUserView(u), "success.user_created")
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	u, err := h.users.UpdateUser(r.Context(), r.PathValue("id"), req.patch())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, newUserView(*u), "success.user_updated")
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, nil, "success.user_deleted")
}

func (h *Handler) toggleUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.ToggleUserStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	key := "success.user_deactivated"
	if u.IsActive {
		key = "success.user_activated"
	}
	h.ok(w, r, http.StatusOK, newUserView(*u), key)
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (h *Handler) resetUserPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.users.ResetPassword(r.Context(), r.PathValue("id"), req.NewPassword); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, nil, "success.password_reset")
}
