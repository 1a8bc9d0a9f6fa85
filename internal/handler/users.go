package handler

import (
	"net/http"
)

type userRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	ShiftID *int64 `json:"shiftId" validate:"omitempty,gt=0"`
}

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	page, limit, err := h.pagination(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	users, err := h.users.List(r.Context(), page, limit)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取用户列表成功", users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user, err := h.users.Create(r.Context(), req.Name, req.ShiftID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.createdResponse(w, r, "用户创建成功", user)
}

func (h *Handler) GetWorkingUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAllWorking(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取在岗用户成功", users)
}

func (h *Handler) GetIdleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAllIdle(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取空闲用户成功", users)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), idFromContext(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取用户成功", user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user, err := h.users.Update(r.Context(), idFromContext(r), req.Name, req.ShiftID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "用户更新成功", user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Remove(r.Context(), idFromContext(r)); err != nil {
		h.serviceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
