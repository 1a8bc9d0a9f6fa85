package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type shiftRequest struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

func (h *Handler) GetAllShifts(w http.ResponseWriter, r *http.Request) {
	page, limit, err := h.pagination(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	shifts, err := h.shifts.List(r.Context(), page, limit)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次列表成功", shifts)
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req shiftRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, err := h.shifts.Create(r.Context(), req.Date, req.Start, req.End)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.createdResponse(w, r, "班次创建成功", shift)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift, err := h.shifts.GetByID(r.Context(), idFromContext(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次成功", shift)
}

func (h *Handler) GetShiftsByWorkdayID(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.shifts.GetByWorkdayID(r.Context(), idFromContext(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取工作日班次成功", shifts)
}

func (h *Handler) GetShiftsByDate(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.shifts.GetByDate(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取工作日班次成功", shifts)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	var req shiftRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, err := h.shifts.Update(r.Context(), idFromContext(r), req.Date, req.Start, req.End)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "班次更新成功", shift)
}

// DeleteShift 删除班次，原先分配到该班次的用户会变为空闲
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	if err := h.shifts.Remove(r.Context(), idFromContext(r)); err != nil {
		h.serviceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
