package handler

import (
	"net/http"
)

func (h *Handler) GetAllWorkdays(w http.ResponseWriter, r *http.Request) {
	page, limit, err := h.pagination(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	workdays, err := h.workdays.List(r.Context(), page, limit)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取工作日列表成功", workdays)
}

func (h *Handler) GetWorkday(w http.ResponseWriter, r *http.Request) {
	workday, err := h.workdays.GetByID(r.Context(), idFromContext(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取工作日成功", workday)
}
