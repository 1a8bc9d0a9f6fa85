package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// pathID 解析路径中的 {id} 并放入 context
func (h *Handler) pathID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			h.errorResponse(w, r, http.StatusBadRequest, "ID无效")
			return
		}

		ctx := context.WithValue(r.Context(), IDCtxKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func idFromContext(r *http.Request) int64 {
	return r.Context().Value(IDCtxKey).(int64)
}

// pagination 读取 page 和 limit 查询参数，缺省时 page 为 0，limit 为配置中的默认值
func (h *Handler) pagination(r *http.Request) (int, int, error) {
	page, limit := 0, h.config.Pagination.DefaultLimit

	if v := r.URL.Query().Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("页码无效")
		}
		page = p
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("每页数量无效")
		}
		limit = l
	}

	if maxLimit := h.config.Pagination.MaxLimit; maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	return page, limit, nil
}
