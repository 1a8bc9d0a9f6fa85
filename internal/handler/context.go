package handler

type ContextKey string

var (
	IDCtxKey ContextKey = "id"
)
