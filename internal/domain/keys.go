package domain

type CtxKey string

const (
	// KeyRequestID is used both as the gin context key and the request context key.
	KeyRequestID CtxKey = "RequestID"
)
