package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const ctxSessionID contextKey = "session_id"

// SessionIDFromContext returns the edit session id resolved by SessionContext.
func SessionIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	v, ok := ctx.Value(ctxSessionID).(uuid.UUID)
	return v, ok
}

// WithSessionID injects the edit session identifier into the context.
func WithSessionID(ctx context.Context, id uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionID, id)
}
