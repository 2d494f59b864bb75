package logger

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey struct{}

const _requestIDField = "request_id"

func withRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKey{}, requestID)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(contextKey{}).(string)
	return requestID
}

func tagRequest(l *zap.Logger, ctx context.Context) *zap.Logger {
	if requestID := RequestID(ctx); requestID != "" {
		return l.With(zap.String(_requestIDField, requestID))
	}
	return l
}

// newRequestID prefers UUIDv7 so ids sort by creation time.
func newRequestID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
