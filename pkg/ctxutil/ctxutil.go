// Package ctxutil provides typed helpers for values carried in context:
// the authenticated student ID and the request ID.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	studentIDKey ctxKey = "student_id"
	requestIDKey ctxKey = "request_id"
)

// WithStudentID stores the student ID in the context.
func WithStudentID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, studentIDKey, id)
}

// StudentIDFromCtx extracts the student ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func StudentIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(studentIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
