package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestStudentIDRoundTrip(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	ctx := WithStudentID(context.Background(), id)

	got, ok := StudentIDFromCtx(ctx)
	if !ok {
		t.Fatal("expected student ID to be present")
	}
	if got != id {
		t.Errorf("got %v, want %v", got, id)
	}
}

func TestStudentIDMissing(t *testing.T) {
	t.Parallel()

	got, ok := StudentIDFromCtx(context.Background())
	if ok {
		t.Error("expected ok=false for empty context")
	}
	if got != uuid.Nil {
		t.Errorf("got %v, want uuid.Nil", got)
	}
}

func TestStudentIDNilUUID(t *testing.T) {
	t.Parallel()

	ctx := WithStudentID(context.Background(), uuid.Nil)
	if _, ok := StudentIDFromCtx(ctx); ok {
		t.Error("expected ok=false for nil UUID")
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-123")
	if got := RequestIDFromCtx(ctx); got != "req-123" {
		t.Errorf("got %q, want %q", got, "req-123")
	}
}

func TestRequestIDMissing(t *testing.T) {
	t.Parallel()

	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Errorf("got %q, want empty string", got)
	}
}
