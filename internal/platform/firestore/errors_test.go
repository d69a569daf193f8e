package firestore

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestWrapErrorClassification(t *testing.T) {
	cases := []struct {
		code codes.Code
		want Kind
	}{
		{codes.NotFound, KindNotFound},
		{codes.AlreadyExists, KindConflict},
		{codes.Aborted, KindConflict},
		{codes.FailedPrecondition, KindConflict},
		{codes.Unavailable, KindUnavailable},
		{codes.ResourceExhausted, KindUnavailable},
		{codes.InvalidArgument, KindUnknown},
	}
	for _, tc := range cases {
		wrapped := WrapError("orders.get", status.Error(tc.code, "boom"))
		var repoErr *Error
		if !errors.As(wrapped, &repoErr) {
			t.Fatalf("code %s: expected *Error, got %T", tc.code, wrapped)
		}
		if repoErr.kind != tc.want {
			t.Errorf("code %s: kind = %d, want %d", tc.code, repoErr.kind, tc.want)
		}
	}
}

func TestWrapErrorPassesThroughCancellation(t *testing.T) {
	if err := WrapError("op", context.Canceled); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if err := WrapError("op", status.Error(codes.DeadlineExceeded, "late")); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestWrapErrorKeepsExistingClassification(t *testing.T) {
	inner := NewError("", KindConflict, errors.New("status changed"))
	wrapped := WrapError("orders.update", inner)

	var repoErr *Error
	if !errors.As(wrapped, &repoErr) {
		t.Fatalf("expected *Error, got %T", wrapped)
	}
	if !repoErr.IsConflict() {
		t.Error("conflict classification should survive wrapping")
	}
	if repoErr.op != "orders.update" {
		t.Errorf("op = %q, want orders.update", repoErr.op)
	}
}

func TestWrapErrorNil(t *testing.T) {
	if err := WrapError("op", nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
