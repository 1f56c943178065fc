package observability

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewRequestIDIsValidUUID(t *testing.T) {
	id := NewRequestID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected valid UUID, got %q: %v", id, err)
	}
	if !ValidRequestID(id) {
		t.Fatalf("generated id %q is not accepted back", id)
	}
	if other := NewRequestID(); other == id {
		t.Fatalf("expected distinct ids, got %q twice", id)
	}
}

func TestValidRequestID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"uuid", "6f1c2a7e-3b0d-4c59-9a7e-1d2f3c4b5a69", true},
		{"opaque token", "calc_req:42/retry#1", true},
		{"max length", strings.Repeat("a", maxRequestIDLen), true},
		{"empty", "", false},
		{"too long", strings.Repeat("a", maxRequestIDLen+1), false},
		{"space", "req 1", false},
		{"newline", "req\n1", false},
		{"non ascii", "réq", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidRequestID(tc.id); got != tc.want {
				t.Fatalf("ValidRequestID(%q) = %t, want %t", tc.id, got, tc.want)
			}
		})
	}
}

func TestRequestIDFromContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{"set", ContextWithRequestID(context.Background(), "abc-123"), "abc-123"},
		{"missing", context.Background(), ""},
		{"wrong type", context.WithValue(context.Background(), RequestIDKey, 42), ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RequestIDFromContext(tc.ctx); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
