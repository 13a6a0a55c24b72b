package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusMapping(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name   string
		err    *Error
		kind   Kind
		status int
	}{
		{"unauthorized", Unauthorized(), KindUnauthorized, http.StatusUnauthorized},
		{"invalid input", InvalidInput(MsgInvalidContent, nil), KindInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict(MsgProfileExists), KindConflict, http.StatusBadRequest},
		{"store write", StoreWrite("violates foreign key", cause), KindStoreFailure, http.StatusBadRequest},
		{"store read", StoreRead(MsgListCommentsFailed, cause), KindStoreFailure, http.StatusInternalServerError},
		{"internal", Internal(cause), KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Expected kind %s, got %s", tt.kind, tt.err.Kind)
			}
			if tt.err.Status != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, tt.err.Status)
			}
		})
	}
}

func TestFrom(t *testing.T) {
	wrapped := fmt.Errorf("creating profile: %w", Conflict(MsgUsernameTaken))

	e := From(wrapped)
	if e.Kind != KindConflict {
		t.Errorf("Expected wrapped conflict to be recovered, got %s", e.Kind)
	}
	if e.Message != MsgUsernameTaken {
		t.Errorf("Expected %q, got %q", MsgUsernameTaken, e.Message)
	}

	plain := From(errors.New("unexpected"))
	if plain.Kind != KindInternal || plain.Message != MsgInternalServerError {
		t.Errorf("Expected unknown errors to become internal, got %s %q", plain.Kind, plain.Message)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := StoreRead(MsgListCommentsFailed, cause)

	if !errors.Is(err, cause) {
		t.Error("Expected cause to be reachable with errors.Is")
	}
	if err.Error() != MsgListCommentsFailed+": connection refused" {
		t.Errorf("Unexpected error string %q", err.Error())
	}
}
