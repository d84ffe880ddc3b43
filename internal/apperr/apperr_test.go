package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "typed error passes through",
			err:        Duplicate("already registered"),
			wantStatus: http.StatusConflict,
			wantCode:   CodeDuplicate,
		},
		{
			name:       "wrapped typed error is unwrapped",
			err:        fmt.Errorf("handler: %w", StoreRead("sheet read failed")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeStoreRead,
		},
		{
			name:       "unknown error becomes internal",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := From(tt.err)
			if got.Status != tt.wantStatus {
				t.Errorf("From().Status = %d, want %d", got.Status, tt.wantStatus)
			}
			if got.Code != tt.wantCode {
				t.Errorf("From().Code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestWithCause(t *testing.T) {
	cause := errors.New("tcp reset")
	err := StoreWrite("append failed").WithCause(cause)

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is() should find the cause")
	}
	if !Is(err, CodeStoreWrite) {
		t.Errorf("Is() should match the code after WithCause")
	}
}

func TestValidationDetails(t *testing.T) {
	err := Validation("invalid input", map[string]string{"email": "malformed"})

	fields, ok := err.Details.(map[string]string)
	if !ok {
		t.Fatalf("Details should be a field map, got %T", err.Details)
	}
	if fields["email"] != "malformed" {
		t.Errorf("Details[email] = %q, want %q", fields["email"], "malformed")
	}
}
