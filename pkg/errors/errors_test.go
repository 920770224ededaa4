package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			"without cause",
			New(ErrCodeMissingOutline, "board %q has no outline", "demo"),
			`MISSING_OUTLINE: board "demo" has no outline`,
		},
		{
			"with cause",
			Wrap(ErrCodeFileNotFound, errors.New("no such file"), "board document %s", "a.json"),
			"FILE_NOT_FOUND: board document a.json: no such file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeCache, cause, "connect redis")
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap() should return the cause")
	}
}

func TestCodeLookup(t *testing.T) {
	coded := New(ErrCodeLayerMismatch, "copper layer outside the stack")
	tests := []struct {
		name     string
		err      error
		code     Code
		isLayer  bool
		userText string
	}{
		{"direct", coded, ErrCodeLayerMismatch, true, "copper layer outside the stack"},
		{"fmt wrapped", fmt.Errorf("build: %w", coded), ErrCodeLayerMismatch, true, "copper layer outside the stack"},
		{"outer code wins", Wrap(ErrCodeInvalidInput, coded, "decode"), ErrCodeInvalidInput, false, "decode"},
		{"plain error", errors.New("plain"), "", false, "plain"},
		{"nil", nil, "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if got := Is(tt.err, ErrCodeLayerMismatch); got != tt.isLayer {
				t.Errorf("Is(LAYER_MISMATCH) = %v, want %v", got, tt.isLayer)
			}
			if tt.err != nil {
				if got := UserMessage(tt.err); got != tt.userText {
					t.Errorf("UserMessage() = %q, want %q", got, tt.userText)
				}
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidInput, "bad"), http.StatusBadRequest},
		{New(ErrCodeInvalidFormat, "bad"), http.StatusBadRequest},
		{New(ErrCodeInvalidPath, "bad"), http.StatusBadRequest},
		{New(ErrCodeSessionNotFound, "gone"), http.StatusNotFound},
		{New(ErrCodeFileNotFound, "gone"), http.StatusNotFound},
		{New(ErrCodeMissingOutline, "empty"), http.StatusUnprocessableEntity},
		{Wrap(ErrCodeLayerMismatch, errors.New("x"), "mismatch"), http.StatusUnprocessableEntity},
		{New(ErrCodeTimeout, "slow"), http.StatusGatewayTimeout},
		{New(ErrCodeUnsupported, "no"), http.StatusNotImplemented},
		{New(ErrCodeFinalized, "done"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
