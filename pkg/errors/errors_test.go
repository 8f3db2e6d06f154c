package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrInvalidInput, ErrUnauthorized, ErrInternal}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, a, b)
		}
	}
}

func TestAppError_Error(t *testing.T) {
	withWrapped := &AppError{
		Code:    "NOT_FOUND",
		Message: "tarea with id 7 not found",
		Err:     ErrNotFound,
	}
	assert.Equal(t, "NOT_FOUND: tarea with id 7 not found: resource not found", withWrapped.Error())

	withoutWrapped := &AppError{
		Code:    "INVALID_INPUT",
		Message: "bad payload",
	}
	assert.Equal(t, "INVALID_INPUT: bad payload", withoutWrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	err := NotFound("tarea", 7)
	assert.ErrorIs(t, err, ErrNotFound)

	wrapped := fmt.Errorf("outer: %w", err)
	var appErr *AppError
	require.ErrorAs(t, wrapped, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestNotFound(t *testing.T) {
	err := NotFound("tarea", 42)

	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, "tarea with id 42 not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("Title must be at least 3 characters long.")

	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, "Title must be at least 3 characters long.", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidationFields(t *testing.T) {
	err := ValidationFields(map[string]string{
		"username": "This field is required.",
		"password": "Password must be at least 8 characters long.",
	})

	assert.Equal(t, "VALIDATION_ERROR", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "This field is required.", err.Fields["username"])
	assert.Equal(t, "Password must be at least 8 characters long.", err.Fields["password"])
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUnauthorized(t *testing.T) {
	err := Unauthorized("invalid username or password")

	assert.Equal(t, "UNAUTHORIZED", err.Code)
	assert.Equal(t, http.StatusUnauthorized, err.Status)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestInternal(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)

	assert.Equal(t, "INTERNAL_ERROR", err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.ErrorIs(t, err, cause)
	// The cause is never leaked in the client-facing message.
	assert.Equal(t, "an internal error occurred", err.Message)
}

func TestWrap(t *testing.T) {
	err := Wrap(ErrNotFound, "load tarea")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "load tarea: resource not found", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error uses its own status", Unauthorized("nope"), http.StatusUnauthorized},
		{"wrapped app error", fmt.Errorf("outer: %w", NotFound("tarea", 1)), http.StatusNotFound},
		{"bare not found sentinel", ErrNotFound, http.StatusNotFound},
		{"bare invalid input sentinel", ErrInvalidInput, http.StatusBadRequest},
		{"bare unauthorized sentinel", ErrUnauthorized, http.StatusUnauthorized},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
