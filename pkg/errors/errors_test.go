package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvalidArgumentError(t *testing.T) {
	err := NewInvalidArgumentError("recipeID", "must not be the empty identifier")

	assert.Equal(t, CodeInvalidArgument, err.Code)
	assert.Equal(t, "recipeID", err.Metadata["argument"])
	assert.Contains(t, err.Error(), "must not be the empty identifier")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode())
	assert.NotEmpty(t, err.StackTrace)
}

func TestIsResolvesWrappedErrors(t *testing.T) {
	base := NewInvalidArgumentError("name", "must not be empty")
	wrapped := fmt.Errorf("adding ingredient: %w", base)

	assert.True(t, IsInvalidArgument(wrapped))
	assert.True(t, Is(wrapped, CodeInvalidArgument))
	assert.False(t, Is(wrapped, CodeDatabaseError))
	assert.Equal(t, CodeInvalidArgument, GetCode(wrapped))
}

func TestGetCodeDefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, GetCode(stderrors.New("boom")))
	assert.False(t, IsInvalidArgument(nil))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	appErr := NewNotFoundError("Recipe")
	assert.Same(t, appErr, Wrap(appErr, "ignored"))

	cause := stderrors.New("disk full")
	wrapped := Wrap(cause, "could not save")
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.ErrorIs(t, wrapped, cause)
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewValidationError("title"), http.StatusBadRequest},
		{NewUnauthorizedError(""), http.StatusUnauthorized},
		{NewInvalidCredentialsError(), http.StatusUnauthorized},
		{NewForbiddenError(""), http.StatusForbidden},
		{NewNotFoundError("Daily menu"), http.StatusNotFound},
		{NewTooManyRequestsError(), http.StatusTooManyRequests},
		{NewDatabaseError("commit", stderrors.New("x")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}
