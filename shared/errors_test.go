package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAppErrorUnwrapsWrappedErrors(t *testing.T) {
	base := errors.New("connection refused")
	appErr := NewStoreUnavailableError(base)

	wrapped := fmt.Errorf("rate limit check: %w", appErr)

	got, ok := GetAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, 503, got.StatusCode)
	assert.ErrorIs(t, wrapped, base)
}

func TestGetAppErrorIgnoresPlainErrors(t *testing.T) {
	_, ok := GetAppError(errors.New("boom"))
	assert.False(t, ok)
}

func TestErrorTaxonomyStatusCodes(t *testing.T) {
	assert.Equal(t, 400, NewBadRequestError(nil, "bad").StatusCode)
	assert.Equal(t, 400, NewValidationError("bad field", nil).StatusCode)
	assert.Equal(t, 429, NewRateLimitError("slow down", nil).StatusCode)
	assert.Equal(t, 503, NewStoreUnavailableError(nil).StatusCode)
	assert.Equal(t, 502, NewUpstreamError(nil, "upstream down").StatusCode)
}
