package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsMapSentinels(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
	}{
		{Validation("bad input"), ErrValidation},
		{Unauthorized("no token"), ErrUnauthorized},
		{Forbidden("not yours"), ErrForbidden},
		{NotFound("missing"), ErrNotFound},
		{Consistency("ranking failed", nil), ErrConsistency},
	}

	for _, tc := range cases {
		assert.True(t, errors.Is(tc.err, tc.sentinel), tc.err.Error())
	}
}

func TestConsistencyCauseIsReachable(t *testing.T) {
	cause := errors.New("row vanished mid-scan")
	err := Consistency("failed to load scope for ranking", cause)

	// Both the sentinel and the wrapped cause match through the chain.
	assert.True(t, errors.Is(err, ErrConsistency))
	assert.True(t, errors.Is(err, cause))
}

func TestConsistencyCauseSurvivesFurtherWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("lifecycle operation: %w", Consistency("failed to persist scope ranking", cause))

	assert.True(t, errors.Is(err, ErrConsistency))
	assert.True(t, errors.Is(err, cause))

	var appErr *Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "failed to persist scope ranking", appErr.Message)
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("boom")

	assert.Equal(t, "failed: boom", Consistency("failed", cause).Error())
	assert.Equal(t, "bad input", Validation("bad input").Error())
}
