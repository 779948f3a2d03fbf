package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kvuthe/ITO/internal/apperr"
)

func TestValidateUsernameAccepts(t *testing.T) {
	for _, name := range []string{
		"runner",
		"Runner42",
		"a",
		"speed.runner",
		"speed_runner",
		"speed-runner",
		"x0",
	} {
		assert.NoError(t, ValidateUsername(name), name)
	}
}

func TestValidateUsernameRejectsBadCharacters(t *testing.T) {
	for _, name := range []string{
		"",
		".runner",
		"runner.",
		"-runner",
		"runner_",
		"run ner",
		"runner!",
		"рuннer",
	} {
		err := ValidateUsername(name)
		assert.True(t, errors.Is(err, apperr.ErrValidation), name)
	}
}

func TestValidateUsernameRejectsReserved(t *testing.T) {
	for _, name := range []string{"admin", "Admin", "MODERATOR", "ito"} {
		err := ValidateUsername(name)
		assert.True(t, errors.Is(err, apperr.ErrValidation), name)
	}
}

func TestValidateUsernameRejectsBlockedSubstrings(t *testing.T) {
	err := ValidateUsername("shitposter")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestValidateUsernameRejectsOverlong(t *testing.T) {
	long := make([]byte, 121)
	for i := range long {
		long[i] = 'a'
	}
	err := ValidateUsername(string(long))
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}
