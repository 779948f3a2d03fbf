package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kvuthe/ITO/internal/apperr"
	"github.com/Kvuthe/ITO/internal/models"
)

func flex(s string) *models.FlexString {
	f := models.FlexString(s)
	return &f
}

func TestEncodeRequestTimePadsFraction(t *testing.T) {
	// "18" means 180ms, not 18ms.
	millis, err := encodeRequestTime(flex("2"), flex("17"), flex("18"))
	require.NoError(t, err)
	assert.Equal(t, 137180, millis)
}

func TestEncodeRequestTimeFullPrecision(t *testing.T) {
	millis, err := encodeRequestTime(flex("0"), flex("59"), flex("999"))
	require.NoError(t, err)
	assert.Equal(t, 59999, millis)
}

func TestEncodeRequestTimeEmptyComponentsAreZero(t *testing.T) {
	millis, err := encodeRequestTime(flex(""), flex("30"), flex(""))
	require.NoError(t, err)
	assert.Equal(t, 30000, millis)
}

func TestEncodeRequestTimeRejectsGarbage(t *testing.T) {
	_, err := encodeRequestTime(flex("two"), flex("17"), flex("180"))
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestEncodeRequestTimeRejectsMissingComponents(t *testing.T) {
	_, err := encodeRequestTime(nil, flex("17"), flex("180"))
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestParseSubmissionDateEmptyIsNow(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

	got, err := parseSubmissionDate("", now)
	require.NoError(t, err)
	assert.Equal(t, now, got)
}

func TestParseSubmissionDateSameDayKeepsInstant(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

	got, err := parseSubmissionDate("2025-06-10", now)
	require.NoError(t, err)
	assert.Equal(t, now, got)
}

func TestParseSubmissionDatePastDay(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

	got, err := parseSubmissionDate("2025-06-01", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestParseSubmissionDateRejectsBadFormat(t *testing.T) {
	_, err := parseSubmissionDate("06/10/2025", time.Now())
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestBuildRecordEventFirstRecord(t *testing.T) {
	after := &models.Submission{
		Chapter:      "moria",
		SubChapter:   "the bridge",
		Category:     "any%",
		TimeComplete: 124300,
		VideoURL:     "https://example.com/run",
	}

	event := BuildRecordEvent(nil, after, "runner")

	require.NotNil(t, event)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "runner", event.Username)
	assert.Equal(t, "2:04.300", event.TimeComplete)
	assert.True(t, event.IsFirstRecord())
	assert.Nil(t, event.PreviousRecordTime)
	assert.Nil(t, event.ImprovementMillis)
}

func TestBuildRecordEventImprovement(t *testing.T) {
	before := &models.Submission{TimeComplete: 125500}
	after := &models.Submission{
		Chapter:      "moria",
		SubChapter:   "the bridge",
		Category:     "any%",
		TimeComplete: 124300,
	}

	event := BuildRecordEvent(before, after, "runner")

	require.NotNil(t, event)
	require.NotNil(t, event.PreviousRecordTime)
	assert.Equal(t, "2:05.500", *event.PreviousRecordTime)
	require.NotNil(t, event.ImprovementMillis)
	assert.Equal(t, 1200, *event.ImprovementMillis)
	assert.False(t, event.IsFirstRecord())
}

func TestBuildRecordEventTiedTakeover(t *testing.T) {
	// A tie-break takeover reports a zero-millisecond improvement rather
	// than omitting the field.
	before := &models.Submission{TimeComplete: 124300}
	after := &models.Submission{TimeComplete: 124300}

	event := BuildRecordEvent(before, after, "runner")

	require.NotNil(t, event)
	require.NotNil(t, event.ImprovementMillis)
	assert.Equal(t, 0, *event.ImprovementMillis)
}
