package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Kvuthe/ITO/internal/models"
)

func sub(points int, voided bool, category string, age time.Duration, now time.Time) models.Submission {
	return models.Submission{
		Points:   points,
		Voided:   voided,
		Category: category,
		Date:     now.Add(-age),
	}
}

func TestTotalScore(t *testing.T) {
	now := time.Now()
	submissions := []models.Submission{
		sub(5, false, "any%", time.Hour, now),
		sub(3, false, "inbounds", time.Hour, now),
		sub(7, true, "any%", time.Hour, now),
	}

	assert.Equal(t, 8, TotalScore(submissions))
}

func TestTotalScore_Empty(t *testing.T) {
	assert.Equal(t, 0, TotalScore(nil))
}

func TestTotalScore_VoidingDropsExactlyThatSubmission(t *testing.T) {
	now := time.Now()
	submissions := []models.Submission{
		sub(5, false, "any%", time.Hour, now),
		sub(3, false, "any%", time.Hour, now),
	}

	before := TotalScore(submissions)
	submissions[1].Voided = true
	after := TotalScore(submissions)

	assert.Equal(t, 3, before-after)
}

func TestWindowedScore_MainBoardMatchesAllCategories(t *testing.T) {
	now := time.Now()
	submissions := []models.Submission{
		sub(5, false, "any%", time.Hour, now),
		sub(3, false, "inbounds", time.Hour, now),
	}

	assert.Equal(t, 8, WindowedScore(submissions, WindowAllTime, CategoryMainBoard, now))
	assert.Equal(t, 5, WindowedScore(submissions, WindowAllTime, "any%", now))
}

func TestWindowedScore_WeeklyCutoff(t *testing.T) {
	now := time.Now()
	submissions := []models.Submission{
		sub(5, false, "any%", 2*24*time.Hour, now),
		sub(3, false, "any%", 10*24*time.Hour, now),
	}

	assert.Equal(t, 5, WindowedScore(submissions, WindowWeekly, CategoryMainBoard, now))
	assert.Equal(t, 8, WindowedScore(submissions, WindowMonthly, CategoryMainBoard, now))
	assert.Equal(t, 8, WindowedScore(submissions, WindowAllTime, CategoryMainBoard, now))
}

func TestWindowedScore_SkipsVoided(t *testing.T) {
	now := time.Now()
	submissions := []models.Submission{
		sub(5, true, "any%", time.Hour, now),
	}

	assert.Equal(t, 0, WindowedScore(submissions, WindowWeekly, CategoryMainBoard, now))
}

func TestParseWindow(t *testing.T) {
	assert.Equal(t, WindowWeekly, ParseWindow("weekly"))
	assert.Equal(t, WindowMonthly, ParseWindow("monthly"))
	assert.Equal(t, WindowAllTime, ParseWindow("all_time"))
	assert.Equal(t, WindowAllTime, ParseWindow("anything-else"))
}
