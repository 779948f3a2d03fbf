// Package scoring aggregates submission points into player scores. Scores are
// always recomputed from the live submission set; nothing here caches.
package scoring

import (
	"time"

	"github.com/Kvuthe/ITO/internal/models"
)

// Window restricts an aggregate to a trailing time span.
type Window string

const (
	WindowAllTime Window = "all_time"
	WindowWeekly  Window = "weekly"
	WindowMonthly Window = "monthly"
)

// CategoryMainBoard is the sentinel meaning "all categories".
const CategoryMainBoard = "main board"

// ParseWindow maps a request string onto a window, defaulting to all-time.
func ParseWindow(s string) Window {
	switch s {
	case string(WindowWeekly):
		return WindowWeekly
	case string(WindowMonthly):
		return WindowMonthly
	default:
		return WindowAllTime
	}
}

// cutoff returns the earliest date still inside the window, or zero time when
// the window is unbounded.
func (w Window) cutoff(now time.Time) time.Time {
	switch w {
	case WindowWeekly:
		return now.AddDate(0, 0, -7)
	case WindowMonthly:
		return now.AddDate(0, 0, -30)
	default:
		return time.Time{}
	}
}

// TotalScore sums points over a player's non-voided submissions.
func TotalScore(submissions []models.Submission) int {
	total := 0
	for i := range submissions {
		if submissions[i].Voided {
			continue
		}
		total += submissions[i].Points
	}
	return total
}

// WindowedScore sums points over non-voided submissions that match the
// category filter and fall inside the trailing window. CategoryMainBoard
// matches every category.
func WindowedScore(submissions []models.Submission, window Window, category string, now time.Time) int {
	cutoff := window.cutoff(now)
	total := 0

	for i := range submissions {
		s := &submissions[i]
		if s.Voided {
			continue
		}
		if category != CategoryMainBoard && s.Category != category {
			continue
		}
		if !cutoff.IsZero() && s.Date.Before(cutoff) {
			continue
		}
		total += s.Points
	}

	return total
}
