package models

import (
	"github.com/Kvuthe/ITO/internal/timecode"
)

// Response shaping is an explicit field list per entity, declared once.
// Datetimes become Unix seconds, completion times pass through the codec,
// raw integer fields pass through untouched. Password hashes never leave the
// models package.

// SubmissionEntry is the wire shape of one submission row.
type SubmissionEntry struct {
	ID              uint    `json:"id"`
	Date            int64   `json:"date"`
	GameTitle       string  `json:"game_title"`
	TimeComplete    string  `json:"time_complete"`
	Category        string  `json:"category"`
	Chapter         string  `json:"chapter"`
	SubChapter      string  `json:"sub_chapter"`
	Description     string  `json:"description"`
	VideoURL        string  `json:"video_url"`
	Rank            int     `json:"rank"`
	Points          int     `json:"points"`
	Reported        bool    `json:"reported"`
	ReportedDate    *int64  `json:"reported_date"`
	ReportedMessage *string `json:"reported_message"`
	ReportedBy      *uint   `json:"reported_by"`
	Voided          bool    `json:"voided"`
	Highlighted     bool    `json:"highlighted"`
	UserID          uint    `json:"user_id"`
	User            string  `json:"user,omitempty"`
	UserFlag        string  `json:"user_flag,omitempty"`
	UsernameColor   string  `json:"username_color,omitempty"`
}

// NewSubmissionEntry shapes a submission row for a response. The owner's
// username, flag and color are included when the user relation is loaded.
func NewSubmissionEntry(s *Submission) SubmissionEntry {
	entry := SubmissionEntry{
		ID:              s.ID,
		Date:            s.Date.Unix(),
		GameTitle:       s.GameTitle,
		TimeComplete:    timecode.Format(s.TimeComplete),
		Category:        s.Category,
		Chapter:         s.Chapter,
		SubChapter:      s.SubChapter,
		Description:     s.Description,
		VideoURL:        s.VideoURL,
		Rank:            s.Rank,
		Points:          s.Points,
		Reported:        s.Reported,
		ReportedMessage: s.ReportedMessage,
		ReportedBy:      s.ReportedBy,
		Voided:          s.Voided,
		Highlighted:     s.Highlighted,
		UserID:          s.UserID,
	}

	if s.ReportedDate != nil {
		ts := s.ReportedDate.Unix()
		entry.ReportedDate = &ts
	}
	if s.User != nil {
		entry.User = s.User.Username
		entry.UserFlag = s.User.Flag
		entry.UsernameColor = s.User.UsernameColor
	}

	return entry
}

// NewSubmissionEntries shapes a slice of submission rows.
func NewSubmissionEntries(submissions []Submission) []SubmissionEntry {
	entries := make([]SubmissionEntry, 0, len(submissions))
	for i := range submissions {
		entries = append(entries, NewSubmissionEntry(&submissions[i]))
	}
	return entries
}

// UserEntry is the wire shape of one account row.
type UserEntry struct {
	ID            uint     `json:"id"`
	Username      string   `json:"username"`
	Email         string   `json:"email"`
	CreationDate  int64    `json:"creation_date"`
	Score         int      `json:"score"`
	Role          int      `json:"role"`
	Flag          string   `json:"flag"`
	LbPref        int      `json:"lb_pref"`
	Pronouns      int      `json:"pronouns"`
	UsernameColor string   `json:"username_color"`
	Categories    []string `json:"categories,omitempty"`
}

// NewUserEntry shapes an account row for a response.
func NewUserEntry(u *User) UserEntry {
	return UserEntry{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		CreationDate:  u.CreationDate.Unix(),
		Score:         u.Score,
		Role:          u.Role,
		Flag:          u.Flag,
		LbPref:        u.LbPref,
		Pronouns:      u.Pronouns,
		UsernameColor: u.UsernameColor,
	}
}

// RankedUserEntry is a user row on a points leaderboard.
type RankedUserEntry struct {
	UserEntry
	TimeframeScore int `json:"timeframe_score"`
}

// NewRankedUserEntry shapes an account row with its windowed score.
func NewRankedUserEntry(u *User, timeframeScore int) RankedUserEntry {
	return RankedUserEntry{
		UserEntry:      NewUserEntry(u),
		TimeframeScore: timeframeScore,
	}
}

// LeagueRunEntry is the wire shape of one league run row.
type LeagueRunEntry struct {
	ID            uint   `json:"id"`
	Date          int64  `json:"date"`
	Season        string `json:"season"`
	Week          int    `json:"week"`
	Level         int    `json:"level"`
	TimeComplete  string `json:"time_complete"`
	VideoURL      string `json:"video_url"`
	Rank          int    `json:"rank"`
	Points        int    `json:"points"`
	UserID        uint   `json:"user_id"`
	User          string `json:"user,omitempty"`
	UserFlag      string `json:"user_flag,omitempty"`
	UsernameColor string `json:"username_color,omitempty"`
}

// NewLeagueRunEntry shapes a league run row for a response.
func NewLeagueRunEntry(r *LeagueRun) LeagueRunEntry {
	entry := LeagueRunEntry{
		ID:           r.ID,
		Date:         r.Date.Unix(),
		Season:       r.Season,
		Week:         r.Week,
		Level:        r.Level,
		TimeComplete: timecode.Format(r.TimeComplete),
		VideoURL:     r.VideoURL,
		Rank:         r.Rank,
		Points:       r.Points,
		UserID:       r.UserID,
	}

	if r.User != nil {
		entry.User = r.User.Username
		entry.UserFlag = r.User.Flag
		entry.UsernameColor = r.User.UsernameColor
	}

	return entry
}

// NewLeagueRunEntries shapes a slice of league run rows.
func NewLeagueRunEntries(runs []LeagueRun) []LeagueRunEntry {
	entries := make([]LeagueRunEntry, 0, len(runs))
	for i := range runs {
		entries = append(entries, NewLeagueRunEntry(&runs[i]))
	}
	return entries
}

// SeasonTotalEntry is one row of the season-total league leaderboard.
type SeasonTotalEntry struct {
	Name        string `json:"name"`
	ColorName   string `json:"colorname"`
	Flag        string `json:"flag"`
	TotalPoints int    `json:"total_points"`
}

// TokenPair is the wire shape of an issued token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ReportedSubmissionEntry is a reported submission with its reporter.
type ReportedSubmissionEntry struct {
	SubmissionEntry
	Reporter *UserEntry `json:"reporter"`
}

// NewReportedSubmissionEntry shapes a reported row with its reporter when the
// reporter relation is loaded.
func NewReportedSubmissionEntry(s *Submission) ReportedSubmissionEntry {
	entry := ReportedSubmissionEntry{
		SubmissionEntry: NewSubmissionEntry(s),
	}
	if s.Reporter != nil {
		reporter := NewUserEntry(s.Reporter)
		entry.Reporter = &reporter
	}
	return entry
}

// ProfileResponse is the wire shape of a public profile page.
type ProfileResponse struct {
	UserEntry
	Submissions        []SubmissionEntry                       `json:"submissions"`
	TotalRuns          int                                     `json:"total_runs"`
	Runs               int                                     `json:"runs"`
	LeagueRuns         []LeagueRunEntry                        `json:"league_runs"`
	TotalLeagueRuns    int                                     `json:"total_league_runs"`
	GlobalRank         int                                     `json:"rank"`
	OrderedSubmissions map[string]map[string][]SubmissionEntry `json:"ordered_submissions"`
	ChapterScores      map[string]map[string]int               `json:"chapter_scores"`
}
