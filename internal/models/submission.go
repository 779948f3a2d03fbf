package models

import (
	"time"
)

// Submission represents one scored attempt in a category/chapter/sub-chapter
// scope. Rank and points are derived fields recomputed over the scope's
// non-voided membership whenever any member changes.
type Submission struct {
	ID              uint       `gorm:"primarykey"`
	Date            time.Time  `gorm:"index"`
	GameTitle       string     `gorm:"size:32"`
	TimeComplete    int        `gorm:"not null"`
	Category        string     `gorm:"size:32;index:idx_submission_scope"`
	Chapter         string     `gorm:"size:32;index:idx_submission_scope"`
	SubChapter      string     `gorm:"size:32;index:idx_submission_scope"`
	Description     string     `gorm:"size:255"`
	VideoURL        string     `gorm:"size:255"`
	Rank            int        ``
	Points          int        ``
	Reported        bool       ``
	ReportedDate    *time.Time ``
	ReportedMessage *string    `gorm:"size:255"`
	ReportedBy      *uint      ``
	Voided          bool       ``
	Highlighted     bool       ``
	UserID          uint       `gorm:"index"`
	User            *User      `gorm:"foreignKey:UserID"`
	Reporter        *User      `gorm:"foreignKey:ReportedBy"`
}

// TableName specifies the table name for GORM
func (Submission) TableName() string {
	return "submission"
}

// TimeMillis returns the completion time for ranking.
func (s *Submission) TimeMillis() int {
	return s.TimeComplete
}

// SetResult stores a computed rank and points value.
func (s *Submission) SetResult(rank, points int) {
	s.Rank = rank
	s.Points = points
}

// Scope returns the submission's comparison pool key.
func (s *Submission) Scope() SubmissionScope {
	return SubmissionScope{Category: s.Category, Chapter: s.Chapter, SubChapter: s.SubChapter}
}

// LeagueRun represents one scored attempt in a season/week/level scope.
// League runs have no void state: a player's newer run replaces the old one.
type LeagueRun struct {
	ID           uint      `gorm:"primarykey"`
	Date         time.Time ``
	Season       string    `gorm:"size:16;index:idx_league_scope"`
	Week         int       `gorm:"index:idx_league_scope"`
	Level        int       `gorm:"index:idx_league_scope"`
	TimeComplete int       `gorm:"not null"`
	VideoURL     string    `gorm:"size:255"`
	UserID       uint      `gorm:"index"`
	User         *User     `gorm:"foreignKey:UserID"`
	Rank         int       ``
	Points       int       ``
}

// TableName specifies the table name for GORM
func (LeagueRun) TableName() string {
	return "league_run"
}

// TimeMillis returns the completion time for ranking.
func (r *LeagueRun) TimeMillis() int {
	return r.TimeComplete
}

// SetResult stores a computed rank and points value.
func (r *LeagueRun) SetResult(rank, points int) {
	r.Rank = rank
	r.Points = points
}

// SubmissionScope identifies a submission comparison pool. Entries never
// compare across scopes.
type SubmissionScope struct {
	Category   string
	Chapter    string
	SubChapter string
}

// LeagueScope identifies a league comparison pool.
type LeagueScope struct {
	Season string
	Week   int
	Level  int
}
