package models

import (
	"time"
)

// User roles. Verified users count toward leaderboards; moderators can act on
// reports and the verification queue.
const (
	RoleDenied     = -1
	RoleUnverified = 0
	RoleVerified   = 1
	RoleModerator  = 2
)

// Leaderboard preference bitmap.
const (
	PrefAnyPercent = 1
	PrefInBounds   = 2
)

// User represents a player account
type User struct {
	ID            uint         `gorm:"primarykey"`
	Username      string       `gorm:"size:120;index"`
	Email         string       `gorm:"size:120;uniqueIndex"`
	Password      string       `gorm:"size:150"`
	CreationDate  time.Time    ``
	Score         int          `gorm:"index"`
	Role          int          ``
	Flag          string       `gorm:"size:4"`
	LbPref        int          ``
	Pronouns      int          ``
	UsernameColor string       `gorm:"size:7"`
	Submissions   []Submission `gorm:"foreignKey:UserID"`
	LeagueRuns    []LeagueRun  `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "user"
}

// IsVerified reports whether the user counts toward leaderboards.
func (u *User) IsVerified() bool {
	return u.Role >= RoleVerified
}

// IsModerator reports whether the user can perform moderation actions.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

// Categories expands the preference bitmap into category names.
func (u *User) Categories() []string {
	categories := []string{}
	if u.LbPref&PrefAnyPercent != 0 {
		categories = append(categories, "Any%")
	}
	if u.LbPref&PrefInBounds != 0 {
		categories = append(categories, "In Bounds")
	}
	return categories
}

// CategoriesToBits collapses category names back into the preference bitmap.
func CategoriesToBits(categories []string) int {
	bits := 0
	for _, c := range categories {
		switch c {
		case "Any%":
			bits |= PrefAnyPercent
		case "In Bounds":
			bits |= PrefInBounds
		}
	}
	return bits
}

// Token represents one issued access/refresh token pair
type Token struct {
	ID                uint      `gorm:"primarykey"`
	AccessToken       string    `gorm:"size:64;index"`
	AccessExpiration  time.Time ``
	RefreshToken      string    `gorm:"size:64"`
	RefreshExpiration time.Time ``
	UserID            uint      ``
}

// TableName specifies the table name for GORM
func (Token) TableName() string {
	return "token"
}
