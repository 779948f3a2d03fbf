package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString decodes a JSON value that clients send either as a string or as
// a bare number (the submission forms are inconsistent about time fields).
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the raw component string.
func (f FlexString) String() string {
	return string(f)
}

// CreateAccountRequest is the payload for POST /api/users/create
type CreateAccountRequest struct {
	Username string `json:"username" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// EditAccountRequest is the payload for POST /api/me/edit.
// Nil fields are left untouched.
type EditAccountRequest struct {
	Categories    *[]string `json:"categories"`
	Password      *string   `json:"password"`
	Flag          *string   `json:"flag"`
	Username      *string   `json:"username"`
	UsernameColor *string   `json:"username_color"`
}

// CreateSubmissionRequest is the payload for POST /api/submission/create
type CreateSubmissionRequest struct {
	SubmissionDate string      `json:"submissionDate"`
	Chapter        string      `json:"chapter" validate:"required,max=32"`
	SubChapter     string      `json:"sub_chapter" validate:"required,max=32"`
	VideoURL       string      `json:"video_url" validate:"required,max=255"`
	Category       string      `json:"category" validate:"required,max=32"`
	Minutes        *FlexString `json:"minutes" validate:"required"`
	Seconds        *FlexString `json:"seconds" validate:"required"`
	Milliseconds   *FlexString `json:"milliseconds" validate:"required"`
	Description    string      `json:"description" validate:"max=255"`
}

// ModCreateSubmissionRequest is the payload for POST /api/submission/mod/create
type ModCreateSubmissionRequest struct {
	CreateSubmissionRequest
	UserID uint `json:"user_id" validate:"required"`
}

// EditSubmissionRequest is the payload for POST /api/submission/update.
// Date accepts either an epoch number or a "YYYY-MM-DD" string.
type EditSubmissionRequest struct {
	ID           uint            `json:"id" validate:"required"`
	Date         json.RawMessage `json:"date"`
	VideoURL     string          `json:"video_url" validate:"max=255"`
	Description  string          `json:"description" validate:"max=255"`
	TimeComplete string          `json:"time_complete"`
}

// CreateLeagueRunRequest is the payload for POST /api/league/submission/create
type CreateLeagueRunRequest struct {
	Minutes      *FlexString `json:"minutes" validate:"required"`
	Seconds      *FlexString `json:"seconds" validate:"required"`
	Milliseconds *FlexString `json:"milliseconds" validate:"required"`
	Week         int         `json:"week" validate:"required,min=1"`
	Level        int         `json:"level" validate:"required,min=1"`
	VideoURL     string      `json:"video_url" validate:"required,max=255"`
}

// ReportSubmissionRequest is the payload for POST /api/submission/report
type ReportSubmissionRequest struct {
	Message string `json:"message" validate:"required,max=255"`
	RunID   uint   `json:"run_id" validate:"required"`
}

// IDRequest carries a single target id (restore, remove, verify, deny).
type IDRequest struct {
	ID uint `json:"id" validate:"required"`
}

// RefreshTokenRequest is the payload for PUT /api/tokens/refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ParseEpochOrDate interprets an edit-request date field: a JSON number is an
// epoch in seconds, a JSON string is "YYYY-MM-DD".
func ParseEpochOrDate(raw json.RawMessage) (epoch float64, dateStr string, ok bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0, "", false
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return 0, "", false
		}
		return 0, s, true
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, "", false
	}
	return f, "", true
}
