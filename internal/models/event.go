package models

// RecordChangeEvent is emitted when a scope's first-place entry changes.
// It is never persisted; the lifecycle manager computes it and hands it to
// the notification queue. Field names match the bot webhook payload.
type RecordChangeEvent struct {
	ID                 string  `json:"id"`
	Username           string  `json:"username"`
	Chapter            string  `json:"chapter"`
	SubChapter         string  `json:"sub_chapter"`
	Category           string  `json:"category"`
	TimeComplete       string  `json:"time_complete"`
	VideoURL           string  `json:"video_url"`
	PreviousRecordTime *string `json:"previous_record_time"`
	ImprovementMillis  *int    `json:"improvement_ms"`
}

// IsFirstRecord reports whether the scope had no prior first place.
func (e *RecordChangeEvent) IsFirstRecord() bool {
	return e.PreviousRecordTime == nil
}
