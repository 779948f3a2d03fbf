package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kvuthe/ITO/internal/apperr"
	"github.com/Kvuthe/ITO/internal/models"
	"github.com/Kvuthe/ITO/internal/ranking"
	"github.com/Kvuthe/ITO/internal/repository"
	"github.com/Kvuthe/ITO/internal/scoring"
	"github.com/Kvuthe/ITO/internal/timecode"
)

const gameTitle = "itt"

// SubmissionService orchestrates the submission lifecycle: every mutating
// operation runs inside one transaction that re-ranks the affected scope,
// re-scores the players, and detects first-place changes.
type SubmissionService struct {
	postgresRepo *repository.PostgresRepository
	redisRepo    *repository.RedisRepository
}

// NewSubmissionService creates a new submission lifecycle service
func NewSubmissionService(postgresRepo *repository.PostgresRepository, redisRepo *repository.RedisRepository) *SubmissionService {
	return &SubmissionService{
		postgresRepo: postgresRepo,
		redisRepo:    redisRepo,
	}
}

// Create validates and stores a new submission for the current user. Any
// prior live submission by the same player in the same scope is voided, the
// scope is re-ranked, and player scores are recomputed. Returns the stored
// submission and the record-change event when first place moved.
func (s *SubmissionService) Create(ctx context.Context, user *models.User, req *models.CreateSubmissionRequest) (*models.Submission, *models.RecordChangeEvent, error) {
	if !user.IsVerified() {
		return nil, nil, apperr.Forbidden("your account has not been verified yet")
	}
	return s.create(ctx, user, req)
}

// CreateForUser stores a submission on behalf of another player. Moderator
// only; shares the regular lifecycle path.
func (s *SubmissionService) CreateForUser(ctx context.Context, actor *models.User, req *models.ModCreateSubmissionRequest) (*models.Submission, *models.RecordChangeEvent, error) {
	if !actor.IsModerator() {
		return nil, nil, apperr.Forbidden("you are not authorized to perform this action")
	}

	owner, err := s.postgresRepo.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, nil, err
	}

	return s.create(ctx, owner, &req.CreateSubmissionRequest)
}

func (s *SubmissionService) create(ctx context.Context, owner *models.User, req *models.CreateSubmissionRequest) (*models.Submission, *models.RecordChangeEvent, error) {
	scope := models.SubmissionScope{
		Category:   strings.ToLower(req.Category),
		Chapter:    strings.ToLower(req.Chapter),
		SubChapter: strings.ToLower(req.SubChapter),
	}

	date, err := parseSubmissionDate(req.SubmissionDate, time.Now())
	if err != nil {
		return nil, nil, err
	}

	timeMillis, err := encodeRequestTime(req.Minutes, req.Seconds, req.Milliseconds)
	if err != nil {
		return nil, nil, err
	}

	submission := &models.Submission{
		Date:         date,
		GameTitle:    gameTitle,
		TimeComplete: timeMillis,
		Category:     scope.Category,
		Chapter:      scope.Chapter,
		SubChapter:   scope.SubChapter,
		Description:  req.Description,
		VideoURL:     req.VideoURL,
		UserID:       owner.ID,
	}

	var event *models.RecordChangeEvent

	err = s.postgresRepo.Transaction(ctx, func(tx *repository.PostgresRepository) error {
		// First place must be captured before voiding removes it from lookup.
		before, err := tx.FirstPlace(ctx, scope)
		if err != nil {
			return err
		}

		if err := tx.VoidUserSubmissions(ctx, scope, owner.ID); err != nil {
			return err
		}
		if err := tx.CreateSubmission(ctx, submission); err != nil {
			return err
		}

		if err := rerankScope(ctx, tx, scope); err != nil {
			return err
		}
		if err := updatePlayerScores(ctx, tx); err != nil {
			return err
		}

		// Ranking ran on separately loaded copies; reload so the response
		// carries the computed rank and points.
		submission, err = tx.GetSubmission(ctx, submission.ID)
		if err != nil {
			return err
		}

		event, err = detectRecordChange(ctx, tx, scope, before)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, event)
	return submission, event, nil
}

// Edit updates the owner's submission fields and re-ranks the scope when the
// completion time changed. Only the owning player may edit.
func (s *SubmissionService) Edit(ctx context.Context, user *models.User, req *models.EditSubmissionRequest) (*models.Submission, *models.RecordChangeEvent, error) {
	if req.VideoURL == "" && req.TimeComplete == "" && req.Description == "" && len(req.Date) == 0 {
		return nil, nil, apperr.Validation("missing required fields")
	}

	var submission *models.Submission
	var event *models.RecordChangeEvent

	err := s.postgresRepo.Transaction(ctx, func(tx *repository.PostgresRepository) error {
		var err error
		submission, err = tx.GetSubmission(ctx, req.ID)
		if err != nil {
			return err
		}
		if submission.UserID != user.ID {
			return apperr.Forbidden("you cannot edit this submission")
		}

		scope := submission.Scope()
		before, err := tx.FirstPlace(ctx, scope)
		if err != nil {
			return err
		}

		if req.VideoURL != "" {
			submission.VideoURL = req.VideoURL
		}
		if req.Description != "" {
			submission.Description = req.Description
		}
		if req.TimeComplete != "" {
			timeMillis, err := timecode.ParseToMillis(req.TimeComplete)
			if err != nil {
				return apperr.Validation("invalid time format")
			}
			submission.TimeComplete = timeMillis
		}
		if epoch, dateStr, ok := models.ParseEpochOrDate(req.Date); ok {
			if dateStr != "" {
				parsed, err := time.Parse("2006-01-02", dateStr)
				if err != nil {
					return apperr.Validation("invalid date format")
				}
				submission.Date = parsed
			} else {
				submission.Date = time.Unix(int64(epoch), 0)
			}
		}

		if err := tx.SaveSubmission(ctx, submission); err != nil {
			return err
		}

		if err := rerankScope(ctx, tx, scope); err != nil {
			return err
		}
		if err := updatePlayerScores(ctx, tx); err != nil {
			return err
		}

		// The edited row's rank changed under it; reload for the response.
		submission, err = tx.GetSubmission(ctx, req.ID)
		if err != nil {
			return err
		}

		event, err = detectRecordChange(ctx, tx, scope, before)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, event)
	return submission, event, nil
}

// Report flags a submission for moderator review.
func (s *SubmissionService) Report(ctx context.Context, reporter *models.User, req *models.ReportSubmissionRequest) error {
	return s.postgresRepo.Transaction(ctx, func(tx *repository.PostgresRepository) error {
		submission, err := tx.GetSubmission(ctx, req.RunID)
		if err != nil {
			return err
		}
		if submission.Reported {
			return apperr.Validation("this submission has already been reported")
		}

		now := time.Now()
		submission.Reported = true
		submission.ReportedMessage = &req.Message
		submission.ReportedBy = &reporter.ID
		submission.ReportedDate = &now

		return tx.SaveSubmission(ctx, submission)
	})
}

// Restore clears a submission's report flags. Moderator only.
func (s *SubmissionService) Restore(ctx context.Context, actor *models.User, id uint) error {
	if !actor.IsModerator() {
		return apperr.Forbidden("you are not authorized to perform this action")
	}

	return s.postgresRepo.Transaction(ctx, func(tx *repository.PostgresRepository) error {
		submission, err := tx.GetSubmission(ctx, id)
		if err != nil {
			return err
		}
		if !submission.Reported {
			return apperr.Validation("this submission has not been reported")
		}

		submission.Reported = false
		submission.ReportedMessage = nil
		submission.ReportedBy = nil
		submission.ReportedDate = nil

		return tx.SaveSubmission(ctx, submission)
	})
}

// Remove deletes a reported submission outright, re-ranks its scope and
// re-scores players. Moderator only.
func (s *SubmissionService) Remove(ctx context.Context, actor *models.User, id uint) (*models.RecordChangeEvent, error) {
	if !actor.IsModerator() {
		return nil, apperr.Forbidden("you are not authorized to perform this action")
	}

	var event *models.RecordChangeEvent

	err := s.postgresRepo.Transaction(ctx, func(tx *repository.PostgresRepository) error {
		submission, err := tx.GetSubmission(ctx, id)
		if err != nil {
			return err
		}
		if !submission.Reported {
			return apperr.Validation("this submission has not been reported")
		}

		scope := submission.Scope()
		before, err := tx.FirstPlace(ctx, scope)
		if err != nil {
			return err
		}

		if err := tx.DeleteSubmission(ctx, submission); err != nil {
			return err
		}

		if err := rerankScope(ctx, tx, scope); err != nil {
			return err
		}
		if err := updatePlayerScores(ctx, tx); err != nil {
			return err
		}

		event, err = detectRecordChange(ctx, tx, scope, before)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event)
	return event, nil
}

// publish hands a record event to the delivery queue and bumps the
// leaderboard version. Both are best-effort: the lifecycle transaction has
// already committed and delivery problems stay out of the response path.
func (s *SubmissionService) publish(ctx context.Context, event *models.RecordChangeEvent) {
	if event != nil {
		if err := s.redisRepo.EnqueueRecordEvent(ctx, event); err != nil {
			log.Printf("Failed to enqueue record event %s: %v", event.ID, err)
		}
	}
	if err := s.redisRepo.BumpVersion(ctx); err != nil {
		log.Printf("Failed to bump leaderboard version: %v", err)
	}
}

// rerankScope re-ranks a scope's entire live membership. Re-ranking is total
// and idempotent; it never patches a previous ranking incrementally.
func rerankScope(ctx context.Context, tx *repository.PostgresRepository, scope models.SubmissionScope) error {
	submissions, err := tx.LoadScope(ctx, scope)
	if err != nil {
		return apperr.Consistency("failed to load scope for ranking", err)
	}
	if len(submissions) == 0 {
		return nil
	}

	entries := make([]*models.Submission, len(submissions))
	for i := range submissions {
		entries[i] = &submissions[i]
	}

	ranking.Apply(entries)

	if err := tx.SaveSubmissions(ctx, entries); err != nil {
		return apperr.Consistency("failed to persist scope ranking", err)
	}
	return nil
}

// updatePlayerScores recomputes every eligible player's total score from
// their live submissions.
func updatePlayerScores(ctx context.Context, tx *repository.PostgresRepository) error {
	users, err := tx.VerifiedUsers(ctx)
	if err != nil {
		return apperr.Consistency("failed to load players for scoring", err)
	}

	for i := range users {
		user := &users[i]
		newScore := scoring.TotalScore(user.Submissions)
		if newScore == user.Score {
			continue
		}
		user.Score = newScore
		user.Submissions = nil // avoid re-saving associations
		if err := tx.SaveUser(ctx, user); err != nil {
			return apperr.Consistency("failed to persist player score", err)
		}
	}
	return nil
}

// detectRecordChange compares the scope's first place against the captured
// pre-mutation holder and builds the record event when identity changed.
func detectRecordChange(ctx context.Context, tx *repository.PostgresRepository, scope models.SubmissionScope, before *models.Submission) (*models.RecordChangeEvent, error) {
	after, err := tx.FirstPlace(ctx, scope)
	if err != nil {
		return nil, err
	}
	if after == nil {
		return nil, nil
	}
	if before != nil && before.ID == after.ID {
		return nil, nil
	}

	owner, err := tx.GetUser(ctx, after.UserID)
	if err != nil {
		return nil, err
	}

	return BuildRecordEvent(before, after, owner.Username), nil
}

// BuildRecordEvent shapes the record-change value handed to the notification
// channel. Improvement is before minus after in milliseconds; both the
// previous time and the improvement are absent for a scope's first record.
func BuildRecordEvent(before, after *models.Submission, ownerName string) *models.RecordChangeEvent {
	event := &models.RecordChangeEvent{
		ID:           uuid.NewString(),
		Username:     ownerName,
		Chapter:      after.Chapter,
		SubChapter:   after.SubChapter,
		Category:     after.Category,
		TimeComplete: timecode.Format(after.TimeComplete),
		VideoURL:     after.VideoURL,
	}

	if before != nil {
		previous := timecode.Format(before.TimeComplete)
		improvement := before.TimeComplete - after.TimeComplete
		event.PreviousRecordTime = &previous
		event.ImprovementMillis = &improvement
	}

	return event
}

// parseSubmissionDate interprets an optional "YYYY-MM-DD" submission date.
// An empty value, or a date matching today, resolves to the current instant
// so same-day submissions keep their ordering.
func parseSubmissionDate(dateStr string, now time.Time) (time.Time, error) {
	if dateStr == "" {
		return now, nil
	}

	parsed, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid submission date format")
	}

	if parsed.Year() == now.Year() && parsed.YearDay() == now.YearDay() {
		return now, nil
	}
	return parsed, nil
}

// encodeRequestTime encodes the three request time components, right-padding
// the fractional part to thousandths first.
func encodeRequestTime(minutes, seconds, milliseconds *models.FlexString) (int, error) {
	if minutes == nil || seconds == nil || milliseconds == nil {
		return 0, apperr.Validation("missing required fields")
	}

	timeMillis, err := timecode.Encode(
		minutes.String(),
		seconds.String(),
		timecode.PadMilliseconds(milliseconds.String()),
	)
	if err != nil {
		return 0, apperr.Validation("invalid time format")
	}
	if timeMillis < 0 {
		return 0, apperr.Validation("completion time must be non-negative")
	}
	return timeMillis, nil
}
