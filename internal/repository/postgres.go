package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Kvuthe/ITO/internal/apperr"
	"github.com/Kvuthe/ITO/internal/models"
)

// PostgresRepository handles all PostgreSQL operations
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository creates a new Postgres repository
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// Transaction runs fn with a repository bound to one database transaction.
// Commit and rollback happen on every exit path; lifecycle operations use
// this as their serialization boundary per scope, so two concurrent
// mutations of the same scope can never both read stale membership.
func (r *PostgresRepository) Transaction(ctx context.Context, fn func(tx *PostgresRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

// ─── Submissions ────────────────────────────────────────────────────────────

// LoadScope returns a scope's live (non-voided) membership ascending by time.
func (r *PostgresRepository) LoadScope(ctx context.Context, scope models.SubmissionScope) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("category = ? AND chapter = ? AND sub_chapter = ? AND voided = ?",
			scope.Category, scope.Chapter, scope.SubChapter, false).
		Order("time_complete ASC").
		Find(&submissions).Error
	return submissions, err
}

// FirstPlace returns the scope's current first-place submission, or nil when
// the scope has none. Among tied rank-1 rows the most recently dated wins.
func (r *PostgresRepository) FirstPlace(ctx context.Context, scope models.SubmissionScope) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Where("category = ? AND chapter = ? AND sub_chapter = ? AND voided = ? AND rank = ?",
			scope.Category, scope.Chapter, scope.SubChapter, false, 1).
		Order("date DESC").
		First(&submission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// VoidUserSubmissions voids every submission a player holds in the scope.
// At most one live submission per player per scope survives a create.
func (r *PostgresRepository) VoidUserSubmissions(ctx context.Context, scope models.SubmissionScope, userID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("category = ? AND chapter = ? AND sub_chapter = ? AND user_id = ?",
			scope.Category, scope.Chapter, scope.SubChapter, userID).
		Update("voided", true).Error
}

// CreateSubmission inserts a new submission row.
func (r *PostgresRepository) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

// SaveSubmissions persists recomputed rank/points for a ranked scope.
func (r *PostgresRepository) SaveSubmissions(ctx context.Context, submissions []*models.Submission) error {
	for _, s := range submissions {
		if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetSubmission fetches one submission by id.
func (r *PostgresRepository) GetSubmission(ctx context.Context, id uint) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).First(&submission, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("submission not found")
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// SaveSubmission persists one submission row.
func (r *PostgresRepository) SaveSubmission(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

// DeleteSubmission removes one submission row.
func (r *PostgresRepository) DeleteSubmission(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Delete(submission).Error
}

// ChapterBoard returns a scope's live rows with owners, ascending by time.
func (r *PostgresRepository) ChapterBoard(ctx context.Context, game string, scope models.SubmissionScope) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("game_title = ? AND category = ? AND chapter = ? AND sub_chapter = ? AND voided = ?",
			game, scope.Category, scope.Chapter, scope.SubChapter, false).
		Order("time_complete ASC").
		Preload("User").
		Find(&submissions).Error
	return submissions, err
}

// RecentSubmissions returns the most recent live submissions with owners.
func (r *PostgresRepository) RecentSubmissions(ctx context.Context, limit int) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("voided = ?", false).
		Order("date DESC").
		Limit(limit).
		Preload("User").
		Find(&submissions).Error
	return submissions, err
}

// HighlightedSubmissions returns the currently highlighted set with owners.
func (r *PostgresRepository) HighlightedSubmissions(ctx context.Context) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("highlighted = ?", true).
		Preload("User").
		Find(&submissions).Error
	return submissions, err
}

// ClearHighlights unsets the highlighted flag everywhere it is set.
func (r *PostgresRepository) ClearHighlights(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("highlighted = ?", true).
		Update("highlighted", false).Error
}

// RandomFirstPlaces picks up to limit rank-1 submissions uniformly at random.
func (r *PostgresRepository) RandomFirstPlaces(ctx context.Context, limit int) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("rank = ?", 1).
		Order("RANDOM()").
		Limit(limit).
		Find(&submissions).Error
	return submissions, err
}

// SetHighlighted marks the given submissions as highlighted.
func (r *PostgresRepository) SetHighlighted(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id IN ?", ids).
		Update("highlighted", true).Error
}

// ReportedSubmissions returns reported rows with owners and reporters.
func (r *PostgresRepository) ReportedSubmissions(ctx context.Context) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("reported = ?", true).
		Preload("User").
		Preload("Reporter").
		Find(&submissions).Error
	return submissions, err
}

// ─── Users ──────────────────────────────────────────────────────────────────

// GetUser fetches one user by id.
func (r *PostgresRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername fetches one user by case-insensitive username.
func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username ILIKE ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByUsernameOrEmail returns an existing account matching either
// identifier, or nil when no account collides.
func (r *PostgresRepository) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new account row.
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// SaveUser persists one account row.
func (r *PostgresRepository) SaveUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// VerifiedUsers returns every user eligible for leaderboards, with their
// submissions loaded so scores can be recomputed from live rows.
func (r *PostgresRepository) VerifiedUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("role >= ?", models.RoleVerified).
		Preload("Submissions").
		Find(&users).Error
	return users, err
}

// VerifiedUsersByPref returns eligible users filtered by a lb_pref bitmap.
// A zero mask means no preference filter.
func (r *PostgresRepository) VerifiedUsersByPref(ctx context.Context, prefMask int) ([]models.User, error) {
	query := r.db.WithContext(ctx).
		Where("role >= ?", models.RoleVerified).
		Preload("Submissions")
	if prefMask != 0 {
		query = query.Where("lb_pref & ? > 0", prefMask)
	}

	var users []models.User
	err := query.Find(&users).Error
	return users, err
}

// UnverifiedUsers returns accounts waiting in the verification queue.
func (r *PostgresRepository) UnverifiedUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("role = ?", models.RoleUnverified).
		Find(&users).Error
	return users, err
}

// UsersByScoreDesc returns all users ordered by total score descending.
func (r *PostgresRepository) UsersByScoreDesc(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Order("score DESC").
		Find(&users).Error
	return users, err
}

// UserWithSubmissions fetches a user and every submission they own.
func (r *PostgresRepository) UserWithSubmissions(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Preload("Submissions").
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ─── Tokens ─────────────────────────────────────────────────────────────────

// CreateToken inserts an issued token pair.
func (r *PostgresRepository) CreateToken(ctx context.Context, token *models.Token) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// GetTokenByAccess fetches a token row by its opaque access token.
func (r *PostgresRepository) GetTokenByAccess(ctx context.Context, accessToken string) (*models.Token, error) {
	var token models.Token
	err := r.db.WithContext(ctx).Where("access_token = ?", accessToken).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("token not found")
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// SaveToken persists a rotated token row.
func (r *PostgresRepository) SaveToken(ctx context.Context, token *models.Token) error {
	return r.db.WithContext(ctx).Save(token).Error
}

// DeleteToken removes a token row.
func (r *PostgresRepository) DeleteToken(ctx context.Context, token *models.Token) error {
	return r.db.WithContext(ctx).Delete(token).Error
}

// DeleteExpiredTokens sweeps token rows whose refresh expiry passed before
// the cutoff.
func (r *PostgresRepository) DeleteExpiredTokens(ctx context.Context, cutoff time.Time) error {
	return r.db.WithContext(ctx).
		Where("refresh_expiration < ?", cutoff).
		Delete(&models.Token{}).Error
}

// ─── League runs ────────────────────────────────────────────────────────────

// LoadLeagueScope returns a league scope's full membership ascending by time.
func (r *PostgresRepository) LoadLeagueScope(ctx context.Context, scope models.LeagueScope) ([]models.LeagueRun, error) {
	var runs []models.LeagueRun
	err := r.db.WithContext(ctx).
		Where("season = ? AND week = ? AND level = ?", scope.Season, scope.Week, scope.Level).
		Order("time_complete ASC").
		Find(&runs).Error
	return runs, err
}

// DeleteUserLeagueRuns removes a player's existing runs in a league scope.
// League runs are deleted and replaced rather than voided.
func (r *PostgresRepository) DeleteUserLeagueRuns(ctx context.Context, scope models.LeagueScope, userID uint) error {
	return r.db.WithContext(ctx).
		Where("season = ? AND week = ? AND level = ? AND user_id = ?",
			scope.Season, scope.Week, scope.Level, userID).
		Delete(&models.LeagueRun{}).Error
}

// CreateLeagueRun inserts a new league run row.
func (r *PostgresRepository) CreateLeagueRun(ctx context.Context, run *models.LeagueRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// SaveLeagueRuns persists recomputed rank/points for a ranked league scope.
func (r *PostgresRepository) SaveLeagueRuns(ctx context.Context, runs []*models.LeagueRun) error {
	for _, run := range runs {
		if err := r.db.WithContext(ctx).Save(run).Error; err != nil {
			return err
		}
	}
	return nil
}

// LeagueWeekBoard returns a league scope's rows with owners, ascending by time.
func (r *PostgresRepository) LeagueWeekBoard(ctx context.Context, scope models.LeagueScope) ([]models.LeagueRun, error) {
	var runs []models.LeagueRun
	err := r.db.WithContext(ctx).
		Where("season = ? AND week = ? AND level = ?", scope.Season, scope.Week, scope.Level).
		Order("time_complete ASC").
		Preload("User").
		Find(&runs).Error
	return runs, err
}

// UserLeagueRuns returns a player's league runs, most recent first.
func (r *PostgresRepository) UserLeagueRuns(ctx context.Context, userID uint) ([]models.LeagueRun, error) {
	var runs []models.LeagueRun
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&runs).Error
	return runs, err
}

// SeasonTotals aggregates league points per user over one season.
func (r *PostgresRepository) SeasonTotals(ctx context.Context, season string) ([]models.SeasonTotalEntry, error) {
	var rows []models.SeasonTotalEntry
	err := r.db.WithContext(ctx).
		Model(&models.LeagueRun{}).
		Select(`"user".username AS name, "user".username_color AS color_name, "user".flag AS flag, COALESCE(SUM(league_run.points), 0) AS total_points`).
		Joins(`JOIN "user" ON "user".id = league_run.user_id`).
		Where("league_run.season = ?", season).
		Group(`"user".id, "user".username, "user".username_color, "user".flag`).
		Order("total_points DESC").
		Scan(&rows).Error
	return rows, err
}

// ─── Housekeeping ───────────────────────────────────────────────────────────

// Ping checks if database is reachable
func (r *PostgresRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate runs database migrations
func (r *PostgresRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&models.User{},
		&models.Token{},
		&models.Submission{},
		&models.LeagueRun{},
	)
}
