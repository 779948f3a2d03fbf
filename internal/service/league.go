package service

import (
	"context"
	"log"
	"time"

	"github.com/Kvuthe/ITO/internal/apperr"
	"github.com/Kvuthe/ITO/internal/models"
	"github.com/Kvuthe/ITO/internal/ranking"
	"github.com/Kvuthe/ITO/internal/repository"
)

// LeagueService manages the weekly league side-bracket. League runs follow
// replace semantics (one live run per player per scope, the old one deleted)
// and never feed the record-notification channel.
type LeagueService struct {
	postgresRepo *repository.PostgresRepository
	redisRepo    *repository.RedisRepository
	season       string
}

// NewLeagueService creates a new league service bound to the active season
func NewLeagueService(postgresRepo *repository.PostgresRepository, redisRepo *repository.RedisRepository, season string) *LeagueService {
	return &LeagueService{
		postgresRepo: postgresRepo,
		redisRepo:    redisRepo,
		season:       season,
	}
}

// Create stores a league run for the current user, replacing any existing run
// in the same week and level, then re-ranks the scope.
func (s *LeagueService) Create(ctx context.Context, user *models.User, req *models.CreateLeagueRunRequest) (*models.LeagueRun, error) {
	if !user.IsVerified() {
		return nil, apperr.Forbidden("your account has not been verified yet")
	}

	timeMillis, err := encodeRequestTime(req.Minutes, req.Seconds, req.Milliseconds)
	if err != nil {
		return nil, err
	}

	scope := models.LeagueScope{
		Season: s.season,
		Week:   req.Week,
		Level:  req.Level,
	}

	run := &models.LeagueRun{
		Date:         time.Now(),
		Season:       scope.Season,
		Week:         scope.Week,
		Level:        scope.Level,
		TimeComplete: timeMillis,
		VideoURL:     req.VideoURL,
		UserID:       user.ID,
	}

	err = s.postgresRepo.Transaction(ctx, func(tx *repository.PostgresRepository) error {
		if err := tx.DeleteUserLeagueRuns(ctx, scope, user.ID); err != nil {
			return err
		}
		if err := tx.CreateLeagueRun(ctx, run); err != nil {
			return err
		}
		return rerankLeagueScope(ctx, tx, scope)
	})
	if err != nil {
		return nil, err
	}

	if err := s.redisRepo.BumpVersion(ctx); err != nil {
		log.Printf("Failed to bump leaderboard version: %v", err)
	}
	return run, nil
}

// WeekBoard returns the ranked runs for one week and level of the active
// season, best time first.
func (s *LeagueService) WeekBoard(ctx context.Context, week, level int) ([]models.LeagueRun, error) {
	scope := models.LeagueScope{Season: s.season, Week: week, Level: level}
	return s.postgresRepo.LeagueWeekBoard(ctx, scope)
}

// SeasonTotals returns every participating player's summed points across the
// active season, highest first.
func (s *LeagueService) SeasonTotals(ctx context.Context) ([]models.SeasonTotalEntry, error) {
	return s.postgresRepo.SeasonTotals(ctx, s.season)
}

// UserRuns returns all of a player's league runs, most recent first.
func (s *LeagueService) UserRuns(ctx context.Context, userID uint) ([]models.LeagueRun, error) {
	return s.postgresRepo.UserLeagueRuns(ctx, userID)
}

func rerankLeagueScope(ctx context.Context, tx *repository.PostgresRepository, scope models.LeagueScope) error {
	runs, err := tx.LoadLeagueScope(ctx, scope)
	if err != nil {
		return apperr.Consistency("failed to load league scope for ranking", err)
	}
	if len(runs) == 0 {
		return nil
	}

	entries := make([]*models.LeagueRun, len(runs))
	for i := range runs {
		entries[i] = &runs[i]
	}

	ranking.Apply(entries)

	if err := tx.SaveLeagueRuns(ctx, entries); err != nil {
		return apperr.Consistency("failed to persist league ranking", err)
	}
	return nil
}
