package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Kvuthe/ITO/internal/models"
	"github.com/Kvuthe/ITO/internal/repository"
	"github.com/Kvuthe/ITO/internal/scoring"
)

// LeaderboardService serves the read side: chapter boards, user boards over
// time windows, recent runs, and the highlighted set.
type LeaderboardService struct {
	postgresRepo *repository.PostgresRepository
	redisRepo    *repository.RedisRepository
}

// NewLeaderboardService creates a new leaderboard read service
func NewLeaderboardService(postgresRepo *repository.PostgresRepository, redisRepo *repository.RedisRepository) *LeaderboardService {
	return &LeaderboardService{
		postgresRepo: postgresRepo,
		redisRepo:    redisRepo,
	}
}

// ChapterBoard returns a scope's live submissions, best time first. URL path
// segments use underscores where the stored names use spaces.
func (s *LeaderboardService) ChapterBoard(ctx context.Context, category, chapter, subChapter string) ([]models.SubmissionEntry, error) {
	scope := models.SubmissionScope{
		Category:   normalizeCategory(category),
		Chapter:    normalizeSegment(chapter),
		SubChapter: normalizeSegment(subChapter),
	}

	submissions, err := s.postgresRepo.ChapterBoard(ctx, gameTitle, scope)
	if err != nil {
		return nil, err
	}
	return models.NewSubmissionEntries(submissions), nil
}

// RecentRuns returns the three most recently dated live submissions.
func (s *LeaderboardService) RecentRuns(ctx context.Context) ([]models.SubmissionEntry, error) {
	submissions, err := s.postgresRepo.RecentSubmissions(ctx, 3)
	if err != nil {
		return nil, err
	}
	return models.NewSubmissionEntries(submissions), nil
}

// Highlights returns the currently highlighted first-place runs.
func (s *LeaderboardService) Highlights(ctx context.Context) ([]models.SubmissionEntry, error) {
	submissions, err := s.postgresRepo.HighlightedSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	return models.NewSubmissionEntries(submissions), nil
}

// Reported returns every reported submission with owner and reporter, for
// the moderation queue.
func (s *LeaderboardService) Reported(ctx context.Context) ([]models.ReportedSubmissionEntry, error) {
	submissions, err := s.postgresRepo.ReportedSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]models.ReportedSubmissionEntry, 0, len(submissions))
	for i := range submissions {
		entries = append(entries, models.NewReportedSubmissionEntry(&submissions[i]))
	}
	return entries, nil
}

// UserBoard ranks players by their aggregate score within one category and
// time window. Players are filtered by their board-preference bitmap so a
// player hidden from a category never appears on it.
func (s *LeaderboardService) UserBoard(ctx context.Context, category, timeFrame string) ([]models.RankedUserEntry, error) {
	window := scoring.ParseWindow(timeFrame)
	boardCategory := normalizeCategory(category)

	prefMask := 0
	switch boardCategory {
	case "any%":
		prefMask = models.PrefAnyPercent
	case "inbounds":
		prefMask = models.PrefInBounds
	default:
		boardCategory = scoring.CategoryMainBoard
	}

	users, err := s.postgresRepo.VerifiedUsersByPref(ctx, prefMask)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entries := make([]models.RankedUserEntry, 0, len(users))
	for i := range users {
		user := &users[i]
		score := scoring.WindowedScore(user.Submissions, window, boardCategory, now)
		entries = append(entries, models.NewRankedUserEntry(user, score))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TimeframeScore > entries[j].TimeframeScore
	})
	return entries, nil
}

// TotalBoard returns every player ordered by all-time score descending.
func (s *LeaderboardService) TotalBoard(ctx context.Context) ([]models.UserEntry, error) {
	users, err := s.postgresRepo.UsersByScoreDesc(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]models.UserEntry, 0, len(users))
	for i := range users {
		entries = append(entries, models.NewUserEntry(&users[i]))
	}
	return entries, nil
}

// Version returns the leaderboard version counter clients poll to detect
// staleness.
func (s *LeaderboardService) Version(ctx context.Context) (int64, error) {
	return s.redisRepo.GetVersion(ctx)
}

// HealthCheck verifies both backing stores are reachable.
func (s *LeaderboardService) HealthCheck(ctx context.Context) error {
	if err := s.postgresRepo.Ping(ctx); err != nil {
		return err
	}
	return s.redisRepo.Ping(ctx)
}

// normalizeCategory maps URL category aliases onto stored category names.
func normalizeCategory(category string) string {
	switch strings.ToLower(category) {
	case "any", "any%":
		return "any%"
	case "in_bounds", "inbounds":
		return "inbounds"
	default:
		return normalizeSegment(category)
	}
}

func normalizeSegment(segment string) string {
	return strings.ReplaceAll(strings.ToLower(segment), "_", " ")
}
