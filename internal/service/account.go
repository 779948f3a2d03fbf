package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Kvuthe/ITO/internal/apperr"
	"github.com/Kvuthe/ITO/internal/models"
	"github.com/Kvuthe/ITO/internal/repository"
)

// usernamePattern allows alphanumerics with interior dots, underscores and
// hyphens. Names must start and end on an alphanumeric.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?$`)

var reservedUsernames = map[string]struct{}{
	"admin":         {},
	"administrator": {},
	"root":          {},
	"moderator":     {},
	"mod":           {},
	"system":        {},
	"support":       {},
	"help":          {},
	"api":           {},
	"null":          {},
	"undefined":     {},
	"anonymous":     {},
	"ito":           {},
}

var blockedUsernameParts = []string{
	"fuck", "shit", "bitch", "cunt", "nigg", "fag", "nazi", "hitler", "rape",
}

// AccountService manages account creation, profile edits and public profiles.
type AccountService struct {
	postgresRepo *repository.PostgresRepository
	leagueSvc    *LeagueService
}

// NewAccountService creates a new account service
func NewAccountService(postgresRepo *repository.PostgresRepository, leagueSvc *LeagueService) *AccountService {
	return &AccountService{
		postgresRepo: postgresRepo,
		leagueSvc:    leagueSvc,
	}
}

// ValidateUsername enforces the username character whitelist, length bound,
// reserved words and blocked substrings.
func ValidateUsername(username string) error {
	if username == "" || len(username) > 120 {
		return apperr.Validation("username must be between 1 and 120 characters")
	}
	if !usernamePattern.MatchString(username) {
		return apperr.Validation("username may only contain letters, numbers, dots, underscores and hyphens")
	}

	lower := strings.ToLower(username)
	if _, reserved := reservedUsernames[lower]; reserved {
		return apperr.Validation("this username is not available")
	}
	for _, part := range blockedUsernameParts {
		if strings.Contains(lower, part) {
			return apperr.Validation("this username is not available")
		}
	}
	return nil
}

// Create registers a new account. New accounts start unverified with a zero
// score and both board preferences enabled.
func (s *AccountService) Create(ctx context.Context, req *models.CreateAccountRequest) (*models.User, error) {
	if err := ValidateUsername(req.Username); err != nil {
		return nil, err
	}

	existing, err := s.postgresRepo.FindUserByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Validation("an account with this username or email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		Password:     string(hash),
		CreationDate: time.Now(),
		Score:        0,
		Role:         models.RoleUnverified,
		Flag:         "us",
		LbPref:       models.PrefAnyPercent | models.PrefInBounds,
	}
	if err := s.postgresRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Edit applies the non-nil fields of an edit request to the current user.
func (s *AccountService) Edit(ctx context.Context, user *models.User, req *models.EditAccountRequest) (*models.User, error) {
	if req.Username != nil && *req.Username != user.Username {
		if err := ValidateUsername(*req.Username); err != nil {
			return nil, err
		}
		existing, err := s.postgresRepo.FindUserByUsernameOrEmail(ctx, *req.Username, "")
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, apperr.Validation("this username is not available")
		}
		user.Username = *req.Username
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hash)
	}
	if req.Flag != nil {
		user.Flag = *req.Flag
	}
	if req.UsernameColor != nil {
		user.UsernameColor = *req.UsernameColor
	}
	if req.Categories != nil {
		user.LbPref = models.CategoriesToBits(*req.Categories)
	}

	if err := s.postgresRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Verify moves an account out of the verification queue. Moderator only.
func (s *AccountService) Verify(ctx context.Context, actor *models.User, id uint) error {
	return s.setRole(ctx, actor, id, models.RoleVerified)
}

// Deny marks an account denied. Moderator only.
func (s *AccountService) Deny(ctx context.Context, actor *models.User, id uint) error {
	return s.setRole(ctx, actor, id, models.RoleDenied)
}

func (s *AccountService) setRole(ctx context.Context, actor *models.User, id uint, role int) error {
	if !actor.IsModerator() {
		return apperr.Forbidden("you are not authorized to perform this action")
	}

	user, err := s.postgresRepo.GetUser(ctx, id)
	if err != nil {
		return err
	}
	user.Role = role
	return s.postgresRepo.SaveUser(ctx, user)
}

// VerificationQueue lists accounts waiting for verification. Moderator only.
func (s *AccountService) VerificationQueue(ctx context.Context, actor *models.User) ([]models.UserEntry, error) {
	if !actor.IsModerator() {
		return nil, apperr.Forbidden("you are not authorized to perform this action")
	}

	users, err := s.postgresRepo.UnverifiedUsers(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]models.UserEntry, 0, len(users))
	for i := range users {
		entries = append(entries, models.NewUserEntry(&users[i]))
	}
	return entries, nil
}

// Profile assembles the public profile page for a username: all live
// submissions newest first, league runs, global rank by score, plus the
// per-category chapter groupings and chapter score sums.
func (s *AccountService) Profile(ctx context.Context, username string) (*models.ProfileResponse, error) {
	user, err := s.postgresRepo.UserWithSubmissions(ctx, username)
	if err != nil {
		return nil, err
	}

	live := make([]models.Submission, 0, len(user.Submissions))
	for _, sub := range user.Submissions {
		if !sub.Voided {
			live = append(live, sub)
		}
	}
	sort.SliceStable(live, func(i, j int) bool {
		return live[i].Date.After(live[j].Date)
	})

	leagueRuns, err := s.leagueSvc.UserRuns(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	rank, err := s.globalRank(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	ordered := make(map[string]map[string][]models.SubmissionEntry)
	chapterScores := make(map[string]map[string]int)
	for i := range live {
		sub := &live[i]
		if ordered[sub.Category] == nil {
			ordered[sub.Category] = make(map[string][]models.SubmissionEntry)
			chapterScores[sub.Category] = make(map[string]int)
		}
		ordered[sub.Category][sub.Chapter] = append(ordered[sub.Category][sub.Chapter], models.NewSubmissionEntry(sub))
		chapterScores[sub.Category][sub.Chapter] += sub.Points
	}

	profile := &models.ProfileResponse{
		UserEntry:          models.NewUserEntry(user),
		Submissions:        models.NewSubmissionEntries(live),
		TotalRuns:          len(user.Submissions),
		Runs:               len(live),
		LeagueRuns:         models.NewLeagueRunEntries(leagueRuns),
		TotalLeagueRuns:    len(leagueRuns),
		GlobalRank:         rank,
		OrderedSubmissions: ordered,
		ChapterScores:      chapterScores,
	}
	profile.Categories = user.Categories()
	return profile, nil
}

// globalRank is the user's 1-based position in the score-descending ordering.
func (s *AccountService) globalRank(ctx context.Context, userID uint) (int, error) {
	users, err := s.postgresRepo.UsersByScoreDesc(ctx)
	if err != nil {
		return 0, err
	}
	for i := range users {
		if users[i].ID == userID {
			return i + 1, nil
		}
	}
	return 0, nil
}
