package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kvuthe/ITO/internal/apperr"
	"github.com/Kvuthe/ITO/internal/config"
	"github.com/Kvuthe/ITO/internal/models"
	"github.com/Kvuthe/ITO/internal/repository"
)

// AuthService issues and verifies token pairs. The database stores opaque
// random tokens; the wire carries them wrapped in signed JWTs so a tampered
// bearer value is rejected before it ever reaches the token table.
type AuthService struct {
	postgresRepo *repository.PostgresRepository
	cfg          config.AuthConfig
}

// NewAuthService creates a new authentication service
func NewAuthService(postgresRepo *repository.PostgresRepository, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		postgresRepo: postgresRepo,
		cfg:          cfg,
	}
}

// Login checks a username/password pair and returns the account.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.postgresRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Unauthorized("invalid username or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperr.Unauthorized("invalid username or password")
	}
	return user, nil
}

// IssueTokens creates a fresh token pair for the user and sweeps token rows
// whose refresh expiry is more than a day past.
func (s *AuthService) IssueTokens(ctx context.Context, userID uint) (*models.TokenPair, error) {
	if err := s.postgresRepo.DeleteExpiredTokens(ctx, time.Now().Add(-24*time.Hour)); err != nil {
		return nil, err
	}

	access, err := randomToken()
	if err != nil {
		return nil, err
	}
	refresh, err := randomToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	token := &models.Token{
		AccessToken:       access,
		AccessExpiration:  now.Add(time.Duration(s.cfg.AccessTTLMinutes) * time.Minute),
		RefreshToken:      refresh,
		RefreshExpiration: now.Add(time.Duration(s.cfg.RefreshTTLDays) * 24 * time.Hour),
		UserID:            userID,
	}
	if err := s.postgresRepo.CreateToken(ctx, token); err != nil {
		return nil, err
	}

	return s.wrapPair(token)
}

// VerifyAccess resolves a bearer JWT to its account. The access token must
// exist and be unexpired.
func (s *AuthService) VerifyAccess(ctx context.Context, bearer string) (*models.User, error) {
	access, err := s.unwrap(bearer)
	if err != nil {
		return nil, err
	}

	token, err := s.postgresRepo.GetTokenByAccess(ctx, access)
	if err != nil {
		return nil, apperr.Unauthorized("invalid or expired token")
	}
	if time.Now().After(token.AccessExpiration) {
		return nil, apperr.Unauthorized("invalid or expired token")
	}

	return s.postgresRepo.GetUser(ctx, token.UserID)
}

// Refresh rotates the access token of a stored pair. Both wire tokens must
// unwrap, match the same row, and the refresh token must be unexpired.
func (s *AuthService) Refresh(ctx context.Context, accessBearer, refreshBearer string) (*models.TokenPair, error) {
	access, err := s.unwrap(accessBearer)
	if err != nil {
		return nil, err
	}
	refresh, err := s.unwrap(refreshBearer)
	if err != nil {
		return nil, err
	}

	token, err := s.postgresRepo.GetTokenByAccess(ctx, access)
	if err != nil {
		return nil, apperr.NotFound("token pair not found")
	}
	if token.RefreshToken != refresh {
		return nil, apperr.Unauthorized("token pair mismatch")
	}
	if time.Now().After(token.RefreshExpiration) {
		if err := s.postgresRepo.DeleteToken(ctx, token); err != nil {
			return nil, err
		}
		return nil, apperr.Unauthorized("refresh token expired")
	}

	rotated, err := randomToken()
	if err != nil {
		return nil, err
	}
	token.AccessToken = rotated
	token.AccessExpiration = time.Now().Add(time.Duration(s.cfg.AccessTTLMinutes) * time.Minute)
	if err := s.postgresRepo.SaveToken(ctx, token); err != nil {
		return nil, err
	}

	return s.wrapPair(token)
}

// Revoke deletes the token pair behind a bearer JWT.
func (s *AuthService) Revoke(ctx context.Context, bearer string) error {
	access, err := s.unwrap(bearer)
	if err != nil {
		return err
	}

	token, err := s.postgresRepo.GetTokenByAccess(ctx, access)
	if err != nil {
		return apperr.Unauthorized("invalid or expired token")
	}
	return s.postgresRepo.DeleteToken(ctx, token)
}

// wrapPair signs both opaque tokens into wire JWTs.
func (s *AuthService) wrapPair(token *models.Token) (*models.TokenPair, error) {
	access, err := s.wrap(token.AccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := s.wrap(token.RefreshToken)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) wrap(opaque string) (string, error) {
	claims := jwt.MapClaims{"access_token": opaque}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) unwrap(bearer string) (string, error) {
	parsed, err := jwt.Parse(bearer, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil || !parsed.Valid {
		return "", apperr.Unauthorized("invalid or expired token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperr.Unauthorized("invalid or expired token")
	}
	opaque, ok := claims["access_token"].(string)
	if !ok || opaque == "" {
		return "", apperr.Unauthorized("invalid or expired token")
	}
	return opaque, nil
}

// randomToken returns a 32-byte URL-safe random token.
func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
