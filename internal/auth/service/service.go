// Package service implements dashboard authentication: credential checks,
// access token issuance, and first-run admin seeding.
package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"prombaza_backend/internal/auth/repository"
	"prombaza_backend/platform/apperr"
	"prombaza_backend/platform/config"
	"prombaza_backend/platform/logger"
)

const accessTokenType = "access"

type Service struct {
	repo repository.Store
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo repository.Store, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Token is an issued access token with its expiry.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Login checks the credentials and issues an access token. Both unknown
// usernames and wrong passwords return the same unauthorized error.
func (s *Service) Login(ctx context.Context, username, password string) (Token, error) {
	const op = "auth.service.Login"

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		s.log.AuthEvent("login", username, false, "unknown user")
		return Token{}, apperr.Unauthorized(op, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.AuthEvent("login", username, false, "wrong password")
		return Token{}, apperr.Unauthorized(op, "invalid credentials")
	}

	token, err := s.issueAccessToken(user.ID)
	if err != nil {
		return Token{}, apperr.Internal(op, err)
	}

	s.log.AuthEvent("login", username, true, "")
	return token, nil
}

// EnsureAdmin seeds the configured admin account when the users table is
// empty. Called once at startup; a missing ADMIN_PASSWORD skips seeding so
// a fresh deployment fails closed.
func (s *Service) EnsureAdmin(ctx context.Context) error {
	const op = "auth.service.EnsureAdmin"

	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := s.cfg.GetAdminPassword()
	if password == "" {
		s.log.Warn("users table is empty and ADMIN_PASSWORD is not set; dashboard login disabled")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal(op, err)
	}

	user, err := s.repo.Create(ctx, s.cfg.GetAdminUsername(), string(hash))
	if err != nil {
		return err
	}

	s.log.Info("seeded admin account", "username", user.Username)
	return nil
}

func (s *Service) issueAccessToken(userID uuid.UUID) (Token, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.GetAccessTokenTTL())

	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"type": accessTokenType,
		"exp":  expiresAt.Unix(),
		"iat":  now.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return Token{}, err
	}

	return Token{AccessToken: signed, ExpiresAt: expiresAt}, nil
}
