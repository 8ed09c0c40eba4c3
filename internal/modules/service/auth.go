package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/WalidElHadhri/PDS/internal/config"
	"github.com/WalidElHadhri/PDS/internal/modules/model"
	"github.com/WalidElHadhri/PDS/internal/modules/repo"
	"github.com/WalidElHadhri/PDS/internal/pkg/utils/secrets"
	"github.com/WalidElHadhri/PDS/internal/pkg/utils/tokens"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, in LoginInput) (*AuthOutput, error)
	Logout(ctx context.Context, claims *tokens.Claims) error
}

type authService struct {
	users repo.UserRepo
	rdb   *redis.Client
	cfg   *config.Config
	log   *zap.Logger
}

func NewAuthService(users repo.UserRepo, rdb *redis.Client, cfg *config.Config, log *zap.Logger) AuthService {
	return &authService{users: users, rdb: rdb, cfg: cfg, log: log}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthOutput struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	phc, err := secrets.HashPassword(in.Password, s.cfg.Auth.PasswordPepper)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Username:    strings.TrimSpace(in.Username),
		Email:       email,
		PasswordPHC: phc,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// Concurrent registration can still trip the unique index.
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.issue(u)
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*AuthOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := secrets.VerifyPassword(in.Password, s.cfg.Auth.PasswordPepper, u.PasswordPHC)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	return s.issue(u)
}

// Logout marks the token's jti revoked until it would have expired anyway.
func (s *authService) Logout(ctx context.Context, claims *tokens.Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.Set(ctx, tokens.RevocationKey(claims.ID), "1", ttl).Err(); err != nil {
		s.log.Error("failed to persist token revocation", zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) issue(u *model.User) (*AuthOutput, error) {
	ttl := time.Duration(s.cfg.Auth.TokenTTLMinutes) * time.Minute
	token, err := tokens.New(s.cfg.Auth.JWTSecret, u.ID, ttl)
	if err != nil {
		return nil, err
	}
	return &AuthOutput{Token: token, User: u}, nil
}
