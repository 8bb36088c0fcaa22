package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"study-backend/internal/shared/auth"
	"study-backend/internal/shared/telemetry"
)

// DocumentCounter reports how many documents a user owns.
type DocumentCounter interface {
	Count(ctx context.Context, ownerEmail string) (int, error)
}

type Service struct {
	Repo   Repo
	Tokens *auth.TokenService
	Docs   DocumentCounter
}

func NewService(repo Repo, tokens *auth.TokenService, docs DocumentCounter) *Service {
	return &Service{Repo: repo, Tokens: tokens, Docs: docs}
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, email, password, name string) (User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return User{}, ErrInvalidInput
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	user := User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	telemetry.Info("user.registered", map[string]any{"user_email": email})
	return user, nil
}

// Login checks the password and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", User{}, ErrInvalidCredentials
	}
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", User{}, ErrInvalidCredentials
		}
		return "", User{}, err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", User{}, ErrInvalidCredentials
	}
	token, err := s.Tokens.Sign(user.Email)
	if err != nil {
		return "", User{}, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

func (s *Service) Me(ctx context.Context, email string) (Profile, error) {
	user, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return Profile{}, err
	}
	profile := Profile{Email: user.Email, Name: user.Name}
	if s.Docs != nil {
		n, err := s.Docs.Count(ctx, user.Email)
		if err != nil {
			return Profile{}, fmt.Errorf("count documents: %w", err)
		}
		profile.DocumentCount = n
	}
	return profile, nil
}
