package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	profileRepo "transylvania/database/repository/profile"
	"transylvania/models"
	"transylvania/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenDuration = 24 * time.Hour

var (
	// ErrEmailTaken is returned when signup reuses an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthResult carries the signed token alongside the public profile view.
type AuthResult struct {
	Token   string         `json:"token"`
	Profile models.Profile `json:"profile"`
}

// Service covers account lifecycle and session tokens.
type Service interface {
	SignUp(ctx context.Context, email, username, password string) (*AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	SignOut(ctx context.Context, token string) error
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id, username, newPassword string) (*models.Profile, error)
	DeleteProfile(ctx context.Context, id string) error
}

// DefaultService implements Service over the profile repository with a Redis
// token cache for fast auth-middleware lookups.
type DefaultService struct {
	Repo      profileRepo.ProfileRepository
	AuthCache *redis.Client
}

func (s *DefaultService) SignUp(ctx context.Context, email, username, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	if email == "" || username == "" || len(password) < 6 {
		return nil, errors.New("email, username and a password of at least 6 characters are required")
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("signup lookup: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := &models.Profile{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	utils.GetLogger().Info("profile created", zap.String("profileID", profile.ID))
	return s.issueToken(ctx, profile)
}

func (s *DefaultService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	profile, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("signin lookup: %w", err)
	}
	if profile == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(ctx, profile)
}

// SignOut drops the cached token hash so the auth middleware falls back to
// rejecting the token immediately.
func (s *DefaultService) SignOut(ctx context.Context, token string) error {
	if s.AuthCache == nil || token == "" {
		return nil
	}
	key := utils.AuthCachePrefix + utils.HashToken(token)
	if err := s.AuthCache.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *DefaultService) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	return s.Repo.GetByID(ctx, id)
}

// UpdateProfile changes the username and, when newPassword is non-empty, the
// password. Empty arguments leave the corresponding field untouched.
func (s *DefaultService) UpdateProfile(ctx context.Context, id, username, newPassword string) (*models.Profile, error) {
	profile, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update lookup: %w", err)
	}
	if profile == nil {
		return nil, errors.New("profile not found")
	}

	if username = strings.TrimSpace(username); username != "" {
		profile.Username = username
	}
	if newPassword != "" {
		if len(newPassword) < 6 {
			return nil, errors.New("password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		profile.PasswordHash = string(hash)
	}

	if err := s.Repo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	out := *profile
	out.PasswordHash = ""
	return &out, nil
}

func (s *DefaultService) DeleteProfile(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

func (s *DefaultService) issueToken(ctx context.Context, profile *models.Profile) (*AuthResult, error) {
	token, err := utils.GenerateToken(profile.ID, profile.Email, tokenDuration)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	if s.AuthCache != nil {
		key := utils.AuthCachePrefix + utils.HashToken(token)
		if err := s.AuthCache.Set(ctx, key, profile.ID, utils.AuthCacheTTL).Err(); err != nil {
			utils.GetLogger().Warn("failed to cache auth token", zap.Error(err))
		}
	}
	out := *profile
	out.PasswordHash = ""
	return &AuthResult{Token: token, Profile: out}, nil
}
