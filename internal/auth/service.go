package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blindys/blindys-backend/internal/hash"
	"github.com/blindys/blindys-backend/internal/logging"
	"github.com/blindys/blindys-backend/internal/models"
	"github.com/blindys/blindys-backend/internal/tokens"
)

var (
	ErrUserNotFound        = errors.New("no user found with this email")
	ErrInvalidCredentials  = errors.New("the email or password is incorrect")
	ErrAccountLocked       = errors.New("too many login attempts")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrPasswordMismatch    = errors.New("password and confirmation do not match")
	ErrEmailTaken          = errors.New("a user with this email already exists")
	ErrNoRefreshTokens     = errors.New("user not found")

	// ErrLockoutStarted marks the failure that started the lockout window. It
	// wraps ErrInvalidCredentials so callers that only care about the
	// rejection treat it like any other bad password.
	ErrLockoutStarted = fmt.Errorf("%w: lockout started", ErrInvalidCredentials)
)

const (
	// MaxLoginAttempts is the number of consecutive failures that triggers a
	// lockout. The triggering failure itself is the last one counted.
	MaxLoginAttempts = 7

	// LockoutDuration is how long a locked email is rejected outright.
	LockoutDuration = 15 * time.Minute
)

type Service struct {
	Store  *Store
	Tokens *tokens.Issuer
}

type LoginResult struct {
	ID          string `json:"id"`
	UserName    string `json:"userName"`
	AccessToken string `json:"accessToken"`
}

type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
}

// Login authenticates email+password, enforcing the per-email lockout window
// before the password is ever checked. A successful login mints a fresh
// access token, stores a refresh token if the user has none yet and clears
// the failure counter.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Store.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	lockoutUntil, err := s.Store.FindLockout(ctx, email)
	if err != nil {
		return nil, err
	}
	if lockoutUntil != nil && lockoutUntil.After(time.Now()) {
		timeLeft := (time.Until(*lockoutUntil) + time.Second - 1) / time.Second
		l.Warn("login rejected", "reason", "account locked", "seconds_left", int64(timeLeft))
		return nil, fmt.Errorf("%w: please try again in %d seconds", ErrAccountLocked, int64(timeLeft))
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		locked, err := s.handleFailedLogin(ctx, email)
		if err != nil {
			return nil, err
		}
		if locked {
			l.Warn("login rejected", "reason", "lockout started")
			return nil, ErrLockoutStarted
		}
		l.Warn("login rejected", "reason", "invalid password")
		return nil, ErrInvalidCredentials
	}

	existing, err := s.Store.FindRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		refreshToken, err := s.Tokens.SignRefresh(user.ID)
		if err != nil {
			return nil, err
		}
		if err := s.Store.CreateRefreshToken(ctx, user.ID, refreshToken); err != nil {
			return nil, err
		}
	}

	accessToken, err := s.Tokens.SignAccess(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.Store.DeleteFailedAttempts(ctx, email); err != nil {
		return nil, err
	}

	return &LoginResult{
		ID:          user.ID,
		UserName:    user.FirstName + " " + user.LastName,
		AccessToken: accessToken,
	}, nil
}

// handleFailedLogin counts the failure. The seventh consecutive failure
// clears the counter and starts the lockout window instead, reported via the
// returned flag.
func (s *Service) handleFailedLogin(ctx context.Context, email string) (bool, error) {
	attempts, err := s.Store.FindFailedAttempts(ctx, email)
	if err != nil {
		return false, err
	}

	if attempts >= MaxLoginAttempts-1 {
		if err := s.Store.DeleteFailedAttempts(ctx, email); err != nil {
			return false, err
		}
		return true, s.Store.UpsertLockout(ctx, email, time.Now().Add(LockoutDuration))
	}

	return false, s.Store.UpsertFailedAttempts(ctx, email, attempts+1)
}

// RefreshAccessToken decodes the given access token without checking its
// signature or expiry, then requires a stored, still-valid refresh token for
// that user before minting a new access token. The refresh token itself is
// never rotated here.
func (s *Service) RefreshAccessToken(ctx context.Context, accessToken string) (string, error) {
	claims, err := s.Tokens.Decode(accessToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	stored, err := s.Store.FindRefreshToken(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	if stored == nil {
		return "", ErrInvalidRefreshToken
	}

	if _, err := s.Tokens.Verify(stored.Token); err != nil {
		return "", ErrInvalidRefreshToken
	}

	return s.Tokens.SignAccess(claims.UserID)
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	existing, err := s.Store.FindUserByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		l.Warn("register rejected", "reason", "email already in use")
		return nil, ErrEmailTaken
	}

	pwHash, err := hash.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: pwHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}
	if err := s.Store.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// Logout removes every refresh token for the user.
func (s *Service) Logout(ctx context.Context, userID string) error {
	deleted, err := s.Store.DeleteRefreshTokens(ctx, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNoRefreshTokens
	}
	return nil
}
