package auth

import (
	"context"
	"errors"
	"time"

	"github.com/blindys/blindys-backend/internal/models"
	"gorm.io/gorm"
)

// Store is the gorm-backed credential store. Lookups report absence with a
// nil result instead of an error; single-row writes rely on the database for
// atomicity.
type Store struct {
	DB *gorm.DB
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.DB.WithContext(ctx).Create(u).Error
}

func (s *Store) FindFailedAttempts(ctx context.Context, email string) (int, error) {
	var row models.FailedLoginAttempt
	if err := s.DB.WithContext(ctx).Where("user_email = ?", email).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.Attempts, nil
}

func (s *Store) UpsertFailedAttempts(ctx context.Context, email string, attempts int) error {
	var row models.FailedLoginAttempt
	err := s.DB.WithContext(ctx).Where("user_email = ?", email).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.FailedLoginAttempt{UserEmail: email, Attempts: attempts}
		return s.DB.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&row).Update("attempts", attempts).Error
}

func (s *Store) DeleteFailedAttempts(ctx context.Context, email string) error {
	return s.DB.WithContext(ctx).
		Where("user_email = ?", email).
		Delete(&models.FailedLoginAttempt{}).Error
}

func (s *Store) FindLockout(ctx context.Context, email string) (*time.Time, error) {
	var row models.LockoutInformation
	if err := s.DB.WithContext(ctx).Where("user_email = ?", email).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row.LockoutUntil, nil
}

func (s *Store) UpsertLockout(ctx context.Context, email string, until time.Time) error {
	var row models.LockoutInformation
	err := s.DB.WithContext(ctx).Where("user_email = ?", email).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.LockoutInformation{UserEmail: email, LockoutUntil: until}
		return s.DB.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&row).Update("lockout_until", until).Error
}

func (s *Store) FindRefreshToken(ctx context.Context, userID string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (s *Store) CreateRefreshToken(ctx context.Context, userID, token string) error {
	row := models.RefreshToken{UserID: userID, Token: token}
	return s.DB.WithContext(ctx).Create(&row).Error
}

// DeleteRefreshTokens removes every refresh token for the user and reports
// how many rows were removed.
func (s *Store) DeleteRefreshTokens(ctx context.Context, userID string) (int64, error) {
	result := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
