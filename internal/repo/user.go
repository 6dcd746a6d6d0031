package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/KruthikaDR/EventFlow-main/internal/models"
)

// CreateUser inserts a new account. Duplicate-key violations are sorted
// into ErrEmailTaken / ErrUsernameTaken by re-checking which key is
// already held; requires the connection to be opened with
// gorm.Config.TranslateError.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			taken, lookupErr := r.EmailExists(ctx, u.Email)
			if lookupErr == nil && taken {
				return ErrEmailTaken
			}
			return ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *GormRepo) UserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user by id: %w", err)
	}
	return &user, nil
}

func (r *GormRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user by email: %w", err)
	}
	return &user, nil
}

func (r *GormRepo) UserByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	// accounts without a session store "", which must never match
	if token == "" {
		return nil, ErrNotFound
	}
	var user models.User
	if err := r.DB.WithContext(ctx).Where("refresh_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user by refresh token: %w", err)
	}
	return &user, nil
}

func (r *GormRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("email exists: %w", err)
	}
	return count > 0, nil
}

func (r *GormRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("username exists: %w", err)
	}
	return count > 0, nil
}

// SetRefreshToken overwrites the stored session token unconditionally,
// which is what login and registration want: any prior session dies.
func (r *GormRepo) SetRefreshToken(ctx context.Context, userID, token string) error {
	result := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("refresh_token", token)
	if result.Error != nil {
		return fmt.Errorf("set refresh token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RotateRefreshToken swaps old for new only if old is still the stored
// value. Two concurrent refreshes with the same token get exactly one
// winner; the loser sees ErrSessionInvalidated.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, userID, old, next string) error {
	result := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", userID, old).
		Update("refresh_token", next)
	if result.Error != nil {
		return fmt.Errorf("rotate refresh token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSessionInvalidated
	}
	return nil
}

// ClearRefreshToken unsets whichever account holds the token. Matching
// zero rows is fine: logout is idempotent and leaks nothing about
// whether the token ever existed.
func (r *GormRepo) ClearRefreshToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	result := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("refresh_token = ?", token).
		Update("refresh_token", "")
	if result.Error != nil {
		return fmt.Errorf("clear refresh token: %w", result.Error)
	}
	return nil
}

func (r *GormRepo) DeleteUser(ctx context.Context, id string) error {
	if err := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
