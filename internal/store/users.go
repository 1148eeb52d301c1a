package store

import (
	"context"
	"time"

	"github.com/diewo77/seeker/internal/models"
	"gorm.io/gorm"
)

// UserStore persists accounts.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts u. The email is expected to be normalized already.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	return translate("create user", s.db.WithContext(ctx).Create(u).Error)
}

func (s *UserStore) ByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate("user by id", err)
	}
	return &u, nil
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&u).Error
	if err != nil {
		return nil, translate("user by email", err)
	}
	return &u, nil
}

// Exists reports whether an account with id is still present.
func (s *UserStore) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, translate("user exists", err)
	}
	return n > 0, nil
}

// SetOTP overwrites the pending code and expiry, invalidating any earlier code.
func (s *UserStore) SetOTP(ctx context.Context, id uint, code string, expiresAt time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{"otp_code": code, "otp_expires_at": expiresAt})
	if res.Error != nil {
		return translate("set otp", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ConsumeOTP marks the user verified and clears the pending code, but only
// while code is still the stored one. It reports false when another request
// consumed or replaced the code first.
func (s *UserStore) ConsumeOTP(ctx context.Context, id uint, code string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND otp_code = ? AND is_verified = ?", id, code, false).
		Updates(map[string]any{"is_verified": true, "otp_code": nil, "otp_expires_at": nil})
	if res.Error != nil {
		return false, translate("consume otp", res.Error)
	}
	return res.RowsAffected == 1, nil
}
