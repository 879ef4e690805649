package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modifikasi/partsdesk/models"
	"github.com/modifikasi/partsdesk/utils"

	"gorm.io/gorm"
)

// CreateResetCode stores the hash of a freshly issued code. Older unused
// codes for the same email are retired so only the newest one verifies.
func (s *Store) CreateResetCode(ctx context.Context, email, codeHash string, ttl time.Duration) (*models.PasswordResetCode, error) {
	now := s.timestamp()
	reset := models.PasswordResetCode{
		Email:     normalizeEmail(email),
		CodeHash:  codeHash,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PasswordResetCode{}).
			Where("email = ? AND used_at IS NULL", reset.Email).
			Update("used_at", now).Error; err != nil {
			return err
		}
		return tx.Create(&reset).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create reset code: %w", err)
	}
	return &reset, nil
}

// VerifyResetCode checks code against the newest live code for email.
// Each check claims an attempt with a conditional increment before the hash
// comparison, so concurrent guesses cannot exceed maxAttempts. A matching
// code gives its attempt back; at maxAttempts misses the code stops working.
func (s *Store) VerifyResetCode(ctx context.Context, email, code string, maxAttempts int) (*models.PasswordResetCode, error) {
	db := s.db.WithContext(ctx)

	var reset models.PasswordResetCode
	err := db.
		Where("email = ? AND used_at IS NULL AND expires_at > ?", normalizeEmail(email), s.timestamp()).
		Order("created_at DESC").Order("id DESC").
		First(&reset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, fmt.Errorf("find reset code: %w", err)
	}

	res := db.Model(&models.PasswordResetCode{}).
		Where("id = ? AND attempts < ?", reset.ID, maxAttempts).
		UpdateColumn("attempts", gorm.Expr("attempts + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("record attempt: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrTooManyAttempts
	}

	if !utils.CheckSecret(reset.CodeHash, code) {
		var attempts int
		if err := db.Model(&models.PasswordResetCode{}).Where("id = ?", reset.ID).
			Select("attempts").Scan(&attempts).Error; err != nil {
			return nil, fmt.Errorf("read attempts: %w", err)
		}
		if attempts >= maxAttempts {
			return nil, ErrTooManyAttempts
		}
		return nil, ErrInvalidCode
	}

	if err := db.Model(&models.PasswordResetCode{}).Where("id = ? AND attempts > 0", reset.ID).
		UpdateColumn("attempts", gorm.Expr("attempts - ?", 1)).Error; err != nil {
		return nil, fmt.Errorf("release attempt: %w", err)
	}
	return &reset, nil
}

// ConsumeResetCode verifies the code, burns it and stores the new password
// hash in one transaction. A code can only be consumed once.
func (s *Store) ConsumeResetCode(ctx context.Context, email, code string, maxAttempts int, passwordHash string) error {
	reset, err := s.VerifyResetCode(ctx, email, code, maxAttempts)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PasswordResetCode{}).
			Where("id = ? AND used_at IS NULL", reset.ID).
			Update("used_at", s.timestamp())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidCode
		}

		res = tx.Model(&models.User{}).Where("email = ?", reset.Email).Update("password", passwordHash)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
