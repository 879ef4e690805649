package store

import (
	"context"
	"fmt"
	"time"

	"github.com/modifikasi/partsdesk/models"

	"gorm.io/gorm/clause"
)

// RevokeToken blocks a token id until expiresAt
func (s *Store) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.RevokedToken{JTI: jti, ExpiresAt: expiresAt.UTC()}).Error
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token id was signed out
func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.RevokedToken{}).Where("jti = ?", jti).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return count > 0, nil
}

// PurgeExpired drops revocations and reset codes that can no longer matter
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	now := s.timestamp()
	res := s.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.RevokedToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge tokens: %w", res.Error)
	}
	purged := res.RowsAffected

	res = s.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.PasswordResetCode{})
	if res.Error != nil {
		return purged, fmt.Errorf("purge reset codes: %w", res.Error)
	}
	return purged + res.RowsAffected, nil
}
