package models

import (
	"time"
)

// PasswordResetCode is a short-lived code for the forgot-password flow.
// Only the bcrypt hash of the code is stored.
type PasswordResetCode struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Email     string     `json:"email" gorm:"size:255;not null;index"`
	CodeHash  string     `json:"-" gorm:"size:255;not null"`
	Attempts  int        `json:"attempts" gorm:"not null;default:0"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// RevokedToken blocks a JWT id until the token would have expired anyway
type RevokedToken struct {
	JTI       string    `gorm:"primaryKey;size:64"`
	ExpiresAt time.Time `gorm:"index"`
}

type ResetRequestInput struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetVerifyInput struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type ResetConfirmInput struct {
	Email           string `json:"email" binding:"required,email"`
	Code            string `json:"code" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// All lists every model for AutoMigrate
func All() []interface{} {
	return []interface{}{
		&User{},
		&Part{},
		&SaleRecord{},
		&PartInteraction{},
		&PasswordResetCode{},
		&RevokedToken{},
	}
}
