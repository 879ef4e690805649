package models

import (
	"time"
)

// Roles
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// Account statuses
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusDenied    = "denied"
)

// User represents a profile in the system. Role stays empty until an owner
// approves the account.
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Email      string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Username   string    `json:"username" gorm:"size:120;uniqueIndex:idx_users_username_unique,where:username <> ''"`
	FullName   string    `json:"full_name" gorm:"size:160"`
	Password   string    `json:"-" gorm:"size:255;not null"` // Don't return password in JSON
	Role       string    `json:"role" gorm:"size:16"`
	Status     string    `json:"status" gorm:"size:16;not null;default:'pending'"`
	ShopName   string    `json:"shop_name" gorm:"size:160"`
	OwnerName  string    `json:"owner_name" gorm:"size:160"`
	Contact    string    `json:"contact" gorm:"size:80"`
	Location   string    `json:"location" gorm:"size:255"`
	ProfilePic string    `json:"profile_pic" gorm:"size:512"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserRegister holds data needed for sign-up
type UserRegister struct {
	FullName string `json:"full_name" binding:"required"`
	Username string `json:"username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// UserLogin holds data needed for sign-in. Login matches either email or username.
type UserLogin struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RoleInput approves an account as owner or admin
type RoleInput struct {
	Role string `json:"role" binding:"required,oneof=owner admin"`
}

// ProfileInput holds the editable shop profile fields
type ProfileInput struct {
	ShopName  string `json:"shop_name"`
	OwnerName string `json:"owner_name"`
	Contact   string `json:"contact"`
	Location  string `json:"location"`
}
