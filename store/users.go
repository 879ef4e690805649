package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modifikasi/partsdesk/models"

	"gorm.io/gorm"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser inserts a new profile. Emails are unique case-insensitively;
// usernames are optional, unique, and may not look like an email so they
// can never shadow someone else's sign-in.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	user.Username = strings.TrimSpace(user.Username)
	if strings.Contains(user.Username, "@") {
		return ErrInvalidUsername
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return ErrEmailTaken
	}
	if user.Username != "" {
		if err := db.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if count > 0 {
			return ErrUsernameTaken
		}
	}

	if user.Status == "" {
		user.Status = models.StatusPending
	}
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race with a concurrent sign-up
			return s.duplicateUser(ctx, user)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// duplicateUser names the unique column a failed insert collided with
func (s *Store) duplicateUser(ctx context.Context, user *models.User) error {
	if user.Username != "" {
		var count int64
		err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error
		if err == nil && count > 0 {
			return ErrUsernameTaken
		}
	}
	return ErrEmailTaken
}

// FindByLogin looks a user up by email, falling back to username only when
// no account has that email
func (s *Store) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	login = strings.TrimSpace(login)

	user, err := s.FindByEmail(ctx, login)
	if !errors.Is(err, ErrNotFound) {
		return user, err
	}

	var byName models.User
	if err := s.db.WithContext(ctx).Where("username = ? AND username <> ''", login).First(&byName).Error; err != nil {
		return nil, notFound(err)
	}
	return &byName, nil
}

// FindByEmail retrieves a user by email
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetUser retrieves a user by id
func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// ListUsersExcept returns every profile other than the caller's
func (s *Store) ListUsersExcept(ctx context.Context, id uint) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id <> ?", id).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Store) updateOther(ctx context.Context, actorID, id uint, fields map[string]interface{}) (*models.User, error) {
	if actorID == id {
		return nil, ErrSelf
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetUser(ctx, id)
}

// ApproveRole grants owner or admin and activates the account
func (s *Store) ApproveRole(ctx context.Context, actorID, id uint, role string) (*models.User, error) {
	return s.updateOther(ctx, actorID, id, map[string]interface{}{
		"role":   role,
		"status": models.StatusActive,
	})
}

// DenyAccount marks an application as denied
func (s *Store) DenyAccount(ctx context.Context, actorID, id uint) (*models.User, error) {
	return s.updateOther(ctx, actorID, id, map[string]interface{}{
		"status": models.StatusDenied,
	})
}

// ToggleStatus flips active and suspended; any other status becomes active
func (s *Store) ToggleStatus(ctx context.Context, actorID, id uint) (*models.User, error) {
	if actorID == id {
		return nil, ErrSelf
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	next := models.StatusActive
	if user.Status == models.StatusActive {
		next = models.StatusSuspended
	}
	return s.updateOther(ctx, actorID, id, map[string]interface{}{"status": next})
}

// DeleteUser removes a profile
func (s *Store) DeleteUser(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return ErrSelf
	}
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile saves the shop profile fields
func (s *Store) UpdateProfile(ctx context.Context, id uint, input models.ProfileInput) (*models.User, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"shop_name":  strings.TrimSpace(input.ShopName),
		"owner_name": strings.TrimSpace(input.OwnerName),
		"contact":    strings.TrimSpace(input.Contact),
		"location":   strings.TrimSpace(input.Location),
	})
	if res.Error != nil {
		return nil, fmt.Errorf("update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetUser(ctx, id)
}

// SetProfilePic stores the public URL of an uploaded avatar
func (s *Store) SetProfilePic(ctx context.Context, id uint, url string) (*models.User, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("profile_pic", url)
	if res.Error != nil {
		return nil, fmt.Errorf("set profile pic: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetUser(ctx, id)
}
