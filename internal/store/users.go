package store

import (
	"context"
	"fmt"
	"time"

	"joybor-backend/internal/authz"
	"joybor-backend/internal/model"
)

func (s *gormStore) CreateUser(ctx context.Context, user *model.User) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ? OR email = ?", user.Username, user.Email).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check user uniqueness: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("username or email already taken: %w", ErrDuplicate)
	}
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *gormStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *gormStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *gormStore) ListUsers(ctx context.Context, caller *model.User) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).
		Scopes(authz.Scope(authz.ResourceUser, caller)).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (s *gormStore) UpdateUser(ctx context.Context, caller *model.User, id int64, upd UserUpdate) (*model.User, error) {
	if !authz.IsSuperAdmin(caller) && caller.ID != id {
		return nil, ErrForbidden
	}

	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}

	if upd.FirstName != nil {
		user.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		user.LastName = *upd.LastName
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}

	// Role and status changes are a superadmin capability. For any other
	// caller the fields are stripped, not rejected.
	if authz.IsSuperAdmin(caller) {
		if upd.Role != nil {
			if !upd.Role.Valid() {
				return nil, fmt.Errorf("unknown role %q: %w", *upd.Role, ErrValidation)
			}
			user.Role = *upd.Role
		}
		if upd.Status != nil {
			user.Status = *upd.Status
		}
	}

	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) DeleteUser(ctx context.Context, caller *model.User, id int64) error {
	if !authz.IsSuperAdmin(caller) {
		return ErrForbidden
	}
	res := s.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) SetPassword(ctx context.Context, userID int64, hash string) error {
	return s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash).Error
}

func (s *gormStore) SetResetToken(ctx context.Context, email, token string, expires time.Time) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}

	user.ResetPasswordToken = token
	user.ResetPasswordTokenExpires = &expires
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) ConsumeResetToken(ctx context.Context, token, newHash string) error {
	if token == "" {
		return ErrResetToken
	}

	var user model.User
	err := s.db.WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_token_expires > ?", token, time.Now()).
		First(&user).Error
	if err != nil {
		if notFound(err) == ErrNotFound {
			return ErrResetToken
		}
		return err
	}

	return s.db.WithContext(ctx).Model(&user).Updates(map[string]any{
		"password_hash":                newHash,
		"reset_password_token":         "",
		"reset_password_token_expires": nil,
	}).Error
}

func (s *gormStore) GetProfile(ctx context.Context, caller *model.User, userID int64) (*model.UserProfile, error) {
	if !authz.IsSuperAdmin(caller) && caller.ID != userID {
		return nil, ErrNotFound
	}
	var profile model.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}

func (s *gormStore) SaveProfile(ctx context.Context, caller *model.User, profile *model.UserProfile) error {
	if !authz.IsSuperAdmin(caller) && caller.ID != profile.UserID {
		return ErrForbidden
	}

	var existing model.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", profile.UserID).First(&existing).Error
	if err == nil {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	}
	return s.db.WithContext(ctx).Save(profile).Error
}
