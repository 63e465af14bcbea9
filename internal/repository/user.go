package repository

import (
	"context"

	"github.com/civickit/ballotbox/internal/models"
)

// CreateUser creates a new user. A duplicate email yields ErrDuplicate.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return wrapError(r.db.WithContext(ctx).Create(user).Error)
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by their email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// UpdateUserPassword updates the password hash for every account with the
// given email address.
func (r *Repository) UpdateUserPassword(ctx context.Context, email, passwordHash string) error {
	return wrapError(r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Update("password_hash", passwordHash).Error)
}

// ListUsersByRole returns all users with the given role, newest first.
func (r *Repository) ListUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, wrapError(err)
	}
	return users, nil
}

// CountAdmins returns the number of admin users.
func (r *Repository) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return 0, wrapError(err)
	}
	return count, nil
}
