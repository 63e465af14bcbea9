package repository

import (
	"context"
	"time"

	"github.com/civickit/ballotbox/internal/models"
)

// CreateResetToken stores a new password reset token hash.
func (r *Repository) CreateResetToken(ctx context.Context, token *models.PasswordResetToken) error {
	return wrapError(r.db.WithContext(ctx).Create(token).Error)
}

// GetValidResetToken retrieves an unexpired token by its hash.
func (r *Repository) GetValidResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	err := r.db.WithContext(ctx).
		Where("token_hash = ? AND expires_at > ?", tokenHash, now).
		First(&token).Error
	if err != nil {
		return nil, wrapError(err)
	}
	return &token, nil
}

// DeleteResetToken deletes a token by ID. Tokens are single use.
func (r *Repository) DeleteResetToken(ctx context.Context, id int64) error {
	return wrapError(r.db.WithContext(ctx).Delete(&models.PasswordResetToken{}, id).Error)
}

// CountRecentResetRequests counts tokens issued for an email inside the
// sliding rate-limit window.
func (r *Repository) CountRecentResetRequests(ctx context.Context, email string, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PasswordResetToken{}).
		Where("email = ? AND created_at > ?", email, since).
		Count(&count).Error; err != nil {
		return 0, wrapError(err)
	}
	return count, nil
}

// DeleteResetTokensBefore removes tokens created before the cutoff.
func (r *Repository) DeleteResetTokensBefore(ctx context.Context, cutoff time.Time) error {
	return wrapError(r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.PasswordResetToken{}).Error)
}
