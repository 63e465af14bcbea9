package models

import "time"

// PasswordResetToken stores the SHA-256 hash of a reset token, never the
// plaintext. Single use: deleted on successful reset or by cleanup.
type PasswordResetToken struct { //nolint:govet // fieldalignment not critical for models
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"not null;index" json:"email"`
	TokenHash string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
