// Package models defines the persisted entities of the voting service.
package models

// AllModels returns all models for database migration.
func AllModels() []any {
	return []any{
		&User{},
		&Election{},
		&Candidate{},
		&Vote{},
		&PasswordResetToken{},
	}
}
