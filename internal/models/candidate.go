package models

import "time"

// DefaultCandidateImage is the emoji shown when no photo is attached.
const DefaultCandidateImage = "👤"

type Candidate struct { //nolint:govet // fieldalignment not critical for models
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Party       string    `gorm:"not null" json:"party"`
	Description string    `json:"description"`
	Image       string    `gorm:"not null;default:👤" json:"image"`
	Photo       *string   `json:"photo"`
	ElectionID  int64     `gorm:"not null;index" json:"election_id"`
	Election    *Election `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
