package models

import "time"

// Election lifecycle states. Transitions are admin-driven:
// pending -> active -> closed.
const (
	ElectionPending = "pending"
	ElectionActive  = "active"
	ElectionClosed  = "closed"
)

// ValidElectionStatus reports whether s is one of the defined states.
func ValidElectionStatus(s string) bool {
	switch s {
	case ElectionPending, ElectionActive, ElectionClosed:
		return true
	}
	return false
}

type Election struct { //nolint:govet // fieldalignment not critical for models
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Status      string    `gorm:"not null;default:pending" json:"status"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// IsActiveAt reports whether the election accepts votes at the given instant.
func (e *Election) IsActiveAt(now time.Time) bool {
	return e.Status == ElectionActive &&
		!now.Before(e.StartDate) &&
		!now.After(e.EndDate)
}
