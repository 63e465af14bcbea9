package models

import "time"

// Vote is immutable once created. The composite unique index on
// (user_id, election_id) is the authoritative guard against double voting:
// concurrent casts race to the insert and the storage layer rejects the loser.
type Vote struct { //nolint:govet // fieldalignment not critical for models
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64      `gorm:"not null;uniqueIndex:idx_votes_user_election" json:"user_id"`
	CandidateID int64      `gorm:"not null;index" json:"candidate_id"`
	Candidate   *Candidate `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ElectionID  int64      `gorm:"not null;uniqueIndex:idx_votes_user_election" json:"election_id"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
}
