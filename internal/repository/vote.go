package repository

import (
	"context"

	"github.com/civickit/ballotbox/internal/models"
)

// CandidateTally is one row of the per-candidate vote count query.
type CandidateTally struct { //nolint:govet // fieldalignment not critical
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Party       string  `json:"party"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Photo       *string `json:"photo"`
	Votes       int64   `json:"votes"`
}

// TurnoutStats counts voter-role accounts against those that have voted.
type TurnoutStats struct {
	TotalVoters int64 `json:"total_voters"`
	VotedCount  int64 `json:"voted_count"`
}

// CreateVote inserts one immutable vote row. When a concurrent request for
// the same (user, election) wins the race, the unique index rejects this
// insert and the error surfaces as ErrDuplicate.
func (r *Repository) CreateVote(ctx context.Context, vote *models.Vote) error {
	return wrapError(r.db.WithContext(ctx).Create(vote).Error)
}

// HasVoted reports whether the user already has a vote in the election.
func (r *Repository) HasVoted(ctx context.Context, userID, electionID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("user_id = ? AND election_id = ?", userID, electionID).
		Count(&count).Error; err != nil {
		return false, wrapError(err)
	}
	return count > 0, nil
}

// CountsByCandidate returns every candidate of the election with its vote
// count, ordered votes descending then name ascending.
func (r *Repository) CountsByCandidate(ctx context.Context, electionID int64) ([]CandidateTally, error) {
	var tallies []CandidateTally
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id, c.name, c.party, c.description, c.image, c.photo,
			COUNT(v.id) AS votes
		FROM candidates c
		LEFT JOIN votes v ON c.id = v.candidate_id AND v.election_id = ?
		WHERE c.election_id = ?
		GROUP BY c.id
		ORDER BY votes DESC, c.name ASC`,
		electionID, electionID).Scan(&tallies).Error
	if err != nil {
		return nil, wrapError(err)
	}
	return tallies, nil
}

// Turnout counts voter-role accounts and how many of them voted in the
// election. Admin accounts never enter the denominator.
func (r *Repository) Turnout(ctx context.Context, electionID int64) (*TurnoutStats, error) {
	var stats TurnoutStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(DISTINCT u.id) AS total_voters,
			COUNT(DISTINCT v.user_id) AS voted_count
		FROM users u
		LEFT JOIN votes v ON u.id = v.user_id AND v.election_id = ?
		WHERE u.role = ?`,
		electionID, models.RoleVoter).Scan(&stats).Error
	if err != nil {
		return nil, wrapError(err)
	}
	return &stats, nil
}
