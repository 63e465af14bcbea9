package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/civickit/ballotbox/internal/models"
)

// ActiveElection returns the election whose status is active and whose window
// contains now. If several qualify the highest id wins, deterministically.
// Returns ErrNotFound when no election is currently active.
func (r *Repository) ActiveElection(ctx context.Context, now time.Time) (*models.Election, error) {
	var election models.Election
	err := r.db.WithContext(ctx).
		Where("status = ? AND start_date <= ? AND end_date >= ?", models.ElectionActive, now, now).
		Order("id DESC").
		First(&election).Error
	if err != nil {
		return nil, wrapError(err)
	}
	return &election, nil
}

// IsElectionActive re-validates status and window at the moment of the call.
// The decision is never cached; it must be correct at the instant of voting.
func (r *Repository) IsElectionActive(ctx context.Context, id int64, now time.Time) (bool, error) {
	election, err := r.GetElection(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return election.IsActiveAt(now), nil
}

// GetElection retrieves an election by ID.
func (r *Repository) GetElection(ctx context.Context, id int64) (*models.Election, error) {
	var election models.Election
	if err := r.db.WithContext(ctx).First(&election, id).Error; err != nil {
		return nil, wrapError(err)
	}
	return &election, nil
}

// ListElections returns all elections, newest first.
func (r *Repository) ListElections(ctx context.Context) ([]models.Election, error) {
	var elections []models.Election
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&elections).Error; err != nil {
		return nil, wrapError(err)
	}
	return elections, nil
}

// CreateElection creates a new election.
func (r *Repository) CreateElection(ctx context.Context, election *models.Election) error {
	return wrapError(r.db.WithContext(ctx).Create(election).Error)
}

// UpdateElection updates an existing election.
func (r *Repository) UpdateElection(ctx context.Context, election *models.Election) error {
	return wrapError(r.db.WithContext(ctx).Save(election).Error)
}

// DeleteElection deletes an election by ID together with its candidates and
// their votes.
func (r *Repository) DeleteElection(ctx context.Context, id int64) error {
	return wrapError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("election_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("election_id = ?", id).Delete(&models.Candidate{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Election{}, id).Error
	}))
}
