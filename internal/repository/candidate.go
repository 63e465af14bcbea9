package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/civickit/ballotbox/internal/models"
)

// ListCandidates returns all candidates for an election, ordered by name for
// deterministic display.
func (r *Repository) ListCandidates(ctx context.Context, electionID int64) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", electionID).
		Order("name ASC").
		Find(&candidates).Error; err != nil {
		return nil, wrapError(err)
	}
	return candidates, nil
}

// GetCandidate retrieves a candidate by ID.
func (r *Repository) GetCandidate(ctx context.Context, id int64) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.WithContext(ctx).First(&candidate, id).Error; err != nil {
		return nil, wrapError(err)
	}
	return &candidate, nil
}

// GetElectionCandidate retrieves a candidate only if it belongs to the given
// election.
func (r *Repository) GetElectionCandidate(ctx context.Context, id, electionID int64) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.db.WithContext(ctx).
		Where("id = ? AND election_id = ?", id, electionID).
		First(&candidate).Error
	if err != nil {
		return nil, wrapError(err)
	}
	return &candidate, nil
}

// CreateCandidate creates a new candidate.
func (r *Repository) CreateCandidate(ctx context.Context, candidate *models.Candidate) error {
	return wrapError(r.db.WithContext(ctx).Create(candidate).Error)
}

// UpdateCandidate updates an existing candidate.
func (r *Repository) UpdateCandidate(ctx context.Context, candidate *models.Candidate) error {
	return wrapError(r.db.WithContext(ctx).Save(candidate).Error)
}

// SetCandidatePhoto records the stored photo path for a candidate.
func (r *Repository) SetCandidatePhoto(ctx context.Context, id int64, path string) error {
	return wrapError(r.db.WithContext(ctx).
		Model(&models.Candidate{}).
		Where("id = ?", id).
		Update("photo", path).Error)
}

// DeleteCandidate deletes a candidate and cascades to its votes.
func (r *Repository) DeleteCandidate(ctx context.Context, id int64) error {
	return wrapError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("candidate_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Candidate{}, id).Error
	}))
}
