// Package voting is the core engine: it enforces one vote per user per
// election, validates election and candidate state at cast time, and
// computes tallies and turnout.
package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/civickit/ballotbox/internal/models"
	"github.com/civickit/ballotbox/internal/repository"
)

var (
	ErrNoActiveElection  = errors.New("no active election")
	ErrElectionNotActive = errors.New("election is not currently active")
	ErrAlreadyVoted      = errors.New("already voted in this election")
	ErrInvalidCandidate  = errors.New("invalid candidate for this election")
)

type Service struct {
	repo *repository.Repository
}

func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Receipt confirms a successful cast.
type Receipt struct {
	CandidateName string `json:"candidate_name"`
	ElectionID    int64  `json:"election_id"`
}

// CandidateResult is one ranked row of an election result.
type CandidateResult struct { //nolint:govet // fieldalignment not critical
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Party       string  `json:"party"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Photo       *string `json:"photo"`
	Votes       int64   `json:"votes"`
	Percentage  float64 `json:"percentage"`
	PhotoURL    string  `json:"photo_url"`
}

// Stats summarizes participation for an election.
type Stats struct { //nolint:govet // fieldalignment not critical
	TotalVoters       int64   `json:"total_voters"`
	VotedCount        int64   `json:"voted_count"`
	PendingCount      int64   `json:"pending_count"`
	TotalCandidates   int     `json:"total_candidates"`
	TurnoutPercentage float64 `json:"turnout_percentage"`
}

// Results bundles ranked candidates with participation stats.
type Results struct {
	ElectionID int64             `json:"election_id"`
	Candidates []CandidateResult `json:"results"`
	Stats      Stats             `json:"stats"`
}

// VoteStatus reports whether a user has voted and whether the election is
// accepting votes.
type VoteStatus struct {
	HasVoted       bool  `json:"has_voted"`
	ElectionActive bool  `json:"election_active"`
	ElectionID     int64 `json:"election_id"`
}

// ResolveElection substitutes the current active election when electionID is
// unspecified or non-positive.
func (s *Service) ResolveElection(ctx context.Context, electionID int64) (int64, error) {
	if electionID > 0 {
		return electionID, nil
	}
	election, err := s.repo.ActiveElection(ctx, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrNoActiveElection
		}
		return 0, fmt.Errorf("failed to resolve active election: %w", err)
	}
	return election.ID, nil
}

// Cast records one vote. Preconditions are checked in order and the first
// violation wins: active election resolution, election window, prior vote,
// candidate membership. The check in step three is advisory only; the unique
// index on (user_id, election_id) settles concurrent casts, and its
// violation surfaces here as ErrAlreadyVoted rather than a generic failure.
func (s *Service) Cast(ctx context.Context, userID, candidateID, electionID int64) (*Receipt, error) {
	if candidateID <= 0 {
		return nil, ErrInvalidCandidate
	}

	electionID, err := s.ResolveElection(ctx, electionID)
	if err != nil {
		return nil, err
	}

	active, err := s.repo.IsElectionActive(ctx, electionID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to check election state: %w", err)
	}
	if !active {
		return nil, ErrElectionNotActive
	}

	voted, err := s.repo.HasVoted(ctx, userID, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check vote status: %w", err)
	}
	if voted {
		return nil, ErrAlreadyVoted
	}

	candidate, err := s.repo.GetElectionCandidate(ctx, candidateID, electionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCandidate
		}
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}

	vote := &models.Vote{
		UserID:      userID,
		CandidateID: candidateID,
		ElectionID:  electionID,
	}
	if err := s.repo.CreateVote(ctx, vote); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost the race against a concurrent cast by the same user.
			return nil, ErrAlreadyVoted
		}
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}

	slog.Info("vote_cast", "user_id", userID, "candidate_id", candidateID, "election_id", electionID)

	return &Receipt{
		CandidateName: candidate.Name,
		ElectionID:    electionID,
	}, nil
}

// GetResults computes the ranked tally and turnout for an election.
// Percentages are votes/total*100 rounded to one decimal, and 0 when no
// votes exist. Turnout counts voter-role accounts only.
func (s *Service) GetResults(ctx context.Context, electionID int64) (*Results, error) {
	electionID, err := s.ResolveElection(ctx, electionID)
	if err != nil {
		return nil, err
	}

	tallies, err := s.repo.CountsByCandidate(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to tally votes: %w", err)
	}

	var totalVotes int64
	for _, t := range tallies {
		totalVotes += t.Votes
	}

	candidates := make([]CandidateResult, len(tallies))
	for i, t := range tallies {
		var pct float64
		if totalVotes > 0 {
			pct = roundOne(float64(t.Votes) / float64(totalVotes) * 100)
		}
		candidates[i] = CandidateResult{
			ID:          t.ID,
			Name:        t.Name,
			Party:       t.Party,
			Description: t.Description,
			Image:       t.Image,
			Photo:       t.Photo,
			Votes:       t.Votes,
			Percentage:  pct,
		}
	}

	turnout, err := s.repo.Turnout(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute turnout: %w", err)
	}

	var turnoutPct float64
	if turnout.TotalVoters > 0 {
		turnoutPct = roundOne(float64(turnout.VotedCount) / float64(turnout.TotalVoters) * 100)
	}

	return &Results{
		ElectionID: electionID,
		Candidates: candidates,
		Stats: Stats{
			TotalVoters:       turnout.TotalVoters,
			VotedCount:        turnout.VotedCount,
			PendingCount:      turnout.TotalVoters - turnout.VotedCount,
			TotalCandidates:   len(tallies),
			TurnoutPercentage: turnoutPct,
		},
	}, nil
}

// Status reports vote and election state for a user. When no election is
// active and none was given, it returns a zero status instead of an error.
func (s *Service) Status(ctx context.Context, userID, electionID int64) (*VoteStatus, error) {
	electionID, err := s.ResolveElection(ctx, electionID)
	if err != nil {
		if errors.Is(err, ErrNoActiveElection) {
			return &VoteStatus{}, nil
		}
		return nil, err
	}

	voted, err := s.repo.HasVoted(ctx, userID, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check vote status: %w", err)
	}

	active, err := s.repo.IsElectionActive(ctx, electionID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to check election state: %w", err)
	}

	return &VoteStatus{
		HasVoted:       voted,
		ElectionActive: active,
		ElectionID:     electionID,
	}, nil
}

func roundOne(v float64) float64 {
	return math.Round(v*10) / 10
}
