package handlers

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/civickit/ballotbox/internal/middleware"
	"github.com/civickit/ballotbox/internal/repository"
	"github.com/civickit/ballotbox/internal/services/voting"
)

type castVoteRequest struct {
	CandidateID int64 `json:"candidate_id"`
	ElectionID  int64 `json:"election_id"`
}

// GetCandidates handles GET /voter/get_candidates: lists candidates for the
// given election, or the active one when none is given.
func (h *Handlers) GetCandidates(c echo.Context) error {
	ctx := c.Request().Context()

	electionID, err := h.voting.ResolveElection(ctx, queryInt64(c, "election_id"))
	if err != nil {
		if errors.Is(err, voting.ErrNoActiveElection) {
			return ok(c, "No active election", echo.Map{"candidates": []echo.Map{}})
		}
		return storageError(c, "get_candidates", err)
	}

	candidates, err := h.repo.ListCandidates(ctx, electionID)
	if err != nil {
		return storageError(c, "get_candidates", err)
	}

	out := make([]echo.Map, len(candidates))
	for i := range candidates {
		out[i] = h.candidatePayload(&candidates[i])
	}

	return ok(c, "Candidates retrieved successfully", echo.Map{
		"candidates":  out,
		"election_id": electionID,
	})
}

// CastVote handles POST /voter/cast_vote.
func (h *Handlers) CastVote(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req castVoteRequest
	if err := c.Bind(&req); err != nil {
		return reject(c, "Invalid request body")
	}
	if req.CandidateID <= 0 {
		return reject(c, "Invalid candidate")
	}

	receipt, err := h.voting.Cast(c.Request().Context(), user.ID, req.CandidateID, req.ElectionID)
	if err != nil {
		switch {
		case errors.Is(err, voting.ErrNoActiveElection):
			h.metrics.VotesRejected.WithLabelValues("no_active_election").Inc()
			return reject(c, "No active election found")
		case errors.Is(err, voting.ErrElectionNotActive):
			h.metrics.VotesRejected.WithLabelValues("election_not_active").Inc()
			return reject(c, "Election is not currently active")
		case errors.Is(err, voting.ErrAlreadyVoted):
			h.metrics.VotesRejected.WithLabelValues("already_voted").Inc()
			return reject(c, "You have already voted in this election")
		case errors.Is(err, voting.ErrInvalidCandidate):
			h.metrics.VotesRejected.WithLabelValues("invalid_candidate").Inc()
			return reject(c, "Invalid candidate or candidate not in this election")
		default:
			h.metrics.VotesRejected.WithLabelValues("storage").Inc()
			return storageError(c, "cast_vote", err)
		}
	}

	h.metrics.VotesCast.Inc()

	return ok(c, "Vote cast successfully for "+receipt.CandidateName+"!", echo.Map{
		"voted":          true,
		"candidate_name": receipt.CandidateName,
		"election_id":    receipt.ElectionID,
	})
}

// CheckVoteStatus handles GET /voter/check_vote_status.
func (h *Handlers) CheckVoteStatus(c echo.Context) error {
	user := middleware.CurrentUser(c)

	status, err := h.voting.Status(c.Request().Context(), user.ID, queryInt64(c, "election_id"))
	if err != nil {
		return storageError(c, "check_vote_status", err)
	}

	if status.ElectionID == 0 {
		return ok(c, "No active election", echo.Map{
			"has_voted":       false,
			"election_active": false,
		})
	}

	return ok(c, "Vote status retrieved", echo.Map{
		"has_voted":       status.HasVoted,
		"election_active": status.ElectionActive,
		"election_id":     status.ElectionID,
	})
}

// GetElectionStatus handles GET /voter/get_election_status.
func (h *Handlers) GetElectionStatus(c echo.Context) error {
	ctx := c.Request().Context()

	if id := queryInt64(c, "id"); id > 0 {
		election, err := h.repo.GetElection(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return reject(c, "Election not found")
			}
			return storageError(c, "get_election_status", err)
		}
		return ok(c, "Election found", echo.Map{"election": election})
	}

	electionID, err := h.voting.ResolveElection(ctx, 0)
	if err != nil {
		if errors.Is(err, voting.ErrNoActiveElection) {
			return ok(c, "No active election", echo.Map{
				"election": echo.Map{"status": "closed"},
			})
		}
		return storageError(c, "get_election_status", err)
	}

	election, err := h.repo.GetElection(ctx, electionID)
	if err != nil {
		return storageError(c, "get_election_status", err)
	}
	return ok(c, "Election found", echo.Map{"election": election})
}
