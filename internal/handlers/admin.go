package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/civickit/ballotbox/internal/models"
	"github.com/civickit/ballotbox/internal/repository"
	"github.com/civickit/ballotbox/internal/services/auth"
	"github.com/civickit/ballotbox/internal/services/voting"
	"github.com/civickit/ballotbox/internal/upload"
	"github.com/civickit/ballotbox/internal/validate"
)

type electionRequest struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type deleteRequest struct {
	ID int64 `json:"id"`
}

// candidateInput is the normalized form of a candidate payload. The same
// struct binds JSON bodies and multipart form fields, so business logic
// never sees the request shape.
type candidateInput struct {
	ID          int64  `json:"id" form:"id"`
	Name        string `json:"name" form:"name"`
	Party       string `json:"party" form:"party"`
	Description string `json:"description" form:"description"`
	Image       string `json:"image" form:"image"`
	ElectionID  int64  `json:"election_id" form:"election_id"`
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// AddAdmin handles POST /admin/add_admin: creates another admin account.
func (h *Handlers) AddAdmin(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return reject(c, "Invalid request body")
	}

	_, err := h.auth.Register(c.Request().Context(), auth.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		var invalid *auth.InvalidInputError
		switch {
		case errors.As(err, &invalid):
			return reject(c, invalid.Result.Message())
		case errors.Is(err, auth.ErrEmailTaken):
			return reject(c, "Email already registered")
		default:
			return storageError(c, "add_admin", err)
		}
	}

	return ok(c, "Admin account created successfully", nil)
}

// GetUsers handles GET /admin/get_users: lists voter accounts with their
// vote status for the active election.
func (h *Handlers) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.repo.ListUsersByRole(ctx, models.RoleVoter)
	if err != nil {
		return storageError(c, "get_users", err)
	}

	electionID, err := h.voting.ResolveElection(ctx, 0)
	if err != nil && !errors.Is(err, voting.ErrNoActiveElection) {
		return storageError(c, "get_users", err)
	}

	out := make([]echo.Map, len(users))
	for i, u := range users {
		voted := false
		if electionID > 0 {
			voted, err = h.repo.HasVoted(ctx, u.ID, electionID)
			if err != nil {
				return storageError(c, "get_users", err)
			}
		}
		out[i] = echo.Map{
			"id":         u.ID,
			"name":       u.Name,
			"email":      u.Email,
			"created_at": u.CreatedAt,
			"has_voted":  voted,
		}
	}

	return ok(c, "Users retrieved", echo.Map{"users": out})
}

// ManageElectionGet handles GET /admin/manage_election: one election by id,
// or all of them.
func (h *Handlers) ManageElectionGet(c echo.Context) error {
	ctx := c.Request().Context()

	if id := queryInt64(c, "id"); id > 0 {
		election, err := h.repo.GetElection(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return reject(c, "Election not found")
			}
			return storageError(c, "get_election", err)
		}
		return ok(c, "Election retrieved", echo.Map{"election": election})
	}

	elections, err := h.repo.ListElections(ctx)
	if err != nil {
		return storageError(c, "list_elections", err)
	}
	return ok(c, "Elections retrieved", echo.Map{"elections": elections})
}

// ManageElectionPost handles POST /admin/manage_election: create when no id
// is given, update otherwise.
func (h *Handlers) ManageElectionPost(c echo.Context) error {
	var req electionRequest
	if err := c.Bind(&req); err != nil {
		return reject(c, "Invalid request body")
	}

	title := validate.Sanitize(req.Title)
	if title == "" {
		return reject(c, "Election title is required")
	}

	status := req.Status
	if status == "" {
		status = models.ElectionPending
	}
	if !models.ValidElectionStatus(status) {
		return reject(c, "Invalid status")
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return reject(c, "Invalid start date")
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return reject(c, "Invalid end date")
	}

	ctx := c.Request().Context()

	if req.ID > 0 {
		election, err := h.repo.GetElection(ctx, req.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return reject(c, "Election not found")
			}
			return storageError(c, "get_election", err)
		}
		election.Title = title
		election.Description = validate.Sanitize(req.Description)
		election.Status = status
		election.StartDate = startDate
		election.EndDate = endDate
		if err := h.repo.UpdateElection(ctx, election); err != nil {
			return storageError(c, "update_election", err)
		}
		return ok(c, "Election updated successfully", nil)
	}

	election := &models.Election{
		Title:       title,
		Description: validate.Sanitize(req.Description),
		Status:      status,
		StartDate:   startDate,
		EndDate:     endDate,
	}
	if err := h.repo.CreateElection(ctx, election); err != nil {
		return storageError(c, "create_election", err)
	}
	return ok(c, "Election created successfully", echo.Map{"election_id": election.ID})
}

// ManageElectionDelete handles DELETE /admin/manage_election.
func (h *Handlers) ManageElectionDelete(c echo.Context) error {
	var req deleteRequest
	if err := c.Bind(&req); err != nil {
		return reject(c, "Invalid request body")
	}
	if req.ID <= 0 {
		return reject(c, "Invalid election ID")
	}

	if err := h.repo.DeleteElection(c.Request().Context(), req.ID); err != nil {
		return storageError(c, "delete_election", err)
	}
	return ok(c, "Election deleted successfully", nil)
}

// AddCandidate handles POST /admin/add_candidate. Accepts JSON or multipart
// form data; a failed photo store reports a warning but never rolls back the
// candidate row.
func (h *Handlers) AddCandidate(c echo.Context) error {
	var input candidateInput
	if err := c.Bind(&input); err != nil {
		return reject(c, "Invalid request body")
	}

	name := validate.Sanitize(input.Name)
	party := validate.Sanitize(input.Party)
	if name == "" {
		return reject(c, "Candidate name is required")
	}
	if party == "" {
		return reject(c, "Party name is required")
	}

	ctx := c.Request().Context()

	electionID, err := h.voting.ResolveElection(ctx, input.ElectionID)
	if err != nil {
		if errors.Is(err, voting.ErrNoActiveElection) {
			return reject(c, "No active election found")
		}
		return storageError(c, "add_candidate", err)
	}
	if _, err := h.repo.GetElection(ctx, electionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return reject(c, "Invalid election")
		}
		return storageError(c, "add_candidate", err)
	}

	image := validate.Sanitize(input.Image)
	if image == "" {
		image = models.DefaultCandidateImage
	}

	candidate := &models.Candidate{
		Name:        name,
		Party:       party,
		Description: validate.Sanitize(input.Description),
		Image:       image,
		ElectionID:  electionID,
	}
	if err := h.repo.CreateCandidate(ctx, candidate); err != nil {
		return storageError(c, "add_candidate", err)
	}

	message := "Candidate added successfully"
	if warn := h.attachPhoto(c, candidate); warn != "" {
		message += ". " + warn
	}

	return ok(c, message, echo.Map{"candidate": h.candidatePayload(candidate)})
}

// EditCandidate handles POST /admin/edit_candidate. The whole record is
// replaced, so omitting the description clears it and omitting the image
// falls back to the default.
func (h *Handlers) EditCandidate(c echo.Context) error {
	var input candidateInput
	if err := c.Bind(&input); err != nil {
		return reject(c, "Invalid request body")
	}
	if input.ID <= 0 {
		return reject(c, "Invalid candidate ID")
	}

	name := validate.Sanitize(input.Name)
	party := validate.Sanitize(input.Party)
	if name == "" {
		return reject(c, "Candidate name is required")
	}
	if party == "" {
		return reject(c, "Party name is required")
	}

	ctx := c.Request().Context()

	candidate, err := h.repo.GetCandidate(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return reject(c, "Candidate not found")
		}
		return storageError(c, "edit_candidate", err)
	}

	image := validate.Sanitize(input.Image)
	if image == "" {
		image = models.DefaultCandidateImage
	}

	candidate.Name = name
	candidate.Party = party
	candidate.Description = validate.Sanitize(input.Description)
	candidate.Image = image

	if err := h.repo.UpdateCandidate(ctx, candidate); err != nil {
		return storageError(c, "edit_candidate", err)
	}

	message := "Candidate updated successfully"
	if warn := h.attachPhoto(c, candidate); warn != "" {
		message += ". " + warn
	}

	return ok(c, message, echo.Map{"candidate": h.candidatePayload(candidate)})
}

// DeleteCandidate handles POST /admin/delete_candidate. Votes for the
// candidate are removed with it.
func (h *Handlers) DeleteCandidate(c echo.Context) error {
	var req deleteRequest
	if err := c.Bind(&req); err != nil {
		return reject(c, "Invalid request body")
	}
	if req.ID <= 0 {
		return reject(c, "Invalid candidate ID")
	}

	ctx := c.Request().Context()

	candidate, err := h.repo.GetCandidate(ctx, req.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return reject(c, "Candidate not found")
		}
		return storageError(c, "delete_candidate", err)
	}

	if err := h.repo.DeleteCandidate(ctx, req.ID); err != nil {
		return storageError(c, "delete_candidate", err)
	}

	if candidate.Photo != nil {
		_ = h.uploads.Remove(*candidate.Photo)
	}

	return ok(c, "Candidate deleted successfully", nil)
}

// Results handles GET /admin/results. Accessible to any authenticated user.
func (h *Handlers) Results(c echo.Context) error {
	results, err := h.voting.GetResults(c.Request().Context(), queryInt64(c, "election_id"))
	if err != nil {
		if errors.Is(err, voting.ErrNoActiveElection) {
			return reject(c, "No active election found")
		}
		return storageError(c, "results", err)
	}

	for i := range results.Candidates {
		results.Candidates[i].PhotoURL = h.uploads.URL(results.Candidates[i].Photo)
	}

	return ok(c, "Results retrieved successfully", echo.Map{
		"results": results.Candidates,
		"stats":   results.Stats,
	})
}

// attachPhoto stores an uploaded photo for the candidate, if the request
// carries one. Returns a warning message on failure; the candidate row is
// already committed and stays.
func (h *Handlers) attachPhoto(c echo.Context, candidate *models.Candidate) string {
	file, err := c.FormFile("photo")
	if err != nil {
		return "" // no photo in the request
	}

	name, err := h.uploads.Save(file)
	if err != nil {
		// Only the sentinel messages are safe for clients; wrapped IO
		// errors carry file-system paths.
		if errors.Is(err, upload.ErrTooLarge) || errors.Is(err, upload.ErrBadFileType) {
			return "Photo upload failed: " + err.Error()
		}
		slog.Error("photo_store_failed", "candidate_id", candidate.ID, "error", err)
		return "Photo could not be saved"
	}

	if err := h.repo.SetCandidatePhoto(c.Request().Context(), candidate.ID, name); err != nil {
		_ = h.uploads.Remove(name)
		return "Photo could not be saved"
	}

	candidate.Photo = &name
	return ""
}

func (h *Handlers) candidatePayload(candidate *models.Candidate) echo.Map {
	return echo.Map{
		"id":          candidate.ID,
		"name":        candidate.Name,
		"party":       candidate.Party,
		"description": candidate.Description,
		"image":       candidate.Image,
		"photo":       candidate.Photo,
		"photo_url":   h.uploads.URL(candidate.Photo),
		"election_id": candidate.ElectionID,
	}
}
