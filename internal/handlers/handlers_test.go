package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civickit/ballotbox/internal/handlers"
	"github.com/civickit/ballotbox/internal/metrics"
	"github.com/civickit/ballotbox/internal/middleware"
	"github.com/civickit/ballotbox/internal/models"
	"github.com/civickit/ballotbox/internal/repository"
	"github.com/civickit/ballotbox/internal/services/auth"
	"github.com/civickit/ballotbox/internal/services/reset"
	"github.com/civickit/ballotbox/internal/services/session"
	"github.com/civickit/ballotbox/internal/services/voting"
	"github.com/civickit/ballotbox/internal/testutil"
	"github.com/civickit/ballotbox/internal/upload"
)

// fakeMailer records the last token dispatched per address. Setting devBase
// makes DevLink return a link, mimicking dev mode.
type fakeMailer struct {
	mu      sync.Mutex
	tokens  map[string]string
	devBase string
}

func (m *fakeMailer) SendPasswordReset(to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens == nil {
		m.tokens = map[string]string{}
	}
	m.tokens[to] = token
	return nil
}

func (m *fakeMailer) DevLink(token string) string {
	if m.devBase == "" {
		return ""
	}
	return m.devBase + token
}

// testApp wires the full HTTP stack against an in-memory database and keeps
// session cookies across requests, like a browser would.
type testApp struct {
	t         *testing.T
	e         *echo.Echo
	repo      *repository.Repository
	auth      *auth.Service
	mailer    *fakeMailer
	uploadDir string
	cookies   map[string]*http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, repo := testutil.NewTestDB(t)

	sm, err := session.NewManager(db, time.Hour, "session", false)
	require.NoError(t, err)

	uploadDir := t.TempDir()
	uploads, err := upload.NewStore(uploadDir, 5)
	require.NoError(t, err)

	authSvc := auth.NewService(repo)
	mailer := &fakeMailer{}
	resetSvc := reset.NewService(repo, mailer, 30*time.Minute, 24*time.Hour)
	votingSvc := voting.NewService(repo)

	h := handlers.New(repo, sm, authSvc, resetSvc, votingSvc, uploads, metrics.New())

	e := echo.New()
	e.Use(echo.WrapMiddleware(sm.LoadAndSave))
	e.Use(middleware.LoadUser(sm))

	authGroup := e.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/check", h.Check)
	authGroup.POST("/forgot_password", h.ForgotPassword)
	authGroup.POST("/reset_password", h.ResetPassword)
	authGroup.GET("/validate_token", h.ValidateToken)

	adminGroup := e.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	adminGroup.POST("/add_admin", h.AddAdmin)
	adminGroup.GET("/get_users", h.GetUsers)
	adminGroup.GET("/manage_election", h.ManageElectionGet)
	adminGroup.POST("/manage_election", h.ManageElectionPost)
	adminGroup.DELETE("/manage_election", h.ManageElectionDelete)
	adminGroup.POST("/add_candidate", h.AddCandidate)
	adminGroup.POST("/edit_candidate", h.EditCandidate)
	adminGroup.POST("/delete_candidate", h.DeleteCandidate)

	e.GET("/admin/results", h.Results, middleware.RequireAuth)

	e.GET("/voter/get_candidates", h.GetCandidates)
	e.POST("/voter/cast_vote", h.CastVote, middleware.RequireRole(models.RoleVoter))
	e.GET("/voter/check_vote_status", h.CheckVoteStatus, middleware.RequireAuth)
	e.GET("/voter/get_election_status", h.GetElectionStatus, middleware.RequireAuth)

	return &testApp{
		t:         t,
		e:         e,
		repo:      repo,
		auth:      authSvc,
		mailer:    mailer,
		uploadDir: uploadDir,
		cookies:   map[string]*http.Cookie{},
	}
}

// do performs a request, carrying session cookies forward.
func (a *testApp) do(method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, cookie := range a.cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		a.cookies[cookie.Name] = cookie
	}

	var payload map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

// doMultipart performs a multipart form request with an optional photo part.
func (a *testApp) doMultipart(path string, fields map[string]string, photoName string, photo []byte) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(a.t, writer.WriteField(name, value))
	}
	if photoName != "" {
		part, err := writer.CreateFormFile("photo", photoName)
		require.NoError(a.t, err)
		_, err = part.Write(photo)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	for _, cookie := range a.cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

// login registers an account with the given role and signs it in.
func (a *testApp) login(name, email, role string) {
	a.t.Helper()

	_, err := a.auth.Register(context.Background(), auth.RegisterParams{
		Name:     name,
		Email:    email,
		Password: "secret123",
		Role:     role,
	})
	require.NoError(a.t, err)

	rec, body := a.do(http.MethodPost, "/auth/login", map[string]any{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(a.t, http.StatusOK, rec.Code)
	require.Equal(a.t, true, body["success"])
}

func (a *testApp) seedElection() (*models.Election, *models.Candidate, *models.Candidate) {
	a.t.Helper()
	election := testutil.NewTestElection(a.t, a.repo, "General", models.ElectionActive)
	alice := testutil.NewTestCandidate(a.t, a.repo, election.ID, "Alice")
	bob := testutil.NewTestCandidate(a.t, a.repo, election.ID, "Bob")
	return election, alice, bob
}

func TestRegisterAndLoginFlow(t *testing.T) {
	app := newTestApp(t)

	rec, body := app.do(http.MethodPost, "/auth/register", map[string]any{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	rec, body = app.do(http.MethodPost, "/auth/login", map[string]any{
		"email":    "jane@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "Jane Doe", user["name"])
	assert.Equal(t, models.RoleVoter, user["role"])

	_, body = app.do(http.MethodGet, "/auth/check", nil)
	assert.Equal(t, true, body["logged_in"])

	rec, _ = app.do(http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, body = app.do(http.MethodGet, "/auth/check", nil)
	assert.Equal(t, false, body["logged_in"])
}

func TestRegister_RejectsInvalidInput(t *testing.T) {
	app := newTestApp(t)

	rec, body := app.do(http.MethodPost, "/auth/register", map[string]any{
		"name":     "Jane123",
		"email":    "bogus",
		"password": "ab",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "Name must contain only letters and spaces")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	app := newTestApp(t)

	rec, body := app.do(http.MethodPost, "/auth/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestCastVote_Flow(t *testing.T) {
	app := newTestApp(t)
	election, alice, bob := app.seedElection()
	app.login("Jane Doe", "jane@example.com", models.RoleVoter)

	rec, body := app.do(http.MethodPost, "/voter/cast_vote", map[string]any{
		"candidate_id": alice.ID,
		"election_id":  election.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
	assert.Equal(t, "Alice", body["candidate_name"])

	// A second vote fails as a business-rule rejection, not an HTTP error.
	rec, body = app.do(http.MethodPost, "/voter/cast_vote", map[string]any{
		"candidate_id": bob.ID,
		"election_id":  election.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "You have already voted in this election", body["message"])

	_, body = app.do(http.MethodGet, "/voter/check_vote_status", nil)
	assert.Equal(t, true, body["has_voted"])
	assert.Equal(t, true, body["election_active"])
}

func TestCastVote_RequiresVoterRole(t *testing.T) {
	app := newTestApp(t)
	election, alice, _ := app.seedElection()

	// Unauthenticated
	rec, _ := app.do(http.MethodPost, "/voter/cast_vote", map[string]any{
		"candidate_id": alice.ID,
		"election_id":  election.ID,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Admins do not vote.
	app.login("Root Admin", "admin@example.com", models.RoleAdmin)
	rec, _ = app.do(http.MethodPost, "/voter/cast_vote", map[string]any{
		"candidate_id": alice.ID,
		"election_id":  election.ID,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetCandidates_Public(t *testing.T) {
	app := newTestApp(t)
	app.seedElection()

	rec, body := app.do(http.MethodGet, "/voter/get_candidates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
	assert.Len(t, body["candidates"], 2)
}

func TestGetCandidates_NoActiveElection(t *testing.T) {
	app := newTestApp(t)

	rec, body := app.do(http.MethodGet, "/voter/get_candidates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Empty(t, body["candidates"])
}

func TestAdminEndpoints_RequireAdminRole(t *testing.T) {
	app := newTestApp(t)

	rec, _ := app.do(http.MethodGet, "/admin/get_users", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	app.login("Jane Doe", "jane@example.com", models.RoleVoter)
	rec, _ = app.do(http.MethodGet, "/admin/get_users", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestManageElection_CRUD(t *testing.T) {
	app := newTestApp(t)
	app.login("Root Admin", "admin@example.com", models.RoleAdmin)

	rec, body := app.do(http.MethodPost, "/admin/manage_election", map[string]any{
		"title":       "General Election",
		"description": "Annual vote",
		"status":      models.ElectionActive,
		"start_date":  "2026-01-01",
		"end_date":    "2030-01-01",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
	electionID := int64(body["election_id"].(float64))
	require.Positive(t, electionID)

	// Update
	rec, body = app.do(http.MethodPost, "/admin/manage_election", map[string]any{
		"id":         electionID,
		"title":      "Renamed Election",
		"status":     models.ElectionClosed,
		"start_date": "2026-01-01",
		"end_date":   "2030-01-01",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])

	election, err := app.repo.GetElection(context.Background(), electionID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Election", election.Title)
	assert.Equal(t, models.ElectionClosed, election.Status)

	// List
	_, body = app.do(http.MethodGet, "/admin/manage_election", nil)
	assert.Len(t, body["elections"], 1)

	// Delete
	rec, body = app.do(http.MethodDelete, "/admin/manage_election", map[string]any{
		"id": electionID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])

	_, err = app.repo.GetElection(context.Background(), electionID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestManageElection_RejectsBadInput(t *testing.T) {
	app := newTestApp(t)
	app.login("Root Admin", "admin@example.com", models.RoleAdmin)

	rec, body := app.do(http.MethodPost, "/admin/manage_election", map[string]any{
		"title":      "",
		"start_date": "2026-01-01",
		"end_date":   "2030-01-01",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])

	rec, body = app.do(http.MethodPost, "/admin/manage_election", map[string]any{
		"title":      "X Election",
		"status":     "bogus",
		"start_date": "2026-01-01",
		"end_date":   "2030-01-01",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid status", body["message"])
}

func TestAddCandidate_JSON(t *testing.T) {
	app := newTestApp(t)
	election, _, _ := app.seedElection()
	app.login("Root Admin", "admin@example.com", models.RoleAdmin)

	rec, body := app.do(http.MethodPost, "/admin/add_candidate", map[string]any{
		"name":        "Carol",
		"party":       "Green Party",
		"description": "Environmental platform",
		"election_id": election.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])

	candidate := body["candidate"].(map[string]any)
	assert.Equal(t, "Carol", candidate["name"])
	assert.Equal(t, models.DefaultCandidateImage, candidate["image"])
}

func TestAddCandidate_Multipart(t *testing.T) {
	app := newTestApp(t)
	app.seedElection()
	app.login("Root Admin", "admin@example.com", models.RoleAdmin)

	// election_id 0 targets the active election, as the dashboard sends it.
	rec, body := app.doMultipart("/admin/add_candidate", map[string]string{
		"name":        "Carol",
		"party":       "Green Party",
		"election_id": "0",
	}, "portrait.png", []byte("png-bytes"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])

	candidate := body["candidate"].(map[string]any)
	photoURL, _ := candidate["photo_url"].(string)
	assert.True(t, strings.HasPrefix(photoURL, "/uploads/"), "photo_url %q", photoURL)
	assert.True(t, strings.HasSuffix(photoURL, ".png"))
}

func TestAddCandidate_PhotoFailureKeepsCandidate(t *testing.T) {
	app := newTestApp(t)
	app.seedElection()
	app.login("Root Admin", "admin@example.com", models.RoleAdmin)

	// Unacceptable file type: the specific reason is safe to surface.
	rec, body := app.doMultipart("/admin/add_candidate", map[string]string{
		"name":        "Carol",
		"party":       "Green Party",
		"election_id": "0",
	}, "resume.pdf", []byte("pdf-bytes"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
	assert.Contains(t, body["message"], "unsupported photo file type")

	// A broken store must not leak file-system detail into the message,
	// and the candidate row stays either way.
	require.NoError(t, os.RemoveAll(app.uploadDir))

	rec, body = app.doMultipart("/admin/add_candidate", map[string]string{
		"name":        "Dave",
		"party":       "Blue Party",
		"election_id": "0",
	}, "portrait.png", []byte("png-bytes"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
	message := body["message"].(string)
	assert.Contains(t, message, "Photo could not be saved")
	assert.NotContains(t, message, app.uploadDir)

	candidate := body["candidate"].(map[string]any)
	got, err := app.repo.GetCandidate(context.Background(), int64(candidate["id"].(float64)))
	require.NoError(t, err)
	assert.Equal(t, "Dave", got.Name)
	assert.Nil(t, got.Photo)
}

func TestEditAndDeleteCandidate(t *testing.T) {
	app := newTestApp(t)
	_, alice, _ := app.seedElection()
	app.login("Root Admin", "admin@example.com", models.RoleAdmin)

	rec, body := app.do(http.MethodPost, "/admin/edit_candidate", map[string]any{
		"id":    alice.ID,
		"name":  "Alice",
		"party": "Reform Party",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])

	candidate := body["candidate"].(map[string]any)
	assert.Equal(t, "Alice", candidate["name"])
	assert.Equal(t, "Reform Party", candidate["party"])

	rec, body = app.do(http.MethodPost, "/admin/delete_candidate", map[string]any{
		"id": alice.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])

	_, err := app.repo.GetCandidate(context.Background(), alice.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEditCandidate_ReplacesWholeRecord(t *testing.T) {
	app := newTestApp(t)
	election, _, _ := app.seedElection()
	app.login("Root Admin", "admin@example.com", models.RoleAdmin)

	candidate := &models.Candidate{
		Name:        "Carol",
		Party:       "Green Party",
		Description: "Environmental platform",
		Image:       "🌱",
		ElectionID:  election.ID,
	}
	require.NoError(t, app.repo.CreateCandidate(context.Background(), candidate))

	// Omitting description and image clears the one and resets the other.
	rec, body := app.do(http.MethodPost, "/admin/edit_candidate", map[string]any{
		"id":    candidate.ID,
		"name":  "Carol",
		"party": "Green Party",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])

	updated, err := app.repo.GetCandidate(context.Background(), candidate.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.Description)
	assert.Equal(t, models.DefaultCandidateImage, updated.Image)

	// Name and party stay mandatory.
	rec, body = app.do(http.MethodPost, "/admin/edit_candidate", map[string]any{
		"id":    candidate.ID,
		"party": "Green Party",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Candidate name is required", body["message"])
}

func TestGetUsers_ShowsVoteStatus(t *testing.T) {
	app := newTestApp(t)
	election, alice, _ := app.seedElection()

	voter := testutil.NewTestUser(t, app.repo, "Jane", "jane@example.com", models.RoleVoter)
	testutil.NewTestUser(t, app.repo, "John", "john@example.com", models.RoleVoter)
	require.NoError(t, app.repo.CreateVote(context.Background(), &models.Vote{
		UserID: voter.ID, CandidateID: alice.ID, ElectionID: election.ID,
	}))

	app.login("Root Admin", "admin@example.com", models.RoleAdmin)

	rec, body := app.do(http.MethodGet, "/admin/get_users", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	users := body["users"].([]any)
	require.Len(t, users, 2)

	byEmail := map[string]bool{}
	for _, u := range users {
		entry := u.(map[string]any)
		byEmail[entry["email"].(string)] = entry["has_voted"].(bool)
	}
	assert.True(t, byEmail["jane@example.com"])
	assert.False(t, byEmail["john@example.com"])
}

func TestResults_AnyAuthenticatedUser(t *testing.T) {
	app := newTestApp(t)
	election, alice, _ := app.seedElection()

	voter := testutil.NewTestUser(t, app.repo, "John", "john@example.com", models.RoleVoter)
	require.NoError(t, app.repo.CreateVote(context.Background(), &models.Vote{
		UserID: voter.ID, CandidateID: alice.ID, ElectionID: election.ID,
	}))

	rec, _ := app.do(http.MethodGet, "/admin/results", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	app.login("Jane Doe", "jane@example.com", models.RoleVoter)
	rec, body := app.do(http.MethodGet, "/admin/results", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])

	results := body["results"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	assert.Equal(t, "Alice", first["name"])
	assert.EqualValues(t, 1, first["votes"])

	stats := body["stats"].(map[string]any)
	assert.EqualValues(t, 2, stats["total_voters"])
	assert.EqualValues(t, 1, stats["voted_count"])
}

func TestForgotPassword_SameAnswerEitherWay(t *testing.T) {
	app := newTestApp(t)
	testutil.NewTestUser(t, app.repo, "Jane", "jane@example.com", models.RoleVoter)

	rec, known := app.do(http.MethodPost, "/auth/forgot_password", map[string]any{
		"email": "jane@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, unknown := app.do(http.MethodPost, "/auth/forgot_password", map[string]any{
		"email": "nobody@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Account existence never leaks through the response.
	assert.Equal(t, known["message"], unknown["message"])
	assert.NotContains(t, known, "dev_link")
	assert.NotContains(t, unknown, "dev_link")
	assert.NotEmpty(t, app.mailer.tokens["jane@example.com"])
	assert.Empty(t, app.mailer.tokens["nobody@example.com"])
}

func TestForgotPassword_DevModeReturnsLink(t *testing.T) {
	app := newTestApp(t)
	testutil.NewTestUser(t, app.repo, "Jane", "jane@example.com", models.RoleVoter)
	app.mailer.devBase = "http://localhost:8080/reset-password?token="

	rec, body := app.do(http.MethodPost, "/auth/forgot_password", map[string]any{
		"email": "jane@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])

	link, _ := body["dev_link"].(string)
	require.NotEmpty(t, link)
	assert.Equal(t, app.mailer.devBase+app.mailer.tokens["jane@example.com"], link)

	// Even in dev mode, unknown emails get no link.
	rec, body = app.do(http.MethodPost, "/auth/forgot_password", map[string]any{
		"email": "nobody@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, body, "dev_link")
}

func TestResetPassword_EndToEnd(t *testing.T) {
	app := newTestApp(t)
	testutil.NewTestUser(t, app.repo, "Jane", "jane@example.com", models.RoleVoter)

	rec, _ := app.do(http.MethodPost, "/auth/forgot_password", map[string]any{
		"email": "jane@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token := app.mailer.tokens["jane@example.com"]
	require.NotEmpty(t, token)

	rec, body := app.do(http.MethodGet, "/auth/validate_token?token="+token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
	assert.Equal(t, "jane@example.com", body["email"])

	rec, body = app.do(http.MethodPost, "/auth/reset_password", map[string]any{
		"token":            token,
		"password":         "newsecret",
		"confirm_password": "newsecret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])

	// Old password gone, new one works.
	rec, _ = app.do(http.MethodPost, "/auth/login", map[string]any{
		"email":    "jane@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = app.do(http.MethodPost, "/auth/login", map[string]any{
		"email":    "jane@example.com",
		"password": "newsecret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
}

func TestGetElectionStatus(t *testing.T) {
	app := newTestApp(t)
	election, _, _ := app.seedElection()
	app.login("Jane Doe", "jane@example.com", models.RoleVoter)

	_, body := app.do(http.MethodGet, "/voter/get_election_status", nil)
	require.Equal(t, true, body["success"])
	got := body["election"].(map[string]any)
	assert.EqualValues(t, election.ID, got["id"])
	assert.Equal(t, models.ElectionActive, got["status"])
}
