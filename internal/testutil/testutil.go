// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/civickit/ballotbox/internal/database"
	"github.com/civickit/ballotbox/internal/models"
	"github.com/civickit/ballotbox/internal/repository"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
// The DSN is unique per test but shared across pooled connections, so
// concurrent queries inside one test see the same database.
func NewTestDB(t *testing.T) (*gorm.DB, *repository.Repository) {
	t.Helper()
	dsn := fmt.Sprintf("file:test-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db, repository.New(db)
}

// NewTestUser creates a user with the given role. The password is "secret123".
func NewTestUser(t *testing.T, repo *repository.Repository, name, email, role string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

// NewTestElection creates an election whose window spans now-1h .. now+1h.
func NewTestElection(t *testing.T, repo *repository.Repository, title, status string) *models.Election {
	t.Helper()
	now := time.Now()
	election := &models.Election{
		Title:     title,
		Status:    status,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
	}
	require.NoError(t, repo.CreateElection(context.Background(), election))
	return election
}

// NewTestCandidate creates a candidate in the given election.
func NewTestCandidate(t *testing.T, repo *repository.Repository, electionID int64, name string) *models.Candidate {
	t.Helper()
	candidate := &models.Candidate{
		Name:       name,
		Party:      name + " Party",
		Image:      models.DefaultCandidateImage,
		ElectionID: electionID,
	}
	require.NoError(t, repo.CreateCandidate(context.Background(), candidate))
	return candidate
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewRequest creates an HTTP request with a JSON content type.
func NewRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}
