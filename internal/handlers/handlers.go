// Package handlers contains the HTTP endpoints. Every response uses the flat
// JSON envelope {success, message, ...data}; business-rule failures answer
// 200 with success=false, auth failures 401/403, transient storage 503.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"

	"github.com/civickit/ballotbox/internal/metrics"
	"github.com/civickit/ballotbox/internal/repository"
	"github.com/civickit/ballotbox/internal/services/auth"
	"github.com/civickit/ballotbox/internal/services/reset"
	"github.com/civickit/ballotbox/internal/services/voting"
	"github.com/civickit/ballotbox/internal/upload"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	repo     *repository.Repository
	sessions *scs.SessionManager
	auth     *auth.Service
	reset    *reset.Service
	voting   *voting.Service
	uploads  *upload.Store
	metrics  *metrics.Metrics
}

// New creates a new Handlers instance.
func New(
	repo *repository.Repository,
	sessions *scs.SessionManager,
	authService *auth.Service,
	resetService *reset.Service,
	votingService *voting.Service,
	uploads *upload.Store,
	m *metrics.Metrics,
) *Handlers {
	return &Handlers{
		repo:     repo,
		sessions: sessions,
		auth:     authService,
		reset:    resetService,
		voting:   votingService,
		uploads:  uploads,
		metrics:  m,
	}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// queryInt64 parses an integer query parameter, returning 0 when absent or
// malformed.
func queryInt64(c echo.Context, name string) int64 {
	v, err := strconv.ParseInt(c.QueryParam(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// respond writes the JSON envelope, merging extra data into it.
func respond(c echo.Context, status int, success bool, message string, data echo.Map) error {
	body := echo.Map{
		"success": success,
		"message": message,
	}
	for k, v := range data {
		body[k] = v
	}
	return c.JSON(status, body)
}

func ok(c echo.Context, message string, data echo.Map) error {
	return respond(c, http.StatusOK, true, message, data)
}

// reject reports a business-rule failure. The domain convention keeps these
// at HTTP 200 with success=false.
func reject(c echo.Context, message string) error {
	return respond(c, http.StatusOK, false, message, nil)
}

// storageError hides storage detail from the client: transient failures get
// 503 and everything else a generic message, with the real error logged.
func storageError(c echo.Context, op string, err error) error {
	if errors.Is(err, repository.ErrUnavailable) {
		slog.Warn("storage_unavailable", "op", op, "error", err)
		return respond(c, http.StatusServiceUnavailable, false,
			"Service temporarily unavailable. Please try again.", nil)
	}
	slog.Error("storage_error", "op", op, "error", err)
	return respond(c, http.StatusInternalServerError, false,
		"Something went wrong. Please try again.", nil)
}
