package main

import (
	"log/slog"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/civickit/ballotbox/internal/config"
	"github.com/civickit/ballotbox/internal/handlers"
	"github.com/civickit/ballotbox/internal/metrics"
	"github.com/civickit/ballotbox/internal/middleware"
	"github.com/civickit/ballotbox/internal/models"
	"github.com/civickit/ballotbox/internal/repository"
	"github.com/civickit/ballotbox/internal/services/auth"
	"github.com/civickit/ballotbox/internal/services/reset"
	"github.com/civickit/ballotbox/internal/services/voting"
	"github.com/civickit/ballotbox/internal/upload"
)

// routerDeps holds dependencies needed to set up routes.
type routerDeps struct {
	cfg      *config.Config
	repo     *repository.Repository
	sessions *scs.SessionManager
	auth     *auth.Service
	reset    *reset.Service
	voting   *voting.Service
	uploads  *upload.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// setupRoutes configures all HTTP routes on the given echo instance.
func setupRoutes(e *echo.Echo, deps *routerDeps) {
	h := handlers.New(deps.repo, deps.sessions, deps.auth, deps.reset, deps.voting, deps.uploads, deps.metrics)

	// Global middlewares (order matters): logging, request deadline,
	// session load/save, identity resolution.
	e.Use(middleware.RequestLogger(deps.logger, deps.metrics))
	e.Use(middleware.Timeout(time.Duration(deps.cfg.Database.QueryTimeoutMS) * time.Millisecond))
	e.Use(echo.WrapMiddleware(deps.sessions.LoadAndSave))
	e.Use(middleware.LoadUser(deps.sessions))

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.metrics.Registry, promhttp.HandlerOpts{})))
	e.Static("/uploads", deps.cfg.Upload.Dir)

	// Auth - public
	authGroup := e.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/check", h.Check)
	authGroup.POST("/forgot_password", h.ForgotPassword)
	authGroup.POST("/reset_password", h.ResetPassword)
	authGroup.GET("/validate_token", h.ValidateToken)

	// Admin - role checked server-side on every request
	adminGroup := e.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	adminGroup.POST("/add_admin", h.AddAdmin)
	adminGroup.GET("/get_users", h.GetUsers)
	adminGroup.GET("/manage_election", h.ManageElectionGet)
	adminGroup.POST("/manage_election", h.ManageElectionPost)
	adminGroup.DELETE("/manage_election", h.ManageElectionDelete)
	adminGroup.POST("/add_candidate", h.AddCandidate)
	adminGroup.POST("/edit_candidate", h.EditCandidate)
	adminGroup.POST("/delete_candidate", h.DeleteCandidate)

	// Results are visible to any authenticated user
	e.GET("/admin/results", h.Results, middleware.RequireAuth)

	// Voter
	e.GET("/voter/get_candidates", h.GetCandidates)
	e.POST("/voter/cast_vote", h.CastVote, middleware.RequireRole(models.RoleVoter))
	e.GET("/voter/check_vote_status", h.CheckVoteStatus, middleware.RequireAuth)
	e.GET("/voter/get_election_status", h.GetElectionStatus, middleware.RequireAuth)
}
