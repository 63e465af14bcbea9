package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civickit/ballotbox/internal/middleware"
	"github.com/civickit/ballotbox/internal/services/auth"
	"github.com/civickit/ballotbox/internal/services/reset"
	"github.com/civickit/ballotbox/internal/services/session"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Register handles POST /auth/register: creates a voter account.
func (h *Handlers) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return reject(c, "Invalid request body")
	}

	_, err := h.auth.Register(c.Request().Context(), auth.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var invalid *auth.InvalidInputError
		switch {
		case errors.As(err, &invalid):
			return reject(c, invalid.Result.Message())
		case errors.Is(err, auth.ErrEmailTaken):
			return reject(c, "Email already registered")
		default:
			return storageError(c, "register", err)
		}
	}

	return ok(c, "Registration successful! You can now login.", nil)
}

// Login handles POST /auth/login: verifies credentials and establishes a
// server-side session.
func (h *Handlers) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return reject(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return reject(c, "Email and password are required")
	}

	user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return respond(c, http.StatusUnauthorized, false, "Invalid email or password", nil)
		}
		return storageError(c, "login", err)
	}

	if err := session.Login(c.Request().Context(), h.sessions, user); err != nil {
		return storageError(c, "session_login", err)
	}

	return ok(c, "Login successful", echo.Map{
		"user": echo.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Logout handles POST /auth/logout: destroys the current session.
func (h *Handlers) Logout(c echo.Context) error {
	if err := session.Logout(c.Request().Context(), h.sessions); err != nil {
		return storageError(c, "logout", err)
	}
	return ok(c, "Logged out successfully", nil)
}

// Check handles GET /auth/check: returns the current session identity.
func (h *Handlers) Check(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return ok(c, "Not logged in", echo.Map{"logged_in": false})
	}
	return ok(c, "Logged in", echo.Map{
		"logged_in": true,
		"user":      user,
	})
}

// ForgotPassword handles POST /auth/forgot_password. The response is the
// same whether or not the email is registered.
func (h *Handlers) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return reject(c, "Invalid request body")
	}

	devLink, err := h.reset.Request(c.Request().Context(), req.Email)
	if err != nil {
		var invalid *reset.InvalidInputError
		switch {
		case errors.As(err, &invalid):
			return reject(c, "Please enter a valid email address")
		case errors.Is(err, reset.ErrRateLimited):
			return respond(c, http.StatusTooManyRequests, false,
				"Too many requests. Please try again in 15 minutes.", nil)
		default:
			return storageError(c, "forgot_password", err)
		}
	}

	// Dev mode hands the link back directly instead of relying on mail
	// delivery. Empty outside dev mode.
	var data echo.Map
	if devLink != "" {
		data = echo.Map{"dev_link": devLink}
	}

	return ok(c, "If that email is registered, you will receive a password reset link shortly.", data)
}

// ValidateToken handles GET /auth/validate_token?token=...
func (h *Handlers) ValidateToken(c echo.Context) error {
	email, err := h.reset.Validate(c.Request().Context(), c.QueryParam("token"))
	if err != nil {
		if errors.Is(err, reset.ErrInvalidToken) {
			return reject(c, "Invalid or expired password reset link.")
		}
		return storageError(c, "validate_token", err)
	}
	return ok(c, "Token is valid", echo.Map{"email": email})
}

// ResetPassword handles POST /auth/reset_password.
func (h *Handlers) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return reject(c, "Invalid request body")
	}
	if req.Token == "" {
		return reject(c, "Invalid request")
	}

	err := h.reset.Reset(c.Request().Context(), req.Token, req.Password, req.ConfirmPassword)
	if err != nil {
		var invalid *reset.InvalidInputError
		switch {
		case errors.As(err, &invalid):
			return reject(c, invalid.Result.Message())
		case errors.Is(err, reset.ErrNoMatch):
			return reject(c, "Passwords do not match")
		case errors.Is(err, reset.ErrInvalidToken):
			return reject(c, "Invalid or expired password reset link.")
		default:
			return storageError(c, "reset_password", err)
		}
	}

	return ok(c, "Password has been successfully updated. You can now login.", nil)
}
