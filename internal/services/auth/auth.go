// Package auth handles registration and credential verification.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/civickit/ballotbox/internal/models"
	"github.com/civickit/ballotbox/internal/repository"
	"github.com/civickit/ballotbox/internal/validate"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// InvalidInputError carries the accumulated validation errors for a request.
type InvalidInputError struct {
	Result validate.Result
}

func (e *InvalidInputError) Error() string {
	return e.Result.Message()
}

// dummyHash keeps login timing constant for unknown emails.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

type Service struct {
	repo *repository.Repository
}

func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// RegisterParams holds the parameters for account creation.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register creates a new account. All field violations are accumulated and
// returned together as an InvalidInputError.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	name := validate.Sanitize(params.Name)
	email := validate.Sanitize(params.Email)

	if v := validate.Merge(
		validate.Name(name),
		validate.Email(email),
		validate.Password(params.Password),
	); !v.Valid {
		return nil, &InvalidInputError{Result: v}
	}

	role := params.Role
	if role == "" {
		role = models.RoleVoter
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         role,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("register_success", "user_id", user.ID, "email", email, "role", role)

	return user, nil
}

// Login verifies credentials and returns the user on success.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant time: always perform a bcrypt comparison
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "email", email, "reason", "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	slog.Info("login_success", "user_id", user.ID, "email", email)
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account when no admin exists yet.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	count, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err = s.Register(ctx, RegisterParams{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	})
	if err != nil && !errors.Is(err, ErrEmailTaken) {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}
