// Package reset implements the password reset flow: token issuance with a
// sliding-window rate limit, validation, single-use redemption and
// opportunistic cleanup of stale tokens.
package reset

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	mathrand "math/rand/v2"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/civickit/ballotbox/internal/models"
	"github.com/civickit/ballotbox/internal/repository"
	"github.com/civickit/ballotbox/internal/validate"
)

const (
	// TokenLength is the number of random bytes in a reset token.
	TokenLength = 32

	// Rate limit: at most rateLimitMax requests per email per window.
	rateLimitMax    = 3
	rateLimitWindow = 15 * time.Minute

	// cleanupChance runs token garbage collection on roughly 1 in N requests.
	cleanupChance = 100
)

var (
	ErrRateLimited  = errors.New("too many reset requests")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrNoMatch      = errors.New("passwords do not match")
)

// Mailer dispatches the reset notification. Satisfied by email.Service.
// DevLink returns the reset link in dev mode and "" otherwise.
type Mailer interface {
	SendPasswordReset(to, token string) error
	DevLink(token string) string
}

type Service struct {
	repo        *repository.Repository
	mailer      Mailer
	tokenExpiry time.Duration
	cleanupAge  time.Duration
}

func NewService(repo *repository.Repository, mailer Mailer, tokenExpiry, cleanupAge time.Duration) *Service {
	return &Service{
		repo:        repo,
		mailer:      mailer,
		tokenExpiry: tokenExpiry,
		cleanupAge:  cleanupAge,
	}
}

// HashToken computes the SHA-256 hash of a token for storage and lookup.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// generateToken returns (plaintext token, hash for storage).
func generateToken() (string, string, error) {
	buf := make([]byte, TokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	plaintext := hex.EncodeToString(buf)
	return plaintext, HashToken(plaintext), nil
}

// Request handles a forgot-password request. Whether or not the email is
// registered the caller gets the same nil error, so account existence never
// leaks. Unregistered emails incur a random delay comparable to the real
// path to defeat timing probes. In dev mode the reset link is returned so
// the API can hand it straight back; otherwise the link is always empty.
func (s *Service) Request(ctx context.Context, email string) (string, error) {
	email = validate.Sanitize(email)
	if v := validate.Email(email); !v.Valid {
		return "", &InvalidInputError{Result: v}
	}

	since := time.Now().Add(-rateLimitWindow)
	count, err := s.repo.CountRecentResetRequests(ctx, email, since)
	if err != nil {
		return "", fmt.Errorf("failed to check rate limit: %w", err)
	}
	if count >= rateLimitMax {
		slog.Warn("reset_rate_limited", "email", email)
		return "", ErrRateLimited
	}

	_, err = s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			sleepRandom(ctx, 200*time.Millisecond, 500*time.Millisecond)
			return "", nil
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	token, tokenHash, err := generateToken()
	if err != nil {
		return "", err
	}

	record := &models.PasswordResetToken{
		Email:     email,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(s.tokenExpiry),
	}
	if err := s.repo.CreateResetToken(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(email, token); err != nil {
		// The token is already stored; the user can retry the request.
		slog.Error("reset_mail_failed", "email", email, "error", err)
	}

	slog.Info("reset_requested", "email", email)

	if mathrand.IntN(cleanupChance) == 0 {
		s.Cleanup(ctx)
	}

	return s.mailer.DevLink(token), nil
}

// Validate checks a token and returns the email it belongs to.
func (s *Service) Validate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	record, err := s.repo.GetValidResetToken(ctx, HashToken(token), time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("failed to look up token: %w", err)
	}
	return record.Email, nil
}

// Reset redeems a token: validates the new password, re-hashes the
// credential and deletes the token so it cannot be replayed.
func (s *Service) Reset(ctx context.Context, token, password, confirm string) error {
	if v := validate.Password(password); !v.Valid {
		return &InvalidInputError{Result: v}
	}
	if password != confirm {
		return ErrNoMatch
	}

	record, err := s.repo.GetValidResetToken(ctx, HashToken(token), time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to look up token: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdateUserPassword(ctx, record.Email, string(passwordHash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.repo.DeleteResetToken(ctx, record.ID); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	slog.Info("reset_success", "email", record.Email)
	return nil
}

// Cleanup removes tokens older than the configured horizon. Best effort:
// failure is logged, never propagated to the surrounding request.
func (s *Service) Cleanup(ctx context.Context) {
	cutoff := time.Now().Add(-s.cleanupAge)
	if err := s.repo.DeleteResetTokensBefore(ctx, cutoff); err != nil {
		slog.Warn("reset_cleanup_failed", "error", err)
		return
	}
	slog.Debug("reset_cleanup_done", "cutoff", cutoff)
}

// InvalidInputError carries validation errors from the reset flow.
type InvalidInputError struct {
	Result validate.Result
}

func (e *InvalidInputError) Error() string {
	return e.Result.Message()
}

// sleepRandom pauses for a random duration in [min, max), bounded by ctx.
func sleepRandom(ctx context.Context, min, max time.Duration) {
	d := min + time.Duration(mathrand.Int64N(int64(max-min)))
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
