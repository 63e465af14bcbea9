// Package session manages server-side sessions backed by the database.
// The client only ever holds an opaque identifier in an HttpOnly cookie;
// role claims live server-side and are never trusted from the client.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/gormstore"
	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"github.com/civickit/ballotbox/internal/models"
)

// Session keys for storing user data.
const (
	UserIDKey    = "user_id"
	UserNameKey  = "user_name"
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
)

// User represents the identity extracted from a valid session.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsAdmin reports whether the session belongs to an admin.
func (u *User) IsAdmin() bool {
	return u.Role == models.RoleAdmin
}

// IsVoter reports whether the session belongs to a voter.
func (u *User) IsVoter() bool {
	return u.Role == models.RoleVoter
}

// NewManager creates an SCS session manager with a database-backed store.
func NewManager(db *gorm.DB, lifetime time.Duration, cookieName string, cookieSecure bool) (*scs.SessionManager, error) {
	sm := scs.New()

	// gormstore auto-creates the sessions table if needed
	store, err := gormstore.New(db)
	if err != nil {
		return nil, err
	}
	sm.Store = store

	sm.Lifetime = lifetime
	sm.IdleTimeout = 0
	sm.Cookie.Name = cookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cookieSecure
	sm.Cookie.SameSite = http.SameSiteLaxMode

	return sm, nil
}

// Login stores the user identity in the session. The token is renewed first
// to prevent session fixation.
func Login(ctx context.Context, sm *scs.SessionManager, user *models.User) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}

	sm.Put(ctx, UserIDKey, user.ID)
	sm.Put(ctx, UserNameKey, user.Name)
	sm.Put(ctx, UserEmailKey, user.Email)
	sm.Put(ctx, UserRoleKey, user.Role)

	return nil
}

// Logout destroys the current session.
func Logout(ctx context.Context, sm *scs.SessionManager) error {
	return sm.Destroy(ctx)
}

// GetUser retrieves the authenticated user from the session, or nil.
func GetUser(ctx context.Context, sm *scs.SessionManager) *User {
	userID := sm.GetInt64(ctx, UserIDKey)
	if userID == 0 {
		return nil
	}

	return &User{
		ID:    userID,
		Name:  sm.GetString(ctx, UserNameKey),
		Email: sm.GetString(ctx, UserEmailKey),
		Role:  sm.GetString(ctx, UserRoleKey),
	}
}
