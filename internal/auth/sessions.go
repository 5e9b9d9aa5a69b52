package auth

import (
	"context"
	"database/sql"
	"encoding/gob"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/placebook/internal/config"
	"github.com/mrlokans/placebook/internal/entities"
)

const (
	sessionKeyUserID   = "user_id"
	sessionKeyUsername = "username"
	sessionKeyRole     = "role"
	sessionKeyLoginAt  = "login_at"
)

// sqlite3store expects this table.
const sessionsSchema = `CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expiry REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`

func init() {
	gob.Register(entities.UserRole(""))
	gob.Register(time.Time{})
}

// SessionManager keeps cookie sessions in the main SQLite database.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates the sessions table if needed and configures the
// cookie. sqlDB is the *sql.DB underneath GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	if _, err := sqlDB.Exec(sessionsSchema); err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	lifetime := cfg.SessionLifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)
	sm.Lifetime = lifetime
	sm.IdleTimeout = lifetime / 2

	sm.Cookie.Name = "placebook_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// CreateSession stores user in a freshly renewed session.
func (sm *SessionManager) CreateSession(ctx context.Context, user *entities.User) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, sessionKeyUserID, int(user.ID))
	sm.Put(ctx, sessionKeyUsername, user.Username)
	sm.Put(ctx, sessionKeyRole, user.Role)
	sm.Put(ctx, sessionKeyLoginAt, time.Now())
	return nil
}

func (sm *SessionManager) DestroySession(ctx context.Context) error {
	return sm.Destroy(ctx)
}

// UserID returns the session user, 0 when the session is anonymous.
func (sm *SessionManager) UserID(ctx context.Context) uint {
	return uint(sm.GetInt(ctx, sessionKeyUserID))
}

// SessionData is what a session knows about its user.
type SessionData struct {
	UserID   uint              `json:"user_id"`
	Username string            `json:"username"`
	Role     entities.UserRole `json:"role"`
	LoginAt  time.Time         `json:"login_at"`
}

// Data returns the session user, nil for anonymous sessions.
func (sm *SessionManager) Data(ctx context.Context) *SessionData {
	userID := sm.UserID(ctx)
	if userID == 0 {
		return nil
	}
	role, _ := sm.Get(ctx, sessionKeyRole).(entities.UserRole)
	loginAt, _ := sm.Get(ctx, sessionKeyLoginAt).(time.Time)
	return &SessionData{
		UserID:   userID,
		Username: sm.GetString(ctx, sessionKeyUsername),
		Role:     role,
		LoginAt:  loginAt,
	}
}
