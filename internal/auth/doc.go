// Package auth provides optional authentication for the PlaceBook API.
//
// Two modes are supported:
//   - "none": no authentication, every request acts as DefaultUserID (default)
//   - "local": local user accounts, session cookies or Bearer tokens
//
// # Configuration
//
//	AUTH_MODE=local
//	AUTH_SESSION_LIFETIME=24h
//	AUTH_TOKEN_EXPIRY=720h
//	AUTH_BCRYPT_COST=12
//	AUTH_SECURE_COOKIES=true
//	AUTH_MAX_LOGIN_ATTEMPTS=5
//	AUTH_LOCKOUT_DURATION=30m
//
// # Usage
//
//	svc := auth.NewService(users.NewRepository(db.DB), cfg.Auth, log)
//	mw := auth.NewMiddleware(svc, sessions, cfg.Auth)
//	router.Use(sessions.SessionLoadSave(), mw.Handler())
//
// Handlers read the acting user with auth.GetUserID(c). The id is also placed
// on the request context so audit events are attributed to it.
package auth
