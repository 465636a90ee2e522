// Package auth guards the admin surface of the import API.
//
// There are no user accounts. One admin bearer token is issued out of band
// and only its bcrypt hash is configured:
//
//	directory hash-token          # prints a new token and its hash
//	ADMIN_TOKEN_HASH='$2a$12$...' # hash given to the server
//
// # Usage
//
//	mw := auth.NewMiddleware(cfg.Admin.TokenHash, auth.NewRateLimiter(auth.DefaultRateLimitConfig()))
//	router.Use(mw.Handler())
//	admin := router.Group("/api/admin", auth.RequireAdmin())
//
// Handlers ask whether the caller is privileged:
//
//	if auth.IsPrivileged(c) { ... }
//
// A privileged caller may import past the daily Google Places allowance by
// setting "force" on the request. Anonymous callers are never blocked by this
// package; they simply are not privileged. A wrong token is rejected with 401
// and counts toward a per-IP lockout.
package auth
