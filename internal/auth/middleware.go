package auth

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys for caller data
const (
	ContextKeyPrivileged = "auth_privileged"
	ContextKeyAuthType   = "auth_type" // "bearer" or "none"
)

// AuthType indicates how the caller was authenticated
type AuthType string

const (
	AuthTypeNone   AuthType = "none"
	AuthTypeBearer AuthType = "bearer"
)

// AttemptHook is told about every admin token check.
type AttemptHook func(c *gin.Context, success bool)

// Middleware marks requests carrying the admin token as privileged.
type Middleware struct {
	tokenHash string
	limiter   *RateLimiter
	onAttempt AttemptHook
}

// NewMiddleware creates the middleware. An empty tokenHash disables admin
// access; limiter may be nil.
func NewMiddleware(tokenHash string, limiter *RateLimiter) *Middleware {
	return &Middleware{
		tokenHash: strings.TrimSpace(tokenHash),
		limiter:   limiter,
	}
}

// OnAttempt registers a hook, typically the audit log.
func (m *Middleware) OnAttempt(hook AttemptHook) {
	m.onAttempt = hook
}

// Enabled reports whether an admin token hash is configured.
func (m *Middleware) Enabled() bool {
	return m.tokenHash != ""
}

// Handler returns a Gin middleware handler that authenticates requests.
// Requests without an Authorization header pass through unprivileged.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyPrivileged, false)
		c.Set(ContextKeyAuthType, AuthTypeNone)

		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			abortUnauthorized(c, "malformed authorization header")
			return
		}

		ip := c.ClientIP()
		if m.limiter != nil {
			if allowed, retryAfter := m.limiter.Allow(ip); !allowed {
				c.Header("Retry-After", retryAfter.String())
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error": "too many invalid admin tokens",
					"code":  "auth_locked",
				})
				return
			}
		}

		if !m.Enabled() {
			abortUnauthorized(c, "admin access is not configured")
			return
		}

		if err := CheckToken(token, m.tokenHash); err != nil {
			m.notify(c, false)
			if m.limiter != nil {
				if locked, _ := m.limiter.RecordFailure(ip); locked {
					log.Printf("[AUTH] Locked out %s after repeated invalid admin tokens", ip)
				}
			}
			abortUnauthorized(c, "invalid admin token")
			return
		}

		if m.limiter != nil {
			m.limiter.RecordSuccess(ip)
		}
		m.notify(c, true)
		c.Set(ContextKeyPrivileged, true)
		c.Set(ContextKeyAuthType, AuthTypeBearer)
		c.Next()
	}
}

func (m *Middleware) notify(c *gin.Context, success bool) {
	if m.onAttempt != nil {
		m.onAttempt(c, success)
	}
}

// RequireAdmin rejects requests that did not present the admin token.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsPrivileged(c) {
			abortUnauthorized(c, "admin token required")
			return
		}
		c.Next()
	}
}

// IsPrivileged reports whether the request carried a valid admin token.
func IsPrivileged(c *gin.Context) bool {
	return c.GetBool(ContextKeyPrivileged)
}

// GetAuthType returns how the request was authenticated.
func GetAuthType(c *gin.Context) AuthType {
	if v, ok := c.Get(ContextKeyAuthType); ok {
		if t, ok := v.(AuthType); ok {
			return t
		}
	}
	return AuthTypeNone
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": msg,
		"code":  "unauthorized",
	})
}
