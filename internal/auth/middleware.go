package auth

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"vox-console/pkg/logger"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// SessionCookie carries the Supabase access token for browser sessions.
const SessionCookie = "sb-access-token"

// Page paths that need a session, and auth pages that a signed-in user skips.
var (
	protectedPrefixes = []string{"/assistants", "/calls", "/dashboard", "/tools"}
	authPages         = []string{"/login", "/signup"}
)

const (
	loginPath        = "/login"
	signedInLanding  = "/assistants"
	redirectQueryKey = "redirect"
)

// tokenFrom reads a bearer token, falling back to the session cookie.
func tokenFrom(c *gin.Context) string {
	raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
	if strings.HasPrefix(raw, bearerPrefix) {
		if tok := strings.TrimSpace(strings.TrimPrefix(raw, bearerPrefix)); tok != "" {
			return tok
		}
	}
	if v, err := c.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(v)
	}
	return ""
}

func (m *Manager) identify(c *gin.Context) (Identity, bool) {
	tok := tokenFrom(c)
	if tok == "" {
		return Identity{}, false
	}
	id, err := m.Identify(tok, time.Now())
	if err != nil {
		logger.FromGin(c).Debug("session rejected", "err", err)
		return Identity{}, false
	}
	return id, true
}

func setIdentity(c *gin.Context, id Identity) {
	ctx := WithIdentity(c.Request.Context(), id)
	ctx = logger.With(ctx, logger.From(ctx).With("user_id", id.UserID, "client_id", id.ClientID))
	c.Request = c.Request.WithContext(ctx)

	c.Set("user_id", id.UserID)
	c.Set("client_id", id.ClientID)
	c.Set("role", id.Role)
}

// RequireSession verifies the session for JSON endpoints and injects identity into the request context.
// It does not check roles; that belongs to internal/rbac.
func RequireSession(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := m.identify(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		setIdentity(c, id)
		c.Next()
	}
}

// PageGate applies the redirect rules for HTML pages. Other paths pass through untouched.
func PageGate(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		switch {
		case matchesAny(path, protectedPrefixes):
			id, ok := m.identify(c)
			if !ok {
				target := loginPath + "?" + url.Values{redirectQueryKey: {path}}.Encode()
				c.Redirect(http.StatusFound, target)
				c.Abort()
				return
			}
			setIdentity(c, id)
		case matchesAny(path, authPages):
			if _, ok := m.identify(c); ok {
				c.Redirect(http.StatusFound, signedInLanding)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

func matchesAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
