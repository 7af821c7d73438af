package security

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/infrastructure/config"
)

// Context keys set by Authenticate
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserRoles = "user_roles"
	ContextClaims    = "claims"
)

// LoginPath is where browsers are sent when they need to sign in
const LoginPath = "/account/login"

// Authenticator guards routes with the session token
type Authenticator struct {
	tokens     *TokenService
	cookieName string
	logger     *zap.Logger
}

// NewAuthenticator creates the authentication middleware factory
func NewAuthenticator(tokens *TokenService, cfg config.AuthConfig, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		tokens:     tokens,
		cookieName: cfg.CookieName,
		logger:     logger.Named("auth"),
	}
}

// CookieName is the cookie the session token travels in
func (a *Authenticator) CookieName() string {
	return a.cookieName
}

// TokenFromRequest reads the session cookie, falling back to a Bearer header
func (a *Authenticator) TokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(a.cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// Authenticate rejects requests without a valid token
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := a.TokenFromRequest(c)
		if tokenString == "" {
			a.deny(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := a.tokens.Validate(c.Request.Context(), tokenString)
		if err != nil {
			a.logger.Debug("Rejected session token",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			a.deny(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextUserRoles, claims.Roles)
		c.Next()
	}
}

// RequireRole admits authenticated users holding any of roles
func (a *Authenticator) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			a.deny(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		for _, role := range roles {
			if claims.HasRole(role) {
				c.Next()
				return
			}
		}

		a.logger.Warn("Role access denied",
			zap.String("user_id", claims.UserID),
			zap.Strings("user_roles", claims.Roles),
			zap.Strings("required_roles", roles),
			zap.String("ip", c.ClientIP()),
		)
		a.deny(c, http.StatusForbidden, "Insufficient role permissions")
	}
}

// CurrentClaims returns the claims stored by Authenticate
func CurrentClaims(c *gin.Context) (*Claims, bool) {
	value, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*Claims)
	return claims, ok
}

func (a *Authenticator) deny(c *gin.Context, status int, message string) {
	if wantsHTML(c) {
		target := LoginPath + "?returnUrl=" + url.QueryEscape(c.Request.URL.RequestURI())
		c.Redirect(http.StatusFound, target)
		c.Abort()
		return
	}

	c.JSON(status, gin.H{"error": message})
	c.Abort()
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
