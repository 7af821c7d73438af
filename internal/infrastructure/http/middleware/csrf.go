package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	csrfCookie    = "hmf_csrf"
	csrfFormField = "csrf_token"
	csrfHeader    = "X-CSRF-Token"
)

// CSRF implements the double submit cookie check for state changing
// requests. Forms echo the token exposed under ContextCSRFToken.
func (m *Middleware) CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(csrfCookie)
		if err != nil || token == "" {
			token = randomToken()
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(csrfCookie, token, 0, "/", "", m.config.Auth.CookieSecure, true)
		}
		c.Set(ContextCSRFToken, token)

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		submitted := c.GetHeader(csrfHeader)
		if submitted == "" {
			submitted = c.PostForm(csrfFormField)
		}

		if err != nil || subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
			m.logger.Warn("CSRF token mismatch",
				zap.String("request_id", c.GetString(ContextRequestID)),
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "CSRF token missing or invalid"})
			return
		}

		c.Next()
	}
}
