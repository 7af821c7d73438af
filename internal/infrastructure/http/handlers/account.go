package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/infrastructure/config"
	"github.com/homemadefood/backoffice/internal/infrastructure/security"
	"github.com/homemadefood/backoffice/internal/ports/inbound"
	"github.com/homemadefood/backoffice/internal/ports/outbound"
	apperrors "github.com/homemadefood/backoffice/pkg/errors"
)

const defaultLandingPath = "/admin/daily-menus"

// AccountHandler signs administrators in and out
type AccountHandler struct {
	accounts     inbound.AccountService
	tokens       *security.TokenService
	auth         *security.Authenticator
	cookieSecure bool
	views        *Views
	logger       *zap.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(
	accounts inbound.AccountService,
	tokens *security.TokenService,
	auth *security.Authenticator,
	cfg config.AuthConfig,
	views *Views,
	logger *zap.Logger,
) *AccountHandler {
	return &AccountHandler{
		accounts:     accounts,
		tokens:       tokens,
		auth:         auth,
		cookieSecure: cfg.CookieSecure,
		views:        views,
		logger:       logger.Named("account-handler"),
	}
}

type loginForm struct {
	Email     string `form:"email" binding:"required,email"`
	Password  string `form:"password" binding:"required"`
	ReturnURL string `form:"returnUrl"`
}

// RegisterRoutes registers the account routes below r
func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup) {
	account := r.Group("/account")
	{
		account.GET("/login", h.LoginForm)
		account.POST("/login", h.Login)
		account.POST("/logout", h.Logout)
	}
}

func (h *AccountHandler) LoginForm(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, loginForm{ReturnURL: c.Query("returnUrl")}, nil)
}

// Login sets the session cookie and sends the browser back where it came from
func (h *AccountHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		form.Password = ""
		h.renderLogin(c, http.StatusBadRequest, form, formErrors(err))
		return
	}

	session, err := h.accounts.Login(c.Request.Context(), form.Email, form.Password)
	h.views.metrics.LoginAttempt(err)
	if err != nil {
		form.Password = ""
		status := http.StatusInternalServerError
		message := "Signing in failed. Please try again."
		if apperrors.Is(err, apperrors.CodeInvalidCredentials) {
			status = http.StatusUnauthorized
			message = "Invalid email or password."
			h.logger.Info("Login rejected", zap.String("email", form.Email), zap.String("ip", c.ClientIP()))
		} else {
			h.logger.Error("Login failed", zap.String("email", form.Email), zap.Error(err))
		}
		h.renderLogin(c, status, form, []string{message})
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.auth.CookieName(), session.Token, maxAge, "/", "", h.cookieSecure, true)

	h.views.Toast(c, outbound.ToastSuccess, toastSuccessTitle, "Welcome back, "+session.Email+".")
	redirect(c, safeReturnURL(form.ReturnURL))
}

// Logout revokes the current token and clears the cookie
func (h *AccountHandler) Logout(c *gin.Context) {
	if tokenString := h.auth.TokenFromRequest(c); tokenString != "" {
		claims, err := h.tokens.Validate(c.Request.Context(), tokenString)
		if err == nil {
			if err := h.tokens.Revoke(c.Request.Context(), claims); err != nil {
				h.logger.Warn("Failed to revoke token on logout", zap.String("user_id", claims.UserID), zap.Error(err))
			}
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.auth.CookieName(), "", -1, "/", "", h.cookieSecure, true)

	h.views.Toast(c, outbound.ToastInfo, "Signed out", "You have been signed out.")
	redirect(c, security.LoginPath)
}

func (h *AccountHandler) renderLogin(c *gin.Context, status int, values loginForm, errs []string) {
	h.views.Render(c, status, "account/login", "Sign in", Form[loginForm]{
		Values: values,
		Errors: errs,
		Action: security.LoginPath,
	})
}

// safeReturnURL only follows local paths
func safeReturnURL(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return defaultLandingPath
	}
	return raw
}
