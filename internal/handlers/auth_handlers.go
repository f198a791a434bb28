package handlers

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"schemagraph/internal/middleware"
)

// sessionTTL is how long an editor session cookie stays valid.
const sessionTTL = 5 * 24 * time.Hour

// SessionIssuer is the subset of the Firebase auth client used to log editors in.
type SessionIssuer interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	SessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error)
}

// AuthHandler handles editor session endpoints
type AuthHandler struct {
	issuer SessionIssuer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(issuer SessionIssuer) *AuthHandler {
	return &AuthHandler{issuer: issuer}
}

// HandleLogin verifies the Firebase ID token and creates a session cookie
func (h *AuthHandler) HandleLogin(c echo.Context) error {
	if h.issuer == nil {
		return middleware.APIError(c, http.StatusServiceUnavailable, "AUTH_NOT_CONFIGURED", "Firebase not initialized")
	}

	// Get ID Token from Authorization Header
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return middleware.APIError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authorization header")
	}
	tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		return middleware.APIError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization format")
	}

	ctx := c.Request().Context()
	if _, err := h.issuer.VerifyIDToken(ctx, tokenString); err != nil {
		return middleware.APIError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
	}

	cookieValue, err := h.issuer.SessionCookie(ctx, tokenString, sessionTTL)
	if err != nil {
		return middleware.APIError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create session")
	}

	// Set HTTP-Only Cookie
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    cookieValue,
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   os.Getenv("ENV") == "production",
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	return ok(c, "Logged in", nil)
}

// HandleLogout clears the session cookie
func (h *AuthHandler) HandleLogout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})
	return ok(c, "Logged out", nil)
}
