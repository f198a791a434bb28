package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// SessionCookie is the name of the editor session cookie.
const SessionCookie = "session"

// TokenVerifier is the subset of the Firebase auth client the editor check uses.
type TokenVerifier interface {
	VerifySessionCookie(ctx context.Context, sessionCookie string) (*auth.Token, error)
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// RequireEditor returns a middleware that admits requests carrying a valid
// Firebase session cookie or "Authorization: Bearer <id token>". When
// verifier is nil the API answers 503 unless authentication is disabled.
func RequireEditor(verifier TokenVerifier, disabled bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if disabled {
				c.Set("userUID", "local")
				return next(c)
			}
			if verifier == nil {
				return APIError(c, http.StatusServiceUnavailable, "AUTH_NOT_CONFIGURED", "Editor authentication is not configured")
			}

			ctx := c.Request().Context()
			var (
				token *auth.Token
				err   error
			)
			if bearer, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)); ok {
				token, err = verifier.VerifyIDToken(ctx, bearer)
			} else if cookie, cerr := c.Cookie(SessionCookie); cerr == nil && cookie.Value != "" {
				token, err = verifier.VerifySessionCookie(ctx, cookie.Value)
				if err != nil {
					c.SetCookie(&http.Cookie{
						Name:     SessionCookie,
						Value:    "",
						MaxAge:   -1,
						HttpOnly: true,
						Path:     "/",
					})
				}
			} else {
				return APIError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Please log in to continue")
			}
			if err != nil {
				return APIError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired credentials")
			}

			// Set user info in context for downstream handlers
			c.Set("userUID", token.UID)
			if email, ok := token.Claims["email"].(string); ok {
				c.Set("userEmail", email)
			}
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
