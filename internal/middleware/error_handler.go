package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"schemagraph/internal/schemaerr"
)

// Response is the JSON envelope of every API answer.
type Response struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// APIError writes a failure envelope.
func APIError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, Response{Success: false, Code: code, Message: message})
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code schemaerr.Code) int {
	switch code {
	case schemaerr.ErrCodeNotFound:
		return http.StatusNotFound
	case schemaerr.ErrCodeInvalidInput, schemaerr.ErrCodeUnsupportedType, schemaerr.ErrCodeValidation:
		return http.StatusBadRequest
	case schemaerr.ErrCodeStorageConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// CustomErrorHandler creates a custom error handler for Echo. API routes get
// the JSON envelope; page routes get the error template.
func CustomErrorHandler(logger *log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		code := string(schemaerr.ErrCodeInternal)
		message := "Something went wrong. Please try again later."

		var he *echo.HTTPError
		var se *schemaerr.Error
		var ve *schemaerr.ValidationError
		switch {
		case errors.As(err, &he):
			status = he.Code
			code = strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
			if msg, ok := he.Message.(string); ok && msg != "" {
				message = msg
			} else {
				message = http.StatusText(status)
			}
		case errors.As(err, &ve):
			status = http.StatusBadRequest
			code = string(schemaerr.ErrCodeValidation)
			message = schemaerr.UserMessage(ve)
		case errors.As(err, &se):
			status = StatusFor(se.Code)
			code = string(se.Code)
			if status != http.StatusInternalServerError {
				message = schemaerr.UserMessage(err)
			}
		}

		if status >= http.StatusInternalServerError {
			logger.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
		} else {
			logger.Debug("request rejected", "method", c.Request().Method, "path", c.Path(), "status", status, "error", err)
		}

		if strings.HasPrefix(c.Request().URL.Path, "/api/") || strings.HasPrefix(c.Request().URL.Path, "/auth/") || c.Echo().Renderer == nil {
			if jerr := APIError(c, status, code, message); jerr != nil {
				logger.Error("failed to write error response", "error", jerr)
			}
			return
		}

		data := map[string]any{
			"Title":        http.StatusText(status),
			"ErrorTitle":   http.StatusText(status),
			"ErrorMessage": message,
		}
		if rerr := c.Render(status, "error.html", data); rerr != nil {
			// Fallback to plain text if template fails
			logger.Error("failed to render error page", "error", rerr)
			_ = c.String(status, message)
		}
	}
}
