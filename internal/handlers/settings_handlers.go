package handlers

import (
	"strings"

	"github.com/labstack/echo/v4"

	"schemagraph/internal/schemaerr"
	"schemagraph/internal/settings"
)

// SettingsHandler reads and writes the site-wide option groups.
type SettingsHandler struct {
	settings *settings.Accessor
}

func NewSettingsHandler(acc *settings.Accessor) *SettingsHandler {
	return &SettingsHandler{settings: acc}
}

// ListGroups returns the known option group names
func (h *SettingsHandler) ListGroups(c echo.Context) error {
	return ok(c, "", settings.Groups())
}

// GetGroup returns one option group with defaults filled in
func (h *SettingsHandler) GetGroup(c echo.Context) error {
	values, err := h.settings.Get(c.Request().Context(), c.Param("group"))
	if err != nil {
		if schemaerr.Is(err, schemaerr.ErrCodeConfigurationMissing) {
			return schemaerr.Wrap(schemaerr.ErrCodeNotFound, err, "settings group %q not found", c.Param("group"))
		}
		return err
	}
	return ok(c, "", values)
}

// ReplaceGroup stores the submitted values as the whole group
func (h *SettingsHandler) ReplaceGroup(c echo.Context) error {
	values, err := bindValues(c)
	if err != nil {
		return err
	}
	if err := h.settings.Set(c.Request().Context(), c.Param("group"), values); err != nil {
		return err
	}
	return ok(c, "Settings saved", nil)
}

// UpdateGroup merges the submitted values into the stored group
func (h *SettingsHandler) UpdateGroup(c echo.Context) error {
	values, err := bindValues(c)
	if err != nil {
		return err
	}
	if err := h.settings.Update(c.Request().Context(), c.Param("group"), values); err != nil {
		return err
	}
	return ok(c, "Settings saved", nil)
}

// ToggleGlobal switches structured data output on or off
func (h *SettingsHandler) ToggleGlobal(c echo.Context) error {
	ctx := c.Request().Context()
	g, err := h.settings.General(ctx)
	if err != nil {
		return err
	}
	enabled := !bool(g.Enabled)
	if err := h.settings.SetEnabled(ctx, enabled); err != nil {
		return err
	}
	message := "Schema output disabled"
	if enabled {
		message = "Schema output enabled"
	}
	return ok(c, message, map[string]any{"enabled": enabled})
}

func bindValues(c echo.Context) (map[string]any, error) {
	values := map[string]any{}
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		// BindBody keeps the :group path param out of the values
		if err := (&echo.DefaultBinder{}).BindBody(c, &values); err != nil {
			return nil, err
		}
		return values, nil
	}
	form, err := c.FormParams()
	if err != nil {
		return nil, schemaerr.Wrap(schemaerr.ErrCodeInvalidInput, err, "read form")
	}
	for k, v := range form {
		if len(v) == 1 {
			values[k] = v[0]
			continue
		}
		list := make([]any, len(v))
		for i, s := range v {
			list[i] = s
		}
		values[k] = list
	}
	return values, nil
}
