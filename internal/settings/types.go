package settings

import (
	"bytes"
	"strings"

	"github.com/goccy/go-json"
)

// GlobalSettings is the general group.
type GlobalSettings struct {
	Enabled             Flag   `json:"enabled"`
	OrgName             string `json:"org_name"`
	OrgType             string `json:"org_type"`
	OrgLogo             string `json:"org_logo"`
	OrgSocial           string `json:"org_social"`
	BreadcrumbHome      string `json:"breadcrumb_home"`
	BreadcrumbSeparator string `json:"breadcrumb_separator"`
	ShowCurrent         Flag   `json:"show_current"`
	HeaderSchema        Flag   `json:"header_schema"`
	FooterSchema        Flag   `json:"footer_schema"`
	HeaderMenuLocation  string `json:"header_menu_location"`
	FooterMenuLocation  string `json:"footer_menu_location"`
}

// ArticleSettings is the article group.
type ArticleSettings struct {
	Enabled     Flag   `json:"enabled"`
	ArticleType string `json:"article_type"`
}

// LocalBusinessSettings is the local_business group.
type LocalBusinessSettings struct {
	Enabled Flag   `json:"enabled"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Hours   string `json:"opening_hours"`
}

// Flag is a boolean option that also accepts the legacy encodings found in
// stored values: "1", "on", "yes", "true" and any non-zero number.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = false
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "1", "on", "yes", "true":
			*f = true
		default:
			*f = false
		}
	case bytes.Equal(b, []byte("true")):
		*f = true
	case bytes.Equal(b, []byte("false")):
		*f = false
	default:
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*f = n != 0
	}
	return nil
}

// defaults returns the default values of every group.
func defaults(siteName string) map[string]map[string]any {
	disabled := func() map[string]any { return map[string]any{"enabled": false} }
	return map[string]map[string]any{
		GroupGeneral: {
			"enabled":              true,
			"org_name":             siteName,
			"org_type":             "Organization",
			"org_logo":             "",
			"org_social":           "",
			"breadcrumb_home":      "Home",
			"breadcrumb_separator": " › ",
			"show_current":         true,
			"header_schema":        true,
			"footer_schema":        true,
			"header_menu_location": "",
			"footer_menu_location": "",
		},
		GroupArticle: {
			"enabled":      true,
			"article_type": "Article",
		},
		GroupLocalBusiness: {
			"enabled":       false,
			"name":          "",
			"address":       "",
			"phone":         "",
			"email":         "",
			"opening_hours": "",
		},
		GroupAboutPage:   disabled(),
		GroupContactPage: disabled(),
		GroupPerson:      disabled(),
		GroupAuthor:      disabled(),
		GroupPublisher:   disabled(),
		GroupProduct:     disabled(),
		GroupFAQ:         disabled(),
	}
}
