package schema

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Text reduces s to a single line of plain text: markup removed, control
// characters dropped and whitespace runs collapsed.
func Text(s string) string {
	s = stripMarkup(s)
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// Textarea is Text for multi-line input; line breaks survive.
func Textarea(s string) string {
	s = strings.ReplaceAll(stripMarkup(s), "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.FieldsFunc(line, unicode.IsSpace), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

var allowedSchemes = map[string]bool{"http": true, "https": true, "mailto": true, "tel": true, "ftp": true}

// URL returns s as a URL safe to embed, or "" when it uses a disallowed scheme
// or does not parse. Bare host names get an http:// prefix.
func URL(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, " ", "%20")

	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	if u.Scheme == "" {
		if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "#") || strings.HasPrefix(s, "?") {
			return s
		}
		return URL("http://" + s)
	}
	if !allowedSchemes[strings.ToLower(u.Scheme)] {
		return ""
	}
	return s
}

// Email keeps address-format characters and returns "" for anything that is
// not local@domain.tld.
func Email(s string) string {
	s = strings.TrimSpace(s)
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return ""
	}
	local = strings.Map(func(r rune) rune {
		if r < 0x80 && (unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("!#$%&'*+/=?^_`{|}~.-", r)) {
			return r
		}
		return -1
	}, local)
	labels := strings.Split(strings.ToLower(domain), ".")
	if local == "" || len(labels) < 2 {
		return ""
	}
	for _, l := range labels {
		l = strings.Trim(l, "-")
		if l == "" {
			return ""
		}
		for _, r := range l {
			if r >= 0x80 || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-') {
				return ""
			}
		}
	}
	return local + "@" + strings.Join(labels, ".")
}

// stripMarkup drops tags, script/style bodies and control characters other
// than newlines and tabs. Entities are decoded.
func stripMarkup(s string) string {
	if strings.ContainsAny(s, "<&") {
		s = htmlText(s)
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func htmlText(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				skip++
			case "br", "p", "div", "li":
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if n := string(name); (n == "script" || n == "style") && skip > 0 {
				skip--
			}
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

// TrimWords keeps the first n words of s and appends more when words were cut.
func TrimWords(s string, n int, more string) string {
	words := strings.Fields(Text(s))
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + more
}

// Slug lowercases s and joins its letter/digit runs with dashes.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(Text(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
