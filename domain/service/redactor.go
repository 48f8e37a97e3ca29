package service

import (
	"net/http"
	"regexp"
	"sort"
	"strings"

	"http-logger/domain/entity"
)

// HeaderMask replaces the value of every sensitive header.
const HeaderMask = "*******"

// DefaultSensitiveHeaders are always masked.
var DefaultSensitiveHeaders = []string{
	"authorization",
	"proxy-authorization",
}

var (
	passwordBodyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`("password" *: *)("[\w|!@#$%^&*()]+")`),
		regexp.MustCompile(`("resetPassword" *: *)("[\w|!@#$%^&*()]+")`),
	}
	passwordMarkers = []string{`"password"`, `"resetPassword"`}
	lineBreak       = regexp.MustCompile(`\r\n|\r|\n`)
)

// Redactor masks sensitive header values and password fields in body text.
type Redactor struct {
	sensitive map[string]struct{}
}

// NewRedactor returns a redactor masking DefaultSensitiveHeaders plus the
// extra header names.
func NewRedactor(extraHeaders []string) *Redactor {
	sensitive := make(map[string]struct{}, len(DefaultSensitiveHeaders)+len(extraHeaders))
	for _, name := range DefaultSensitiveHeaders {
		sensitive[name] = struct{}{}
	}
	for _, name := range extraHeaders {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			sensitive[name] = struct{}{}
		}
	}
	return &Redactor{sensitive: sensitive}
}

// IsSensitiveHeader reports whether values of name must not be logged.
func (r *Redactor) IsSensitiveHeader(name string) bool {
	_, ok := r.sensitive[strings.ToLower(name)]
	return ok
}

// HeaderValue returns the value to log for a single header value.
func (r *Redactor) HeaderValue(name, value string) string {
	if r.IsSensitiveHeader(name) {
		return HeaderMask
	}
	return value
}

// RedactHeaders collapses h into one comma-joined value per name, sorted by
// name, with sensitive headers masked.
func (r *Redactor) RedactHeaders(h http.Header) entity.Headers {
	if len(h) == 0 {
		return entity.Headers{}
	}
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	headers := make(entity.Headers, 0, len(names))
	for _, name := range names {
		value := HeaderMask
		if !r.IsSensitiveHeader(name) {
			value = strings.Join(h[name], ",")
		}
		headers = append(headers, entity.HeaderEntry{Name: name, Value: value})
	}
	return headers
}

// RedactLine masks the first password field on a single line.
func (r *Redactor) RedactLine(line string) string {
	if !containsPasswordMarker(line) {
		return line
	}
	for _, pattern := range passwordBodyPatterns {
		loc := pattern.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		var sb strings.Builder
		sb.WriteString(line[:loc[0]])
		sb.WriteString(line[loc[2]:loc[3]])
		sb.WriteString(MaskCredential(line[loc[4]:loc[5]]))
		sb.WriteString(line[loc[1]:])
		return sb.String()
	}
	return line
}

// RedactBody applies RedactLine to every line of text, keeping the original
// line breaks.
func (r *Redactor) RedactBody(text string) string {
	if !containsPasswordMarker(text) {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text))
	start := 0
	for _, loc := range lineBreak.FindAllStringIndex(text, -1) {
		sb.WriteString(r.RedactLine(text[start:loc[0]]))
		sb.WriteString(text[loc[0]:loc[1]])
		start = loc[1]
	}
	sb.WriteString(r.RedactLine(text[start:]))
	return sb.String()
}

// MaskCredential masks a quoted credential token. The quotes are kept and
// the token becomes len(token)-2 asterisks, never fewer than zero.
func MaskCredential(quoted string) string {
	token := strings.TrimSuffix(strings.TrimPrefix(quoted, `"`), `"`)
	n := len(token) - 2
	if n < 0 {
		n = 0
	}
	return `"` + strings.Repeat("*", n) + `"`
}

// SplitLines splits text on any line break and drops trailing empty lines.
func SplitLines(text string) []string {
	lines := lineBreak.Split(text, -1)
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func containsPasswordMarker(s string) bool {
	for _, marker := range passwordMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
