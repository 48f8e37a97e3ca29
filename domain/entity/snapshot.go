package entity

import (
	"mime"
	"net/http"
	"strings"
)

// RequestSnapshot is what the logging middleware observed of an inbound
// request once the downstream handler returned.
type RequestSnapshot struct {
	RemoteAddr string
	Method     string
	Path       string
	RawQuery   string
	Header     http.Header
	Body       []byte
}

// ContentType returns the declared Content-Type header.
func (r RequestSnapshot) ContentType() string {
	return r.Header.Get("Content-Type")
}

// ContentEncoding returns the declared Content-Encoding header.
func (r RequestSnapshot) ContentEncoding() string {
	return r.Header.Get("Content-Encoding")
}

// CharacterEncoding returns the charset parameter of the Content-Type, or ""
// when none is declared.
func (r RequestSnapshot) CharacterEncoding() string {
	return CharsetOf(r.ContentType())
}

// ResponseSnapshot is the buffered response as written by the downstream
// handler.
type ResponseSnapshot struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ContentType returns the declared Content-Type header.
func (r ResponseSnapshot) ContentType() string {
	return r.Header.Get("Content-Type")
}

// ContentEncoding returns the declared Content-Encoding header.
func (r ResponseSnapshot) ContentEncoding() string {
	return r.Header.Get("Content-Encoding")
}

// CharsetOf extracts the charset parameter from a Content-Type value.
func CharsetOf(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(params["charset"])
}
