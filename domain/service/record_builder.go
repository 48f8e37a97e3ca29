package service

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"http-logger/domain/entity"
)

// responseCharset is always used for response bodies; the declared response
// encoding is not trusted.
const responseCharset = "utf-8"

const (
	requestMarker  = "-- REQUEST --"
	responseMarker = "-- RESPONSE --"
)

// RecordBuilder assembles one log record from a finished exchange.
type RecordBuilder struct {
	excludes *URLMatcher
	redactor *Redactor
	renderer *BodyRenderer
}

// NewRecordBuilder wires the builder. A nil redactor masks only the default
// sensitive headers.
func NewRecordBuilder(excludes *URLMatcher, redactor *Redactor, renderer *BodyRenderer) *RecordBuilder {
	if redactor == nil {
		redactor = NewRedactor(nil)
	}
	if renderer == nil {
		renderer = NewBodyRenderer(nil)
	}
	return &RecordBuilder{excludes: excludes, redactor: redactor, renderer: renderer}
}

// IsExcluded reports whether no record may be produced for path.
func (b *RecordBuilder) IsExcluded(path string) bool {
	return b.excludes.Matches(path)
}

// Build returns the structured record, or nil when the path is excluded.
func (b *RecordBuilder) Build(req entity.RequestSnapshot, resp entity.ResponseSnapshot) *entity.HTTPLog {
	if b.IsExcluded(req.Path) {
		return nil
	}
	return &entity.HTTPLog{
		IP:              req.RemoteAddr,
		Method:          req.Method,
		URL:             req.Path,
		StatusCode:      strconv.Itoa(resp.StatusCode),
		RequestHeaders:  b.redactor.RedactHeaders(req.Header),
		RequestBody:     b.body(req.Body, req.ContentType(), req.ContentEncoding(), req.CharacterEncoding()),
		RequestParams:   req.RawQuery,
		ResponseHeaders: b.redactor.RedactHeaders(resp.Header),
		ResponseBody:    b.body(resp.Body, resp.ContentType(), resp.ContentEncoding(), responseCharset),
	}
}

func (b *RecordBuilder) body(body []byte, contentType, contentEncoding, charset string) string {
	if len(body) == 0 {
		return ""
	}
	text, ok := b.renderer.Render(body, contentType, contentEncoding, charset)
	if !ok {
		return Placeholder(len(body))
	}
	return b.redactor.RedactBody(text)
}

// BuildText renders the line-oriented block. ok is false when the path is
// excluded.
func (b *RecordBuilder) BuildText(req entity.RequestSnapshot, resp entity.ResponseSnapshot) (string, bool) {
	if b.IsExcluded(req.Path) {
		return "", false
	}
	var msg strings.Builder
	in := req.RemoteAddr + "|>"
	out := req.RemoteAddr + "|<"

	msg.WriteString("\n" + requestMarker + "\n")
	if req.RawQuery == "" {
		fmt.Fprintf(&msg, "%s %s %s\n", in, req.Method, req.Path)
	} else {
		fmt.Fprintf(&msg, "%s %s %s?%s\n", in, req.Method, req.Path, req.RawQuery)
	}
	b.writeHeaderLines(&msg, in, req.Header)
	b.writeContentLines(&msg, in, req.Body, req.ContentType(), req.ContentEncoding(), req.CharacterEncoding())

	msg.WriteString("\n" + responseMarker + "\n")
	if reason := http.StatusText(resp.StatusCode); reason != "" {
		fmt.Fprintf(&msg, "%s %d %s\n", out, resp.StatusCode, reason)
	} else {
		fmt.Fprintf(&msg, "%s %d\n", out, resp.StatusCode)
	}
	b.writeHeaderLines(&msg, out, resp.Header)
	b.writeContentLines(&msg, out, resp.Body, resp.ContentType(), resp.ContentEncoding(), responseCharset)

	return msg.String(), true
}

func (b *RecordBuilder) writeHeaderLines(msg *strings.Builder, prefix string, h http.Header) {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range h[name] {
			fmt.Fprintf(msg, "%s %s: %s\n", prefix, name, b.redactor.HeaderValue(name, value))
		}
	}
	msg.WriteString(prefix + "\n")
}

func (b *RecordBuilder) writeContentLines(msg *strings.Builder, prefix string, body []byte, contentType, contentEncoding, charset string) {
	if len(body) == 0 {
		return
	}
	text, ok := b.renderer.Render(body, contentType, contentEncoding, charset)
	if !ok {
		fmt.Fprintf(msg, "%s %s\n", prefix, Placeholder(len(body)))
		return
	}
	for _, line := range SplitLines(text) {
		fmt.Fprintf(msg, "%s %s\n", prefix, b.redactor.RedactLine(line))
	}
}
