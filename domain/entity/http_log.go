package entity

import (
	"bytes"
	"encoding/json"
	"strings"
)

// HeaderEntry is a single logged header: the name and its comma-joined values.
type HeaderEntry struct {
	Name  string
	Value string
}

// Headers is an ordered header mapping. It serializes as a JSON object whose
// keys keep the slice order.
type Headers []HeaderEntry

// Get returns the value logged for name, compared case-insensitively.
func (h Headers) Get(name string) (string, bool) {
	for _, e := range h {
		if strings.EqualFold(e.Name, name) {
			return e.Value, true
		}
	}
	return "", false
}

// Len returns the number of logged headers.
func (h Headers) Len() int {
	return len(h)
}

// MarshalJSON encodes the headers as an object, preserving order.
func (h Headers) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range h {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// HTTPLog is the structured record emitted once per completed request.
//
// Response headers are keyed "response_headers"; some producers of this
// format reuse "response_body" for them, which collides with the body field.
type HTTPLog struct {
	IP              string  `json:"ip"`
	Method          string  `json:"method"`
	URL             string  `json:"url"`
	StatusCode      string  `json:"status_code"`
	RequestHeaders  Headers `json:"request_headers"`
	RequestBody     string  `json:"request_body"`
	RequestParams   string  `json:"request_params"`
	ResponseHeaders Headers `json:"response_headers"`
	ResponseBody    string  `json:"response_body"`
}
