package service

import (
	"fmt"
	"mime"
	"strings"
)

const wildcard = "*"

// MediaType is a parsed type/subtype pair, lowercased.
type MediaType struct {
	Type    string
	Subtype string
}

// ParseMediaType parses a Content-Type value, ignoring parameters.
func ParseMediaType(value string) (MediaType, error) {
	if strings.TrimSpace(value) == "" {
		return MediaType{}, fmt.Errorf("empty media type")
	}
	full, _, err := mime.ParseMediaType(value)
	if err != nil {
		return MediaType{}, fmt.Errorf("invalid media type %q: %w", value, err)
	}
	typ, sub, ok := strings.Cut(full, "/")
	if !ok || typ == "" || sub == "" {
		return MediaType{}, fmt.Errorf("invalid media type %q: missing subtype", value)
	}
	if typ == wildcard && sub != wildcard {
		return MediaType{}, fmt.Errorf("invalid media type %q: wildcard type requires wildcard subtype", value)
	}
	return MediaType{Type: typ, Subtype: sub}, nil
}

// MustParseMediaType is like ParseMediaType but panics on error.
func MustParseMediaType(value string) MediaType {
	mt, err := ParseMediaType(value)
	if err != nil {
		panic(err)
	}
	return mt
}

// String returns "type/subtype".
func (m MediaType) String() string {
	return m.Type + "/" + m.Subtype
}

// IsWildcardSubtype reports whether the subtype is "*" or "*+suffix".
func (m MediaType) IsWildcardSubtype() bool {
	return m.Subtype == wildcard || strings.HasPrefix(m.Subtype, "*+")
}

// Includes reports whether m includes other. "text/*" includes "text/plain",
// "application/*+json" includes "application/vnd.api+json".
func (m MediaType) Includes(other MediaType) bool {
	if m.Type == wildcard {
		return true
	}
	if m.Type != other.Type {
		return false
	}
	if m.Subtype == other.Subtype {
		return true
	}
	if !m.IsWildcardSubtype() {
		return false
	}
	thisPlus := strings.LastIndexByte(m.Subtype, '+')
	if thisPlus == -1 {
		return true
	}
	otherPlus := strings.LastIndexByte(other.Subtype, '+')
	if otherPlus == -1 {
		return false
	}
	return m.Subtype[:thisPlus] == wildcard && m.Subtype[thisPlus+1:] == other.Subtype[otherPlus+1:]
}

// VisibleMediaTypes are the content types whose bodies are rendered as text.
var VisibleMediaTypes = []MediaType{
	MustParseMediaType("text/*"),
	MustParseMediaType("application/x-www-form-urlencoded"),
	MustParseMediaType("application/json"),
	MustParseMediaType("application/xml"),
	MustParseMediaType("application/*+json"),
	MustParseMediaType("application/*+xml"),
	MustParseMediaType("multipart/form-data"),
}

// ContentClassifier decides whether a body may be logged as text.
type ContentClassifier struct {
	visible []MediaType
}

// NewContentClassifier returns a classifier over VisibleMediaTypes.
func NewContentClassifier() *ContentClassifier {
	return &ContentClassifier{visible: VisibleMediaTypes}
}

// IsVisible reports whether contentType is included by a visible media type.
// Missing or unparseable content types are opaque.
func (c *ContentClassifier) IsVisible(contentType string) bool {
	mt, err := ParseMediaType(contentType)
	if err != nil {
		return false
	}
	for _, v := range c.visible {
		if v.Includes(mt) {
			return true
		}
	}
	return false
}
