package service

import (
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidPattern is returned for exclude patterns that cannot be compiled.
var ErrInvalidPattern = errors.New("invalid url pattern")

// URLMatcher tests request paths against exclude globs ("*" within a path
// segment, "**" across segments).
type URLMatcher struct {
	patterns []string
}

// NewURLMatcher validates every pattern up front so bad configuration fails
// at load time rather than per request.
func NewURLMatcher(patterns []string) (*URLMatcher, error) {
	valid := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if err := ValidateURLPattern(p); err != nil {
			return nil, err
		}
		valid = append(valid, p)
	}
	return &URLMatcher{patterns: valid}, nil
}

// ValidateURLPattern reports whether p is a usable exclude pattern.
func ValidateURLPattern(p string) error {
	if !doublestar.ValidatePattern(p) {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, p)
	}
	return nil
}

// Matches reports whether path matches any pattern, in order.
func (m *URLMatcher) Matches(path string) bool {
	if m == nil {
		return false
	}
	for _, p := range m.patterns {
		if ok, err := doublestar.Match(p, path); err == nil && ok {
			return true
		}
	}
	return false
}
