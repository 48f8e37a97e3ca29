package service

import (
	"errors"
	"testing"
)

func TestURLMatcher_Matches(t *testing.T) {
	m, err := NewURLMatcher([]string{"/health", "/static/**", "/api/*/status", ""})
	if err != nil {
		t.Fatalf("NewURLMatcher() error = %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"/health", true},
		{"/health/live", false},
		{"/healthz", false},
		{"/static/css/app.css", true},
		{"/static/logo.png", true},
		{"/api/v1/status", true},
		{"/api/v1/x/status", false},
		{"/login", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := m.Matches(tt.path); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}

	if m.Matches("") {
		t.Error("empty pattern should be dropped, not match the empty path")
	}
}

func TestURLMatcher_InvalidPattern(t *testing.T) {
	_, err := NewURLMatcher([]string{"/ok", "/bad/[a-"})
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
	if !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("expected ErrInvalidPattern, got %v", err)
	}
}

func TestURLMatcher_Nil(t *testing.T) {
	var m *URLMatcher
	if m.Matches("/anything") {
		t.Error("nil matcher should match nothing")
	}
}
