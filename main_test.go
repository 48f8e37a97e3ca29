package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"http-logger/adapter/logging"
	"http-logger/infrastructure/config"
	infralogging "http-logger/infrastructure/logging"
)

func TestMain(m *testing.M) {
	infralogging.InitTestLoggers()
	os.Exit(m.Run())
}

func TestBuildHandler(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantEnabled bool
	}{
		{"enabled key missing", "http_logging:\n  exclude_url_patterns: [\"/health\"]\n", false},
		{"enabled explicitly", "http_logging:\n  enabled: true\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			httpLog, handler, err := buildHandler(cfg, nil, logging.NewZapHTTPLogSink(nil), demoAccount())
			if err != nil {
				t.Fatalf("buildHandler() error = %v", err)
			}
			if httpLog.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", httpLog.Enabled(), tt.wantEnabled)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
			want := fmt.Sprintf(`"http_logging":%v`, tt.wantEnabled)
			if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), want) {
				t.Errorf("health = %d %q", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestBuildHandler_InvalidStyle(t *testing.T) {
	cfg := &config.Config{HTTPLogging: config.HTTPLogging{Style: "xml"}}
	if _, _, err := buildHandler(cfg, nil, logging.NewZapHTTPLogSink(nil), demoAccount()); err == nil {
		t.Error("expected error for unknown style")
	}
}

func TestDemoAccount(t *testing.T) {
	t.Setenv("HTTP_LOGGER_USER", "alice")
	t.Setenv("HTTP_LOGGER_PASSWORD", "pw")

	account := demoAccount()
	if account.Username != "alice" || account.Password != "pw" {
		t.Errorf("demoAccount() = %+v", account)
	}
}
