package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"http-logger/domain/port"
	"http-logger/infrastructure/config"
)

func TestConfigAdapter_HTTPLogging(t *testing.T) {
	disabled := false
	mgr := config.NewManagerForTest(&config.Config{
		Listen: ":9999",
		HTTPLogging: config.HTTPLogging{
			Enabled:            &disabled,
			ExcludeURLPatterns: []string{"/health"},
			ExcludeHeaders:     []string{"X-Api-Key"},
			Style:              "TEXT",
		},
	})
	adapter := NewConfigAdapter(mgr)

	got := adapter.HTTPLogging()
	if got.Enabled {
		t.Error("Enabled should be false")
	}
	if got.Style != port.RecordStyleText {
		t.Errorf("Style = %q", got.Style)
	}
	if len(got.ExcludeURLPatterns) != 1 || got.ExcludeURLPatterns[0] != "/health" {
		t.Errorf("ExcludeURLPatterns = %v", got.ExcludeURLPatterns)
	}
	if len(got.ExcludeHeaders) != 1 || got.ExcludeHeaders[0] != "X-Api-Key" {
		t.Errorf("ExcludeHeaders = %v", got.ExcludeHeaders)
	}
	if adapter.Listen() != ":9999" {
		t.Errorf("Listen() = %q", adapter.Listen())
	}

	got.ExcludeURLPatterns[0] = "/changed"
	if mgr.Get().HTTPLogging.ExcludeURLPatterns[0] != "/health" {
		t.Error("returned slices must not alias the config")
	}
}

func TestConfigAdapter_Defaults(t *testing.T) {
	adapter := NewConfigAdapter(config.NewManagerForTest(&config.Config{}))
	got := adapter.HTTPLogging()
	if got.Enabled || got.Style != port.RecordStyleJSON {
		t.Errorf("unexpected defaults %+v", got)
	}
	if adapter.Listen() != ":8080" {
		t.Errorf("Listen() = %q", adapter.Listen())
	}
}

func TestConfigAdapter_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	base := time.Now().Add(-time.Hour)
	if err := os.WriteFile(path, []byte("http_logging:\n  enabled: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	os.Chtimes(path, base, base)

	mgr, err := config.NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	defer mgr.StopWatch()
	adapter := NewConfigAdapter(mgr)
	ch := adapter.Watch()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte("http_logging:\n  enabled: false\n"), 0644); err != nil {
		t.Fatal(err)
	}
	os.Chtimes(tmp, base.Add(time.Minute), base.Add(time.Minute))
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	// Get reloads synchronously on an mtime change and notifies watchers.
	if adapter.HTTPLogging().Enabled {
		t.Error("reloaded config should be disabled")
	}
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for config change notification")
	}
}
