package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Storage.DatabasePath == "" {
		t.Error("database_path should be set")
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_appliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("debug: true\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Search.DefaultLimit != 50 || cfg.Search.MaxLimit != 200 || cfg.Search.SuggestionLimit != 5 {
		t.Errorf("unexpected search defaults: %+v", cfg.Search)
	}
	if cfg.History.RetentionDays != 30 {
		t.Errorf("unexpected retention default: %d", cfg.History.RetentionDays)
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
storage:
  database_path: "./data/worklog.db"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "data", "worklog.db")
	if cfg.Storage.DatabasePath != want {
		t.Errorf("database_path = %q, want %q", cfg.Storage.DatabasePath, want)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Server.Port = 9100
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9100 {
		t.Errorf("port = %d, want 9100", loaded.Server.Port)
	}
}

func TestWatcher_reloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var got *Config
	reloaded := make(chan struct{}, 1)
	w := NewWatcher(path, func(cfg *Config) {
		mu.Lock()
		got = cfg
		mu.Unlock()
		select {
		case reloaded <- struct{}{}:
		default:
		}
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("server:\n  port: 9200\n"), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
	mu.Lock()
	defer mu.Unlock()
	if got == nil || got.Server.Port != 9200 {
		t.Fatalf("reloaded config = %+v", got)
	}
}

func TestWatcher_ignoresMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0600); err != nil {
		t.Fatal(err)
	}

	calls := make(chan struct{}, 4)
	w := NewWatcher(path, func(*Config) { calls <- struct{}{} }, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte(":: not yaml ["), 0600); err != nil {
		t.Fatal(err)
	}
	select {
	case <-calls:
		t.Fatal("callback fired for a malformed config")
	case <-time.After(time.Second):
	}
}
