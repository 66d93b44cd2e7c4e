package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("MAILTRIAGE_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if got := cfg.InitialFetchDelay(); got != time.Second {
		t.Errorf("InitialFetchDelay = %v, want 1s", got)
	}
	if got := cfg.SyncRefreshDelay(); got != 5*time.Second {
		t.Errorf("SyncRefreshDelay = %v, want 5s", got)
	}
	if got := cfg.ToastDuration(); got != 3*time.Second {
		t.Errorf("ToastDuration = %v, want 3s", got)
	}
	if got := cfg.ListenAddr(); got != "127.0.0.1:8000" {
		t.Errorf("ListenAddr = %v", got)
	}
}

func TestLoadReadsFileOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MAILTRIAGE_HOME", dir)

	content := `
[backend]
base_url = "http://10.0.0.5:9000"
request_timeout = "10s"

[ui]
toast_duration = "1500ms"

[server]
port = 9000
cors_origins = ["http://localhost:5173"]
ingest_schedule = "@every 2m"
`
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://10.0.0.5:9000" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if got := cfg.RequestTimeout(); got != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", got)
	}
	if got := cfg.ToastDuration(); got != 1500*time.Millisecond {
		t.Errorf("ToastDuration = %v, want 1.5s", got)
	}
	if got := cfg.ListenAddr(); got != "127.0.0.1:9000" {
		t.Errorf("ListenAddr = %q", got)
	}
	if cfg.Server.IngestSchedule != "@every 2m" {
		t.Errorf("IngestSchedule = %q", cfg.Server.IngestSchedule)
	}
	// Values the file doesn't mention keep their defaults.
	if got := cfg.InitialFetchDelay(); got != time.Second {
		t.Errorf("InitialFetchDelay = %v, want default 1s", got)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntoast_duration = \"soon\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unparseable duration")
	}
}

func TestDefaultHomeHonorsEnv(t *testing.T) {
	t.Setenv("MAILTRIAGE_HOME", "/tmp/custom-home")
	if got := DefaultHome(); got != "/tmp/custom-home" {
		t.Errorf("DefaultHome = %q", got)
	}
}
