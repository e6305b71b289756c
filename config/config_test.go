package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Fetch.MaxCommits != 100 {
		t.Errorf("Fetch.MaxCommits = %d, expected 100", cfg.Fetch.MaxCommits)
	}
	if cfg.Fetch.Backend != "go-git" {
		t.Errorf("Fetch.Backend = %q, expected %q", cfg.Fetch.Backend, "go-git")
	}
	if cfg.Fetch.Workers != 8 {
		t.Errorf("Fetch.Workers = %d, expected 8", cfg.Fetch.Workers)
	}
	if cfg.CleanupDelay() != 5*time.Second {
		t.Errorf("CleanupDelay() = %s, expected 5s", cfg.CleanupDelay())
	}
	if cfg.Gap() != 150*time.Millisecond {
		t.Errorf("Gap() = %s, expected 150ms", cfg.Gap())
	}
	if cfg.FrameInterval() != 50*time.Millisecond {
		t.Errorf("FrameInterval() = %s, expected 50ms", cfg.FrameInterval())
	}
	if cfg.Server.Address != "0.0.0.0:3001" {
		t.Errorf("Server.Address = %q, expected %q", cfg.Server.Address, "0.0.0.0:3001")
	}
	if cfg.ServerTimeout() != time.Minute {
		t.Errorf("ServerTimeout() = %s, expected 1m", cfg.ServerTimeout())
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, expected info", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "zero max commits", mutate: func(c *Config) { c.Fetch.MaxCommits = 0 }, wantErr: "maxCommits"},
		{name: "too many commits", mutate: func(c *Config) { c.Fetch.MaxCommits = MaxCommitsLimit + 1 }, wantErr: "maxCommits"},
		{name: "unknown backend", mutate: func(c *Config) { c.Fetch.Backend = "libgit2" }, wantErr: "backend"},
		{name: "cli backend", mutate: func(c *Config) { c.Fetch.Backend = "git-cli" }},
		{name: "negative workers", mutate: func(c *Config) { c.Fetch.Workers = -1 }, wantErr: "workers"},
		{name: "negative depth", mutate: func(c *Config) { c.Fetch.CloneDepth = -2 }, wantErr: "cloneDepth"},
		{name: "negative cleanup", mutate: func(c *Config) { c.Fetch.CleanupDelaySeconds = -1 }, wantErr: "cleanupDelaySeconds"},
		{name: "gap too long", mutate: func(c *Config) { c.Playback.GapSeconds = 1.5 }, wantErr: "gapSeconds"},
		{name: "negative gap", mutate: func(c *Config) { c.Playback.GapSeconds = -0.1 }, wantErr: "gapSeconds"},
		{name: "zero gap", mutate: func(c *Config) { c.Playback.GapSeconds = 0 }},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "log.level"},
		{name: "upper log level", mutate: func(c *Config) { c.Log.Level = "DEBUG" }},
		{name: "bad pattern", mutate: func(c *Config) { c.Filters.Exclude = []string{"[a-"} }, wantErr: "filters"},
		{name: "good pattern", mutate: func(c *Config) { c.Filters.Include = []string{"src/**/*.go"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, expected nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, expected error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_JSONMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	data := `{"fetch": {"maxCommits": 42, "backend": "git-cli"}, "filters": {"exclude": ["vendor/**"]}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Fetch.MaxCommits != 42 || cfg.Fetch.Backend != "git-cli" {
		t.Errorf("file values not applied: %+v", cfg.Fetch)
	}
	if cfg.Fetch.Workers != 8 || cfg.Playback.GapSeconds != 0.15 {
		t.Errorf("defaults lost: %+v %+v", cfg.Fetch, cfg.Playback)
	}
	if len(cfg.Filters.Exclude) != 1 || cfg.Filters.Exclude[0] != "vendor/**" {
		t.Errorf("Filters.Exclude = %v", cfg.Filters.Exclude)
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := "playback:\n  gapSeconds: 0.5\nserver:\n  address: 127.0.0.1:9000\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Gap() != 500*time.Millisecond {
		t.Errorf("Gap() = %s, expected 500ms", cfg.Gap())
	}
	if cfg.Server.Address != "127.0.0.1:9000" {
		t.Errorf("Server.Address = %q", cfg.Server.Address)
	}
	if cfg.Fetch.MaxCommits != 100 {
		t.Errorf("Fetch.MaxCommits = %d, expected default", cfg.Fetch.MaxCommits)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	if err := os.WriteFile(path, []byte(`{"fetch": {"maxCommits": 42}}`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GITSYMPHONY_MAX_COMMITS", "7")
	t.Setenv("GITSYMPHONY_INCLUDE", "src/**,lib/**")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Fetch.MaxCommits != 7 {
		t.Errorf("Fetch.MaxCommits = %d, expected env value 7", cfg.Fetch.MaxCommits)
	}
	if len(cfg.Filters.Include) != 2 || cfg.Filters.Include[1] != "lib/**" {
		t.Errorf("Filters.Include = %v", cfg.Filters.Include)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Fetch.MaxCommits != 100 {
		t.Errorf("Fetch.MaxCommits = %d, expected 100", cfg.Fetch.MaxCommits)
	}
}

func TestLoadConfig_Discovery(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	if err := os.WriteFile(filepath.Join(dir, ".gitsymphony.yaml"), []byte("fetch:\n  maxCommits: 12\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Fetch.MaxCommits != 12 {
		t.Errorf("Fetch.MaxCommits = %d, expected discovered value 12", cfg.Fetch.MaxCommits)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	if err := os.WriteFile(path, []byte(`{"playback": {"gapSeconds": 3}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	if err := os.WriteFile(path, []byte(`{"fetch": `), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.json")
	cfg := DefaultConfig()
	cfg.Fetch.Branch = "develop"
	cfg.Filters.Exclude = []string{"docs/**"}

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Fetch.Branch != "develop" || len(loaded.Filters.Exclude) != 1 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
