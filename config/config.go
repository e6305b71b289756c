package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/errm"

	"github.com/masmgr/gitsymphony/internal/git"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileNames are the configuration files searched in the working directory
// and then in the home directory.
var FileNames = []string{".gitsymphony.json", ".gitsymphony.yaml", ".gitsymphony.yml"}

// Limits for validated values.
const (
	MaxCommitsLimit = 10000
	MaxGapSeconds   = 1.0
)

// Config is the root configuration structure.
type Config struct {
	Fetch    FetchConfig    `json:"fetch" yaml:"fetch"`
	Playback PlaybackConfig `json:"playback" yaml:"playback"`
	Server   ServerConfig   `json:"server" yaml:"server"`
	Filters  FilterConfig   `json:"filters" yaml:"filters"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// FetchConfig holds repository reading options.
type FetchConfig struct {
	MaxCommits          int    `json:"maxCommits" yaml:"maxCommits" env:"GITSYMPHONY_MAX_COMMITS"`                   // Default: 100
	Backend             string `json:"backend" yaml:"backend" env:"GITSYMPHONY_BACKEND"`                             // go-git or git-cli
	Branch              string `json:"branch" yaml:"branch" env:"GITSYMPHONY_BRANCH"`                                // Default: HEAD
	Workers             int    `json:"workers" yaml:"workers" env:"GITSYMPHONY_WORKERS"`                             // Default: 8
	CloneDepth          int    `json:"cloneDepth" yaml:"cloneDepth" env:"GITSYMPHONY_CLONE_DEPTH"`                   // 0 clones full history
	CleanupDelaySeconds int    `json:"cleanupDelaySeconds" yaml:"cleanupDelaySeconds" env:"GITSYMPHONY_CLEANUP_DELAY"` // Default: 5
}

// PlaybackConfig holds playback timing.
type PlaybackConfig struct {
	GapSeconds          float64 `json:"gapSeconds" yaml:"gapSeconds" env:"GITSYMPHONY_GAP_SECONDS"` // Default: 0.15
	FrameIntervalMillis int     `json:"frameIntervalMillis" yaml:"frameIntervalMillis" env:"GITSYMPHONY_FRAME_INTERVAL"`
}

// ServerConfig holds HTTP API options.
type ServerConfig struct {
	Address        string `json:"address" yaml:"address" env:"GITSYMPHONY_ADDRESS"`
	TimeoutSeconds int    `json:"timeoutSeconds" yaml:"timeoutSeconds" env:"GITSYMPHONY_SERVER_TIMEOUT"`
}

// FilterConfig holds file path filtering options.
type FilterConfig struct {
	Include []string `json:"include" yaml:"include" env:"GITSYMPHONY_INCLUDE" env-separator:","`
	Exclude []string `json:"exclude" yaml:"exclude" env:"GITSYMPHONY_EXCLUDE" env-separator:","`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `json:"level" yaml:"level" env:"GITSYMPHONY_LOG_LEVEL"` // debug, info, warn, error
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Fetch: FetchConfig{
			MaxCommits:          git.DefaultMaxCount,
			Backend:             string(git.BackendGoGit),
			Workers:             8,
			CleanupDelaySeconds: int(git.DefaultCleanupDelay / time.Second),
		},
		Playback: PlaybackConfig{
			GapSeconds:          0.15,
			FrameIntervalMillis: 50,
		},
		Server: ServerConfig{
			Address:        "0.0.0.0:3001",
			TimeoutSeconds: 60,
		},
		Filters: FilterConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Gap returns the pause between notes.
func (c *Config) Gap() time.Duration {
	return time.Duration(c.Playback.GapSeconds * float64(time.Second))
}

// FrameInterval returns the scene render interval.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.Playback.FrameIntervalMillis) * time.Millisecond
}

// CleanupDelay returns how long cloned repositories are kept.
func (c *Config) CleanupDelay() time.Duration {
	return time.Duration(c.Fetch.CleanupDelaySeconds) * time.Second
}

// ServerTimeout returns the HTTP read and write timeout.
func (c *Config) ServerTimeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// Validate checks value ranges and glob patterns.
func (c *Config) Validate() error {
	if c.Fetch.MaxCommits < 1 || c.Fetch.MaxCommits > MaxCommitsLimit {
		return errm.Errorf("fetch.maxCommits must be between 1 and %d, got %d", MaxCommitsLimit, c.Fetch.MaxCommits)
	}
	if _, ok := git.ParseBackend(c.Fetch.Backend); !ok {
		return errm.Errorf("fetch.backend must be %q or %q, got %q", git.BackendGoGit, git.BackendGitCLI, c.Fetch.Backend)
	}
	if c.Fetch.Workers < 0 {
		return errm.Errorf("fetch.workers must not be negative, got %d", c.Fetch.Workers)
	}
	if c.Fetch.CloneDepth < 0 {
		return errm.Errorf("fetch.cloneDepth must not be negative, got %d", c.Fetch.CloneDepth)
	}
	if c.Fetch.CleanupDelaySeconds < 0 {
		return errm.Errorf("fetch.cleanupDelaySeconds must not be negative, got %d", c.Fetch.CleanupDelaySeconds)
	}
	if c.Playback.GapSeconds < 0 || c.Playback.GapSeconds > MaxGapSeconds {
		return errm.Errorf("playback.gapSeconds must be between 0 and %.0f, got %g", MaxGapSeconds, c.Playback.GapSeconds)
	}
	if c.Playback.FrameIntervalMillis < 0 {
		return errm.Errorf("playback.frameIntervalMillis must not be negative, got %d", c.Playback.FrameIntervalMillis)
	}
	if c.Server.TimeoutSeconds < 0 {
		return errm.Errorf("server.timeoutSeconds must not be negative, got %d", c.Server.TimeoutSeconds)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return errm.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}

	filter := git.PathFilter{Include: c.Filters.Include, Exclude: c.Filters.Exclude}
	if err := filter.Validate(); err != nil {
		return errm.Wrap(err, "filters")
	}
	return nil
}

// LoadConfig loads configuration from a file, merging with defaults.
// Environment variables override file values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = discover()
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if !os.IsNotExist(err) {
				return nil, errm.Wrap(err, "stat config", "path", path)
			}
			path = ""
		}
	}

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(cfg)
	} else {
		err = cleanenv.ReadConfig(path, cfg)
	}
	if err != nil {
		return nil, errm.Wrap(err, "read config", "path", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func discover() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home)
	} else if envHome := os.Getenv("HOME"); envHome != "" {
		dirs = append(dirs, envHome)
	}

	for _, dir := range dirs {
		for _, name := range FileNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// SaveConfig saves configuration to a file as JSON.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
