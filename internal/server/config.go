package server

import (
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

const (
	defaultAddress = "0.0.0.0:3001"
	defaultTimeout = 60 * time.Second

	// MaxDemoCommits bounds /api/demo?count=N.
	MaxDemoCommits = 1000
)

// Config represents HTTP API configuration.
type Config struct {
	Address string        `yaml:"address" env:"GITSYMPHONY_ADDRESS"`
	Timeout time.Duration `yaml:"timeout" env:"GITSYMPHONY_SERVER_TIMEOUT"`

	// AllowOrigin is the origin allowed to call the API, "*" for any.
	AllowOrigin string `yaml:"allow_origin" env:"GITSYMPHONY_ALLOW_ORIGIN"`
}

func (cfg *Config) PrepareAndValidate() error {
	cfg.Address = lang.Check(cfg.Address, defaultAddress)
	cfg.Timeout = lang.Check(cfg.Timeout, defaultTimeout)
	cfg.AllowOrigin = lang.Check(cfg.AllowOrigin, "*")

	if cfg.Timeout < 0 {
		return errm.New("timeout must not be negative")
	}
	return nil
}
