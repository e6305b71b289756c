package cmd

import (
	"github.com/maxbolgarin/errm"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitsymphony/config"
	"github.com/masmgr/gitsymphony/internal/fetch"
	"github.com/masmgr/gitsymphony/internal/git"
	"github.com/masmgr/gitsymphony/internal/output"
)

// CommandContext holds common state for command execution.
type CommandContext struct {
	Config  *config.Config
	Fetcher *fetch.Fetcher
}

// NewCommandContext loads configuration, sets up logging and builds the fetcher.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	initLogging(cfg.Log.Level)

	fetchCfg, err := fetchConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Config:  cfg,
		Fetcher: fetch.New(fetchCfg),
	}, nil
}

// Close removes repositories cloned during the command.
func (ctx *CommandContext) Close() {
	_ = ctx.Fetcher.Close()
}

// fetchConfig derives fetcher settings from the configuration.
func fetchConfig(cfg *config.Config) (fetch.Config, error) {
	backend, err := parseBackend(cfg.Fetch.Backend)
	if err != nil {
		return fetch.Config{}, errm.Wrap(err, "fetch settings")
	}

	return fetch.Config{
		Backend:    backend,
		MaxCommits: cfg.Fetch.MaxCommits,
		Branch:     cfg.Fetch.Branch,
		Include:    cfg.Filters.Include,
		Exclude:    cfg.Filters.Exclude,
		Workers:    cfg.Fetch.Workers,
		Clone: git.CloneOptions{
			Depth:        cfg.Fetch.CloneDepth,
			CleanupDelay: cfg.CleanupDelay(),
		},
	}, nil
}

// OutputOptions creates OutputOptions from CLI flags.
func OutputOptions(c *cli.Context) (output.OutputOptions, error) {
	format, err := getOutputFormat(c.String("format"))
	if err != nil {
		return output.OutputOptions{}, err
	}
	return output.OutputOptions{
		Format:     format,
		OutputPath: c.String("output"),
	}, nil
}
