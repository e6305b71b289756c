package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitsymphony/config"
	"github.com/masmgr/gitsymphony/internal/git"
	"github.com/masmgr/gitsymphony/internal/output"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "gitsymphony",
		Usage:   "Turn Git history into music",
		Version: "1.0.0",
		Commands: []*cli.Command{
			AnalyzeCmd(),
			PlayCmd(),
			ServeCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
	}
}

// Flags shared by commands that read a repository.
func repoFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path or URL of the Git repository",
			Value:   ".",
		},
		&cli.IntFlag{
			Name:    "max-commits",
			Aliases: []string{"n"},
			Usage:   "Number of most recent commits to read",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "History reader (go-git, git-cli)",
		},
		&cli.StringFlag{
			Name:    "branch",
			Aliases: []string{"b"},
			Usage:   "Branch to read",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob patterns to include (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns to exclude (can be specified multiple times)",
		},
	}
}

// repoLocation returns --repo, or the first argument when given.
func repoLocation(c *cli.Context) string {
	if c.NArg() > 0 && !c.IsSet("repo") {
		return c.Args().First()
	}
	return c.String("repo")
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) (output.OutputFormat, error) {
	format, ok := output.ParseFormat(s)
	if !ok {
		return "", errm.Errorf("unknown output format %q (expected console, json, csv, markdown or yaml)", s)
	}
	return format, nil
}

// loadConfig loads configuration from file or defaults and applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, errm.Wrap(err, "failed to load config")
	}

	applyFlagOverrides(c, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errm.Wrap(err, "invalid settings")
	}
	return cfg, nil
}

func applyFlagOverrides(c *cli.Context, cfg *config.Config) {
	if c.IsSet("max-commits") {
		cfg.Fetch.MaxCommits = c.Int("max-commits")
	}
	if c.IsSet("backend") {
		cfg.Fetch.Backend = c.String("backend")
	}
	if c.IsSet("branch") {
		cfg.Fetch.Branch = c.String("branch")
	}
	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Filters.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Filters.Exclude = excludes
	}
	if c.IsSet("gap") {
		cfg.Playback.GapSeconds = c.Duration("gap").Seconds()
	}
	if c.IsSet("address") {
		cfg.Server.Address = c.String("address")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
}

// initLogging configures the global logger.
func initLogging(level string) {
	lvl := logze.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = logze.LevelDebug
	case "warn":
		lvl = logze.LevelWarn
	case "error":
		lvl = logze.LevelError
	}
	logze.Init(logze.C().WithConsole().WithLevel(lvl))
}

// parseBackend validates a backend name.
func parseBackend(s string) (git.Backend, error) {
	backend, ok := git.ParseBackend(s)
	if !ok {
		return "", errm.Errorf("unknown backend %q (expected go-git or git-cli)", s)
	}
	return backend, nil
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
