package cmd

import (
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitsymphony/internal/output"
)

// AnalyzeCmd returns the analyze command.
func AnalyzeCmd() *cli.Command {
	flags := append(repoFlags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, yaml)",
			Value:   "console",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	)

	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Read commits and print them with their notes",
		ArgsUsage: "[repo]",
		Flags:     flags,
		Action:    analyzeAction,
	}
}

func analyzeAction(c *cli.Context) error {
	opts, err := OutputOptions(c)
	if err != nil {
		return err
	}

	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	defer ctx.Close()

	res, err := ctx.Fetcher.Fetch(c.Context, repoLocation(c))
	if err != nil {
		return errm.Wrap(err, "failed to analyze repository")
	}

	report := output.NewCommitReport(res.RepoPath, res.Commits, false, time.Now())
	return output.NewReportWriter(opts.Format).Write(report, opts)
}
