package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/masmgr/gitsymphony/internal/record"
)

// ConsoleWriter writes reports as a colored table.
type ConsoleWriter struct {
	Out io.Writer // defaults to stdout
}

// Write outputs the report to the console.
func (w *ConsoleWriter) Write(report *CommitReport, options OutputOptions) error {
	out, file, err := openOutputWriter(w.Out, options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	title := color.New(color.FgGreen)
	title.Fprintln(out, "Commit Symphony")
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	if report.Synthetic {
		color.New(color.FgYellow).Fprintln(out, "Source: synthetic commits (repository could not be read)")
	}
	fmt.Fprintf(out, "Total commits: %d\n\n", len(report.Commits))

	if len(report.Commits) == 0 {
		fmt.Fprintln(out, "No commits found.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tHash\tDate\tAuthor\t+\t-\tSize\tNote\tDur\tTimbre\tMessage")

	for i, c := range report.Commits {
		ev := report.Events[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%s\t%s\t%.2fs\t%s\t%s\n",
			i+1,
			c.Hash,
			c.Date.Format(reportDateLayout),
			c.Author,
			c.Additions,
			c.Deletions,
			sizeColor(c.Size())(string(c.Size())),
			noteLabel(ev),
			ev.DurationSeconds,
			ev.Timbre,
			truncateMessage(c.Message, 40),
		)
	}

	return tw.Flush()
}

func sizeColor(size record.Size) func(string, ...interface{}) string {
	switch size {
	case record.SizeLarge:
		return color.RedString
	case record.SizeMedium:
		return color.YellowString
	default:
		return color.GreenString
	}
}
