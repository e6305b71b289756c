package output

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownWriter writes reports as Markdown.
type MarkdownWriter struct {
	Out io.Writer
}

// Write outputs the report as Markdown.
func (w *MarkdownWriter) Write(report *CommitReport, options OutputOptions) error {
	out, file, err := openOutputWriter(w.Out, options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Commit Symphony")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", escapeMarkdown(report.RepoPath))
	fmt.Fprintf(out, "**Source:** %s\n\n", sourceLabel(report.Synthetic))
	fmt.Fprintf(out, "**Total Commits:** %d\n\n", len(report.Commits))

	if len(report.Commits) == 0 {
		fmt.Fprintln(out, "No commits found.")
		return nil
	}

	fmt.Fprintln(out, "## Score")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "| # | Hash | Date | Author | + | - | Size | Note | Duration | Timbre | Message |")
	fmt.Fprintln(out, "|---|------|------|--------|---|---|------|------|----------|--------|---------|")

	for i, c := range report.Commits {
		ev := report.Events[i]
		_, err := fmt.Fprintf(out, "| %d | `%s` | %s | %s | %d | %d | %s %s | %s | %.2fs | %s | %s |\n",
			i+1, c.Hash, c.Date.Format(reportDateLayout), escapeMarkdown(c.Author),
			c.Additions, c.Deletions, getSizeEmoji(string(c.Size())), c.Size(),
			noteLabel(ev), ev.DurationSeconds, ev.Timbre,
			escapeMarkdown(truncateMessage(c.Message, 60)))
		if err != nil {
			return err
		}
	}
	return nil
}

func getSizeEmoji(size string) string {
	switch size {
	case "Large":
		return "\U0001F534"
	case "Medium":
		return "\U0001F7E1"
	default:
		return "\U0001F7E2"
	}
}

var markdownEscaper = strings.NewReplacer(
	"|", "\\|",
	"*", "\\*",
	"_", "\\_",
	"`", "\\`",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
