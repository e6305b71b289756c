package output

import (
	"strings"
	"time"

	"github.com/masmgr/gitsymphony/internal/music"
	"github.com/masmgr/gitsymphony/internal/record"
)

// Compile-time interface conformance checks.
var (
	_ ReportWriter = (*ConsoleWriter)(nil)
	_ ReportWriter = (*JSONWriter)(nil)
	_ ReportWriter = (*CSVWriter)(nil)
	_ ReportWriter = (*MarkdownWriter)(nil)
	_ ReportWriter = (*YAMLWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatYAML     OutputFormat = "yaml"
)

// Formats lists the supported formats.
var Formats = []OutputFormat{FormatConsole, FormatJSON, FormatCSV, FormatMarkdown, FormatYAML}

// ParseFormat parses a format name. "md" and "yml" are accepted as aliases.
func ParseFormat(s string) (OutputFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "console":
		return FormatConsole, true
	case "json":
		return FormatJSON, true
	case "csv":
		return FormatCSV, true
	case "markdown", "md":
		return FormatMarkdown, true
	case "yaml", "yml":
		return FormatYAML, true
	}
	return "", false
}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	OutputPath string // empty writes to the writer's Out, or stdout
}

// CommitReport holds an analyzed commit list with its mapped notes.
type CommitReport struct {
	RepoPath    string
	GeneratedAt time.Time
	Synthetic   bool
	Commits     []record.Commit
	Events      []music.Event
}

// NewCommitReport maps commits to events and builds a report.
func NewCommitReport(repoPath string, commits []record.Commit, synthetic bool, now time.Time) *CommitReport {
	return &CommitReport{
		RepoPath:    repoPath,
		GeneratedAt: now,
		Synthetic:   synthetic,
		Commits:     commits,
		Events:      music.MapAll(commits),
	}
}

// ReportWriter writes commit reports.
type ReportWriter interface {
	Write(report *CommitReport, options OutputOptions) error
}

// NewReportWriter creates a report writer for the specified format.
func NewReportWriter(format OutputFormat) ReportWriter {
	switch format {
	case FormatJSON:
		return &JSONWriter{}
	case FormatCSV:
		return &CSVWriter{}
	case FormatMarkdown:
		return &MarkdownWriter{}
	case FormatYAML:
		return &YAMLWriter{}
	default:
		return &ConsoleWriter{}
	}
}
