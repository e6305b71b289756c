package output

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/masmgr/gitsymphony/internal/music"
	"github.com/masmgr/gitsymphony/internal/record"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONWriter writes reports as JSON.
type JSONWriter struct {
	Out io.Writer
}

// JSONReport is the JSON output structure. Its commit fields match the
// /api/analyze response, with the mapped note attached.
type JSONReport struct {
	RepoPath    string           `json:"repoPath" yaml:"repoPath"`
	GeneratedAt string           `json:"generatedAt" yaml:"generatedAt"`
	Source      string           `json:"source" yaml:"source"`
	CommitCount int              `json:"commitCount" yaml:"commitCount"`
	Commits     []JSONCommitItem `json:"commits" yaml:"commits"`
}

// JSONCommitItem is one commit with its note.
type JSONCommitItem struct {
	record.Commit `yaml:",inline"`
	Note          music.Event `json:"note" yaml:"note"`
}

func buildJSONReport(report *CommitReport) JSONReport {
	items := make([]JSONCommitItem, len(report.Commits))
	for i, c := range report.Commits {
		items[i] = JSONCommitItem{Commit: c, Note: report.Events[i]}
	}
	return JSONReport{
		RepoPath:    report.RepoPath,
		GeneratedAt: report.GeneratedAt.Format(reportDateTimeLayout),
		Source:      sourceLabel(report.Synthetic),
		CommitCount: len(report.Commits),
		Commits:     items,
	}
}

// Write outputs the report as JSON.
func (w *JSONWriter) Write(report *CommitReport, options OutputOptions) error {
	out, file, err := openOutputWriter(w.Out, options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	data, err := json.MarshalIndent(buildJSONReport(report), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
