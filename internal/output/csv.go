package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVWriter writes reports as CSV, one row per commit.
type CSVWriter struct {
	Out io.Writer
}

var csvHeaders = []string{
	"Index", "Hash", "Date", "Author", "Message", "Additions", "Deletions",
	"TotalChanges", "Size", "Files", "Pitch", "Chord", "DurationSeconds", "Timbre", "Octave",
}

// Write outputs the report as CSV.
func (w *CSVWriter) Write(report *CommitReport, options OutputOptions) error {
	out, file, err := openOutputWriter(w.Out, options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(csvHeaders); err != nil {
		return err
	}

	for i, c := range report.Commits {
		ev := report.Events[i]
		files := make([]string, len(c.Files))
		for j, f := range c.Files {
			files[j] = f.File
		}
		row := []string{
			fmt.Sprintf("%d", i),
			c.Hash,
			c.Date.Format(reportDateTimeLayout),
			c.Author,
			c.Message,
			fmt.Sprintf("%d", c.Additions),
			fmt.Sprintf("%d", c.Deletions),
			fmt.Sprintf("%d", c.TotalChanges()),
			string(c.Size()),
			strings.Join(files, ";"),
			ev.Pitch,
			strings.Join(ev.Chord, " "),
			fmt.Sprintf("%.3f", ev.DurationSeconds),
			string(ev.Timbre),
			fmt.Sprintf("%d", ev.Octave),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
