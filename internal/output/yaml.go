package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter writes reports as YAML with the same shape as the JSON report.
type YAMLWriter struct {
	Out io.Writer
}

// Write outputs the report as YAML.
func (w *YAMLWriter) Write(report *CommitReport, options OutputOptions) error {
	out, file, err := openOutputWriter(w.Out, options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(buildJSONReport(report)); err != nil {
		return err
	}
	return enc.Close()
}
