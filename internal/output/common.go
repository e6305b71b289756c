package output

import (
	"io"
	"os"
	"strings"

	"github.com/masmgr/gitsymphony/internal/music"
)

const (
	reportDateLayout     = "2006-01-02"
	reportDateTimeLayout = "2006-01-02T15:04:05"
)

// openOutputWriter returns the destination for a report. An OutputPath wins
// over out, and a nil out means stdout. The returned file must be closed.
func openOutputWriter(out io.Writer, outputPath string) (io.Writer, *os.File, error) {
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return nil, nil, err
		}
		return file, file, nil
	}
	if out == nil {
		return os.Stdout, nil, nil
	}
	return out, nil, nil
}

// noteLabel renders the pitch, or the chord joined with "+".
func noteLabel(ev music.Event) string {
	return strings.Join(ev.Pitches(), "+")
}

func truncateMessage(msg string, maxLen int) string {
	runes := []rune(msg)
	if len(runes) <= maxLen {
		return msg
	}
	return string(runes[:maxLen-3]) + "..."
}

func sourceLabel(synthetic bool) string {
	if synthetic {
		return "synthetic"
	}
	return "repository"
}
