package output

import (
	"testing"
	"time"

	"github.com/masmgr/gitsymphony/internal/music"
	"github.com/masmgr/gitsymphony/internal/record"
)

func sampleReport() *CommitReport {
	commits := []record.Commit{
		{
			Hash: "abc1234", Author: "Alice", Message: "Add parser",
			Date:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			Additions: 10, Deletions: 2,
			Files: []record.FileStat{{File: "parser.go", Additions: 10, Deletions: 2}},
		},
		{
			Hash: "def5678", Author: "Bob", Message: "Rewrite | styles",
			Date:      time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
			Additions: 120, Deletions: 30,
			Files: []record.FileStat{{File: "site.css", Additions: 120, Deletions: 30}, {File: "index.html"}},
		},
	}
	return NewCommitReport("/repo", commits, false, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
}

func TestTruncateMessage(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		maxLen   int
		expected string
	}{
		{name: "Short message", msg: "hello", maxLen: 40, expected: "hello"},
		{name: "Exact length", msg: "1234567890", maxLen: 10, expected: "1234567890"},
		{name: "Over max length", msg: "a very long message here", maxLen: 10, expected: "a very ..."},
		{name: "Empty message", msg: "", maxLen: 40, expected: ""},
		{name: "Multibyte within length", msg: "héllo", maxLen: 5, expected: "héllo"},
		{name: "Multibyte over length", msg: "héllo wörld ünïcode", maxLen: 10, expected: "héllo w..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncateMessage(tt.msg, tt.maxLen)
			if result != tt.expected {
				t.Errorf("truncateMessage(%q, %d) = %q, expected %q", tt.msg, tt.maxLen, result, tt.expected)
			}
		})
	}
}

func TestGetSizeEmoji(t *testing.T) {
	tests := []struct {
		size     string
		expected string
	}{
		{size: "Large", expected: "\U0001F534"},
		{size: "Medium", expected: "\U0001F7E1"},
		{size: "Small", expected: "\U0001F7E2"},
		{size: "", expected: "\U0001F7E2"},
	}

	for _, tt := range tests {
		if got := getSizeEmoji(tt.size); got != tt.expected {
			t.Errorf("getSizeEmoji(%q) = %q, expected %q", tt.size, got, tt.expected)
		}
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Pipe", input: "a|b", expected: "a\\|b"},
		{name: "Asterisk", input: "a*b", expected: "a\\*b"},
		{name: "Underscore", input: "a_b", expected: "a\\_b"},
		{name: "Backtick", input: "a`b", expected: "a\\`b"},
		{name: "No specials", input: "plain text", expected: "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeMarkdown(tt.input); got != tt.expected {
				t.Errorf("escapeMarkdown(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNoteLabel(t *testing.T) {
	if got := noteLabel(music.Event{Pitch: "E3"}); got != "E3" {
		t.Errorf("noteLabel(single) = %q", got)
	}
	chord := music.Event{Pitch: "D6", Chord: []string{"D6", "F#6", "A6"}}
	if got := noteLabel(chord); got != "D6+F#6+A6" {
		t.Errorf("noteLabel(chord) = %q", got)
	}
}
