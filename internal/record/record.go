// Package record defines the commit records that flow from the history
// readers to the note mapper, the API and the report writers.
package record

import (
	"time"

	"github.com/masmgr/gitsymphony/internal/git"
)

// Size thresholds on total changed lines.
const (
	LargeThreshold  = 100
	MediumThreshold = 50
)

// FileStat holds line counts for one changed file.
type FileStat struct {
	File      string `json:"file" yaml:"file"`
	Additions int    `json:"additions" yaml:"additions"`
	Deletions int    `json:"deletions" yaml:"deletions"`
}

// Commit is an immutable summary of one commit.
type Commit struct {
	Hash      string     `json:"hash" yaml:"hash"`
	Author    string     `json:"author" yaml:"author"`
	Message   string     `json:"message" yaml:"message"`
	Date      time.Time  `json:"date" yaml:"date"`
	Additions int        `json:"additions" yaml:"additions"`
	Deletions int        `json:"deletions" yaml:"deletions"`
	Files     []FileStat `json:"files,omitempty" yaml:"files,omitempty"`
}

// TotalChanges returns additions plus deletions.
func (c Commit) TotalChanges() int {
	return c.Additions + c.Deletions
}

// Size classifies a commit by its total changes.
type Size string

const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
)

// Size returns the size class of the commit.
func (c Commit) Size() Size {
	switch total := c.TotalChanges(); {
	case total > LargeThreshold:
		return SizeLarge
	case total > MediumThreshold:
		return SizeMedium
	default:
		return SizeSmall
	}
}

// FirstFile returns the path of the first changed file, or "" when there is none.
func (c Commit) FirstFile() string {
	if len(c.Files) == 0 {
		return ""
	}
	return c.Files[0].File
}

// FromChangeSet converts a change set read from a repository.
func FromChangeSet(cs git.CommitChangeSet) Commit {
	files := make([]FileStat, 0, len(cs.Changes))
	for _, ch := range cs.Changes {
		files = append(files, FileStat{
			File:      ch.Path,
			Additions: ch.LinesAdded,
			Deletions: ch.LinesDeleted,
		})
	}

	return Commit{
		Hash:      cs.Commit.ShortSHA(),
		Author:    cs.Commit.Author.Name,
		Message:   cs.Commit.Message,
		Date:      cs.Commit.When,
		Additions: cs.LinesAdded(),
		Deletions: cs.LinesDeleted(),
		Files:     files,
	}
}

// FromChangeSets converts change sets, keeping their order.
func FromChangeSets(sets []git.CommitChangeSet) []Commit {
	out := make([]Commit, len(sets))
	for i, cs := range sets {
		out[i] = FromChangeSet(cs)
	}
	return out
}

// Reverse reverses commits in place, turning newest-first history into
// the oldest-first order playback expects.
func Reverse(commits []Commit) {
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
}
